package sqlmigrate

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
)

// A Store enumerates the migration units available on disk and in the
// script registry. Artifacts live in two direction subdirectories of the
// base path, up/ and down/, named <version>.sql. Files without an integer
// version prefix or a recognized extension are ignored.
type Store struct {
	path    string
	scripts *Scripts
}

func newStore(path string, scripts *Scripts) *Store {
	return &Store{path: path, scripts: scripts}
}

// Available returns the sorted set of versions with at least one unit in
// the given direction. A missing direction directory counts as an empty
// artifact set: units may live solely in the script registry, and a tree
// without down migrations is not an error.
func (s *Store) Available(direction Direction) ([]int, error) {
	dir := filepath.Join(s.path, string(direction))
	nodes, err := os.ReadDir(dir)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to get list of migration files from %q: %v", dir, err)
	}

	seen := map[int]bool{}
	for _, node := range nodes {
		if node.IsDir() {
			continue
		}
		v, ext, ok := parseVersion(node.Name())
		if !ok || ext != extSQL {
			continue
		}
		seen[v] = true
	}
	for _, v := range s.scripts.versions(direction) {
		seen[v] = true
	}

	versions := make([]int, 0, len(seen))
	for v := range seen {
		versions = append(versions, v)
	}
	sort.Ints(versions)

	return versions, nil
}

// Resolve returns the unit to execute for one version in one direction.
// When both a .sql artifact and a registered script carry the same
// version, the .sql artifact wins.
func (s *Store) Resolve(direction Direction, version int) (Unit, error) {
	path := filepath.Join(s.path, string(direction), strconv.Itoa(version)+"."+extSQL)
	if fi, err := os.Stat(path); err == nil && fi.Mode().IsRegular() {
		return Unit{Direction: direction, Version: version, Type: TypeSQL, Path: path}, nil
	}
	if _, ok := s.scripts.lookup(direction, version); ok {
		return Unit{Direction: direction, Version: version, Type: TypeScript}, nil
	}
	return Unit{}, &VersionNotFoundError{Direction: direction, Version: version}
}
