package sqlmigrate

import "sort"

// planUp computes the ascending sequence of versions to apply to move the
// database from recorded to target. Version 0 holds the initial schema and
// never travels with other versions: target 0 plans exactly [0]. Gaps in
// the available set are simply skipped.
func planUp(available []int, recorded, target int) []int {
	if target == 0 {
		return []int{0}
	}

	plan := []int{}
	for _, v := range available {
		if v == 0 {
			continue
		}
		if v > recorded && v <= target {
			plan = append(plan, v)
		}
	}
	sort.Ints(plan)

	return plan
}

// planDown computes the descending sequence of versions to revert, most
// recently applied first. The target itself stays applied; target equal to
// recorded yields an empty plan.
func planDown(available []int, recorded, target int) []int {
	plan := []int{}
	for _, v := range available {
		if v > target && v <= recorded {
			plan = append(plan, v)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(plan)))

	return plan
}

// contains reports whether versions holds v.
func contains(versions []int, v int) bool {
	for _, version := range versions {
		if version == v {
			return true
		}
	}
	return false
}
