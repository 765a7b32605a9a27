package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/example/sqlmigrate"
	"github.com/peterbourgon/ff"

	_ "github.com/lib/pq"
)

// ParseAndRun parses the command line, and then runs the passed commands.
func ParseAndRun(stdout, stderr io.Writer, stdin io.Reader, args []string) int {
	out := log.New(stdout, "", 0)
	errlog := log.New(stderr, "", 0)

	fs := flag.NewFlagSet("sqlmigrate", flag.ContinueOnError)
	fs.Usage = func() {
		fs.Output().Write([]byte(usage))
	}
	var (
		flagPath        = fs.String("path", "migrations", "the path to the migration files")
		flagTable       = fs.String("table", "db_version", "name of the version ledger table")
		flagVerbose     = fs.Bool("verbose", false, "echo migration SQL before executing it")
		flagHost        = fs.String("host", "localhost", "database host")
		flagPort        = fs.String("port", "5432", "database port")
		flagName        = fs.String("name", "postgres", "database name")
		flagUser        = fs.String("user", "postgres", "database user")
		flagPass        = fs.String("pass", "", "database password")
		flagTimeout     = fs.Duration("timeout", time.Second*10, "connection timeout in seconds (default 10s)")
		flagSSLMode     = fs.String("sslmode", "disable", "database SSL mode (see options)")
		flagSSLCert     = fs.String("sslcert", "", "PEM encoded cert file location")
		flagSSLKey      = fs.String("sslkey", "", "PEM encoded key file location")
		flagSSLRootCert = fs.String("sslrootcert", "", "PEM encoded root certificate file location")
	)
	err := ff.Parse(fs, args, ff.WithEnvVarPrefix("SQLMIGRATE"))
	if err != nil {
		if err != flag.ErrHelp {
			fs.Output().Write([]byte(fmt.Sprintf("\nUsage error: %s\n", err)))
		}
		return 1
	}

	commands := fs.Args()
	if len(commands) == 0 {
		fs.Usage()
		return 1
	}

	// scaffolding needs no database connection
	if strings.ToLower(commands[0]) == "new" {
		name := "placeholder"
		if len(commands) >= 2 {
			name = commands[1]
		}
		engine := sqlmigrate.New(nil, *flagPath, sqlmigrate.WithLedgerTable(*flagTable))
		files, err := engine.Scaffold(name, "sql")
		if err != nil {
			errlog.Println(err)
			return 3
		}
		for _, file := range files {
			out.Printf("Created migration: %s", file)
		}
		return 0
	}

	db, err := connect(createDSN(*flagHost, *flagPort, *flagName, *flagUser, *flagPass, *flagSSLMode, *flagSSLCert, *flagSSLKey, *flagSSLRootCert, *flagTimeout))
	if err != nil {
		errlog.Println(err)
		return 2
	}
	defer logCloser(db, errlog)

	// give a generous timeout of 5 minutes
	ctx, cancelFunc := context.WithTimeout(context.Background(), time.Minute*5)
	defer cancelFunc()

	engine := sqlmigrate.New(db, *flagPath,
		sqlmigrate.WithLedgerTable(*flagTable),
		sqlmigrate.WithLogger(out.Print),
	)

	switch strings.ToLower(commands[0]) {
	case "up":
		target := sqlmigrate.Latest
		if len(commands) >= 2 {
			target, err = parseVersionArg(commands[1])
			if err != nil {
				errlog.Println(err)
				return 1
			}
		}
		if err := engine.Up(ctx, target, *flagVerbose); err != nil {
			return reportFailure(errlog, "failed to run migrations", err)
		}
	case "down":
		if len(commands) < 2 {
			errlog.Println("down requires a target version")
			return 1
		}
		target, err := parseVersionArg(commands[1])
		if err != nil {
			errlog.Println(err)
			return 1
		}
		if err := engine.Down(ctx, target, *flagVerbose); err != nil {
			return reportFailure(errlog, "failed to revert migrations", err)
		}
	case "stamp":
		version := sqlmigrate.Latest
		if len(commands) >= 2 {
			version, err = parseVersionArg(commands[1])
			if err != nil {
				errlog.Println(err)
				return 1
			}
		}
		if err := engine.Stamp(ctx, version); err != nil {
			return reportFailure(errlog, "failed to stamp version", err)
		}
	case "remove":
		if len(commands) < 2 {
			errlog.Println("remove requires a version")
			return 1
		}
		version, err := parseVersionArg(commands[1])
		if err != nil {
			errlog.Println(err)
			return 1
		}
		if err := engine.Remove(ctx, version); err != nil {
			return reportFailure(errlog, "failed to remove version", err)
		}
	case "version":
		version, ok := engine.CurrentVersion(ctx)
		if !ok {
			out.Println("none")
			return 0
		}
		out.Println(version)
		// scripted deploys can read the version off the exit status
		return version
	default:
		fs.Usage()
		return 1
	}

	return 0
}

func parseVersionArg(arg string) (int, error) {
	version, err := strconv.Atoi(arg)
	if err != nil || version < 0 {
		return 0, fmt.Errorf("invalid migration version %q: expected a non-negative integer", arg)
	}
	return version, nil
}

func reportFailure(errlog *log.Logger, info string, err error) int {
	errlog.Printf("%s: %v", info, err)
	if pqerr := sqlmigrate.UnderlyingError(err); pqerr != err {
		errlog.Println(formatPqError(pqerr))
	}
	return 3
}

func createDSN(host, port, name, user, pass, sslmode, sslcert, sslkey, sslrootcert string, timeout time.Duration) string {
	dsn := ""
	if host != "" {
		dsn += fmt.Sprintf("host=%s ", host)
	}
	if port != "" {
		dsn += fmt.Sprintf("port=%s ", port)
	}
	if name != "" {
		dsn += fmt.Sprintf("dbname='%s' ", name)
	}
	if user != "" {
		dsn += fmt.Sprintf("user='%s' ", user)
	}
	if pass != "" {
		// values with spaces must be surrounded with '': e.g. 'se cret'
		// further ' within the value must be escaped with \
		password := strings.Replace(pass, "'", `\'`, -1)
		dsn += fmt.Sprintf("password='%s' ", password)
	}
	if sslmode != "" {
		dsn += fmt.Sprintf("sslmode=%s ", sslmode)
	}
	if sslcert != "" {
		dsn += fmt.Sprintf("sslcert='%s' ", sslcert)
	}
	if sslkey != "" {
		dsn += fmt.Sprintf("sslkey='%s' ", sslkey)
	}
	if sslrootcert != "" {
		dsn += fmt.Sprintf("sslrootcert='%s' ", sslrootcert)
	}
	if timeout.Seconds() > 0 {
		dsn += fmt.Sprintf("connect_timeout=%.f ", timeout.Seconds())
	}

	return strings.TrimSpace(dsn)
}

func connect(dsn string) (*sql.DB, error) {
	// "open" in lib/pq just validates the provided dsn
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open connection to database with dsn %q: %v", dsn, err)
	}

	// dsn did validate — now try to actually reach the database
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database server: %v", err)
	}

	return db, nil
}
