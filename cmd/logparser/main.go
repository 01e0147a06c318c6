// Command logparser loads downloaded request logs into a sqlite database for ad hoc queries.
//
//	logparser --db requests.db [--discard_duplicates] [--custom_column name:regexp]... files...
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"go.uber.org/zap"

	"appsamples/internal/logger"
	"appsamples/internal/logparser"
)

// customColumns collects repeated --custom_column flags.
type customColumns []logparser.CustomColumn

func (c *customColumns) String() string {
	names := make([]string, 0, len(*c))
	for _, col := range *c {
		names = append(names, col.Name)
	}
	return strings.Join(names, ",")
}

func (c *customColumns) Set(v string) error {
	col, err := logparser.ParseCustomColumn(v)
	if err != nil {
		return err
	}
	*c = append(*c, col)
	return nil
}

func main() {
	var (
		dbPath  string
		discard bool
		custom  customColumns
		level   string
	)
	flag.StringVar(&dbPath, "db", "", "Filename of the sqlite3 database (required).")
	flag.BoolVar(&discard, "discard_duplicates", false, "Discard duplicate request rows.")
	flag.Var(&custom, "custom_column", "Custom column name:regexp run across app logs (repeatable).")
	flag.StringVar(&level, "log_level", "info", "Log level.")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [options] input_filename(s)\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	var problems []string
	if flag.NArg() == 0 {
		problems = append(problems, "At least one input_filename is required.")
	}
	if dbPath == "" {
		problems = append(problems, "--db is required")
	}
	if len(problems) > 0 {
		flag.Usage()
		fmt.Fprintf(os.Stderr, "\nErrors:\n  %s\n", strings.Join(problems, "\n  "))
		os.Exit(1)
	}

	log := logger.NewWithWriter(os.Stderr, level, nil).With(zap.String("service", "logparser"))
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, log, dbPath, discard, custom, flag.Args()); err != nil {
		log.Error("logparser_failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, log *zap.Logger, dbPath string, discard bool, custom []logparser.CustomColumn, files []string) error {
	store, err := logparser.Open(ctx, dbPath, discard, custom)
	if err != nil {
		return err
	}
	defer store.Close()

	p := logparser.Parser{Custom: custom, KeepRequestLine: discard}
	var total logparser.Stats
	for _, name := range files {
		st, err := parseFile(ctx, store, p, name)
		if err != nil {
			return err
		}
		log.Info("logparser_file_parsed",
			zap.String("file", name),
			zap.Int("requests", st.Requests),
			zap.Int("inserted", st.Inserted),
			zap.Int("orphan_applogs", st.Orphans),
		)
		total.Add(st)
	}

	fmt.Printf("Done! Parsed %d requests. %d duplicate rows.\n", total.Requests, total.Duplicates())
	return nil
}

func parseFile(ctx context.Context, store *logparser.Store, p logparser.Parser, name string) (logparser.Stats, error) {
	f, err := os.Open(name)
	if err != nil {
		return logparser.Stats{}, err
	}
	defer f.Close()

	var st logparser.Stats
	err = store.WithTx(ctx, func(w logparser.RowWriter) error {
		st, err = p.ParseLog(ctx, f, w)
		return err
	})
	if err != nil {
		return st, fmt.Errorf("%s: %w", name, err)
	}
	return st, nil
}
