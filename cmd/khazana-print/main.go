// Command khazana-print prints the ledger from the terminal, bypassing the
// web UI. It reads the same backend the server writes.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"khazana/internal/config"
	"khazana/internal/core"
	"khazana/internal/printer"
	"khazana/internal/report"
	"khazana/internal/store"
)

func main() {
	_ = godotenv.Load()

	var (
		filter  = flag.String("filter", "", "record type to print (default: all)")
		query   = flag.String("q", "", "search text over name, type and note")
		mode    = flag.String("mode", "", "print mode: spool, viewer or auto (default from PRINT_MODE)")
		out     = flag.String("out", "", "write the report HTML to a file instead of printing")
		timeout = flag.Duration("timeout", 2*time.Minute, "overall print timeout")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
	slog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "configuration error:", err)
		os.Exit(1)
	}

	backend, cleanup, err := store.NewFactory(logger).Create(store.Config{
		Type:          store.BackendType(cfg.DataBackend),
		DataDirectory: cfg.DataDir,
		DBPath:        cfg.SQLiteDBPath,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "storage error:", err)
		os.Exit(1)
	}
	defer func() { _ = cleanup() }()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	records, err := backend.Load(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "load records:", err)
		os.Exit(1)
	}
	typeFilter := *filter
	if typeFilter == "" {
		typeFilter = core.FilterAll
	}
	records = core.Filter(records, typeFilter, *query)
	if len(records) == 0 {
		fmt.Fprintln(os.Stderr, "پرنٹ کے لیے کوئی ریکارڈ موجود نہیں")
		os.Exit(1)
	}

	author, err := backend.LoadAuthor(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "load author:", err)
	}

	partition := core.DefaultPartition()
	builder, err := report.NewBuilder(partition)
	if err != nil {
		fmt.Fprintln(os.Stderr, "report builder:", err)
		os.Exit(1)
	}

	label := typeFilter
	if label == core.FilterAll {
		label = ""
	}
	meta := report.Meta{
		Title:       cfg.OrgTitle,
		Subtitle:    cfg.OrgSubtitle,
		Author:      author,
		FilterLabel: label,
		SearchQuery: *query,
		GeneratedAt: time.Now(),
		FontURL:     cfg.FontURL,
	}

	if *out != "" {
		html, err := builder.Build(records, meta, report.ModePrint)
		if err != nil {
			fmt.Fprintln(os.Stderr, "build report:", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*out, []byte(html), 0644); err != nil {
			fmt.Fprintln(os.Stderr, "write report:", err)
			os.Exit(1)
		}
		fmt.Printf("report written to %s (%d records)\n", *out, len(records))
		return
	}

	surfaceCfg := printer.DefaultSurfaceConfig()
	surfaceCfg.Mode = cfg.PrintMode
	if *mode != "" {
		surfaceCfg.Mode = *mode
	}
	if cfg.PrintCommand != "" {
		surfaceCfg.SpoolCommand = strings.Fields(cfg.PrintCommand)
	}
	if cfg.ViewerCmd != "" {
		surfaceCfg.ViewerCommand = strings.Fields(cfg.ViewerCmd)
	}
	if strings.HasPrefix(cfg.FontURL, "http") {
		surfaceCfg.FontURL = cfg.FontURL
	}

	prn := printer.New(builder, printer.NewSurfaceFactory(surfaceCfg), printer.DefaultConfig(), logger)
	if err := prn.PrintRecords(ctx, records, meta); err != nil {
		fmt.Fprintln(os.Stderr, "print failed:", err)
		os.Exit(1)
	}
	fmt.Printf("printed %d records\n", len(records))
}
