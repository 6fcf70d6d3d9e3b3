package appconfig

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// ShowConfig prints the current configuration summary.
func ShowConfig(out io.Writer, file string, cfg Config) {
	if file == "" {
		fmt.Fprintln(out, "No config file loaded (using defaults).")
	} else {
		fmt.Fprintf(out, "Config file: %s\n\n", file)
	}

	opts := cfg.ClueOptions()
	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintf(out, "  Debug:             %v\n", cfg.Debug)
	fmt.Fprintf(out, "  Data Dir:          %s\n", cfg.DataDir)
	fmt.Fprintf(out, "  Logs Dir:          %s\n", cfg.LogsDir)
	fmt.Fprintf(out, "  Results Dir:       %s\n", cfg.ResultsDir)
	fmt.Fprintf(out, "  Results Store:     %s\n", cfg.ResultsStore)
	if cfg.ResultsStore == StoreSQLite {
		fmt.Fprintf(out, "  SQLite Path:       %s\n", cfg.SQLitePath)
	}
	fmt.Fprintf(out, "  Dashboard Output:  %s\n", cfg.DashboardOutput)
	fmt.Fprintf(out, "  Request Timeout:   %s\n", cfg.RequestTimeout())
	fmt.Fprintf(out, "  Log File:          %s\n", cfg.LogFilePath())
	fmt.Fprintf(out, "  Column Boundary:   %.2f\n", opts.BoundaryRatio)
	fmt.Fprintf(out, "  Line Precision:    %d\n", opts.Precision)
	fmt.Fprintf(out, "  Strict Line Start: %v\n", opts.StrictLineStarts)
	fmt.Fprintf(out, "  Vision:            %s %s\n", cfg.Vision.Backend, cfg.Vision.Model)

	fmt.Fprintf(out, "  Hosts:             %d\n", len(cfg.Hosts))
	for _, h := range cfg.Hosts {
		fmt.Fprintf(out, "    - %s (%s) %s: %s\n", h.Name, NormalizeHostType(h.Type), h.URL, strings.Join(h.Models, ", "))
	}

	prices := cfg.PricingTable()
	prefixes := make([]string, 0, len(prices))
	for p := range prices {
		prefixes = append(prefixes, p)
	}
	sort.Strings(prefixes)
	fmt.Fprintf(out, "  Priced Models:     %d\n", len(prefixes))
	for _, p := range prefixes {
		fmt.Fprintf(out, "    - %-28s in $%.2f / out $%.2f per 1M\n", p, prices[p].Input, prices[p].Output)
	}
}
