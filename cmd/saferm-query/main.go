package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"saferm/internal/database"
	"saferm/internal/exitcodes"
)

func main() {
	// Parse command-line flags
	dbPath := flag.String("db", "/var/lib/saferm/removals.db", "Path to removal history database")
	recent := flag.Int("recent", 0, "Show N most recent removals")
	stats := flag.Bool("stats", false, "Show removal statistics")
	action := flag.String("action", "", "Filter by action (REMOVE, DRY_RUN, SKIP, ERROR)")
	code := flag.String("code", "", "Filter by error code (EBUSY, EPERM, ...)")
	pathPattern := flag.String("path", "", "Filter by path pattern (SQL LIKE syntax)")
	days := flag.Int("days", 30, "Number of days for statistics (default: 30)")
	jsonOutput := flag.Bool("json", false, "Output in JSON format")
	flag.Parse()

	// Open database
	db, err := database.NewRemovalDB(*dbPath)
	if err != nil {
		log.Fatalf("ERROR: Failed to open database %s: %v", *dbPath, err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("ERROR: Failed to close database: %v", err)
		}
	}()

	// Handle different query modes
	switch {
	case *stats:
		showStats(db, *days, *jsonOutput)
	case *recent > 0:
		showRecords(db.GetRecentRemovals(*recent))(*jsonOutput)
	case *action != "":
		showRecords(db.GetRemovalsByAction(*action))(*jsonOutput)
	case *code != "":
		showRecords(db.GetRemovalsByCode(*code))(*jsonOutput)
	case *pathPattern != "":
		showRecords(db.GetRemovalsByPath(*pathPattern))(*jsonOutput)
	default:
		flag.Usage()
		fmt.Println("\nExamples:")
		fmt.Println("  saferm-query --recent 10          # Show 10 most recent removals")
		fmt.Println("  saferm-query --stats              # Show removal statistics")
		fmt.Println("  saferm-query --action ERROR       # Show failed removals")
		fmt.Println("  saferm-query --code EBUSY         # Show removals that hit EBUSY")
		fmt.Println("  saferm-query --path '/var/tmp/%'  # Show removals under /var/tmp")
		os.Exit(exitcodes.InvalidConfig)
	}
}

func showStats(db *database.RemovalDB, days int, jsonOutput bool) {
	stats, err := db.GetRemovalStats(days)
	if err != nil {
		log.Fatalf("ERROR: Failed to get statistics: %v", err)
	}

	if jsonOutput {
		data, _ := json.MarshalIndent(stats, "", "  ")
		fmt.Println(string(data))
		return
	}

	fmt.Printf("Removal Statistics (Last %d days)\n", days)
	fmt.Printf("Period: %s to %s\n\n", stats.StartDate.Format("2006-01-02"), stats.EndDate.Format("2006-01-02"))
	fmt.Printf("Total Removals:   %d\n", stats.TotalRemovals)
	fmt.Printf("Total Skipped:    %d\n", stats.TotalSkipped)
	fmt.Printf("Total Errors:     %d\n", stats.TotalErrors)
	fmt.Printf("Files Removed:    %d\n", stats.FilesRemoved)
	fmt.Printf("Dirs Removed:     %d\n", stats.DirsRemoved)
	fmt.Printf("Retries Consumed: %d\n", stats.TotalRetries)
	fmt.Printf("Perm Repairs:     %d\n\n", stats.TotalRepairs)

	if len(stats.ByAction) > 0 {
		fmt.Println("By Action:")
		for action, count := range stats.ByAction {
			fmt.Printf("  %-10s %d\n", action, count)
		}
		fmt.Println()
	}

	if len(stats.ByCode) > 0 {
		fmt.Println("By Error Code:")
		for code, count := range stats.ByCode {
			fmt.Printf("  %-10s %d\n", code, count)
		}
	}
}

func showRecords(records []database.RemovalRecord, err error) func(bool) {
	return func(jsonOutput bool) {
		if err != nil {
			log.Fatalf("ERROR: Query failed: %v", err)
		}

		if jsonOutput {
			data, _ := json.MarshalIndent(records, "", "  ")
			fmt.Println(string(data))
			return
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "TIMESTAMP\tACTION\tOBJECT\tFILES\tDIRS\tRETRIES\tCODE\tPATH")
		for _, rec := range records {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%s\t%s\n",
				rec.Timestamp.Format("2006-01-02 15:04:05"),
				rec.Action,
				rec.ObjectType,
				rec.FilesRemoved,
				rec.DirsRemoved,
				rec.Retries,
				rec.Code,
				rec.Path,
			)
		}
		w.Flush()
	}
}
