package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/wastat/internal/config"
	"github.com/Zuo-Peng/wastat/internal/index"
	"github.com/Zuo-Peng/wastat/internal/parse"
	"github.com/Zuo-Peng/wastat/internal/scan"
)

func doctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Self-check: verify config, exports directory, FTS5, and show parse stats",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("=== Config ===")
			cfg, err := config.Load()
			if err != nil {
				fmt.Printf("  ERROR: %v\n", err)
				return fmt.Errorf("config: %w", err)
			}
			if cfg.Path == "" {
				fmt.Println("  File: (none, using defaults)")
			} else {
				fmt.Printf("  File: %s\n", cfg.Path)
			}
			fmt.Printf("  Timezone: %s\n", cfg.Timezone)
			fmt.Printf("  Top N: %d, heatmap days: %d, length bucket: %d\n", cfg.TopN, cfg.HeatmapDays, cfg.LengthBucket)

			fmt.Println("\n=== Exports ===")
			checkDir("Exports", cfg.ExportsDir)

			files, err := scan.ScanExports(cfg.ExportsDir)
			if err != nil {
				fmt.Printf("  scan error: %v\n", err)
			} else {
				fmt.Printf("  Export files: %d\n", len(files))
			}

			fmt.Println("\n=== FTS5 ===")
			if err := index.FTS5Available(); err != nil {
				fmt.Printf("  FTS5 error: %v\n", err)
				return nil
			}
			fmt.Println("  Status: OK")

			if len(files) == 0 {
				return nil
			}

			fmt.Println("\n=== Parse ===")
			loc, err := cfg.Location()
			if err != nil {
				return err
			}
			db, err := index.OpenMemory()
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			defer db.Close()

			stats := index.IndexExports(db, &parse.Parser{Location: loc}, files)
			fmt.Printf("  %s\n", stats)

			msgCount, err := db.MessageCount()
			if err != nil {
				return fmt.Errorf("count messages: %w", err)
			}
			var ftsCount int
			if err := db.Raw().QueryRow("SELECT COUNT(*) FROM messages_fts").Scan(&ftsCount); err != nil {
				fmt.Printf("  FTS5 error: %v\n", err)
			} else if ftsCount == msgCount {
				fmt.Printf("  FTS5 entries: %d (synced)\n", ftsCount)
			} else {
				fmt.Printf("  FTS5 entries: MISMATCH (messages=%d, fts=%d)\n", msgCount, ftsCount)
			}

			return nil
		},
	}
}

func checkDir(name, path string) {
	if info, err := os.Stat(path); err != nil {
		fmt.Printf("  %s: %s (NOT FOUND)\n", name, path)
	} else if !info.IsDir() {
		fmt.Printf("  %s: %s (NOT A DIRECTORY)\n", name, path)
	} else {
		fmt.Printf("  %s: %s (OK)\n", name, path)
	}
}
