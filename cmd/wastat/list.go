package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-runewidth"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/wastat/internal/scan"
	"github.com/Zuo-Peng/wastat/internal/stats"
)

type chatListing struct {
	file    scan.FileInfo
	summary stats.Summary
}

func writeListing(w io.Writer, rows []chatListing) {
	nameW := len("CHAT")
	for _, r := range rows {
		nameW = max(nameW, runewidth.StringWidth(r.file.Name))
	}
	nameW = min(nameW, 32)

	fmt.Fprintf(w, "%s  %8s  %5s  %-23s  %s\n", runewidth.FillRight("CHAT", nameW), "MESSAGES", "PPL", "DATES", "PATH")
	for _, r := range rows {
		s := r.summary
		dates := "-"
		if s.TotalMessages > 0 {
			dates = s.DateRange.Start.Format("2006-01-02") + " " + s.DateRange.End.Format("2006-01-02")
		}
		name := runewidth.FillRight(runewidth.Truncate(r.file.Name, nameW, "…"), nameW)
		fmt.Fprintf(w, "%s  %8d  %5d  %-23s  %s\n", name, s.TotalMessages, len(s.Participants), dates, r.file.Path)
	}
}

func listCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List chat exports under the exports directory",
		Long:  `Scans the configured exports directory (or --dir) for chat exports and shows each chat's message count, participants and date range.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv()
			if err != nil {
				return err
			}
			if dir == "" {
				dir = e.cfg.ExportsDir
			}

			files, err := scan.ScanExports(dir)
			if err != nil {
				return fmt.Errorf("scan %s: %w", dir, err)
			}
			if len(files) == 0 {
				fmt.Fprintf(os.Stderr, "No exports found in %s\n", dir)
				return nil
			}

			rows := make([]chatListing, 0, len(files))
			for _, fi := range files {
				result, err := e.parseExport(fi.Path)
				if err != nil {
					log.Warn().Err(err).Str("path", fi.Path).Msg("skip export")
					continue
				}
				rows = append(rows, chatListing{file: fi, summary: stats.Aggregate(result.Messages)})
			}

			writeListing(os.Stdout, rows)
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "Directory to scan (default exports_dir from config)")

	return cmd
}
