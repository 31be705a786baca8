package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/wastat/internal/filter"
	"github.com/Zuo-Peng/wastat/internal/parse"
	"github.com/Zuo-Peng/wastat/internal/render"
	"github.com/Zuo-Peng/wastat/internal/scan"
	"github.com/Zuo-Peng/wastat/internal/stats"
	"github.com/Zuo-Peng/wastat/internal/tui"
)

// analysis is the --json document of analyze.
type analysis struct {
	Summary       stats.Summary        `json:"summary"`
	Months        []stats.MonthCount   `json:"months"`
	TopWords      []stats.Count        `json:"topWords"`
	TopEmoji      []stats.Count        `json:"topEmoji"`
	LengthBuckets []stats.LengthBucket `json:"lengthBuckets"`
	Heatmap       []stats.DayCount     `json:"heatmap"`
}

func newAnalysis(msgs []parse.Message, ro render.ReportOptions, now time.Time) analysis {
	s := (&stats.Aggregator{Now: func() time.Time { return now }}).Aggregate(msgs)
	return analysis{
		Summary:       s,
		Months:        s.Months(),
		TopWords:      stats.Top(s.WordCount, ro.TopN),
		TopEmoji:      stats.Top(s.EmojiCount, ro.TopN),
		LengthBuckets: stats.LengthBuckets(msgs, ro.LengthBucket),
		Heatmap:       stats.Heatmap(msgs, ro.HeatmapDays, now),
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func analyzeCmd() *cobra.Command {
	var ff filterFlags
	var top int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "analyze <export>",
		Short: "Show activity statistics for a chat export",
		Long: `Parse a WhatsApp chat export and compute statistics: message and media
counts, activity by participant, hour, weekday and month, streaks, top words
and emoji, message lengths and a recent-days heatmap.

On a terminal this opens an interactive dashboard: pick a participant on the
left to recompute the report for their messages, Enter copies the report.
Otherwise the report is printed as text, or as JSON with --json.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv()
			if err != nil {
				return err
			}
			opts, err := ff.options(e.loc)
			if err != nil {
				return err
			}

			path := args[0]
			result, err := e.parseExport(path)
			if err != nil {
				return err
			}

			ro := render.ReportOptions{
				Title:        scan.ChatName(path),
				TopN:         e.cfg.TopN,
				HeatmapDays:  e.cfg.HeatmapDays,
				LengthBucket: e.cfg.LengthBucket,
			}
			if top > 0 {
				ro.TopN = top
			}
			now := time.Now()

			if asJSON {
				msgs := filter.Apply(result.Messages, opts)
				return writeJSON(os.Stdout, newAnalysis(msgs, ro, now))
			}

			if stdoutIsTerminal() {
				participant := opts.Participant
				opts.Participant = ""
				return tui.RunDashboard(&tui.Dashboard{
					Title:    ro.Title,
					Messages: result.Messages,
					Filter:   opts,
					Report:   ro,
				}, participant)
			}

			msgs := filter.Apply(result.Messages, opts)
			ro.Now = now
			ro.NoColor = true
			fmt.Print(render.Report(stats.Aggregate(msgs), msgs, ro))
			return nil
		},
	}

	ff.register(cmd, false)
	cmd.Flags().IntVar(&top, "top", 0, "Entries in the top words/emoji tables (default from config)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the statistics as JSON")

	return cmd
}
