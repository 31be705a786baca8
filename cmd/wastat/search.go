package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/wastat/internal/filter"
	"github.com/Zuo-Peng/wastat/internal/parse"
	"github.com/Zuo-Peng/wastat/internal/search"
	"github.com/Zuo-Peng/wastat/internal/tui"
)

const (
	sColorReset   = "\033[0m"
	sColorBoldRed = "\033[1;31m"
	sColorBlue    = "\033[1;34m"
	sColorDim     = "\033[2m"
)

func colorizeSnippet(snippet string) string {
	snippet = strings.ReplaceAll(snippet, ">>>", sColorBoldRed)
	snippet = strings.ReplaceAll(snippet, "<<<", sColorReset)
	return snippet
}

func searchCmd() *cobra.Command {
	var sender, msgType, since, until string
	var limit int
	var color bool

	cmd := &cobra.Command{
		Use:   "search <export|dir> <query>",
		Short: "Full-text search over the messages of one export or a directory of exports",
		Long: `Search message content using FTS5 (substring match for CJK queries).
Exports are parsed into an in-memory index on every run; nothing is written
to disk. On a terminal this opens an interactive search. Otherwise the output
is TSV for fzf integration:
  chat, id, timestamp, sender, snippet

Recommended shell function (add to .zshrc):
  wasf() {
    wastat search ~/WhatsApp "$*" --color | fzf \
      --ansi \
      --delimiter='\t' --with-nth=3.. \
      --preview 'wastat preview {1} --message {2} --context 5 --query {q}' \
      --preview-window=right:60%:wrap \
      --bind 'enter:execute(wastat open {1} --message {2})'
  }`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv()
			if err != nil {
				return err
			}

			opts := search.Options{
				Sender: sender,
				Limit:  limit,
			}
			if msgType != "" {
				types, err := filter.ParseTypes(msgType)
				if err != nil {
					return fmt.Errorf("--type: %w", err)
				}
				if len(types) != 1 {
					return fmt.Errorf("--type: exactly one type expected")
				}
				opts.Type = types[0]
			}
			if opts.Since, err = filter.ParseDate(since, e.loc, false); err != nil {
				return fmt.Errorf("--since: %w", err)
			}
			if opts.Until, err = filter.ParseDate(until, e.loc, true); err != nil {
				return fmt.Errorf("--until: %w", err)
			}

			db, err := e.loadIndex(args[0])
			if err != nil {
				return err
			}
			defer db.Close()

			// Interactive TUI when stdout is a terminal; TSV output for pipes
			if stdoutIsTerminal() {
				return tui.RunSearch(&tui.MessageSearch{DB: db, Options: opts, Location: e.loc}, args[1])
			}

			opts.Query = args[1]
			results, err := search.Search(db, opts)
			if err != nil {
				return err
			}

			if len(results) == 0 {
				fmt.Fprintln(os.Stderr, "No results found.")
				return nil
			}

			for _, r := range results {
				snippet := tsvField(r.Snippet)
				ts := r.Timestamp.In(e.loc).Format(time.RFC3339)
				who := tsvField(r.Sender)
				if r.Type == parse.TypeSystem {
					ts = "-"
				}
				if color {
					snippet = colorizeSnippet(snippet)
					ts = sColorDim + ts + sColorReset
					who = sColorBlue + who + sColorReset
				} else {
					snippet = strings.NewReplacer(">>>", "", "<<<", "").Replace(snippet)
				}
				// first two fields (chat, id) stay plain for fzf {1} {2}
				fmt.Printf("%s\t%s\t%s\t%s\t%s\n", r.ChatKey, r.MsgID, ts, who, snippet)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&sender, "sender", "", "Filter by sender")
	cmd.Flags().StringVar(&msgType, "type", "", "Filter by message type")
	cmd.Flags().StringVar(&since, "since", "", "Filter messages on or after date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&until, "until", "", "Filter messages on or before date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&limit, "limit", 100, "Max results")
	cmd.Flags().BoolVar(&color, "color", false, "Colorize TSV output (highlight matches)")

	return cmd
}
