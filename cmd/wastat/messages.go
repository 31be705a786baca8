package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/wastat/internal/filter"
	"github.com/Zuo-Peng/wastat/internal/parse"
)

// tsvField flattens a value onto one TSV cell.
func tsvField(s string) string {
	if s == "" {
		return "-"
	}
	s = strings.ReplaceAll(s, "\t", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return s
}

func writeMessagesTSV(w io.Writer, msgs []parse.Message) error {
	bw := bufio.NewWriter(w)
	for _, m := range msgs {
		fmt.Fprintf(bw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			m.ID,
			m.Timestamp.Format(time.RFC3339),
			m.Type,
			tsvField(m.Sender),
			tsvField(m.MediaFile),
			tsvField(m.Content),
		)
	}
	return bw.Flush()
}

// writeMessagesJSON writes one JSON object per line.
func writeMessagesJSON(w io.Writer, msgs []parse.Message) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	for _, m := range msgs {
		if err := enc.Encode(m); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func messagesCmd() *cobra.Command {
	var ff filterFlags
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "messages <export>",
		Short: "Print the normalized messages of a chat export",
		Long: `Parse a chat export and print its messages, one per line, as TSV:
  id, timestamp, type, sender, mediaFile, content
or as JSON lines with --json.`,
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

			result, err := e.parseExport(args[0])
			if err != nil {
				return err
			}
			msgs := filter.Apply(result.Messages, opts)

			if asJSON {
				return writeMessagesJSON(os.Stdout, msgs)
			}
			return writeMessagesTSV(os.Stdout, msgs)
		},
	}

	ff.register(cmd, true)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON lines instead of TSV")

	return cmd
}
