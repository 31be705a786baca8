package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/wastat/internal/render"
)

func previewCmd() *cobra.Command {
	var msgID string
	var context int
	var query string
	var width int

	cmd := &cobra.Command{
		Use:   "preview <export>",
		Short: "Show a conversation with context around a message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv()
			if err != nil {
				return err
			}

			db, err := e.loadIndex(args[0])
			if err != nil {
				return err
			}
			defer db.Close()

			out, _, err := render.RenderConversation(db, args[0], render.Options{
				HitMsgID: msgID,
				Context:  context,
				Query:    query,
				Width:    width,
				Location: e.loc,
			})
			if err != nil {
				return err
			}

			fmt.Print(out)
			return nil
		},
	}

	cmd.Flags().StringVar(&msgID, "message", "", "Message ID to highlight")
	cmd.Flags().IntVar(&context, "context", 10, "Messages before/after the message to show")
	cmd.Flags().StringVar(&query, "query", "", "Search query for keyword highlighting")
	cmd.Flags().IntVar(&width, "width", 0, "Wrap width (0 = no wrap)")

	return cmd
}
