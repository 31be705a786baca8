package main

import (
	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/wastat/internal/open"
)

func openCmd() *cobra.Command {
	var msgID string

	cmd := &cobra.Command{
		Use:   "open <export>",
		Short: "Open the export in $EDITOR at the line of a message",
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

			return open.OpenMessage(db, args[0], msgID)
		},
	}

	cmd.Flags().StringVar(&msgID, "message", "", "Message ID to jump to")

	return cmd
}
