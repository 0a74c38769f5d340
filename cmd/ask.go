package main

import (
	"fmt"
	"log/slog"
	"strings"

	"arkadia_console/internal/entities"

	"github.com/spf13/cobra"
)

func askCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask <text...>",
		Short: "Answer one message the way the webhook would and print the reply",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			replies, err := buildReplyService(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			reply, source := replies.Reply(cmd.Context(), strings.Join(args, " "))
			slog.Debug("reply resolved", "channel", entities.ChannelCLI, "source", source)
			fmt.Fprintln(cmd.OutOrStdout(), reply)
			return nil
		},
	}
}
