package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/masoncj/praisebot/internal/praise"
)

func init() {
	rootCmd.AddCommand(parseCmd)
}

var parseCmd = &cobra.Command{
	Use:   "parse <command text>",
	Short: "Parse a praise command and print the record",
	Long: `Parse a praise command and print the resulting praise record as JSON.
Wrapped references (<@U123>) are resolved through the identity directory.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(GetConfig())
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		p, err := praise.ParseMessage(ctx, strings.Join(args, " "), a.resolver, a.cfg.Render.Defaults)
		if err != nil {
			return err
		}
		return WriteOutput(cmd.OutOrStdout(), p)
	},
}
