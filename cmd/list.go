package cmd

import (
	"github.com/spf13/cobra"

	"github.com/teaflash/teaflash/internal/session"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "list available serial ports",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return session.ListPorts()
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
