package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask <prompt>",
	Short: "Send a single message and print the reply",
	Long: `Send a single message, including the configured system message and
intro, and print the assistant's reply to stdout.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer rt.Close()

	reply, err := rt.send(cmd.Context(), strings.Join(args, " "))
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), reply)
	return nil
}
