package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/harun/decachat/pkg/chat"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"
)

const (
	userPrompt      = "You: "
	assistantPrefix = "Assistant: "
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive conversation",
	Long: `Start an interactive conversation with the configured model.

Commands:
  clear          forget the conversation
  system <text>  restart the conversation with a new system message
  history        print the conversation so far
  exit, quit     leave`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

// lineReader is the prompt used by the chat loop
type lineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

// sender performs one conversation turn
type sender func(ctx context.Context, text string) (string, error)

// repl drives an interactive conversation
type repl struct {
	session *chat.Session
	send    sender
	in      lineReader
	out     io.Writer
	onReset func(kind string)
}

func runChat(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer func() {
		if err := rt.Close(); err != nil {
			rt.log.Warn().Err(err).Msg("Shutdown incomplete")
		}
	}()

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	historyFile := chatHistoryPath()
	if f, err := os.Open(historyFile); err == nil {
		_, _ = line.ReadHistory(f)
		f.Close()
	}
	defer saveHistory(line, historyFile)

	r := &repl{
		session: rt.session,
		send:    interruptible(rt.send),
		in:      line,
		out:     cmd.OutOrStdout(),
		onReset: rt.metrics.RecordReset,
	}
	return r.run(cmd.Context())
}

// interruptible lets Ctrl+C cancel the in-flight request without ending the
// conversation.
func interruptible(send sender) sender {
	return func(ctx context.Context, text string) (string, error) {
		ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
		defer stop()
		return send(ctx, text)
	}
}

// run reads lines until exit, EOF or Ctrl+C. Failed turns are reported and
// the conversation continues.
func (r *repl) run(ctx context.Context) error {
	if r.session.IntroPending() {
		fmt.Fprintf(r.out, "%s%s\n", assistantPrefix, r.session.Settings().Intro)
	}

	for {
		input, err := r.in.Prompt(userPrompt)
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				fmt.Fprintln(r.out)
				return nil
			}
			return fmt.Errorf("failed to read input: %w", err)
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		r.in.AppendHistory(input)

		if done := r.handle(ctx, input); done {
			return nil
		}
	}
}

// handle processes one input line and reports whether the loop should stop
func (r *repl) handle(ctx context.Context, input string) bool {
	command, rest, _ := strings.Cut(input, " ")

	switch strings.ToLower(command) {
	case "exit", "quit":
		if rest == "" {
			fmt.Fprintln(r.out, "Goodbye!")
			return true
		}
	case "clear":
		if rest == "" {
			r.session.Clear()
			r.reset("clear")
			fmt.Fprintln(r.out, "Conversation cleared.")
			return false
		}
	case "history":
		if rest == "" {
			r.printHistory()
			return false
		}
	case "system":
		if text := strings.TrimSpace(rest); text != "" {
			r.session.SetSystemMessage(text)
			r.reset("system")
			fmt.Fprintln(r.out, "System message set; conversation restarted.")
			return false
		}
	}

	reply, err := r.send(ctx, input)
	if err != nil {
		fmt.Fprintf(r.out, "Error: %v\n", err)
		return false
	}
	fmt.Fprintf(r.out, "%s%s\n", assistantPrefix, reply)
	return false
}

func (r *repl) reset(kind string) {
	if r.onReset != nil {
		r.onReset(kind)
	}
}

func (r *repl) printHistory() {
	history := r.session.Conversation()
	if len(history) == 0 {
		fmt.Fprintln(r.out, "(empty conversation)")
		return
	}
	for _, msg := range history {
		fmt.Fprintf(r.out, "[%s] %s\n", msg.Role, msg.Content)
	}
}

func chatHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "decachat_history")
	}
	return filepath.Join(home, ".decachat", "history")
}

// saveHistory persists prompt history; failures only cost the history.
func saveHistory(line *liner.State, path string) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	_, _ = line.WriteHistory(f)
}
