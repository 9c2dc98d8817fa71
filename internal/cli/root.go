package cli

import (
	"github.com/spf13/cobra"
)

const version = "0.1.0"

var (
	cfgFile      string
	logLevel     string
	providerName string
	model        string
	baseURL      string
	systemPrompt string
	intro        string
	metricsAddr  string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "decachat",
	Short: "Decachat - conversational client for chat-completion APIs",
	Long: `Decachat keeps a running conversation with an OpenAI-compatible
chat-completion endpoint (OpenAI, Groq, local gateways) or Anthropic.
Every turn is sent with the full history, so the model sees the whole
conversation on each request.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.decachat/config.json)")
	flags.StringVar(&logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")
	flags.StringVar(&providerName, "provider", "", "completion backend (openai, anthropic)")
	flags.StringVar(&model, "model", "", "model name")
	flags.StringVar(&baseURL, "base-url", "", "API base URL")
	flags.StringVar(&systemPrompt, "system", "", "system message that starts the conversation")
	flags.StringVar(&intro, "intro", "", "assistant greeting inserted before the first message")
	flags.StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address (e.g. :9090)")

	// Version template
	rootCmd.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "version %s" .Version}}
`)
}

// GetRootCmd returns the root command for testing
func GetRootCmd() *cobra.Command {
	return rootCmd
}

// GetVersion returns the current version
func GetVersion() string {
	return version
}
