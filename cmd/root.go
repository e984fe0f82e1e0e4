// Package cmd implements the CLI commands for gem.
package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/devaloi/gem/internal/config"
	"github.com/devaloi/gem/internal/env"
	"github.com/devaloi/gem/internal/gemini"
	"github.com/devaloi/gem/internal/render"
)

// envFile is the dotenv file consulted in the working directory.
const envFile = ".env"

// Exit codes. Usage errors are distinct from configuration and completion
// failures.
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

var (
	cfg config.Config

	// Global flags
	temperatureFlag float64
	modelFlag       string
	maxOutputFlag   int
)

var rootCmd = &cobra.Command{
	Use:   "gem <prompt>",
	Short: "Ask Gemini from your terminal",
	Long: `gem sends a single prompt to the Google Gemini API and prints the answer.

Each run is independent: parameters are resolved fresh from flags,
environment variables, the config file, and compiled defaults, one
request is dispatched, and the process exits.

Examples:
  gem "What is a goroutine?"
  gem -t 0.2 "Summarize the plot of Inception in one sentence."
  gem -m gemini-1.5-pro -o 4096 "Explain TCP slow start"

Configuration:
  Config file: ~/.config/gem/config.yaml
  Environment: GOOGLE_API_KEY (also read from ./.env), GEM_MODEL,
               GEM_TEMPERATURE, GEM_MAX_OUTPUT, GEM_SYSTEM`,
	Args:          promptArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runGenerate,
}

// usageError marks argument mistakes so Execute prints usage and exits 2.
type usageError struct {
	msg string
}

func (e *usageError) Error() string {
	return e.msg
}

// Execute runs the root command on the given argument vector and returns the
// process exit code. Usage errors print the usage text here; every other
// error was already reported by the failing command.
func Execute(args []string) int {
	// A help flag anywhere wins over everything else, including arguments
	// that would not otherwise parse.
	if hasHelpFlag(args) {
		cmd, _, err := rootCmd.Find(args)
		if err != nil {
			cmd = rootCmd
		}
		_ = cmd.Help()
		return exitOK
	}

	rootCmd.SetArgs(args)
	cmd, err := rootCmd.ExecuteC()
	if err == nil {
		return exitOK
	}

	var uerr *usageError
	if errors.As(err, &uerr) {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %s\n\n%s", uerr.msg, cmd.UsageString())
		return exitUsage
	}

	return exitFailure
}

// hasHelpFlag reports whether the argument vector requests help. Tokens after
// a bare "--" are positionals, not flags.
func hasHelpFlag(args []string) bool {
	for _, a := range args {
		if a == "--" {
			return false
		}
		if a == "-h" || a == "--help" {
			return true
		}
	}
	return false
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().Float64VarP(&temperatureFlag, "temperature", "t", 0, "Sampling temperature between 0.0 and 2.0")
	rootCmd.PersistentFlags().StringVarP(&modelFlag, "model", "m", "", "Gemini model to use")
	rootCmd.PersistentFlags().IntVarP(&maxOutputFlag, "max-output", "o", 0, "Maximum number of output tokens")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &usageError{msg: err.Error()}
	})
}

func initConfig() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: config load failed: %v, using defaults\n", err)
		cfg = config.Default()
	}
}

// promptArgs requires exactly one non-blank positional argument, the prompt.
func promptArgs(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return &usageError{msg: "missing required prompt argument"}
	}
	if len(args) > 1 {
		return &usageError{msg: fmt.Sprintf("expected exactly one prompt argument, got %d", len(args))}
	}
	if strings.TrimSpace(args[0]) == "" {
		return &usageError{msg: "prompt must not be empty"}
	}
	return nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	prompt := args[0]

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()
	p := render.New(out, errOut, render.IsTerminal(out), render.IsTerminal(errOut))

	vars, err := env.Load(envFile)
	if err != nil {
		fmt.Fprintf(errOut, "warning: %v, using process environment only\n", err)
		vars = env.Process()
	}

	resolved, err := config.Resolve(cfg, vars, overridesFromFlags(cmd))
	if err != nil {
		p.Fault(err)
		return err
	}

	p.Notice()

	client := gemini.New(resolved.BaseURL, resolved.APIKey)
	text, err := client.Complete(ctx, prompt, gemini.Request{
		Model:       resolved.Model,
		Temperature: resolved.Temperature,
		MaxTokens:   resolved.MaxOutputTokens,
		System:      resolved.System,
	})
	if err != nil {
		p.Fault(err)
		return err
	}

	p.Result(text)
	return nil
}

// overridesFromFlags captures only the flags the user actually set, so unset
// flags never mask environment or config file values.
func overridesFromFlags(cmd *cobra.Command) config.Overrides {
	var o config.Overrides
	flags := cmd.Flags()
	if flags.Changed("model") {
		o.Model = &modelFlag
	}
	if flags.Changed("temperature") {
		o.Temperature = &temperatureFlag
	}
	if flags.Changed("max-output") {
		o.MaxOutput = &maxOutputFlag
	}
	return o
}
