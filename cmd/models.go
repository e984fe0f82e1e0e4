package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/devaloi/gem/internal/env"
	"github.com/devaloi/gem/internal/gemini"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List known Gemini models",
	RunE:  runModels,
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}

func runModels(cmd *cobra.Command, args []string) error {
	vars, err := env.Load(envFile)
	if err != nil {
		vars = env.Process()
	}
	defaultModel := effectiveModel(vars)

	for _, m := range gemini.Models() {
		marker := "  "
		if m == defaultModel {
			marker = "* "
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s%s\n", marker, m)
	}

	return nil
}

// effectiveModel returns the model an unflagged run would use, applying
// flag/env/config precedence. Display only; config.Resolve owns the merge
// that requests are built from.
func effectiveModel(vars env.Lookup) string {
	if modelFlag != "" {
		return modelFlag
	}
	if v, ok := vars("GEM_MODEL"); ok && v != "" {
		return v
	}
	return cfg.Model
}
