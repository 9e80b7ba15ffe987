package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"postloom/internal/pipeline"
	"postloom/internal/services/llm"
)

func newCaptionCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "caption <topic>",
		Short: "Generate a post caption for a topic",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			client := llm.NewClient(llm.Config{
				APIKey:         cfg.LLM.APIKey,
				BaseURL:        cfg.LLM.BaseURL,
				Model:          cfg.LLM.Model,
				TimeoutSeconds: cfg.LLM.TimeoutSeconds,
			})
			stage := pipeline.NewPromptStage(client, logger)

			result, err := stage.Generate(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}

			if jsonOutput {
				return writeJSON(cmd, result)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, result.Caption)
			fmt.Fprintf(out, "[%s]\n", provenanceBadge(result.StageResult, shouldColorize(out)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the caption result as JSON")
	return cmd
}
