package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"postloom/internal/pipeline"
	"postloom/internal/services/imagegen"
)

func newImageCommand(ctx *commandContext) *cobra.Command {
	var outputPath string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "image <prompt>",
		Short: "Generate an image for a prompt",
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

			client := imagegen.NewClient(imagegen.Config{
				APIKey:         cfg.ImageGen.APIKey,
				BaseURL:        cfg.ImageGen.BaseURL,
				Model:          cfg.ImageGen.Model,
				Size:           cfg.ImageGen.Size,
				TimeoutSeconds: cfg.ImageGen.TimeoutSeconds,
			})
			stage := pipeline.NewImageStage(client, logger)

			output := strings.TrimSpace(outputPath)
			if output == "" {
				output = filepath.Join(cfg.Paths.WorkspaceDir, "post.png")
			}

			result, err := stage.Generate(cmd.Context(), strings.Join(args, " "), output)
			if err != nil {
				return err
			}

			if jsonOutput {
				return writeJSON(cmd, result)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, result.Path)
			fmt.Fprintf(out, "[%s]\n", provenanceBadge(result.StageResult, shouldColorize(out)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "out", "o", "", "Path for the generated image (default: <workspace>/post.png)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the image result as JSON")
	return cmd
}
