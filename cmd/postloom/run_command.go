package main

import (
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"postloom/internal/pipeline"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var imageOut string
	var videoOut string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "run <topic>",
		Short: "Generate caption, image, and video for a topic and post it",
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

			runner, err := pipeline.NewRunner(cfg, logger)
			if err != nil {
				return err
			}
			defer runner.Close()

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			topic := strings.Join(args, " ")
			result, err := runner.Run(runCtx, topic, imageOut, videoOut)
			if err != nil {
				return err
			}

			if jsonOutput {
				return writeJSON(cmd, result)
			}
			printRunSummary(cmd, result)
			return nil
		},
	}

	cmd.Flags().StringVar(&imageOut, "image-out", "", "Path for the generated image (default: <workspace>/post.png)")
	cmd.Flags().StringVar(&videoOut, "video-out", "", "Path for the generated video (default: <workspace>/post.mp4)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the run result as JSON")
	return cmd
}

func printRunSummary(cmd *cobra.Command, result pipeline.RunResult) {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)

	fmt.Fprintf(out, "Run %s completed in %s\n\n", result.RunID, result.Duration.Round(time.Millisecond))
	fmt.Fprintf(out, "Topic:    %s\n", result.Topic)
	fmt.Fprintf(out, "Caption:  %s\n", result.Caption.Caption)
	fmt.Fprintf(out, "          %s\n", provenanceBadge(result.Caption.StageResult, colorize))
	fmt.Fprintf(out, "Image:    %s\n", result.Image.Path)
	fmt.Fprintf(out, "          %s\n", provenanceBadge(result.Image.StageResult, colorize))
	fmt.Fprintf(out, "Video:    %s\n", result.Video.Path)
	fmt.Fprintf(out, "          %s\n", provenanceBadge(result.Video.StageResult, colorize))

	switch result.Post.Status {
	case "posted":
		fmt.Fprintf(out, "Post:     published to %s (id %s)\n", result.Post.Platform, result.Post.PostID)
	default:
		fmt.Fprintf(out, "Post:     %s\n", provenanceBadge(result.Post.StageResult, colorize))
	}
}
