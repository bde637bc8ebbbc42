package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/creatorstation/tweetbot/pkg/convert/img"
)

var renderOutput string

var renderCmd = &cobra.Command{
	Use:   "render <text>",
	Short: "Render text onto a PNG card",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		png, err := img.RenderTextImage(strings.Join(args, " "))
		if err != nil {
			return err
		}

		if renderOutput == "-" {
			_, err = cmd.OutOrStdout().Write(png)
			return err
		}

		if err := os.WriteFile(renderOutput, png, 0o644); err != nil {
			return fmt.Errorf("error writing %s: %w", renderOutput, err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s (%d bytes)\n", renderOutput, len(png))
		return nil
	},
}

func init() {
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "tweet.png", "output file, - for stdout")
}
