package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/albumposter/pkg/pipeline"
	"github.com/matzehuels/albumposter/pkg/poster/sink"
)

func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output     string
		resolution string
		refresh    bool
	)

	cmd := &cobra.Command{
		Use:   "layout [flags] REQUEST.json",
		Short: "Print the planned layout of a request as JSON",
		Long: `Plan a poster without drawing it and print its geometry as JSON: the
canvas, artwork box, text blocks, swatches and every track cell.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(nil)
			if err != nil {
				return err
			}

			req, err := readRequest(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			if resolution != "" {
				req.Resolution = resolution
			}

			ctx := cmd.Context()
			runner, err := c.newRunner(ctx, cfg)
			if err != nil {
				return err
			}
			defer runner.Close()

			res, err := runner.Layout(ctx, req, pipeline.Options{Refresh: refresh})
			if err != nil {
				return err
			}
			data, err := sink.RenderJSON(res.Layout)
			if err != nil {
				return err
			}
			data = append(data, '\n')

			if output == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("write layout: %w", err)
			}
			printFile(cmd.OutOrStdout(), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	cmd.Flags().StringVarP(&resolution, "resolution", "r", "", "canvas size WxH, overriding the request")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "ignore cached layouts")
	return cmd
}
