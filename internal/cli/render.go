package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/albumposter/pkg/album"
	"github.com/matzehuels/albumposter/pkg/pipeline"
	"github.com/matzehuels/albumposter/pkg/poster/sink"
)

// renderOpts holds the flags of the render command.
type renderOpts struct {
	format     string
	outDir     string
	resolution string
	refresh    bool
	jobs       int
}

// renderJob is one request file and its outcome.
type renderJob struct {
	input  string
	output string
	result *pipeline.Result
	err    error
}

func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{jobs: 4}

	cmd := &cobra.Command{
		Use:   "render [flags] REQUEST.json...",
		Short: "Render request files to posters",
		Long: `Render one or more poster requests to image files.

Each request is a JSON file in the same shape the service accepts. The
poster is written to the output directory under the request's file name
with a .jpg or .png extension. Use "-" to read a request from stdin.`,
		Example: `  albumposter render abbey-road.json
  albumposter render --format png --resolution 2400x3200 -o posters/ *.json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(nil)
			if err != nil {
				return err
			}
			if opts.format == "" {
				opts.format = cfg.Render.DefaultFormat
			}
			format, err := sink.ParseFormat(opts.format)
			if err != nil {
				return err
			}
			if opts.resolution != "" {
				if _, err := album.ParseResolution(opts.resolution, cfg.Render.MaxResolution); err != nil {
					return err
				}
			}

			ctx := cmd.Context()
			runner, err := c.newRunner(ctx, cfg)
			if err != nil {
				return err
			}
			defer runner.Close()

			return c.runRender(ctx, cmd, runner, format, opts, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.format, "format", "f", "", "output format: jpeg or png (default from config)")
	flags.StringVarP(&opts.outDir, "out", "o", ".", "output directory")
	flags.StringVarP(&opts.resolution, "resolution", "r", "", "canvas size WxH, overriding the requests")
	flags.BoolVar(&opts.refresh, "refresh", false, "ignore cached posters")
	flags.IntVarP(&opts.jobs, "jobs", "j", opts.jobs, "requests rendered in parallel")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, cmd *cobra.Command, runner *pipeline.Runner, format sink.Format, opts renderOpts, inputs []string) error {
	if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	outputs, err := outputPaths(opts.outDir, inputs, format)
	if err != nil {
		return err
	}
	jobs := make([]*renderJob, len(inputs))
	for i, in := range inputs {
		jobs[i] = &renderJob{input: in, output: outputs[i]}
	}

	var spinner *Spinner
	if !c.verbose {
		spinner = newSpinner(ctx, cmd.ErrOrStderr(), fmt.Sprintf("Rendering %d poster(s)...", len(jobs)))
		spinner.Start()
	}

	prog := newProgress(c.Logger)
	var g errgroup.Group
	g.SetLimit(max(opts.jobs, 1))
	for _, job := range jobs {
		g.Go(func() error {
			job.result, job.err = renderOne(ctx, runner, cmd.InOrStdin(), job, format, opts)
			return nil
		})
	}
	_ = g.Wait()

	if spinner != nil {
		spinner.Stop()
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	failed := 0
	for _, job := range jobs {
		if job.err != nil {
			failed++
			printError(out, "%s: %v", job.input, job.err)
			continue
		}
		printSuccess(out, "%s", job.input)
		printFile(out, job.output)
		printStats(out, job.result)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d requests failed", failed, len(jobs))
	}
	prog.done(fmt.Sprintf("Rendered %d poster(s)", len(jobs)))
	return nil
}

func renderOne(ctx context.Context, runner *pipeline.Runner, stdin io.Reader, job *renderJob, format sink.Format, opts renderOpts) (*pipeline.Result, error) {
	req, err := readRequest(stdin, job.input)
	if err != nil {
		return nil, err
	}
	if opts.resolution != "" {
		req.Resolution = opts.resolution
	}
	res, err := runner.Execute(ctx, req, pipeline.Options{Format: format, Refresh: opts.refresh})
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(job.output, res.Poster, 0o644); err != nil {
		return nil, fmt.Errorf("write poster: %w", err)
	}
	return res, nil
}

// readRequest decodes the request at path, or from stdin when path is "-".
func readRequest(stdin io.Reader, path string) (album.Request, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return album.Request{}, fmt.Errorf("read request: %w", err)
	}
	return album.Decode(data)
}

// outputPaths names the poster of every input. Inputs sharing a base name
// get "-2", "-3", ... suffixes in argument order so no poster overwrites
// another. Stdin can be read only once.
func outputPaths(dir string, inputs []string, format sink.Format) ([]string, error) {
	out := make([]string, len(inputs))
	taken := make(map[string]bool, len(inputs))
	stdin := false
	for i, in := range inputs {
		if in == "-" {
			if stdin {
				return nil, fmt.Errorf("stdin (-) given more than once")
			}
			stdin = true
		}
		path := outputPath(dir, in, format)
		for n := 2; taken[path]; n++ {
			ext := filepath.Ext(path)
			path = fmt.Sprintf("%s-%d%s", strings.TrimSuffix(outputPath(dir, in, format), ext), n, ext)
		}
		taken[path] = true
		out[i] = path
	}
	return out, nil
}

// outputPath names the poster after its request file: "abbey-road.json"
// becomes "<dir>/abbey-road.jpg". Stdin requests are written as "poster".
func outputPath(dir, input string, format sink.Format) string {
	name := "poster"
	if input != "-" {
		base := filepath.Base(input)
		name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return filepath.Join(dir, name+"."+format.Ext())
}
