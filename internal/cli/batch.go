package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/masoncj/praisebot/internal/logging"
	"github.com/masoncj/praisebot/internal/pipeline"
	"github.com/masoncj/praisebot/internal/raster"
)

var (
	batchOutDir string
	batchFormat string
)

func init() {
	rootCmd.AddCommand(batchCmd)
	batchCmd.Flags().StringVar(&batchOutDir, "out-dir", ".", "directory to write artifacts into")
	batchCmd.Flags().StringVar(&batchFormat, "format", "svg", "output format: svg, png or pdf")
}

var batchCmd = &cobra.Command{
	Use:   "batch [file]",
	Short: "Render one praise command per line",
	Long: `Render every praise command in file (or stdin) concurrently. Blank lines and
lines starting with # are skipped. Each artifact is written to
<out-dir>/<filename>.<format>, where filename comes from the template metadata.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := parseFormat(batchFormat)
		if err != nil {
			return err
		}

		in := cmd.InOrStdin()
		if len(args) == 1 && args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			in = f
		}
		lines, err := readCommands(in)
		if err != nil {
			return err
		}

		if err := os.MkdirAll(batchOutDir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}

		cfg := GetConfig()
		a, err := newApp(cfg)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		if cfg.Templates.Watch {
			go func() {
				if err := a.templates.Watch(ctx); err != nil {
					logger := logging.Component("cli")
					logger.Warn().Err(err).Msg("template watch unavailable")
				}
			}()
		}

		b := &batchRun{
			renderer:  a.renderer,
			converter: a.converter,
			format:    format,
			outDir:    batchOutDir,
			limit:     cfg.Render.Concurrency,
			progress:  startProgress(cmd.ErrOrStderr(), len(lines)),
		}
		results, err := b.run(ctx, lines)
		if err != nil {
			return err
		}
		b.progress.Finish()

		if IsJSONOutput() {
			if err := WriteOutput(cmd.OutOrStdout(), results); err != nil {
				return err
			}
		}

		failed := 0
		for _, r := range results {
			if r.Error != "" {
				failed++
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d praise commands failed", failed, len(results))
		}
		return nil
	},
}

type batchCommand struct {
	Line int
	Text string
}

type batchResult struct {
	Line   int    `json:"line"`
	Text   string `json:"text"`
	Output string `json:"output,omitempty"`
	Error  string `json:"error,omitempty"`
}

func readCommands(r io.Reader) ([]batchCommand, error) {
	var cmds []batchCommand
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		cmds = append(cmds, batchCommand{Line: line, Text: text})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read commands: %w", err)
	}
	return cmds, nil
}

// batchRun renders commands with bounded concurrency. A command that
// fails to render is reported and skipped; failing to write an artifact
// stops the run.
type batchRun struct {
	renderer  *pipeline.Renderer
	converter raster.Converter
	format    string
	outDir    string
	limit     int
	progress  *batchProgress

	mu    sync.Mutex
	names map[string]int
}

func (b *batchRun) run(ctx context.Context, cmds []batchCommand) ([]batchResult, error) {
	results := make([]batchResult, len(cmds))
	b.names = make(map[string]int)

	g, ctx := errgroup.WithContext(ctx)
	if b.limit > 0 {
		g.SetLimit(b.limit)
	}
	for i, c := range cmds {
		i, c := i, c
		g.Go(func() error {
			result, err := b.one(ctx, c)
			results[i] = result
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (b *batchRun) one(ctx context.Context, c batchCommand) (batchResult, error) {
	result := batchResult{Line: c.Line, Text: c.Text}
	label := fmt.Sprintf("line %d", c.Line)

	render, err := b.renderer.Render(ctx, c.Text)
	if err == nil {
		var data []byte
		data, err = artifactBytes(ctx, render, b.format, b.converter)
		if err == nil {
			path := filepath.Join(b.outDir, b.uniqueName(render.Filename())+"."+b.format)
			if werr := os.WriteFile(path, data, 0o644); werr != nil {
				return result, fmt.Errorf("write %s: %w", path, werr)
			}
			result.Output = path
			label = path
		}
	}
	if err != nil {
		result.Error = err.Error()
	}
	b.progress.Step(label, err)
	return result, nil
}

// uniqueName makes filename safe for the output directory and unique
// within this run.
func (b *batchRun) uniqueName(filename string) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', 0:
			return '_'
		}
		return r
	}, strings.TrimSpace(filename))
	if name == "" || name == "." || name == ".." {
		name = "praise"
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.names[name]++
	if n := b.names[name]; n > 1 {
		return fmt.Sprintf("%s-%d", name, n)
	}
	return name
}
