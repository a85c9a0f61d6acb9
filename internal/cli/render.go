package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/masoncj/praisebot/internal/models"
	"github.com/masoncj/praisebot/internal/raster"
	"github.com/masoncj/praisebot/internal/templates"
)

var (
	renderOutput string
	renderFormat string
)

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "write the artifact to this file instead of stdout")
	renderCmd.Flags().StringVar(&renderFormat, "format", "svg", "output format: svg, png or pdf")
}

var renderCmd = &cobra.Command{
	Use:   "render <command text>",
	Short: "Render a praise command through its template",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := parseFormat(renderFormat)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if renderOutput == "" && format != formatSVG && !IsJSONOutput() && isTerminal(out) {
			return &PreflightError{
				Message:  fmt.Sprintf("refusing to write %s data to a terminal", format),
				Hint:     "redirect stdout or pass --output",
				NextStep: fmt.Sprintf("praisebot render --format %s -o praise.%s '...'", format, format),
			}
		}

		a, err := newApp(GetConfig())
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		render, err := a.renderer.Render(ctx, strings.Join(args, " "))
		if err != nil {
			return err
		}

		data, err := artifactBytes(ctx, render, format, a.converter)
		if err != nil {
			return err
		}

		if renderOutput != "" {
			if err := os.WriteFile(renderOutput, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", renderOutput, err)
			}
		}

		if IsJSONOutput() {
			return WriteOutput(out, newRenderSummary(render, renderOutput))
		}
		if renderOutput == "" {
			_, err = out.Write(data)
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "%s %s\n", defaultStyles().Success.Render("wrote"), renderOutput)
		return nil
	},
}

const formatSVG = "svg"

func parseFormat(value string) (string, error) {
	format := strings.ToLower(strings.TrimSpace(value))
	switch format {
	case formatSVG, string(raster.FormatPNG), string(raster.FormatPDF):
		return format, nil
	default:
		return "", &PreflightError{
			Message: fmt.Sprintf("unknown format %q", value),
			Hint:    "use svg, png or pdf",
		}
	}
}

func artifactBytes(ctx context.Context, render *templates.Render, format string, conv raster.Converter) ([]byte, error) {
	switch format {
	case string(raster.FormatPNG):
		return render.PNG(ctx, conv)
	case string(raster.FormatPDF):
		return render.PDF(ctx, conv)
	default:
		return []byte(render.OutputText), nil
	}
}

type renderSummary struct {
	Template    string            `json:"template"`
	Title       string            `json:"title"`
	Filename    string            `json:"filename"`
	Message     string            `json:"message"`
	Metadata    map[string]string `json:"metadata"`
	PlainText   string            `json:"plain_text"`
	Diagnostics []string          `json:"diagnostics,omitempty"`
	Output      string            `json:"output,omitempty"`
	Praise      *models.Praise    `json:"praise,omitempty"`
}

func newRenderSummary(render *templates.Render, output string) renderSummary {
	meta, _ := render.Metadata()
	plain, _ := render.PlainText()
	summary := renderSummary{
		Title:       render.Title(),
		Filename:    render.Filename(),
		Message:     render.Message(),
		Metadata:    meta,
		PlainText:   plain,
		Diagnostics: render.Diagnostics(),
		Output:      output,
		Praise:      render.Praise,
	}
	if render.Template != nil {
		summary.Template = render.Template.Name
	}
	return summary
}
