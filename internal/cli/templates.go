package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/masoncj/praisebot/internal/templates"
)

func init() {
	rootCmd.AddCommand(templatesCmd)
}

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List available templates",
	Long:  "List every template on the search paths, where it was found and whether it compiles.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(GetConfig())
		if err != nil {
			return err
		}

		infos, err := listTemplates(a.templates)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if IsJSONOutput() {
			return WriteOutput(out, infos)
		}

		style := defaultStyles()
		if len(infos) == 0 {
			fmt.Fprintln(out, style.Muted.Render("no templates found"))
			return nil
		}

		fmt.Fprintln(out, style.Title.Render(fmt.Sprintf("Templates (%d)", len(infos))))
		rows := make([][]string, 0, len(infos))
		for _, info := range infos {
			status := "ok"
			if info.Error != "" {
				status = info.Error
			}
			rows = append(rows, []string{info.Name, info.Path, status})
		}
		return writeTable(out, []string{"NAME", "SOURCE", "STATUS"}, rows, templatePainter(style, infos))
	},
}

func templatePainter(style styles, infos []templateInfo) cellPainter {
	return func(row, col int, text string) string {
		switch {
		case row < 0:
			return text
		case col == 1:
			return style.Muted.Render(text)
		case col == 2 && infos[row].Error != "":
			return style.Error.Render(text)
		case col == 2:
			return style.Success.Render(text)
		default:
			return text
		}
	}
}

type templateInfo struct {
	Name  string `json:"name"`
	Path  string `json:"path,omitempty"`
	Error string `json:"error,omitempty"`
}

func listTemplates(src templates.TemplateSource) ([]templateInfo, error) {
	names, err := src.List()
	if err != nil {
		return nil, err
	}

	infos := make([]templateInfo, 0, len(names))
	for _, name := range names {
		info := templateInfo{Name: name}
		tmpl, err := src.Locate(name)
		var syntaxErr *templates.TemplateSyntaxError
		switch {
		case err == nil:
			info.Path = tmpl.Path
		case errors.As(err, &syntaxErr):
			info.Path = syntaxErr.Path
			info.Error = syntaxErr.Message
		default:
			info.Error = err.Error()
		}
		infos = append(infos, info)
	}
	return infos, nil
}
