package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/masoncj/praisebot/internal/config"
	"github.com/masoncj/praisebot/internal/logging"
	"github.com/masoncj/praisebot/internal/parse"
	"github.com/masoncj/praisebot/internal/pipeline"
	"github.com/masoncj/praisebot/internal/raster"
	"github.com/masoncj/praisebot/internal/templates"
)

func TestMain(m *testing.M) {
	logging.Disable()
	os.Exit(m.Run())
}

func TestReadCommands(t *testing.T) {
	cmds, err := readCommands(strings.NewReader("@praisebot thank @a\n\n# comment\n  @praisebot thank @b for tea  \n"))
	require.NoError(t, err)
	require.Equal(t, []batchCommand{
		{Line: 1, Text: "@praisebot thank @a"},
		{Line: 4, Text: "@praisebot thank @b for tea"},
	}, cmds)
}

func TestUniqueName(t *testing.T) {
	b := &batchRun{names: map[string]int{}}
	require.Equal(t, "thank-cmason", b.uniqueName("thank-cmason"))
	require.Equal(t, "thank-cmason-2", b.uniqueName("thank-cmason"))
	require.Equal(t, "a_b_c", b.uniqueName("a/b\\c"))
	require.Equal(t, "praise", b.uniqueName(".."))
}

func TestParseFormat(t *testing.T) {
	for _, value := range []string{"svg", "PNG", " pdf "} {
		_, err := parseFormat(value)
		require.NoError(t, err, value)
	}
	_, err := parseFormat("gif")
	var preflight *PreflightError
	require.True(t, errors.As(err, &preflight))
}

func TestExitCode(t *testing.T) {
	require.Equal(t, exitUsage, exitCode(&parse.Error{Input: "x", Expected: "'@' or '<@'"}))
	require.Equal(t, exitUsage, exitCode(&templates.TemplateNotFoundError{Name: "x"}))
	require.Equal(t, exitTemplate, exitCode(&templates.RenderParseError{Template: "x", Err: errors.New("bad")}))
	require.Equal(t, exitConverter, exitCode(&raster.RasterConversionError{Format: raster.FormatPNG, Err: errors.New("bad")}))
	require.Equal(t, exitFailure, exitCode(errors.New("boom")))
}

func TestCaretLine(t *testing.T) {
	err := &parse.Error{Input: "@bot thank", Offset: 10, Expected: "recipient"}
	require.Equal(t, "  @bot thank\n            ^", caretLine(err))
}

func TestWriteTableAlignsStyledCells(t *testing.T) {
	var out bytes.Buffer
	paint := func(row, col int, text string) string {
		if row < 0 {
			return text
		}
		return "\x1b[31m" + text + "\x1b[0m"
	}
	err := writeTable(&out, []string{"NAME", "SOURCE", "STATUS"}, [][]string{
		{"a", "builtin:a.svg", "ok"},
		{"longer", "x", "broken"},
	}, paint)
	require.NoError(t, err)

	plain := regexp.MustCompile(`\x1b\[[0-9;]*m`).ReplaceAllString(out.String(), "")
	require.Equal(t, "NAME    SOURCE         STATUS\n"+
		"a       builtin:a.svg  ok\n"+
		"longer  x              broken\n", plain)
	require.Contains(t, out.String(), "\x1b[31mlonger\x1b[0m  ")
}

func TestListTemplates(t *testing.T) {
	locator := templates.NewLocator(nil, fstest.MapFS{
		"good.svg": {Data: []byte("<svg/>")},
		"bad.svg":  {Data: []byte("{{#if")},
	})
	infos, err := listTemplates(locator)
	require.NoError(t, err)
	require.Len(t, infos, 2)
	require.Equal(t, "bad", infos[0].Name)
	require.NotEmpty(t, infos[0].Error)
	require.Equal(t, templateInfo{Name: "good", Path: "builtin:good.svg"}, infos[1])
}

func TestBatchRun(t *testing.T) {
	renderer := pipeline.New(templates.NewLocator(nil, fstest.MapFS{
		"thank.svg": {Data: []byte(`<svg><title>thanks {{recipient}}</title><metadata><filename>thank-{{text}}</filename></metadata></svg>`)},
	}), nil, nil)
	renderer.Now = func() time.Time { return time.Date(2024, 3, 5, 14, 7, 0, 0, time.UTC) }

	outDir := t.TempDir()
	b := &batchRun{renderer: renderer, format: formatSVG, outDir: outDir, limit: 2}
	results, err := b.run(context.Background(), []batchCommand{
		{Line: 1, Text: "@praisebot thank @a for tea"},
		{Line: 2, Text: "@praisebot wave @b"},
		{Line: 3, Text: "@praisebot thank @c for tea"},
	})
	require.NoError(t, err)
	require.Len(t, results, 3)
	require.Contains(t, results[1].Error, "no such template")

	var files []string
	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	for _, e := range entries {
		files = append(files, e.Name())
	}
	sort.Strings(files)
	require.Equal(t, []string{"thank-tea-2.svg", "thank-tea.svg"}, files)
}

func TestParseCommandJSON(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfgPath := filepath.Join(t.TempDir(), "praisebot.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("render:\n  defaults:\n    color: gold\nlogging:\n  level: error\n"), 0o644))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"--config", cfgPath, "parse", "@praisebot", "thank", "@cmason", "for", "tea", "with", "icon=star"})
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		cfgFile = ""
		logging.Disable()
	})
	require.NoError(t, rootCmd.Execute())

	var record map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &record))
	require.Equal(t, "thank", record["template_name"])
	require.Equal(t, "@cmason", record["recipient"])
	require.Equal(t, map[string]any{"color": "gold", "icon": "star"}, record["variables"])
}

func TestNewAppWithoutDirectory(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Templates.Paths = []string{t.TempDir()}
	a, err := newApp(cfg)
	require.NoError(t, err)
	require.Nil(t, a.resolver)

	cfg.Directory.Path = filepath.Join(t.TempDir(), "missing.yaml")
	_, err = newApp(cfg)
	var preflight *PreflightError
	require.True(t, errors.As(err, &preflight))
}
