package raster

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeExecutor struct {
	stdout []byte
	stderr []byte
	err    error

	name  string
	args  []string
	stdin []byte
}

func (f *fakeExecutor) Exec(ctx context.Context, stdin []byte, name string, args ...string) ([]byte, []byte, error) {
	f.name = name
	f.args = args
	f.stdin = stdin
	return f.stdout, f.stderr, f.err
}

func TestCommandConverterPNG(t *testing.T) {
	exec := &fakeExecutor{stdout: []byte("\x89PNG")}
	conv := NewCommandConverter("", exec)

	out, err := Convert(context.Background(), conv, FormatPNG, []byte("<svg/>"))
	require.NoError(t, err)
	require.Equal(t, []byte("\x89PNG"), out)
	require.Equal(t, DefaultCommand, exec.name)
	require.Equal(t, []string{"--format", "png"}, exec.args)
	require.Equal(t, []byte("<svg/>"), exec.stdin)
}

func TestCommandConverterFailure(t *testing.T) {
	exec := &fakeExecutor{stderr: []byte("Error reading SVG"), err: errors.New("exit status 1")}
	conv := NewCommandConverter("rsvg-convert", exec)

	_, err := conv.PDF(context.Background(), []byte("<svg"))
	var convErr *RasterConversionError
	require.True(t, errors.As(err, &convErr))
	require.Equal(t, FormatPDF, convErr.Format)
	require.Contains(t, err.Error(), "Error reading SVG")
}

func TestConvertWrapsPlainErrors(t *testing.T) {
	_, err := Convert(context.Background(), nil, FormatPNG, nil)
	var convErr *RasterConversionError
	require.True(t, errors.As(err, &convErr))

	_, err = Convert(context.Background(), NewCommandConverter("x", &fakeExecutor{}), FormatPNG, []byte("<svg/>"))
	require.True(t, errors.As(err, &convErr))

	_, err = Convert(context.Background(), NewCommandConverter("x", &fakeExecutor{stdout: []byte("x")}), Format("gif"), nil)
	require.True(t, errors.As(err, &convErr))
}
