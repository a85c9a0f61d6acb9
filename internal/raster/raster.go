// Package raster converts rendered SVG markup into PNG and PDF bytes.
package raster

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/masoncj/praisebot/internal/logging"
)

// Format is an output format.
type Format string

const (
	FormatPNG Format = "png"
	FormatPDF Format = "pdf"
)

// DefaultCommand is the converter binary used when none is configured.
const DefaultCommand = "rsvg-convert"

// Converter turns SVG markup into raster or document bytes.
type Converter interface {
	PNG(ctx context.Context, svg []byte) ([]byte, error)
	PDF(ctx context.Context, svg []byte) ([]byte, error)
}

// RasterConversionError reports markup the converter could not handle.
type RasterConversionError struct {
	Format Format
	Err    error
}

func (e *RasterConversionError) Error() string {
	return fmt.Sprintf("convert svg to %s: %v", e.Format, e.Err)
}

func (e *RasterConversionError) Unwrap() error {
	return e.Err
}

// Convert runs conv for format and wraps any failure in a RasterConversionError.
func Convert(ctx context.Context, conv Converter, format Format, svg []byte) ([]byte, error) {
	if conv == nil {
		return nil, &RasterConversionError{Format: format, Err: errors.New("no converter configured")}
	}

	var (
		out []byte
		err error
	)
	switch format {
	case FormatPNG:
		out, err = conv.PNG(ctx, svg)
	case FormatPDF:
		out, err = conv.PDF(ctx, svg)
	default:
		err = fmt.Errorf("unsupported format %q", format)
	}
	if err != nil {
		var convErr *RasterConversionError
		if errors.As(err, &convErr) {
			return nil, err
		}
		return nil, &RasterConversionError{Format: format, Err: err}
	}
	if len(out) == 0 {
		return nil, &RasterConversionError{Format: format, Err: errors.New("converter produced no output")}
	}
	return out, nil
}

// Executor runs an external command with stdin and returns its stdout.
type Executor interface {
	Exec(ctx context.Context, stdin []byte, name string, args ...string) (stdout, stderr []byte, err error)
}

// LocalExecutor runs commands on the local machine.
type LocalExecutor struct{}

// Exec implements Executor.
func (LocalExecutor) Exec(ctx context.Context, stdin []byte, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = bytes.NewReader(stdin)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

// CommandConverter converts through an rsvg-convert compatible command that
// reads SVG on stdin and writes the result to stdout.
type CommandConverter struct {
	Command string
	exec    Executor
}

// NewCommandConverter creates a converter for command. A nil exec runs
// commands locally.
func NewCommandConverter(command string, exec Executor) *CommandConverter {
	if strings.TrimSpace(command) == "" {
		command = DefaultCommand
	}
	if exec == nil {
		exec = LocalExecutor{}
	}
	return &CommandConverter{Command: command, exec: exec}
}

// PNG implements Converter.
func (c *CommandConverter) PNG(ctx context.Context, svg []byte) ([]byte, error) {
	return c.run(ctx, FormatPNG, svg)
}

// PDF implements Converter.
func (c *CommandConverter) PDF(ctx context.Context, svg []byte) ([]byte, error) {
	return c.run(ctx, FormatPDF, svg)
}

func (c *CommandConverter) run(ctx context.Context, format Format, svg []byte) ([]byte, error) {
	logger := logging.Component("raster")

	stdout, stderr, err := c.exec.Exec(ctx, svg, c.Command, "--format", string(format))
	if err != nil {
		logger.Debug().
			Str("command", c.Command).
			Str("format", string(format)).
			Str("stderr", strings.TrimSpace(string(stderr))).
			Msg("conversion command failed")
		if msg := strings.TrimSpace(string(stderr)); msg != "" {
			err = fmt.Errorf("%s: %w: %s", c.Command, err, msg)
		} else {
			err = fmt.Errorf("%s: %w", c.Command, err)
		}
		return nil, &RasterConversionError{Format: format, Err: err}
	}
	return stdout, nil
}
