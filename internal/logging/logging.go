// SPDX-License-Identifier: MPL-2.0

// Package logging builds the process logger: a log/slog front-end backed by a
// charmbracelet/log handler.
package logging

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/charmbracelet/log"
)

// Prefix is printed in front of every record.
const Prefix = "cgwdict"

// ErrUnknownFormat is returned for a format other than text, json or logfmt.
var ErrUnknownFormat = errors.New("unknown log format")

// Options configures New. Zero values select warn level and text format.
type Options struct {
	Level  string
	Format string
	// Timestamps adds the record time to every line.
	Timestamps bool
}

// New returns a logger writing to w.
func New(w io.Writer, opts Options) (*slog.Logger, error) {
	level := log.WarnLevel
	if opts.Level != "" {
		var err error
		if level, err = log.ParseLevel(opts.Level); err != nil {
			return nil, fmt.Errorf("log level %q: %w", opts.Level, err)
		}
	}

	formatter, err := parseFormat(opts.Format)
	if err != nil {
		return nil, err
	}

	handler := log.NewWithOptions(w, log.Options{
		Prefix:          Prefix,
		Level:           level,
		Formatter:       formatter,
		ReportTimestamp: opts.Timestamps,
	})
	return slog.New(handler), nil
}

// Install makes a logger built from opts the slog default.
func Install(w io.Writer, opts Options) error {
	logger, err := New(w, opts)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)
	return nil
}

func parseFormat(format string) (log.Formatter, error) {
	switch format {
	case "", "text":
		return log.TextFormatter, nil
	case "json":
		return log.JSONFormatter, nil
	case "logfmt":
		return log.LogfmtFormatter, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}
