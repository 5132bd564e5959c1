package logx

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"gopkg.in/natefinch/lumberjack.v2"
)

var Error = tint.Err //nolint:gochecknoglobals

func Stringer(name string, value fmt.Stringer) slog.Attr {
	return slog.String(name, value.String())
}

// Options describes where the process logger writes. An empty File keeps
// output on stdout only.
type Options struct {
	Level      slog.Level
	File       string
	MaxSizeMB  int
	MaxBackups int
}

// NewLogger builds a tint logger. With a log file configured records are
// duplicated into a size-rotated file and colors are turned off.
func NewLogger(opts Options) (*slog.Logger, io.Closer) {
	var (
		w      io.Writer = os.Stdout
		closer io.Closer = io.NopCloser(nil)
	)

	if opts.File != "" {
		rotator := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
		}
		w = io.MultiWriter(os.Stdout, rotator)
		closer = rotator
	}

	handler := tint.NewHandler(w, &tint.Options{
		AddSource:  true,
		Level:      opts.Level,
		TimeFormat: time.DateTime,
		NoColor:    opts.File != "",
	})

	return slog.New(handler), closer
}
