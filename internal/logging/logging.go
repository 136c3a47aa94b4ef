// Package logging sets up the run logger: every level goes to a per-run file
// under logs/, info and above are mirrored to the console.
package logging

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/mj1618/novelclick/internal/model"
	"github.com/sirupsen/logrus"
	"golang.org/x/term"
)

// TimestampFormat is the line timestamp layout.
const TimestampFormat = "2006-01-02 15:04:05"

// FileLogger is a logger bound to an open log file.
type FileLogger struct {
	*logrus.Logger
	Path string
	file *os.File
}

// Close flushes and closes the log file.
func (l *FileLogger) Close() error {
	if l.file == nil {
		return nil
	}
	if err := l.file.Sync(); err != nil {
		l.file.Close()
		return err
	}
	return l.file.Close()
}

type options struct {
	console io.Writer
	color   *bool
}

// Option configures Setup.
type Option func(*options)

// WithConsole mirrors info and above to w instead of stderr. A nil writer
// disables the mirror.
func WithConsole(w io.Writer) Option {
	return func(o *options) { o.console = w }
}

// WithColor forces console colors on or off.
func WithColor(on bool) Option {
	return func(o *options) { o.color = &on }
}

// Setup creates baseDir/logs/<timestamp>.log and returns a logger writing
// every level to it.
func Setup(baseDir string, now time.Time, opts ...Option) (*FileLogger, error) {
	o := options{console: os.Stderr}
	for _, opt := range opts {
		opt(&o)
	}

	dir := filepath.Join(baseDir, "logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating log dir: %w", err)
	}
	path := filepath.Join(dir, model.FileTimestamp(now)+".log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}

	logger := logrus.New()
	logger.SetOutput(f)
	logger.SetLevel(logrus.DebugLevel)
	logger.SetFormatter(&LineFormatter{})

	if o.console != nil {
		color := isTerminal(o.console)
		if o.color != nil {
			color = *o.color
		}
		logger.AddHook(&ConsoleHook{
			Writer:    o.console,
			Formatter: &LineFormatter{Color: color},
			MinLevel:  logrus.InfoLevel,
		})
	}

	logger.Debugf("logger initialized: %s", path)
	return &FileLogger{Logger: logger, Path: path, file: f}, nil
}

// Discard returns a logger that drops everything.
func Discard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	l.SetLevel(logrus.DebugLevel)
	return l
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// LineFormatter renders "2006-01-02 15:04:05 [LEVEL] message k=v ...".
type LineFormatter struct {
	Color bool
}

func (f *LineFormatter) Format(e *logrus.Entry) ([]byte, error) {
	var b bytes.Buffer
	b.WriteString(e.Time.Format(TimestampFormat))
	b.WriteString(" [")
	level := strings.ToUpper(e.Level.String())
	if f.Color {
		fmt.Fprintf(&b, "\x1b[%dm%s\x1b[0m", levelColor(e.Level), level)
	} else {
		b.WriteString(level)
	}
	b.WriteString("] ")
	b.WriteString(e.Message)

	keys := make([]string, 0, len(e.Data))
	for k := range e.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, e.Data[k])
	}
	b.WriteByte('\n')
	return b.Bytes(), nil
}

func levelColor(l logrus.Level) int {
	switch l {
	case logrus.DebugLevel, logrus.TraceLevel:
		return 37
	case logrus.WarnLevel:
		return 33
	case logrus.ErrorLevel, logrus.FatalLevel, logrus.PanicLevel:
		return 31
	default:
		return 36
	}
}

// ConsoleHook copies entries at MinLevel or more severe to Writer.
type ConsoleHook struct {
	Writer    io.Writer
	Formatter logrus.Formatter
	MinLevel  logrus.Level
}

func (h *ConsoleHook) Levels() []logrus.Level {
	var out []logrus.Level
	for _, l := range logrus.AllLevels {
		if l <= h.MinLevel {
			out = append(out, l)
		}
	}
	return out
}

func (h *ConsoleHook) Fire(e *logrus.Entry) error {
	line, err := h.Formatter.Format(e)
	if err != nil {
		return err
	}
	_, err = h.Writer.Write(line)
	return err
}
