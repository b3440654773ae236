package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

type Config struct {
	Level  string
	Format string // "text", "json", "console"
	// File, when set, receives log output instead of Output.
	File   string
	Output io.Writer
}

var (
	once sync.Once
	lg   *slog.Logger
)

// Init installs the process-wide logger once. Later calls are ignored.
func Init(cfg Config) (io.Closer, error) {
	var (
		closer io.Closer = nopCloser{}
		err    error
	)
	once.Do(func() {
		var l *slog.Logger
		l, closer, err = New(cfg)
		if err != nil {
			return
		}
		lg = l
		slog.SetDefault(lg)
	})
	return closer, err
}

// New builds a logger without touching the process default. The returned
// closer releases the log file, if one was opened.
func New(cfg Config) (*slog.Logger, io.Closer, error) {
	out := cfg.Output
	var closer io.Closer = nopCloser{}
	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		out, closer = f, f
	}
	if out == nil {
		out = os.Stdout
	}

	level := parseLevel(cfg.Level)
	var handler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "json":
		handler = slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level})
	case "text":
		handler = slog.NewTextHandler(out, &slog.HandlerOptions{Level: level})
	default:
		handler = &consoleHandler{w: out, mu: &sync.Mutex{}, level: level}
	}
	return slog.New(handler), closer, nil
}

func L() *slog.Logger {
	if lg == nil {
		_, _ = Init(Config{Level: "debug", Format: "console"})
	}
	if lg == nil {
		return slog.Default()
	}
	return lg
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func parseLevel(levelStr string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// consoleHandler outputs human-friendly log lines:
//
//	12:00:00 DEBUG Wall-run started  component=movement side=left tick=42
type consoleHandler struct {
	w     io.Writer
	mu    *sync.Mutex
	level slog.Level
	attrs []slog.Attr
	group string
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *consoleHandler) Handle(_ context.Context, r slog.Record) error {
	var sb strings.Builder
	sb.WriteString(r.Time.Format(time.TimeOnly))
	sb.WriteByte(' ')
	sb.WriteString(levelTag(r.Level))
	sb.WriteByte(' ')
	sb.WriteString(r.Message)

	for _, a := range h.attrs {
		sb.WriteString(formatAttr(h.group, a))
	}
	r.Attrs(func(a slog.Attr) bool {
		sb.WriteString(formatAttr(h.group, a))
		return true
	})
	sb.WriteByte('\n')

	if h.mu != nil {
		h.mu.Lock()
		defer h.mu.Unlock()
	}
	_, err := io.WriteString(h.w, sb.String())
	return err
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &consoleHandler{
		w:     h.w,
		mu:    h.mu,
		level: h.level,
		attrs: append(append([]slog.Attr{}, h.attrs...), attrs...),
		group: h.group,
	}
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	prefix := name
	if h.group != "" {
		prefix = h.group + "." + name
	}
	return &consoleHandler{
		w:     h.w,
		mu:    h.mu,
		level: h.level,
		attrs: append([]slog.Attr{}, h.attrs...),
		group: prefix,
	}
}

func levelTag(l slog.Level) string {
	switch {
	case l >= slog.LevelError:
		return "ERROR"
	case l >= slog.LevelWarn:
		return "WARN "
	case l >= slog.LevelInfo:
		return "INFO "
	default:
		return "DEBUG"
	}
}

func formatAttr(group string, a slog.Attr) string {
	key := a.Key
	if group != "" {
		key = group + "." + key
	}
	return "  " + key + "=" + formatValue(a.Value)
}

// formatValue keeps floats and vectors short enough for a status line.
func formatValue(v slog.Value) string {
	v = v.Resolve()
	switch v.Kind() {
	case slog.KindFloat64:
		return strconv.FormatFloat(v.Float64(), 'f', 3, 64)
	case slog.KindAny:
		switch x := v.Any().(type) {
		case mgl64.Vec3:
			return fmt.Sprintf("(%.3f,%.3f,%.3f)", x[0], x[1], x[2])
		case mgl64.Vec2:
			return fmt.Sprintf("(%.3f,%.3f)", x[0], x[1])
		}
	}
	return v.String()
}
