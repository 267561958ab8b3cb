package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"
)

// ANSI color codes used by the handler.
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[90m"
)

// systemKey is the attribute promoted into the bracketed prefix rather
// than rendered as a key=value pair.
const systemKey = "system"

// MavenHandler is a slog.Handler that renders records as
// [LEVEL] [SYSTEM] [HH:MM:SS] message key=value key=value
// with per-level colors when writing to a terminal.
type MavenHandler struct {
	w      io.Writer
	mu     *sync.Mutex
	level  slog.Level
	system string

	showTimestamps bool
	useColors      bool

	prefix string // group path, "a.b." form
	attrs  []slog.Attr
}

// NewMavenHandler creates a handler writing to w. Colors are enabled only
// when w is a terminal.
func NewMavenHandler(w io.Writer, opts *slog.HandlerOptions) *MavenHandler {
	h := &MavenHandler{
		w:              w,
		mu:             &sync.Mutex{},
		level:          slog.LevelInfo,
		showTimestamps: true,
		useColors:      isTerminal(w),
	}
	if opts != nil && opts.Level != nil {
		h.level = opts.Level.Level()
	}
	return h
}

func isTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

// Enabled reports whether the handler handles records at the given level.
func (h *MavenHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

// Handle renders and writes a single record.
func (h *MavenHandler) Handle(_ context.Context, r slog.Record) error {
	var buf strings.Builder

	h.writeColored(&buf, "["+levelString(r.Level)+"]", levelColor(r.Level))

	if h.system != "" {
		buf.WriteString(" [")
		buf.WriteString(h.system)
		buf.WriteString("]")
	}

	if h.showTimestamps {
		h.writeColored(&buf, " ["+r.Time.Format("15:04:05")+"]", colorGray)
	}

	buf.WriteString(" ")
	buf.WriteString(r.Message)

	for _, attr := range h.attrs {
		h.appendAttr(&buf, attr)
	}
	r.Attrs(func(a slog.Attr) bool {
		h.appendAttr(&buf, a)
		return true
	})

	buf.WriteString("\n")

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, buf.String())
	return err
}

func (h *MavenHandler) writeColored(buf *strings.Builder, s, color string) {
	if h.useColors {
		buf.WriteString(color)
	}
	buf.WriteString(s)
	if h.useColors {
		buf.WriteString(colorReset)
	}
}

// appendAttr writes one key=value pair, qualified by the group path. The
// system attribute is skipped; it already appears in the bracket prefix.
func (h *MavenHandler) appendAttr(buf *strings.Builder, a slog.Attr) {
	if a.Key == systemKey {
		return
	}
	buf.WriteString(" ")
	buf.WriteString(h.prefix)
	buf.WriteString(a.Key)
	buf.WriteString("=")
	buf.WriteString(fmt.Sprint(a.Value.Any()))
}

// WithAttrs returns a handler carrying the extra attributes. A "system"
// attribute is promoted into the bracketed prefix instead.
func (h *MavenHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := h.clone()
	for _, attr := range attrs {
		if attr.Key == systemKey {
			out.system = attr.Value.String()
			continue
		}
		out.attrs = append(out.attrs, attr)
	}
	return out
}

// WithGroup returns a handler that qualifies subsequent attribute keys
// with the group name.
func (h *MavenHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	out := h.clone()
	out.prefix = h.prefix + name + "."
	return out
}

func (h *MavenHandler) clone() *MavenHandler {
	out := *h
	out.attrs = append([]slog.Attr(nil), h.attrs...)
	return &out
}

func levelColor(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return colorRed
	case level >= slog.LevelWarn:
		return colorYellow
	case level >= slog.LevelInfo:
		return colorCyan
	default:
		return colorGray
	}
}

func levelString(level slog.Level) string {
	switch level {
	case slog.LevelDebug:
		return "DEBUG"
	case slog.LevelInfo:
		return "INFO"
	case slog.LevelWarn:
		return "WARN"
	case slog.LevelError:
		return "ERROR"
	default:
		return fmt.Sprintf("LEVEL(%d)", level)
	}
}
