// Package report renders identity reports for the main and worker threads.
package report

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/goccy/go-json"

	"create-thread/internal/identity"
)

const (
	RoleMain   = "main"
	RoleThread = "thread"
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

// Reporter writes identity reports. Implementations are safe for concurrent
// use; every call produces whole lines with a single write.
type Reporter interface {
	Main(ctx identity.Context) error
	Worker(ctx identity.Context, message string) error
}

// ParseFormat normalises a format name, defaulting to text.
func ParseFormat(raw string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON, "jsonl":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want %s or %s)", raw, FormatText, FormatJSON)
	}
}

// New returns a Reporter for format writing to w.
func New(w io.Writer, format string) (Reporter, error) {
	format, err := ParseFormat(format)
	if err != nil {
		return nil, err
	}
	out := &lockedWriter{w: w}
	if format == FormatJSON {
		return &jsonReporter{out: out}, nil
	}
	return &textReporter{out: out}, nil
}

type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (lw *lockedWriter) write(p []byte) error {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	_, err := lw.w.Write(p)
	return err
}

type textReporter struct {
	out *lockedWriter
}

func (r *textReporter) Main(ctx identity.Context) error {
	return r.out.write([]byte(identityLine(RoleMain, ctx)))
}

// Worker emits the identity and message lines in one write so they stay
// adjacent in the output.
func (r *textReporter) Worker(ctx identity.Context, message string) error {
	var b strings.Builder
	b.WriteString(identityLine(RoleThread, ctx))
	fmt.Fprintf(&b, "[%s] Message from main thread: %s\n", RoleThread, message)
	return r.out.write([]byte(b.String()))
}

func identityLine(role string, ctx identity.Context) string {
	return fmt.Sprintf("[%s] PID = %d; PPID = %d\n", role, ctx.PID, ctx.PPID)
}

// Record is the JSON shape of one report.
type Record struct {
	Role      string `json:"role"`
	PID       int    `json:"pid"`
	PPID      int    `json:"ppid"`
	TID       int    `json:"tid,omitempty"`
	ParentTID int    `json:"parent_tid,omitempty"`
	Message   string `json:"message,omitempty"`
}

type jsonReporter struct {
	out *lockedWriter
}

func (r *jsonReporter) Main(ctx identity.Context) error {
	return r.emit(Record{Role: RoleMain, PID: ctx.PID, PPID: ctx.PPID, TID: ctx.TID})
}

func (r *jsonReporter) Worker(ctx identity.Context, message string) error {
	return r.emit(Record{
		Role:      RoleThread,
		PID:       ctx.PID,
		PPID:      ctx.PPID,
		TID:       ctx.TID,
		ParentTID: ctx.ParentTID,
		Message:   message,
	})
}

func (r *jsonReporter) emit(rec Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode %s report: %w", rec.Role, err)
	}
	return r.out.write(append(data, '\n'))
}
