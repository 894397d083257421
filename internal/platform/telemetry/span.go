package telemetry

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"sync"
	"time"
)

// Span statuses as reported on recorded spans.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Span is one finished server span. Attribute names follow the
// OpenTelemetry HTTP semantic conventions so the data stays meaningful
// if an exporter is ever added.
type Span struct {
	TraceID    string            `json:"trace_id"`
	SpanID     string            `json:"span_id"`
	Name       string            `json:"name"`
	Start      time.Time         `json:"start"`
	End        time.Time         `json:"end"`
	Duration   time.Duration     `json:"duration"`
	Status     string            `json:"status"`
	Attributes map[string]string `json:"attributes"`
}

// spanBuffer is a fixed-size ring of recent spans. Once full, new spans
// overwrite the oldest, so memory stays bounded on long-running
// processes no matter the traffic.
type spanBuffer struct {
	mu   sync.Mutex
	ring []*Span
	next int
	full bool
}

func newSpanBuffer(size int) *spanBuffer {
	return &spanBuffer{ring: make([]*Span, size)}
}

func (b *spanBuffer) add(s *Span) {
	b.mu.Lock()
	b.ring[b.next] = s
	b.next = (b.next + 1) % len(b.ring)
	if b.next == 0 {
		b.full = true
	}
	b.mu.Unlock()
}

// all returns the retained spans, oldest first.
func (b *spanBuffer) all() []*Span {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.full {
		return append([]*Span(nil), b.ring[:b.next]...)
	}
	out := make([]*Span, 0, len(b.ring))
	out = append(out, b.ring[b.next:]...)
	return append(out, b.ring[:b.next]...)
}

// randHex returns n random bytes hex encoded. Trace IDs use 16 bytes
// and span IDs 8, matching W3C trace context widths.
func randHex(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		// An ID must never fail the request it describes.
		return strings.Repeat("0", 2*n)
	}
	return hex.EncodeToString(buf)
}
