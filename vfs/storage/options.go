package storage

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/youscentia/ydb-fsenv/vfs"
)

// ChecksumType identifies the hand-off checksum carried in
// vfs.DataVerificationInfo. Values match the checksum package.
type ChecksumType int

const (
	ChecksumNone ChecksumType = iota
	ChecksumCRC32c
	ChecksumXXHash64
	ChecksumXXH3
)

// IOOptions carries per-call settings. The zero value means no deadline.
type IOOptions struct {
	Timeout time.Duration
}

// Context returns a context bounded by Timeout. The cancel func must always
// be called.
func (o IOOptions) Context() (context.Context, context.CancelFunc) {
	if o.Timeout > 0 {
		return context.WithTimeout(context.Background(), o.Timeout)
	}
	return context.WithCancel(context.Background())
}

type FileOptions struct {
	vfs.EnvOptions

	IO                  IOOptions
	HandoffChecksumType ChecksumType
}

func NewFileOptions(opts vfs.EnvOptions) FileOptions {
	return FileOptions{EnvOptions: opts}
}

type TraceFlag uint64

const TraceRequestID TraceFlag = 1 << iota

// IODebugContext is filled in by a backend during a call and read by the
// caller afterwards.
type IODebugContext struct {
	FilePath  string
	Counters  map[string]uint64
	Msg       string
	RequestID string
	TraceData TraceFlag

	// SpanContext identifies the trace span that served the call, if any.
	SpanContext trace.SpanContext
}

func (d *IODebugContext) AddCounter(name string, value uint64) {
	if d == nil {
		return
	}
	if d.Counters == nil {
		d.Counters = make(map[string]uint64)
	}
	d.Counters[name] += value
}

func (d *IODebugContext) SetRequestID(id string) {
	if d == nil {
		return
	}
	d.RequestID = id
	d.TraceData |= TraceRequestID
}
