// Package instrumented decorates a storage.FileSystem with Prometheus
// metrics, OpenTelemetry spans and debug logging. Handles created through
// the decorator are decorated as well.
//
// Each call also fills the caller's storage.IODebugContext, if one is given:
// the file path and a request id are set when empty, the span context is
// recorded and byte counters are accumulated under "bytes_read" and
// "bytes_written".
package instrumented

import (
	"context"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/youscentia/ydb-fsenv/vfs/storage"
)

const (
	CounterBytesRead    = "bytes_read"
	CounterBytesWritten = "bytes_written"
)

var _ storage.FileSystem = (*FileSystem)(nil)

type FileSystem struct {
	fs      storage.FileSystem
	logger  log.Logger
	tracer  trace.Tracer
	metrics *metrics
}

func New(fs storage.FileSystem, opts ...Option) *FileSystem {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return &FileSystem{
		fs:      fs,
		logger:  log.With(o.logger, "fs", fs.Name()),
		tracer:  o.tracerProvider.Tracer("github.com/youscentia/ydb-fsenv/vfs/instrumented"),
		metrics: newMetrics(o.reg),
	}
}

// Unwrap returns the decorated file system.
func (f *FileSystem) Unwrap() storage.FileSystem { return f.fs }

func (f *FileSystem) Name() string { return f.fs.Name() }

// call tracks one observed operation from begin to done.
type call struct {
	fs    *FileSystem
	op    string
	path  string
	dbg   *storage.IODebugContext
	span  trace.Span
	start time.Time
	n     int
}

func (f *FileSystem) begin(op, path string, dbg *storage.IODebugContext) *call {
	_, span := f.tracer.Start(context.Background(), "storage."+op,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String("file", path)),
	)
	if dbg != nil {
		if dbg.FilePath == "" {
			dbg.FilePath = path
		}
		if dbg.RequestID == "" {
			dbg.SetRequestID(uuid.NewString())
		}
		dbg.SpanContext = span.SpanContext()
	}
	return &call{fs: f, op: op, path: path, dbg: dbg, span: span, start: time.Now()}
}

func (c *call) read(n int) *call {
	c.n += n
	c.dbg.AddCounter(CounterBytesRead, uint64(n))
	return c
}

func (c *call) written(n int) *call {
	c.n += n
	c.dbg.AddCounter(CounterBytesWritten, uint64(n))
	return c
}

// done records the outcome of the call and returns err unchanged.
func (c *call) done(err error) error {
	m := c.fs.metrics
	result := "ok"
	if err != nil {
		result = "error"
		c.span.RecordError(err)
		c.span.SetStatus(codes.Error, err.Error())
		level.Debug(c.fs.logger).Log("msg", "storage operation failed", "op", c.op, "file", c.path, "err", err)
	}
	if c.n > 0 {
		m.bytes.WithLabelValues(c.op).Add(float64(c.n))
		c.span.SetAttributes(attribute.Int("bytes", c.n))
	}
	m.operations.WithLabelValues(c.op, result).Inc()
	m.duration.WithLabelValues(c.op).Observe(time.Since(c.start).Seconds())
	c.span.End()
	return err
}

func (f *FileSystem) NewSequentialFile(fname string, opts storage.FileOptions, dbg *storage.IODebugContext) (storage.SequentialFile, error) {
	c := f.begin("NewSequentialFile", fname, dbg)
	file, err := f.fs.NewSequentialFile(fname, opts, dbg)
	if err := c.done(err); err != nil {
		return nil, err
	}
	return &sequentialFile{SequentialFile: file, fs: f, name: fname}, nil
}

func (f *FileSystem) NewRandomAccessFile(fname string, opts storage.FileOptions, dbg *storage.IODebugContext) (storage.RandomAccessFile, error) {
	c := f.begin("NewRandomAccessFile", fname, dbg)
	file, err := f.fs.NewRandomAccessFile(fname, opts, dbg)
	if err := c.done(err); err != nil {
		return nil, err
	}
	return &randomAccessFile{RandomAccessFile: file, fs: f, name: fname}, nil
}

func (f *FileSystem) NewWritableFile(fname string, opts storage.FileOptions, dbg *storage.IODebugContext) (storage.WritableFile, error) {
	c := f.begin("NewWritableFile", fname, dbg)
	file, err := f.fs.NewWritableFile(fname, opts, dbg)
	if err := c.done(err); err != nil {
		return nil, err
	}
	return &writableFile{WritableFile: file, fs: f, name: fname}, nil
}

func (f *FileSystem) ReopenWritableFile(fname string, opts storage.FileOptions, dbg *storage.IODebugContext) (storage.WritableFile, error) {
	c := f.begin("ReopenWritableFile", fname, dbg)
	file, err := f.fs.ReopenWritableFile(fname, opts, dbg)
	if err := c.done(err); err != nil {
		return nil, err
	}
	return &writableFile{WritableFile: file, fs: f, name: fname}, nil
}

func (f *FileSystem) ReuseWritableFile(fname, oldFname string, opts storage.FileOptions, dbg *storage.IODebugContext) (storage.WritableFile, error) {
	c := f.begin("ReuseWritableFile", fname, dbg)
	file, err := f.fs.ReuseWritableFile(fname, oldFname, opts, dbg)
	if err := c.done(err); err != nil {
		return nil, err
	}
	return &writableFile{WritableFile: file, fs: f, name: fname}, nil
}

func (f *FileSystem) NewRandomRWFile(fname string, opts storage.FileOptions, dbg *storage.IODebugContext) (storage.RandomRWFile, error) {
	c := f.begin("NewRandomRWFile", fname, dbg)
	file, err := f.fs.NewRandomRWFile(fname, opts, dbg)
	if err := c.done(err); err != nil {
		return nil, err
	}
	return &randomRWFile{RandomRWFile: file, fs: f, name: fname}, nil
}

func (f *FileSystem) NewDirectory(name string, opts storage.IOOptions, dbg *storage.IODebugContext) (storage.Directory, error) {
	c := f.begin("NewDirectory", name, dbg)
	dir, err := f.fs.NewDirectory(name, opts, dbg)
	if err := c.done(err); err != nil {
		return nil, err
	}
	return &directory{Directory: dir, fs: f, name: name}, nil
}

func (f *FileSystem) FileExists(fname string, opts storage.IOOptions, dbg *storage.IODebugContext) error {
	c := f.begin("FileExists", fname, dbg)
	err := f.fs.FileExists(fname, opts, dbg)
	// A missing file is an answer, not a failure.
	if storage.IsNotFound(err) {
		c.done(nil)
		return err
	}
	return c.done(err)
}

func (f *FileSystem) GetChildren(dir string, opts storage.IOOptions, dbg *storage.IODebugContext) ([]string, error) {
	c := f.begin("GetChildren", dir, dbg)
	names, err := f.fs.GetChildren(dir, opts, dbg)
	return names, c.done(err)
}

func (f *FileSystem) DeleteFile(fname string, opts storage.IOOptions, dbg *storage.IODebugContext) error {
	c := f.begin("DeleteFile", fname, dbg)
	return c.done(f.fs.DeleteFile(fname, opts, dbg))
}

func (f *FileSystem) CreateDir(dirname string, opts storage.IOOptions, dbg *storage.IODebugContext) error {
	c := f.begin("CreateDir", dirname, dbg)
	return c.done(f.fs.CreateDir(dirname, opts, dbg))
}

func (f *FileSystem) CreateDirIfMissing(dirname string, opts storage.IOOptions, dbg *storage.IODebugContext) error {
	c := f.begin("CreateDirIfMissing", dirname, dbg)
	return c.done(f.fs.CreateDirIfMissing(dirname, opts, dbg))
}

func (f *FileSystem) DeleteDir(dirname string, opts storage.IOOptions, dbg *storage.IODebugContext) error {
	c := f.begin("DeleteDir", dirname, dbg)
	return c.done(f.fs.DeleteDir(dirname, opts, dbg))
}

func (f *FileSystem) GetFileSize(fname string, opts storage.IOOptions, dbg *storage.IODebugContext) (uint64, error) {
	c := f.begin("GetFileSize", fname, dbg)
	size, err := f.fs.GetFileSize(fname, opts, dbg)
	return size, c.done(err)
}

func (f *FileSystem) GetFileModificationTime(fname string, opts storage.IOOptions, dbg *storage.IODebugContext) (time.Time, error) {
	c := f.begin("GetFileModificationTime", fname, dbg)
	mtime, err := f.fs.GetFileModificationTime(fname, opts, dbg)
	return mtime, c.done(err)
}

func (f *FileSystem) RenameFile(src, target string, opts storage.IOOptions, dbg *storage.IODebugContext) error {
	c := f.begin("RenameFile", src, dbg)
	c.span.SetAttributes(attribute.String("target", target))
	return c.done(f.fs.RenameFile(src, target, opts, dbg))
}
