package adapters

import (
	"fmt"
	"io"

	"golang.org/x/sync/errgroup"

	"github.com/youscentia/ydb-fsenv/vfs"
	"github.com/youscentia/ydb-fsenv/vfs/checksum"
	"github.com/youscentia/ydb-fsenv/vfs/storage"
)

// object is a read handle on one immutable object of known size.
type object struct {
	a    *BucketAdapter
	name string
	size uint64
}

func (o *object) readAt(opts storage.IOOptions, offset uint64, n int, scratch []byte) ([]byte, error) {
	if n < 0 {
		return nil, storage.InvalidArgument("read", o.name, "negative length %d", n)
	}
	if len(scratch) < n {
		return nil, storage.InvalidArgument("read", o.name, "scratch holds %d bytes, want %d", len(scratch), n)
	}
	if n == 0 || offset >= o.size {
		return scratch[:0], nil
	}
	if rest := o.size - offset; uint64(n) > rest {
		n = int(rest)
	}

	ctx, cancel := opts.Context()
	defer cancel()
	rc, err := o.a.bkt.GetRange(ctx, o.name, int64(offset), int64(n))
	if err != nil {
		return nil, o.a.mapError("get range", o.name, err)
	}
	m, err := io.ReadFull(rc, scratch[:n])
	if closeErr := rc.Close(); err == nil {
		err = closeErr
	}
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		err = nil
	}
	if err != nil {
		return scratch[:m], o.a.mapError("get range", o.name, err)
	}
	return scratch[:m], nil
}

type bucketSequentialFile struct {
	*object
	pos uint64
}

func (f *bucketSequentialFile) Read(n int, opts storage.IOOptions, scratch []byte, _ *storage.IODebugContext) ([]byte, error) {
	res, err := f.readAt(opts, f.pos, n, scratch)
	f.pos += uint64(len(res))
	return res, err
}

func (f *bucketSequentialFile) Skip(n uint64) error {
	f.pos = min(f.pos+n, f.size)
	return nil
}

func (f *bucketSequentialFile) PositionedRead(offset uint64, n int, opts storage.IOOptions, scratch []byte, _ *storage.IODebugContext) ([]byte, error) {
	return f.readAt(opts, offset, n, scratch)
}

func (f *bucketSequentialFile) UseDirectIO() bool                                      { return false }
func (f *bucketSequentialFile) RequiredBufferAlignment() int                           { return storage.DefaultPageSize }
func (f *bucketSequentialFile) InvalidateCache(int, int) error                         { return nil }
func (f *bucketSequentialFile) Close(storage.IOOptions, *storage.IODebugContext) error { return nil }

type bucketRandomAccessFile struct {
	*object
	concurrency int
}

func (f *bucketRandomAccessFile) Read(offset uint64, n int, opts storage.IOOptions, scratch []byte, _ *storage.IODebugContext) ([]byte, error) {
	return f.readAt(opts, offset, n, scratch)
}

// MultiRead fetches the ranges concurrently. Each goroutine only touches its
// own request, so completion order does not affect where results land.
func (f *bucketRandomAccessFile) MultiRead(reqs []storage.ReadRequest, opts storage.IOOptions, _ *storage.IODebugContext) error {
	var g errgroup.Group
	g.SetLimit(f.concurrency)
	for i := range reqs {
		r := &reqs[i]
		g.Go(func() error {
			r.Result, r.Status = f.readAt(opts, r.Offset, r.Len, r.Scratch)
			return nil
		})
	}
	return g.Wait()
}

func (f *bucketRandomAccessFile) Prefetch(uint64, int, storage.IOOptions, *storage.IODebugContext) error {
	return nil
}

// GetUniqueId returns 0: an object name can be reused after deletion, so it
// is not a stable identity.
func (f *bucketRandomAccessFile) GetUniqueId([]byte) int         { return 0 }
func (f *bucketRandomAccessFile) Hint(storage.AccessPattern)     {}
func (f *bucketRandomAccessFile) UseDirectIO() bool              { return false }
func (f *bucketRandomAccessFile) RequiredBufferAlignment() int   { return storage.DefaultPageSize }
func (f *bucketRandomAccessFile) InvalidateCache(int, int) error { return nil }

func (f *bucketRandomAccessFile) Close(storage.IOOptions, *storage.IODebugContext) error {
	return nil
}

type bucketWritableFile struct {
	storage.Preallocation

	a     *BucketAdapter
	name  string
	path  string
	buf   []byte
	dirty bool
	opts  storage.FileOptions
	hint  vfs.WriteLifeTimeHint
}

func (f *bucketWritableFile) upload(opts storage.IOOptions) error {
	if err := f.a.upload(f.name, f.buf, opts); err != nil {
		return f.a.mapError("upload", f.path, err)
	}
	f.dirty = false
	return nil
}

func (f *bucketWritableFile) Append(data []byte, _ storage.IOOptions, _ *storage.IODebugContext) error {
	f.buf = append(f.buf, data...)
	f.dirty = true
	return nil
}

func (f *bucketWritableFile) AppendWithVerification(data []byte, opts storage.IOOptions, info vfs.DataVerificationInfo, dbg *storage.IODebugContext) error {
	if err := checksum.Verify(f.opts.HandoffChecksumType, data, info.Checksum); err != nil {
		return fmt.Errorf("append %s: %w", f.path, err)
	}
	return f.Append(data, opts, dbg)
}

// PositionedAppend writes data at offset; the file then ends after data.
func (f *bucketWritableFile) PositionedAppend(data []byte, offset uint64, _ storage.IOOptions, _ *storage.IODebugContext) error {
	end := int(offset) + len(data)
	if end > len(f.buf) {
		f.buf = append(f.buf, make([]byte, end-len(f.buf))...)
	}
	copy(f.buf[offset:], data)
	f.buf = f.buf[:end]
	f.dirty = true
	return nil
}

func (f *bucketWritableFile) PositionedAppendWithVerification(data []byte, offset uint64, opts storage.IOOptions, info vfs.DataVerificationInfo, dbg *storage.IODebugContext) error {
	if err := checksum.Verify(f.opts.HandoffChecksumType, data, info.Checksum); err != nil {
		return fmt.Errorf("positioned append %s: %w", f.path, err)
	}
	return f.PositionedAppend(data, offset, opts, dbg)
}

func (f *bucketWritableFile) Truncate(size uint64, _ storage.IOOptions, _ *storage.IODebugContext) error {
	if int(size) <= len(f.buf) {
		f.buf = f.buf[:size]
	} else {
		f.buf = append(f.buf, make([]byte, int(size)-len(f.buf))...)
	}
	f.dirty = true
	return nil
}

func (f *bucketWritableFile) Close(opts storage.IOOptions, dbg *storage.IODebugContext) error {
	return f.Sync(opts, dbg)
}

func (f *bucketWritableFile) Flush(storage.IOOptions, *storage.IODebugContext) error { return nil }

func (f *bucketWritableFile) Sync(opts storage.IOOptions, _ *storage.IODebugContext) error {
	if !f.dirty {
		return nil
	}
	return f.upload(opts)
}

func (f *bucketWritableFile) Fsync(opts storage.IOOptions, dbg *storage.IODebugContext) error {
	return f.Sync(opts, dbg)
}

func (f *bucketWritableFile) IsSyncThreadSafe() bool       { return false }
func (f *bucketWritableFile) UseDirectIO() bool            { return false }
func (f *bucketWritableFile) RequiredBufferAlignment() int { return storage.DefaultPageSize }

func (f *bucketWritableFile) SetWriteLifeTimeHint(hint vfs.WriteLifeTimeHint) { f.hint = hint }
func (f *bucketWritableFile) GetWriteLifeTimeHint() vfs.WriteLifeTimeHint     { return f.hint }

func (f *bucketWritableFile) GetFileSize(storage.IOOptions, *storage.IODebugContext) uint64 {
	return uint64(len(f.buf))
}

func (f *bucketWritableFile) GetUniqueId([]byte) int         { return 0 }
func (f *bucketWritableFile) InvalidateCache(int, int) error { return nil }

func (f *bucketWritableFile) RangeSync(uint64, uint64, storage.IOOptions, *storage.IODebugContext) error {
	return nil
}

func (f *bucketWritableFile) PrepareWrite(offset, length int, _ storage.IOOptions, _ *storage.IODebugContext) {
	f.Prepare(offset, length, func(uint64, uint64) error { return nil })
}

func (f *bucketWritableFile) Allocate(uint64, uint64, storage.IOOptions, *storage.IODebugContext) error {
	return nil
}

type bucketDirectory struct{}

func (bucketDirectory) Fsync(storage.IOOptions, *storage.IODebugContext) error { return nil }

func (bucketDirectory) FsyncWithDirOptions(storage.IOOptions, *storage.IODebugContext, storage.DirFsyncOptions) error {
	return nil
}

func (bucketDirectory) GetUniqueId([]byte) int                                 { return 0 }
func (bucketDirectory) Close(storage.IOOptions, *storage.IODebugContext) error { return nil }
