package adapters

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/thanos-io/objstore"

	"github.com/youscentia/ydb-fsenv/vfs/storage"
)

var _ storage.FileSystem = (*BucketAdapter)(nil)

// BucketAdapter serves storage files from an object store bucket. Objects
// are immutable, so writable files are buffered in memory and uploaded as a
// whole on Sync, Fsync and Close. Directories are implied by object names.
type BucketAdapter struct {
	bkt                  objstore.Bucket
	logger               log.Logger
	multiReadConcurrency int
	checksum             storage.ChecksumType
}

func NewBucketAdapter(bkt objstore.Bucket, opts ...Option) *BucketAdapter {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return &BucketAdapter{
		bkt:                  bkt,
		logger:               log.With(o.logger, "bucket", bkt.Name()),
		multiReadConcurrency: o.multiReadConcurrency,
		checksum:             o.handoffChecksumType,
	}
}

func (a *BucketAdapter) Name() string { return "bucket" }

func (a *BucketAdapter) Bucket() objstore.Bucket { return a.bkt }

func (a *BucketAdapter) NewSequentialFile(fname string, opts storage.FileOptions, _ *storage.IODebugContext) (storage.SequentialFile, error) {
	obj, err := a.open(fname, opts.IO)
	if err != nil {
		return nil, err
	}
	return &bucketSequentialFile{object: obj}, nil
}

func (a *BucketAdapter) NewRandomAccessFile(fname string, opts storage.FileOptions, _ *storage.IODebugContext) (storage.RandomAccessFile, error) {
	obj, err := a.open(fname, opts.IO)
	if err != nil {
		return nil, err
	}
	return &bucketRandomAccessFile{object: obj, concurrency: a.multiReadConcurrency}, nil
}

func (a *BucketAdapter) open(fname string, opts storage.IOOptions) (*object, error) {
	name := objectName(fname)
	ctx, cancel := opts.Context()
	defer cancel()
	attrs, err := a.bkt.Attributes(ctx, name)
	if err != nil {
		return nil, a.mapError("open", fname, err)
	}
	return &object{a: a, name: name, size: uint64(attrs.Size)}, nil
}

func (a *BucketAdapter) NewWritableFile(fname string, opts storage.FileOptions, _ *storage.IODebugContext) (storage.WritableFile, error) {
	f := a.newWritable(fname, nil, opts)
	if err := f.upload(opts.IO); err != nil {
		return nil, err
	}
	return f, nil
}

func (a *BucketAdapter) ReopenWritableFile(fname string, opts storage.FileOptions, _ *storage.IODebugContext) (storage.WritableFile, error) {
	data, err := a.readAll(objectName(fname), opts.IO)
	switch {
	case storage.IsNotFound(err):
		return a.NewWritableFile(fname, opts, nil)
	case err != nil:
		return nil, a.mapError("open", fname, err)
	}
	return a.newWritable(fname, data, opts), nil
}

// ReuseWritableFile deletes oldFname, which must exist, and starts fname
// empty.
func (a *BucketAdapter) ReuseWritableFile(fname, oldFname string, opts storage.FileOptions, dbg *storage.IODebugContext) (storage.WritableFile, error) {
	if err := a.DeleteFile(oldFname, opts.IO, dbg); err != nil {
		return nil, err
	}
	return a.NewWritableFile(fname, opts, dbg)
}

func (a *BucketAdapter) newWritable(fname string, data []byte, opts storage.FileOptions) *bucketWritableFile {
	if opts.HandoffChecksumType == storage.ChecksumNone {
		opts.HandoffChecksumType = a.checksum
	}
	return &bucketWritableFile{
		a:    a,
		name: objectName(fname),
		path: fname,
		buf:  data,
		opts: opts,
	}
}

func (a *BucketAdapter) NewRandomRWFile(fname string, _ storage.FileOptions, _ *storage.IODebugContext) (storage.RandomRWFile, error) {
	return nil, storage.NotSupported("open random rw", fname)
}

func (a *BucketAdapter) NewDirectory(name string, _ storage.IOOptions, _ *storage.IODebugContext) (storage.Directory, error) {
	return bucketDirectory{}, nil
}

func (a *BucketAdapter) FileExists(fname string, opts storage.IOOptions, _ *storage.IODebugContext) error {
	ctx, cancel := opts.Context()
	defer cancel()
	ok, err := a.bkt.Exists(ctx, objectName(fname))
	if err != nil {
		return a.mapError("exists", fname, err)
	}
	if !ok {
		return storage.NotFound("exists", fname)
	}
	return nil
}

// GetChildren lists the names directly under dir. Directories are implicit
// in a bucket, so a directory nothing was written under lists as empty
// rather than NotFound.
func (a *BucketAdapter) GetChildren(dir string, opts storage.IOOptions, _ *storage.IODebugContext) ([]string, error) {
	ctx, cancel := opts.Context()
	defer cancel()
	prefix := objectName(dir)
	if prefix != "" {
		prefix += objstore.DirDelim
	}
	var names []string
	err := a.bkt.Iter(ctx, prefix, func(name string) error {
		name = strings.TrimPrefix(name, prefix)
		names = append(names, strings.TrimSuffix(name, objstore.DirDelim))
		return nil
	})
	if err != nil {
		return nil, a.mapError("iter", dir, err)
	}
	return names, nil
}

func (a *BucketAdapter) DeleteFile(fname string, opts storage.IOOptions, _ *storage.IODebugContext) error {
	ctx, cancel := opts.Context()
	defer cancel()
	name := objectName(fname)
	ok, err := a.bkt.Exists(ctx, name)
	if err != nil {
		return a.mapError("delete", fname, err)
	}
	if !ok {
		return storage.NotFound("delete", fname)
	}
	if err := a.bkt.Delete(ctx, name); err != nil {
		return a.mapError("delete", fname, err)
	}
	level.Debug(a.logger).Log("msg", "deleted object", "name", name)
	return nil
}

func (a *BucketAdapter) CreateDir(string, storage.IOOptions, *storage.IODebugContext) error {
	return nil
}

func (a *BucketAdapter) CreateDirIfMissing(string, storage.IOOptions, *storage.IODebugContext) error {
	return nil
}

func (a *BucketAdapter) DeleteDir(string, storage.IOOptions, *storage.IODebugContext) error {
	return nil
}

func (a *BucketAdapter) GetFileSize(fname string, opts storage.IOOptions, _ *storage.IODebugContext) (uint64, error) {
	ctx, cancel := opts.Context()
	defer cancel()
	attrs, err := a.bkt.Attributes(ctx, objectName(fname))
	if err != nil {
		return 0, a.mapError("attributes", fname, err)
	}
	return uint64(attrs.Size), nil
}

func (a *BucketAdapter) GetFileModificationTime(fname string, opts storage.IOOptions, _ *storage.IODebugContext) (time.Time, error) {
	ctx, cancel := opts.Context()
	defer cancel()
	attrs, err := a.bkt.Attributes(ctx, objectName(fname))
	if err != nil {
		return time.Time{}, a.mapError("attributes", fname, err)
	}
	return attrs.LastModified, nil
}

// RenameFile copies src to target and then deletes src. It is not atomic.
// Renaming an object onto itself only checks that it exists.
func (a *BucketAdapter) RenameFile(src, target string, opts storage.IOOptions, dbg *storage.IODebugContext) error {
	if objectName(src) == objectName(target) {
		ctx, cancel := opts.Context()
		defer cancel()
		ok, err := a.bkt.Exists(ctx, objectName(src))
		if err != nil {
			return a.mapError("rename", src, err)
		}
		if !ok {
			return storage.NotFound("rename", src)
		}
		return nil
	}
	data, err := a.readAll(objectName(src), opts)
	if err != nil {
		return a.mapError("rename", src, err)
	}
	if err := a.upload(objectName(target), data, opts); err != nil {
		return a.mapError("rename", target, err)
	}
	return a.DeleteFile(src, opts, dbg)
}

func (a *BucketAdapter) readAll(name string, opts storage.IOOptions) ([]byte, error) {
	ctx, cancel := opts.Context()
	defer cancel()
	rc, err := a.bkt.Get(ctx, name)
	if err != nil {
		return nil, a.mapError("get", name, err)
	}
	data, err := io.ReadAll(rc)
	if closeErr := rc.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return nil, a.mapError("get", name, err)
	}
	return data, nil
}

func (a *BucketAdapter) upload(name string, data []byte, opts storage.IOOptions) error {
	ctx, cancel := opts.Context()
	defer cancel()
	if err := a.bkt.Upload(ctx, name, bytes.NewReader(data)); err != nil {
		return err
	}
	level.Debug(a.logger).Log("msg", "uploaded object", "name", name, "size", humanize.IBytes(uint64(len(data))))
	return nil
}

// mapError classifies a bucket error. Errors already classified pass
// through unchanged.
func (a *BucketAdapter) mapError(op, name string, err error) error {
	var ioErr *storage.IOError
	switch {
	case errors.As(err, &ioErr):
		return err
	case a.bkt.IsObjNotFoundErr(err):
		return &storage.IOError{Code: storage.CodeNotFound, SubCode: storage.SubCodePathNotFound, Op: op, Path: name, Err: err}
	case errors.Is(err, context.DeadlineExceeded):
		return &storage.IOError{Code: storage.CodeTimedOut, Op: op, Path: name, Retryable: true, Err: err}
	}
	return storage.NewIOError(op, name, err)
}

// objectName maps a file path onto an object name: slash separated, clean,
// without a leading slash.
func objectName(fname string) string {
	return strings.TrimPrefix(path.Clean("/"+fname), "/")
}
