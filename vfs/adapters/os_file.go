package adapters

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/youscentia/ydb-fsenv/vfs"
	"github.com/youscentia/ydb-fsenv/vfs/checksum"
	"github.com/youscentia/ydb-fsenv/vfs/storage"
)

type osSequentialFile struct {
	file   *os.File
	name   string
	direct bool
}

func (f *osSequentialFile) Read(n int, _ storage.IOOptions, scratch []byte, _ *storage.IODebugContext) ([]byte, error) {
	if n < 0 {
		return nil, storage.InvalidArgument("read", f.name, "negative length %d", n)
	}
	if len(scratch) < n {
		return nil, storage.InvalidArgument("read", f.name, "scratch holds %d bytes, want %d", len(scratch), n)
	}
	read := 0
	for read < n {
		m, err := f.file.Read(scratch[read:n])
		read += m
		if err == io.EOF {
			break
		}
		if err != nil {
			return scratch[:read], storage.FromOSError("read", f.name, err)
		}
	}
	return scratch[:read], nil
}

func (f *osSequentialFile) Skip(n uint64) error {
	_, err := f.file.Seek(int64(n), io.SeekCurrent)
	return storage.FromOSError("seek", f.name, err)
}

func (f *osSequentialFile) PositionedRead(offset uint64, n int, _ storage.IOOptions, scratch []byte, _ *storage.IODebugContext) ([]byte, error) {
	return preadFull(f.file, f.name, offset, n, scratch)
}

func (f *osSequentialFile) UseDirectIO() bool            { return f.direct }
func (f *osSequentialFile) RequiredBufferAlignment() int { return storage.DefaultPageSize }

func (f *osSequentialFile) InvalidateCache(offset, length int) error {
	if f.direct {
		return nil
	}
	return storage.FromOSError("fadvise", f.name, fadvise(f.file, int64(offset), int64(length), storage.AccessWontNeed))
}

func (f *osSequentialFile) Close(storage.IOOptions, *storage.IODebugContext) error {
	return storage.FromOSError("close", f.name, f.file.Close())
}

type osRandomAccessFile struct {
	file   *os.File
	name   string
	direct bool
}

func (f *osRandomAccessFile) Read(offset uint64, n int, _ storage.IOOptions, scratch []byte, _ *storage.IODebugContext) ([]byte, error) {
	return preadFull(f.file, f.name, offset, n, scratch)
}

// MultiRead serves the requests one after another in index order.
func (f *osRandomAccessFile) MultiRead(reqs []storage.ReadRequest, _ storage.IOOptions, _ *storage.IODebugContext) error {
	for i := range reqs {
		reqs[i].Result, reqs[i].Status = preadFull(f.file, f.name, reqs[i].Offset, reqs[i].Len, reqs[i].Scratch)
	}
	return nil
}

func (f *osRandomAccessFile) Prefetch(offset uint64, n int, _ storage.IOOptions, _ *storage.IODebugContext) error {
	if f.direct {
		return nil
	}
	return storage.FromOSError("fadvise", f.name, fadvise(f.file, int64(offset), int64(n), storage.AccessWillNeed))
}

func (f *osRandomAccessFile) GetUniqueId(id []byte) int { return uniqueID(f.file, id) }

func (f *osRandomAccessFile) Hint(pattern storage.AccessPattern) {
	if f.direct {
		return
	}
	// Hints are advisory; a kernel that rejects one loses nothing.
	_ = fadvise(f.file, 0, 0, pattern)
}

func (f *osRandomAccessFile) UseDirectIO() bool            { return f.direct }
func (f *osRandomAccessFile) RequiredBufferAlignment() int { return storage.DefaultPageSize }

func (f *osRandomAccessFile) InvalidateCache(offset, length int) error {
	if f.direct {
		return nil
	}
	return storage.FromOSError("fadvise", f.name, fadvise(f.file, int64(offset), int64(length), storage.AccessWontNeed))
}

func (f *osRandomAccessFile) Close(storage.IOOptions, *storage.IODebugContext) error {
	return storage.FromOSError("close", f.name, f.file.Close())
}

// osWritableFile writes at its own tracked size rather than through the
// file offset, so positioned and plain appends can be mixed.
type osWritableFile struct {
	storage.Preallocation

	file   *os.File
	name   string
	size   uint64
	opts   storage.FileOptions
	hint   vfs.WriteLifeTimeHint
	logger log.Logger

	fallocateUnsupported bool
}

func (f *osWritableFile) Append(data []byte, _ storage.IOOptions, _ *storage.IODebugContext) error {
	if _, err := f.file.WriteAt(data, int64(f.size)); err != nil {
		return storage.FromOSError("append", f.name, err)
	}
	f.size += uint64(len(data))
	return nil
}

func (f *osWritableFile) AppendWithVerification(data []byte, opts storage.IOOptions, info vfs.DataVerificationInfo, dbg *storage.IODebugContext) error {
	if err := checksum.Verify(f.opts.HandoffChecksumType, data, info.Checksum); err != nil {
		return fmt.Errorf("append %s: %w", f.name, err)
	}
	return f.Append(data, opts, dbg)
}

func (f *osWritableFile) PositionedAppend(data []byte, offset uint64, _ storage.IOOptions, _ *storage.IODebugContext) error {
	if _, err := f.file.WriteAt(data, int64(offset)); err != nil {
		return storage.FromOSError("pwrite", f.name, err)
	}
	f.size = offset + uint64(len(data))
	return nil
}

func (f *osWritableFile) PositionedAppendWithVerification(data []byte, offset uint64, opts storage.IOOptions, info vfs.DataVerificationInfo, dbg *storage.IODebugContext) error {
	if err := checksum.Verify(f.opts.HandoffChecksumType, data, info.Checksum); err != nil {
		return fmt.Errorf("positioned append %s: %w", f.name, err)
	}
	return f.PositionedAppend(data, offset, opts, dbg)
}

func (f *osWritableFile) Truncate(size uint64, _ storage.IOOptions, _ *storage.IODebugContext) error {
	if err := f.file.Truncate(int64(size)); err != nil {
		return storage.FromOSError("ftruncate", f.name, err)
	}
	f.size = size
	return nil
}

// Close drops any preallocated space past the written data.
func (f *osWritableFile) Close(_ storage.IOOptions, _ *storage.IODebugContext) error {
	var truncErr error
	if f.Preallocated() {
		truncErr = storage.FromOSError("ftruncate", f.name, f.file.Truncate(int64(f.size)))
	}
	closeErr := storage.FromOSError("close", f.name, f.file.Close())
	if truncErr != nil {
		return truncErr
	}
	return closeErr
}

func (f *osWritableFile) Flush(storage.IOOptions, *storage.IODebugContext) error { return nil }

func (f *osWritableFile) Sync(storage.IOOptions, *storage.IODebugContext) error {
	return storage.FromOSError("fdatasync", f.name, fdatasync(f.file))
}

func (f *osWritableFile) Fsync(storage.IOOptions, *storage.IODebugContext) error {
	return storage.FromOSError("fsync", f.name, f.file.Sync())
}

func (f *osWritableFile) IsSyncThreadSafe() bool       { return true }
func (f *osWritableFile) UseDirectIO() bool            { return f.opts.UseDirectWrites }
func (f *osWritableFile) RequiredBufferAlignment() int { return storage.DefaultPageSize }

func (f *osWritableFile) SetWriteLifeTimeHint(hint vfs.WriteLifeTimeHint) { f.hint = hint }
func (f *osWritableFile) GetWriteLifeTimeHint() vfs.WriteLifeTimeHint     { return f.hint }

func (f *osWritableFile) GetFileSize(storage.IOOptions, *storage.IODebugContext) uint64 {
	return f.size
}

func (f *osWritableFile) GetUniqueId(id []byte) int { return uniqueID(f.file, id) }

func (f *osWritableFile) InvalidateCache(offset, length int) error {
	if f.opts.UseDirectWrites {
		return nil
	}
	return storage.FromOSError("fadvise", f.name, fadvise(f.file, int64(offset), int64(length), storage.AccessWontNeed))
}

// RangeSync falls back to fdatasync where sync_file_range is unavailable.
func (f *osWritableFile) RangeSync(offset, nbytes uint64, _ storage.IOOptions, _ *storage.IODebugContext) error {
	err := syncFileRange(f.file, int64(offset), int64(nbytes))
	if errors.Is(err, errors.ErrUnsupported) {
		return storage.FromOSError("fdatasync", f.name, fdatasync(f.file))
	}
	return storage.FromOSError("sync_file_range", f.name, err)
}

func (f *osWritableFile) PrepareWrite(offset, length int, opts storage.IOOptions, dbg *storage.IODebugContext) {
	f.Prepare(offset, length, func(off, n uint64) error {
		return f.Allocate(off, n, opts, dbg)
	})
}

func (f *osWritableFile) Allocate(offset, length uint64, _ storage.IOOptions, _ *storage.IODebugContext) error {
	if !f.opts.AllowFallocate || f.fallocateUnsupported {
		return nil
	}
	err := fallocate(f.file, int64(offset), int64(length), f.opts.FallocateWithKeepSize)
	if errors.Is(err, errors.ErrUnsupported) {
		f.fallocateUnsupported = true
		level.Debug(f.logger).Log("msg", "fallocate not supported, skipping preallocation", "err", err)
		return nil
	}
	return storage.FromOSError("fallocate", f.name, err)
}

type osRandomRWFile struct {
	file   *os.File
	name   string
	direct bool
}

func (f *osRandomRWFile) UseDirectIO() bool            { return f.direct }
func (f *osRandomRWFile) RequiredBufferAlignment() int { return storage.DefaultPageSize }

func (f *osRandomRWFile) Write(offset uint64, data []byte, _ storage.IOOptions, _ *storage.IODebugContext) error {
	_, err := f.file.WriteAt(data, int64(offset))
	return storage.FromOSError("pwrite", f.name, err)
}

func (f *osRandomRWFile) Read(offset uint64, n int, _ storage.IOOptions, scratch []byte, _ *storage.IODebugContext) ([]byte, error) {
	return preadFull(f.file, f.name, offset, n, scratch)
}

func (f *osRandomRWFile) Flush(storage.IOOptions, *storage.IODebugContext) error { return nil }

func (f *osRandomRWFile) Sync(storage.IOOptions, *storage.IODebugContext) error {
	return storage.FromOSError("fdatasync", f.name, fdatasync(f.file))
}

func (f *osRandomRWFile) Fsync(storage.IOOptions, *storage.IODebugContext) error {
	return storage.FromOSError("fsync", f.name, f.file.Sync())
}

func (f *osRandomRWFile) Close(storage.IOOptions, *storage.IODebugContext) error {
	return storage.FromOSError("close", f.name, f.file.Close())
}

type osDirectory struct {
	file *os.File
	name string
}

func (d *osDirectory) Fsync(opts storage.IOOptions, dbg *storage.IODebugContext) error {
	return d.FsyncWithDirOptions(opts, dbg, storage.DirFsyncOptions{})
}

func (d *osDirectory) FsyncWithDirOptions(_ storage.IOOptions, _ *storage.IODebugContext, _ storage.DirFsyncOptions) error {
	return storage.FromOSError("fsync", d.name, d.file.Sync())
}

func (d *osDirectory) GetUniqueId(id []byte) int { return uniqueID(d.file, id) }

func (d *osDirectory) Close(storage.IOOptions, *storage.IODebugContext) error {
	return storage.FromOSError("close", d.name, d.file.Close())
}
