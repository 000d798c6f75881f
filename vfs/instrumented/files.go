package instrumented

import (
	"github.com/youscentia/ydb-fsenv/vfs"
	"github.com/youscentia/ydb-fsenv/vfs/storage"
)

// The handle types embed the decorated handle; only calls that do I/O are
// observed, the rest are promoted unchanged.

type sequentialFile struct {
	storage.SequentialFile
	fs   *FileSystem
	name string
}

func (f *sequentialFile) Read(n int, opts storage.IOOptions, scratch []byte, dbg *storage.IODebugContext) ([]byte, error) {
	c := f.fs.begin("Read", f.name, dbg)
	res, err := f.SequentialFile.Read(n, opts, scratch, dbg)
	return res, c.read(len(res)).done(err)
}

func (f *sequentialFile) PositionedRead(offset uint64, n int, opts storage.IOOptions, scratch []byte, dbg *storage.IODebugContext) ([]byte, error) {
	c := f.fs.begin("PositionedRead", f.name, dbg)
	res, err := f.SequentialFile.PositionedRead(offset, n, opts, scratch, dbg)
	return res, c.read(len(res)).done(err)
}

func (f *sequentialFile) Close(opts storage.IOOptions, dbg *storage.IODebugContext) error {
	c := f.fs.begin("Close", f.name, dbg)
	return c.done(f.SequentialFile.Close(opts, dbg))
}

type randomAccessFile struct {
	storage.RandomAccessFile
	fs   *FileSystem
	name string
}

func (f *randomAccessFile) Read(offset uint64, n int, opts storage.IOOptions, scratch []byte, dbg *storage.IODebugContext) ([]byte, error) {
	c := f.fs.begin("Read", f.name, dbg)
	res, err := f.RandomAccessFile.Read(offset, n, opts, scratch, dbg)
	return res, c.read(len(res)).done(err)
}

// MultiRead is observed as one operation; per-request failures are left in
// the requests and do not count as a failed call.
func (f *randomAccessFile) MultiRead(reqs []storage.ReadRequest, opts storage.IOOptions, dbg *storage.IODebugContext) error {
	c := f.fs.begin("MultiRead", f.name, dbg)
	err := f.RandomAccessFile.MultiRead(reqs, opts, dbg)
	for i := range reqs {
		c.read(len(reqs[i].Result))
	}
	return c.done(err)
}

func (f *randomAccessFile) Prefetch(offset uint64, n int, opts storage.IOOptions, dbg *storage.IODebugContext) error {
	c := f.fs.begin("Prefetch", f.name, dbg)
	return c.done(f.RandomAccessFile.Prefetch(offset, n, opts, dbg))
}

func (f *randomAccessFile) Close(opts storage.IOOptions, dbg *storage.IODebugContext) error {
	c := f.fs.begin("Close", f.name, dbg)
	return c.done(f.RandomAccessFile.Close(opts, dbg))
}

type writableFile struct {
	storage.WritableFile
	fs   *FileSystem
	name string
}

func (f *writableFile) Append(data []byte, opts storage.IOOptions, dbg *storage.IODebugContext) error {
	c := f.fs.begin("Append", f.name, dbg)
	err := f.WritableFile.Append(data, opts, dbg)
	if err == nil {
		c.written(len(data))
	}
	return c.done(err)
}

func (f *writableFile) AppendWithVerification(data []byte, opts storage.IOOptions, info vfs.DataVerificationInfo, dbg *storage.IODebugContext) error {
	c := f.fs.begin("AppendWithVerification", f.name, dbg)
	err := f.WritableFile.AppendWithVerification(data, opts, info, dbg)
	if err == nil {
		c.written(len(data))
	}
	return c.done(err)
}

func (f *writableFile) PositionedAppend(data []byte, offset uint64, opts storage.IOOptions, dbg *storage.IODebugContext) error {
	c := f.fs.begin("PositionedAppend", f.name, dbg)
	err := f.WritableFile.PositionedAppend(data, offset, opts, dbg)
	if err == nil {
		c.written(len(data))
	}
	return c.done(err)
}

func (f *writableFile) PositionedAppendWithVerification(data []byte, offset uint64, opts storage.IOOptions, info vfs.DataVerificationInfo, dbg *storage.IODebugContext) error {
	c := f.fs.begin("PositionedAppendWithVerification", f.name, dbg)
	err := f.WritableFile.PositionedAppendWithVerification(data, offset, opts, info, dbg)
	if err == nil {
		c.written(len(data))
	}
	return c.done(err)
}

func (f *writableFile) Truncate(size uint64, opts storage.IOOptions, dbg *storage.IODebugContext) error {
	c := f.fs.begin("Truncate", f.name, dbg)
	return c.done(f.WritableFile.Truncate(size, opts, dbg))
}

func (f *writableFile) Close(opts storage.IOOptions, dbg *storage.IODebugContext) error {
	c := f.fs.begin("Close", f.name, dbg)
	return c.done(f.WritableFile.Close(opts, dbg))
}

func (f *writableFile) Flush(opts storage.IOOptions, dbg *storage.IODebugContext) error {
	c := f.fs.begin("Flush", f.name, dbg)
	return c.done(f.WritableFile.Flush(opts, dbg))
}

func (f *writableFile) Sync(opts storage.IOOptions, dbg *storage.IODebugContext) error {
	c := f.fs.begin("Sync", f.name, dbg)
	return c.done(f.WritableFile.Sync(opts, dbg))
}

func (f *writableFile) Fsync(opts storage.IOOptions, dbg *storage.IODebugContext) error {
	c := f.fs.begin("Fsync", f.name, dbg)
	return c.done(f.WritableFile.Fsync(opts, dbg))
}

func (f *writableFile) RangeSync(offset, nbytes uint64, opts storage.IOOptions, dbg *storage.IODebugContext) error {
	c := f.fs.begin("RangeSync", f.name, dbg)
	return c.done(f.WritableFile.RangeSync(offset, nbytes, opts, dbg))
}

func (f *writableFile) Allocate(offset, length uint64, opts storage.IOOptions, dbg *storage.IODebugContext) error {
	c := f.fs.begin("Allocate", f.name, dbg)
	return c.done(f.WritableFile.Allocate(offset, length, opts, dbg))
}

type randomRWFile struct {
	storage.RandomRWFile
	fs   *FileSystem
	name string
}

func (f *randomRWFile) Write(offset uint64, data []byte, opts storage.IOOptions, dbg *storage.IODebugContext) error {
	c := f.fs.begin("Write", f.name, dbg)
	err := f.RandomRWFile.Write(offset, data, opts, dbg)
	if err == nil {
		c.written(len(data))
	}
	return c.done(err)
}

func (f *randomRWFile) Read(offset uint64, n int, opts storage.IOOptions, scratch []byte, dbg *storage.IODebugContext) ([]byte, error) {
	c := f.fs.begin("Read", f.name, dbg)
	res, err := f.RandomRWFile.Read(offset, n, opts, scratch, dbg)
	return res, c.read(len(res)).done(err)
}

func (f *randomRWFile) Flush(opts storage.IOOptions, dbg *storage.IODebugContext) error {
	c := f.fs.begin("Flush", f.name, dbg)
	return c.done(f.RandomRWFile.Flush(opts, dbg))
}

func (f *randomRWFile) Sync(opts storage.IOOptions, dbg *storage.IODebugContext) error {
	c := f.fs.begin("Sync", f.name, dbg)
	return c.done(f.RandomRWFile.Sync(opts, dbg))
}

func (f *randomRWFile) Fsync(opts storage.IOOptions, dbg *storage.IODebugContext) error {
	c := f.fs.begin("Fsync", f.name, dbg)
	return c.done(f.RandomRWFile.Fsync(opts, dbg))
}

func (f *randomRWFile) Close(opts storage.IOOptions, dbg *storage.IODebugContext) error {
	c := f.fs.begin("Close", f.name, dbg)
	return c.done(f.RandomRWFile.Close(opts, dbg))
}

type directory struct {
	storage.Directory
	fs   *FileSystem
	name string
}

func (d *directory) Fsync(opts storage.IOOptions, dbg *storage.IODebugContext) error {
	c := d.fs.begin("DirFsync", d.name, dbg)
	return c.done(d.Directory.Fsync(opts, dbg))
}

func (d *directory) FsyncWithDirOptions(opts storage.IOOptions, dbg *storage.IODebugContext, dirOpts storage.DirFsyncOptions) error {
	c := d.fs.begin("DirFsync", d.name, dbg)
	return c.done(d.Directory.FsyncWithDirOptions(opts, dbg, dirOpts))
}

func (d *directory) Close(opts storage.IOOptions, dbg *storage.IODebugContext) error {
	c := d.fs.begin("DirClose", d.name, dbg)
	return c.done(d.Directory.Close(opts, dbg))
}
