package composite

import (
	"sort"
	"time"

	"github.com/youscentia/ydb-fsenv/vfs"
	"github.com/youscentia/ydb-fsenv/vfs/storage"
)

// call is one observed storage call.
type call struct {
	op   string
	args []any
	opts storage.IOOptions
	// hasDbg is set when the call received a non-nil debug context.
	hasDbg bool
}

type recorder struct {
	calls []call
}

func (r *recorder) record(op string, opts storage.IOOptions, dbg *storage.IODebugContext, args ...any) {
	r.calls = append(r.calls, call{op: op, args: args, opts: opts, hasDbg: dbg != nil})
}

func (r *recorder) plain(op string, args ...any) {
	r.calls = append(r.calls, call{op: op, args: args})
}

func (r *recorder) last() call {
	if len(r.calls) == 0 {
		return call{}
	}
	return r.calls[len(r.calls)-1]
}

type fakeSequential struct {
	recorder
	err     error
	content []byte
	pos     int
}

func (f *fakeSequential) Read(n int, opts storage.IOOptions, scratch []byte, dbg *storage.IODebugContext) ([]byte, error) {
	f.record("Read", opts, dbg, n)
	if f.err != nil {
		return nil, f.err
	}
	got := copy(scratch[:n], f.content[f.pos:])
	f.pos += got
	return scratch[:got], nil
}

func (f *fakeSequential) Skip(n uint64) error {
	f.plain("Skip", n)
	f.pos += int(n)
	return f.err
}

func (f *fakeSequential) PositionedRead(offset uint64, n int, opts storage.IOOptions, scratch []byte, dbg *storage.IODebugContext) ([]byte, error) {
	f.record("PositionedRead", opts, dbg, offset, n)
	got := copy(scratch[:n], f.content[offset:])
	return scratch[:got], f.err
}

func (f *fakeSequential) UseDirectIO() bool {
	f.plain("UseDirectIO")
	return true
}

func (f *fakeSequential) RequiredBufferAlignment() int {
	f.plain("RequiredBufferAlignment")
	return 512
}

func (f *fakeSequential) InvalidateCache(offset, length int) error {
	f.plain("InvalidateCache", offset, length)
	return f.err
}

func (f *fakeSequential) Close(opts storage.IOOptions, dbg *storage.IODebugContext) error {
	f.record("Close", opts, dbg)
	return f.err
}

type fakeRandomAccess struct {
	recorder
	content []byte
	// reverse serves MultiRead elements back to front.
	reverse bool
	// skip leaves the element at this index untouched by MultiRead.
	skip     int
	multiErr error
	hint     storage.AccessPattern
}

func (f *fakeRandomAccess) Read(offset uint64, n int, opts storage.IOOptions, scratch []byte, dbg *storage.IODebugContext) ([]byte, error) {
	f.record("Read", opts, dbg, offset, n)
	got := copy(scratch[:n], f.content[offset:])
	return scratch[:got], nil
}

func (f *fakeRandomAccess) MultiRead(reqs []storage.ReadRequest, opts storage.IOOptions, dbg *storage.IODebugContext) error {
	f.record("MultiRead", opts, dbg, len(reqs))
	order := make([]int, len(reqs))
	for i := range order {
		order[i] = i
	}
	if f.reverse {
		sort.Sort(sort.Reverse(sort.IntSlice(order)))
	}
	for _, i := range order {
		if i == f.skip {
			continue
		}
		r := &reqs[i]
		if r.Offset >= uint64(len(f.content)) {
			r.Status = storage.InvalidArgument("MultiRead", "fake", "offset %d past end", r.Offset)
			continue
		}
		got := copy(r.Scratch[:r.Len], f.content[r.Offset:])
		r.Result = r.Scratch[:got]
	}
	return f.multiErr
}

func (f *fakeRandomAccess) Prefetch(offset uint64, n int, opts storage.IOOptions, dbg *storage.IODebugContext) error {
	f.record("Prefetch", opts, dbg, offset, n)
	return nil
}

func (f *fakeRandomAccess) GetUniqueId(id []byte) int {
	f.plain("GetUniqueId", len(id))
	return copy(id, "rand-id")
}

func (f *fakeRandomAccess) Hint(pattern storage.AccessPattern) {
	f.plain("Hint", pattern)
	f.hint = pattern
}

func (f *fakeRandomAccess) UseDirectIO() bool {
	f.plain("UseDirectIO")
	return false
}

func (f *fakeRandomAccess) RequiredBufferAlignment() int {
	f.plain("RequiredBufferAlignment")
	return storage.DefaultPageSize
}

func (f *fakeRandomAccess) InvalidateCache(offset, length int) error {
	f.plain("InvalidateCache", offset, length)
	return nil
}

func (f *fakeRandomAccess) Close(opts storage.IOOptions, dbg *storage.IODebugContext) error {
	f.record("Close", opts, dbg)
	return nil
}

type fakeWritable struct {
	recorder
	storage.Preallocation
	data       []byte
	hint       vfs.WriteLifeTimeHint
	verified   []vfs.DataVerificationInfo
	err        error
	closeCount int
}

func (f *fakeWritable) Append(data []byte, opts storage.IOOptions, dbg *storage.IODebugContext) error {
	f.record("Append", opts, dbg, string(data))
	f.data = append(f.data, data...)
	return f.err
}

func (f *fakeWritable) AppendWithVerification(data []byte, opts storage.IOOptions, info vfs.DataVerificationInfo, dbg *storage.IODebugContext) error {
	f.record("AppendWithVerification", opts, dbg, string(data))
	f.verified = append(f.verified, info)
	f.data = append(f.data, data...)
	return f.err
}

func (f *fakeWritable) PositionedAppend(data []byte, offset uint64, opts storage.IOOptions, dbg *storage.IODebugContext) error {
	f.record("PositionedAppend", opts, dbg, string(data), offset)
	return f.err
}

func (f *fakeWritable) PositionedAppendWithVerification(data []byte, offset uint64, opts storage.IOOptions, info vfs.DataVerificationInfo, dbg *storage.IODebugContext) error {
	f.record("PositionedAppendWithVerification", opts, dbg, string(data), offset)
	f.verified = append(f.verified, info)
	return f.err
}

func (f *fakeWritable) Truncate(size uint64, opts storage.IOOptions, dbg *storage.IODebugContext) error {
	f.record("Truncate", opts, dbg, size)
	return f.err
}

func (f *fakeWritable) Close(opts storage.IOOptions, dbg *storage.IODebugContext) error {
	f.record("Close", opts, dbg)
	f.closeCount++
	return f.err
}

func (f *fakeWritable) Flush(opts storage.IOOptions, dbg *storage.IODebugContext) error {
	f.record("Flush", opts, dbg)
	return f.err
}

func (f *fakeWritable) Sync(opts storage.IOOptions, dbg *storage.IODebugContext) error {
	f.record("Sync", opts, dbg)
	return f.err
}

func (f *fakeWritable) Fsync(opts storage.IOOptions, dbg *storage.IODebugContext) error {
	f.record("Fsync", opts, dbg)
	return f.err
}

func (f *fakeWritable) IsSyncThreadSafe() bool {
	f.plain("IsSyncThreadSafe")
	return true
}

func (f *fakeWritable) UseDirectIO() bool {
	f.plain("UseDirectIO")
	return true
}

func (f *fakeWritable) RequiredBufferAlignment() int {
	f.plain("RequiredBufferAlignment")
	return 4096
}

func (f *fakeWritable) SetWriteLifeTimeHint(hint vfs.WriteLifeTimeHint) {
	f.plain("SetWriteLifeTimeHint", hint)
	f.hint = hint
}

func (f *fakeWritable) GetWriteLifeTimeHint() vfs.WriteLifeTimeHint {
	f.plain("GetWriteLifeTimeHint")
	return f.hint
}

func (f *fakeWritable) GetFileSize(opts storage.IOOptions, dbg *storage.IODebugContext) uint64 {
	f.record("GetFileSize", opts, dbg)
	return uint64(len(f.data))
}

func (f *fakeWritable) GetUniqueId(id []byte) int {
	f.plain("GetUniqueId", len(id))
	return 0
}

func (f *fakeWritable) InvalidateCache(offset, length int) error {
	f.plain("InvalidateCache", offset, length)
	return f.err
}

func (f *fakeWritable) RangeSync(offset, nbytes uint64, opts storage.IOOptions, dbg *storage.IODebugContext) error {
	f.record("RangeSync", opts, dbg, offset, nbytes)
	return f.err
}

func (f *fakeWritable) PrepareWrite(offset, length int, opts storage.IOOptions, dbg *storage.IODebugContext) {
	f.record("PrepareWrite", opts, dbg, offset, length)
	f.Prepare(offset, length, func(uint64, uint64) error { return nil })
}

func (f *fakeWritable) Allocate(offset, length uint64, opts storage.IOOptions, dbg *storage.IODebugContext) error {
	f.record("Allocate", opts, dbg, offset, length)
	return f.err
}

type fakeRandomRW struct {
	recorder
	data []byte
}

func (f *fakeRandomRW) UseDirectIO() bool {
	f.plain("UseDirectIO")
	return false
}

func (f *fakeRandomRW) RequiredBufferAlignment() int {
	f.plain("RequiredBufferAlignment")
	return 1
}

func (f *fakeRandomRW) Write(offset uint64, data []byte, opts storage.IOOptions, dbg *storage.IODebugContext) error {
	f.record("Write", opts, dbg, offset, string(data))
	if end := int(offset) + len(data); end > len(f.data) {
		f.data = append(f.data, make([]byte, end-len(f.data))...)
	}
	copy(f.data[offset:], data)
	return nil
}

func (f *fakeRandomRW) Read(offset uint64, n int, opts storage.IOOptions, scratch []byte, dbg *storage.IODebugContext) ([]byte, error) {
	f.record("Read", opts, dbg, offset, n)
	got := copy(scratch[:n], f.data[offset:])
	return scratch[:got], nil
}

func (f *fakeRandomRW) Flush(opts storage.IOOptions, dbg *storage.IODebugContext) error {
	f.record("Flush", opts, dbg)
	return nil
}

func (f *fakeRandomRW) Sync(opts storage.IOOptions, dbg *storage.IODebugContext) error {
	f.record("Sync", opts, dbg)
	return nil
}

func (f *fakeRandomRW) Fsync(opts storage.IOOptions, dbg *storage.IODebugContext) error {
	f.record("Fsync", opts, dbg)
	return nil
}

func (f *fakeRandomRW) Close(opts storage.IOOptions, dbg *storage.IODebugContext) error {
	f.record("Close", opts, dbg)
	return nil
}

type fakeDirectory struct {
	recorder
	dirOpts []storage.DirFsyncOptions
}

func (d *fakeDirectory) Fsync(opts storage.IOOptions, dbg *storage.IODebugContext) error {
	d.record("Fsync", opts, dbg)
	return nil
}

func (d *fakeDirectory) FsyncWithDirOptions(opts storage.IOOptions, dbg *storage.IODebugContext, dirOpts storage.DirFsyncOptions) error {
	d.record("FsyncWithDirOptions", opts, dbg, dirOpts)
	d.dirOpts = append(d.dirOpts, dirOpts)
	return nil
}

func (d *fakeDirectory) GetUniqueId(id []byte) int {
	d.plain("GetUniqueId", len(id))
	return copy(id, "dir-id")
}

func (d *fakeDirectory) Close(opts storage.IOOptions, dbg *storage.IODebugContext) error {
	d.record("Close", opts, dbg)
	return nil
}

// fakeFS hands out the preset handles, or err when it is set.
type fakeFS struct {
	recorder
	err error

	sequential   *fakeSequential
	randomAccess *fakeRandomAccess
	writable     *fakeWritable
	randomRW     *fakeRandomRW
	directory    *fakeDirectory

	fileOpts []storage.FileOptions
}

func newFakeFS() *fakeFS {
	return &fakeFS{
		sequential:   &fakeSequential{content: []byte("0123456789")},
		randomAccess: &fakeRandomAccess{content: []byte("abcdefghijklmnopqrstuvwxyz"), skip: -1},
		writable:     &fakeWritable{},
		randomRW:     &fakeRandomRW{},
		directory:    &fakeDirectory{},
	}
}

func (f *fakeFS) Name() string { return "fake" }

func (f *fakeFS) NewSequentialFile(fname string, opts storage.FileOptions, dbg *storage.IODebugContext) (storage.SequentialFile, error) {
	f.record("NewSequentialFile", storage.IOOptions{}, dbg, fname)
	f.fileOpts = append(f.fileOpts, opts)
	if f.err != nil {
		return nil, f.err
	}
	return f.sequential, nil
}

func (f *fakeFS) NewRandomAccessFile(fname string, opts storage.FileOptions, dbg *storage.IODebugContext) (storage.RandomAccessFile, error) {
	f.record("NewRandomAccessFile", storage.IOOptions{}, dbg, fname)
	f.fileOpts = append(f.fileOpts, opts)
	if f.err != nil {
		return nil, f.err
	}
	return f.randomAccess, nil
}

func (f *fakeFS) NewWritableFile(fname string, opts storage.FileOptions, dbg *storage.IODebugContext) (storage.WritableFile, error) {
	f.record("NewWritableFile", storage.IOOptions{}, dbg, fname)
	f.fileOpts = append(f.fileOpts, opts)
	if f.err != nil {
		return nil, f.err
	}
	return f.writable, nil
}

func (f *fakeFS) ReopenWritableFile(fname string, opts storage.FileOptions, dbg *storage.IODebugContext) (storage.WritableFile, error) {
	f.record("ReopenWritableFile", storage.IOOptions{}, dbg, fname)
	f.fileOpts = append(f.fileOpts, opts)
	if f.err != nil {
		return nil, f.err
	}
	return f.writable, nil
}

func (f *fakeFS) ReuseWritableFile(fname, oldFname string, opts storage.FileOptions, dbg *storage.IODebugContext) (storage.WritableFile, error) {
	f.record("ReuseWritableFile", storage.IOOptions{}, dbg, fname, oldFname)
	f.fileOpts = append(f.fileOpts, opts)
	if f.err != nil {
		return nil, f.err
	}
	return f.writable, nil
}

func (f *fakeFS) NewRandomRWFile(fname string, opts storage.FileOptions, dbg *storage.IODebugContext) (storage.RandomRWFile, error) {
	f.record("NewRandomRWFile", storage.IOOptions{}, dbg, fname)
	f.fileOpts = append(f.fileOpts, opts)
	if f.err != nil {
		return nil, f.err
	}
	return f.randomRW, nil
}

func (f *fakeFS) NewDirectory(name string, opts storage.IOOptions, dbg *storage.IODebugContext) (storage.Directory, error) {
	f.record("NewDirectory", opts, dbg, name)
	if f.err != nil {
		return nil, f.err
	}
	return f.directory, nil
}

func (f *fakeFS) FileExists(fname string, opts storage.IOOptions, dbg *storage.IODebugContext) error {
	f.record("FileExists", opts, dbg, fname)
	return f.err
}

func (f *fakeFS) GetChildren(dir string, opts storage.IOOptions, dbg *storage.IODebugContext) ([]string, error) {
	f.record("GetChildren", opts, dbg, dir)
	if f.err != nil {
		return nil, f.err
	}
	return []string{"a", "b"}, nil
}

func (f *fakeFS) DeleteFile(fname string, opts storage.IOOptions, dbg *storage.IODebugContext) error {
	f.record("DeleteFile", opts, dbg, fname)
	return f.err
}

func (f *fakeFS) CreateDir(dirname string, opts storage.IOOptions, dbg *storage.IODebugContext) error {
	f.record("CreateDir", opts, dbg, dirname)
	return f.err
}

func (f *fakeFS) CreateDirIfMissing(dirname string, opts storage.IOOptions, dbg *storage.IODebugContext) error {
	f.record("CreateDirIfMissing", opts, dbg, dirname)
	return f.err
}

func (f *fakeFS) DeleteDir(dirname string, opts storage.IOOptions, dbg *storage.IODebugContext) error {
	f.record("DeleteDir", opts, dbg, dirname)
	return f.err
}

func (f *fakeFS) GetFileSize(fname string, opts storage.IOOptions, dbg *storage.IODebugContext) (uint64, error) {
	f.record("GetFileSize", opts, dbg, fname)
	return 42, f.err
}

func (f *fakeFS) GetFileModificationTime(fname string, opts storage.IOOptions, dbg *storage.IODebugContext) (time.Time, error) {
	f.record("GetFileModificationTime", opts, dbg, fname)
	return time.Unix(1700000000, 0), f.err
}

func (f *fakeFS) RenameFile(src, target string, opts storage.IOOptions, dbg *storage.IODebugContext) error {
	f.record("RenameFile", opts, dbg, src, target)
	return f.err
}
