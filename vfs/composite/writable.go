package composite

import (
	"github.com/youscentia/ydb-fsenv/vfs"
	"github.com/youscentia/ydb-fsenv/vfs/storage"
)

var _ vfs.WritableFile = (*WritableFile)(nil)

type WritableFile struct {
	target storage.WritableFile
}

func NewWritableFile(target storage.WritableFile) *WritableFile {
	return &WritableFile{target: target}
}

// Target returns the owned storage handle. Callers must not close it or
// keep it past the lifetime of f.
func (f *WritableFile) Target() storage.WritableFile {
	return f.target
}

func (f *WritableFile) Append(data []byte) error {
	var dbg storage.IODebugContext
	return f.target.Append(data, storage.IOOptions{}, &dbg)
}

func (f *WritableFile) AppendWithVerification(data []byte, info vfs.DataVerificationInfo) error {
	var dbg storage.IODebugContext
	return f.target.AppendWithVerification(data, storage.IOOptions{}, info, &dbg)
}

func (f *WritableFile) PositionedAppend(data []byte, offset uint64) error {
	var dbg storage.IODebugContext
	return f.target.PositionedAppend(data, offset, storage.IOOptions{}, &dbg)
}

func (f *WritableFile) PositionedAppendWithVerification(data []byte, offset uint64, info vfs.DataVerificationInfo) error {
	var dbg storage.IODebugContext
	return f.target.PositionedAppendWithVerification(data, offset, storage.IOOptions{}, info, &dbg)
}

func (f *WritableFile) Truncate(size uint64) error {
	var dbg storage.IODebugContext
	return f.target.Truncate(size, storage.IOOptions{}, &dbg)
}

func (f *WritableFile) Close() error {
	var dbg storage.IODebugContext
	return f.target.Close(storage.IOOptions{}, &dbg)
}

func (f *WritableFile) Flush() error {
	var dbg storage.IODebugContext
	return f.target.Flush(storage.IOOptions{}, &dbg)
}

func (f *WritableFile) Sync() error {
	var dbg storage.IODebugContext
	return f.target.Sync(storage.IOOptions{}, &dbg)
}

func (f *WritableFile) Fsync() error {
	var dbg storage.IODebugContext
	return f.target.Fsync(storage.IOOptions{}, &dbg)
}

func (f *WritableFile) IsSyncThreadSafe() bool {
	return f.target.IsSyncThreadSafe()
}

func (f *WritableFile) UseDirectIO() bool {
	return f.target.UseDirectIO()
}

func (f *WritableFile) RequiredBufferAlignment() int {
	return f.target.RequiredBufferAlignment()
}

func (f *WritableFile) SetWriteLifeTimeHint(hint vfs.WriteLifeTimeHint) {
	f.target.SetWriteLifeTimeHint(hint)
}

func (f *WritableFile) GetWriteLifeTimeHint() vfs.WriteLifeTimeHint {
	return f.target.GetWriteLifeTimeHint()
}

func (f *WritableFile) GetFileSize() uint64 {
	var dbg storage.IODebugContext
	return f.target.GetFileSize(storage.IOOptions{}, &dbg)
}

func (f *WritableFile) SetPreallocationBlockSize(size int) {
	f.target.SetPreallocationBlockSize(size)
}

func (f *WritableFile) GetPreallocationStatus() (blockSize, lastAllocatedBlock int) {
	return f.target.GetPreallocationStatus()
}

func (f *WritableFile) GetUniqueId(id []byte) int {
	return f.target.GetUniqueId(id)
}

func (f *WritableFile) InvalidateCache(offset, length int) error {
	return f.target.InvalidateCache(offset, length)
}

func (f *WritableFile) RangeSync(offset, nbytes uint64) error {
	var dbg storage.IODebugContext
	return f.target.RangeSync(offset, nbytes, storage.IOOptions{}, &dbg)
}

func (f *WritableFile) PrepareWrite(offset, length int) {
	var dbg storage.IODebugContext
	f.target.PrepareWrite(offset, length, storage.IOOptions{}, &dbg)
}

func (f *WritableFile) Allocate(offset, length uint64) error {
	var dbg storage.IODebugContext
	return f.target.Allocate(offset, length, storage.IOOptions{}, &dbg)
}
