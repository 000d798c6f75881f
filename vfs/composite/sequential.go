package composite

import (
	"github.com/youscentia/ydb-fsenv/vfs"
	"github.com/youscentia/ydb-fsenv/vfs/storage"
)

var _ vfs.SequentialFile = (*SequentialFile)(nil)

// SequentialFile owns target; nothing else may use it once it is wrapped.
type SequentialFile struct {
	target storage.SequentialFile
}

func NewSequentialFile(target storage.SequentialFile) *SequentialFile {
	return &SequentialFile{target: target}
}

func (f *SequentialFile) Read(n int, scratch []byte) ([]byte, error) {
	var dbg storage.IODebugContext
	return f.target.Read(n, storage.IOOptions{}, scratch, &dbg)
}

func (f *SequentialFile) Skip(n uint64) error {
	return f.target.Skip(n)
}

func (f *SequentialFile) UseDirectIO() bool {
	return f.target.UseDirectIO()
}

func (f *SequentialFile) RequiredBufferAlignment() int {
	return f.target.RequiredBufferAlignment()
}

func (f *SequentialFile) InvalidateCache(offset, length int) error {
	return f.target.InvalidateCache(offset, length)
}

func (f *SequentialFile) PositionedRead(offset uint64, n int, scratch []byte) ([]byte, error) {
	var dbg storage.IODebugContext
	return f.target.PositionedRead(offset, n, storage.IOOptions{}, scratch, &dbg)
}

func (f *SequentialFile) Close() error {
	var dbg storage.IODebugContext
	return f.target.Close(storage.IOOptions{}, &dbg)
}
