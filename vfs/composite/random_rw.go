package composite

import (
	"github.com/youscentia/ydb-fsenv/vfs"
	"github.com/youscentia/ydb-fsenv/vfs/storage"
)

var _ vfs.RandomRWFile = (*RandomRWFile)(nil)

type RandomRWFile struct {
	target storage.RandomRWFile
}

func NewRandomRWFile(target storage.RandomRWFile) *RandomRWFile {
	return &RandomRWFile{target: target}
}

func (f *RandomRWFile) UseDirectIO() bool {
	return f.target.UseDirectIO()
}

func (f *RandomRWFile) RequiredBufferAlignment() int {
	return f.target.RequiredBufferAlignment()
}

func (f *RandomRWFile) Write(offset uint64, data []byte) error {
	var dbg storage.IODebugContext
	return f.target.Write(offset, data, storage.IOOptions{}, &dbg)
}

func (f *RandomRWFile) Read(offset uint64, n int, scratch []byte) ([]byte, error) {
	var dbg storage.IODebugContext
	return f.target.Read(offset, n, storage.IOOptions{}, scratch, &dbg)
}

func (f *RandomRWFile) Flush() error {
	var dbg storage.IODebugContext
	return f.target.Flush(storage.IOOptions{}, &dbg)
}

func (f *RandomRWFile) Sync() error {
	var dbg storage.IODebugContext
	return f.target.Sync(storage.IOOptions{}, &dbg)
}

func (f *RandomRWFile) Fsync() error {
	var dbg storage.IODebugContext
	return f.target.Fsync(storage.IOOptions{}, &dbg)
}

func (f *RandomRWFile) Close() error {
	var dbg storage.IODebugContext
	return f.target.Close(storage.IOOptions{}, &dbg)
}
