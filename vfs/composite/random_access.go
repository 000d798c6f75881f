package composite

import (
	"github.com/youscentia/ydb-fsenv/vfs"
	"github.com/youscentia/ydb-fsenv/vfs/storage"
)

var _ vfs.RandomAccessFile = (*RandomAccessFile)(nil)

type RandomAccessFile struct {
	target storage.RandomAccessFile
}

func NewRandomAccessFile(target storage.RandomAccessFile) *RandomAccessFile {
	return &RandomAccessFile{target: target}
}

func (f *RandomAccessFile) Read(offset uint64, n int, scratch []byte) ([]byte, error) {
	var dbg storage.IODebugContext
	return f.target.Read(offset, n, storage.IOOptions{}, scratch, &dbg)
}

// MultiRead translates reqs into one storage batch and copies every result
// and status back into the request at the same index. Statuses start out nil
// so elements the backend leaves untouched read as successful.
func (f *RandomAccessFile) MultiRead(reqs []vfs.ReadRequest) error {
	var dbg storage.IODebugContext
	fsReqs := make([]storage.ReadRequest, len(reqs))
	for i := range reqs {
		fsReqs[i].Offset = reqs[i].Offset
		fsReqs[i].Len = reqs[i].Len
		fsReqs[i].Scratch = reqs[i].Scratch
		fsReqs[i].Status = nil
	}
	err := f.target.MultiRead(fsReqs, storage.IOOptions{}, &dbg)
	for i := range reqs {
		reqs[i].Result = fsReqs[i].Result
		reqs[i].Status = fsReqs[i].Status
	}
	return err
}

func (f *RandomAccessFile) Prefetch(offset uint64, n int) error {
	var dbg storage.IODebugContext
	return f.target.Prefetch(offset, n, storage.IOOptions{}, &dbg)
}

func (f *RandomAccessFile) GetUniqueId(id []byte) int {
	return f.target.GetUniqueId(id)
}

func (f *RandomAccessFile) Hint(pattern vfs.AccessPattern) {
	f.target.Hint(storage.AccessPattern(pattern))
}

func (f *RandomAccessFile) UseDirectIO() bool {
	return f.target.UseDirectIO()
}

func (f *RandomAccessFile) RequiredBufferAlignment() int {
	return f.target.RequiredBufferAlignment()
}

func (f *RandomAccessFile) InvalidateCache(offset, length int) error {
	return f.target.InvalidateCache(offset, length)
}

func (f *RandomAccessFile) Close() error {
	var dbg storage.IODebugContext
	return f.target.Close(storage.IOOptions{}, &dbg)
}
