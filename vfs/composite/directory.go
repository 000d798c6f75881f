package composite

import (
	"github.com/youscentia/ydb-fsenv/vfs"
	"github.com/youscentia/ydb-fsenv/vfs/storage"
)

var _ vfs.Directory = (*Directory)(nil)

type Directory struct {
	target storage.Directory
}

func NewDirectory(target storage.Directory) *Directory {
	return &Directory{target: target}
}

// Fsync always asks for the default directory sync; vfs.Directory has no way
// to say why the directory is being synced.
func (d *Directory) Fsync() error {
	var dbg storage.IODebugContext
	return d.target.FsyncWithDirOptions(storage.IOOptions{}, &dbg, storage.DirFsyncOptions{})
}

func (d *Directory) GetUniqueId(id []byte) int {
	return d.target.GetUniqueId(id)
}

func (d *Directory) Close() error {
	var dbg storage.IODebugContext
	return d.target.Close(storage.IOOptions{}, &dbg)
}
