// Package composite presents a storage.FileSystem through the vfs API.
//
// Every wrapper forwards each call to the storage handle it owns, passing a
// zero storage.IOOptions and a fresh storage.IODebugContext. Calls made this
// way therefore carry no deadline, priority or rate-limiter priority. Errors
// from the storage layer are returned unchanged.
package composite

import (
	"time"

	"github.com/youscentia/ydb-fsenv/vfs"
	"github.com/youscentia/ydb-fsenv/vfs/storage"
)

var _ vfs.Env = (*Env)(nil)

type Env struct {
	fs storage.FileSystem
}

func NewEnv(fs storage.FileSystem) *Env {
	return &Env{fs: fs}
}

func (e *Env) FileSystem() storage.FileSystem {
	return e.fs
}

func (e *Env) NewSequentialFile(fname string, opts vfs.EnvOptions) (vfs.SequentialFile, error) {
	var dbg storage.IODebugContext
	f, err := e.fs.NewSequentialFile(fname, storage.NewFileOptions(opts), &dbg)
	if err != nil {
		return nil, err
	}
	return NewSequentialFile(f), nil
}

func (e *Env) NewRandomAccessFile(fname string, opts vfs.EnvOptions) (vfs.RandomAccessFile, error) {
	var dbg storage.IODebugContext
	f, err := e.fs.NewRandomAccessFile(fname, storage.NewFileOptions(opts), &dbg)
	if err != nil {
		return nil, err
	}
	return NewRandomAccessFile(f), nil
}

func (e *Env) NewWritableFile(fname string, opts vfs.EnvOptions) (vfs.WritableFile, error) {
	var dbg storage.IODebugContext
	f, err := e.fs.NewWritableFile(fname, storage.NewFileOptions(opts), &dbg)
	if err != nil {
		return nil, err
	}
	return NewWritableFile(f), nil
}

func (e *Env) ReopenWritableFile(fname string, opts vfs.EnvOptions) (vfs.WritableFile, error) {
	var dbg storage.IODebugContext
	f, err := e.fs.ReopenWritableFile(fname, storage.NewFileOptions(opts), &dbg)
	if err != nil {
		return nil, err
	}
	return NewWritableFile(f), nil
}

func (e *Env) ReuseWritableFile(fname, oldFname string, opts vfs.EnvOptions) (vfs.WritableFile, error) {
	var dbg storage.IODebugContext
	f, err := e.fs.ReuseWritableFile(fname, oldFname, storage.NewFileOptions(opts), &dbg)
	if err != nil {
		return nil, err
	}
	return NewWritableFile(f), nil
}

func (e *Env) NewRandomRWFile(fname string, opts vfs.EnvOptions) (vfs.RandomRWFile, error) {
	var dbg storage.IODebugContext
	f, err := e.fs.NewRandomRWFile(fname, storage.NewFileOptions(opts), &dbg)
	if err != nil {
		return nil, err
	}
	return NewRandomRWFile(f), nil
}

func (e *Env) NewDirectory(name string) (vfs.Directory, error) {
	var dbg storage.IODebugContext
	d, err := e.fs.NewDirectory(name, storage.IOOptions{}, &dbg)
	if err != nil {
		return nil, err
	}
	return NewDirectory(d), nil
}

func (e *Env) FileExists(fname string) error {
	var dbg storage.IODebugContext
	return e.fs.FileExists(fname, storage.IOOptions{}, &dbg)
}

func (e *Env) GetChildren(dir string) ([]string, error) {
	var dbg storage.IODebugContext
	return e.fs.GetChildren(dir, storage.IOOptions{}, &dbg)
}

func (e *Env) DeleteFile(fname string) error {
	var dbg storage.IODebugContext
	return e.fs.DeleteFile(fname, storage.IOOptions{}, &dbg)
}

func (e *Env) CreateDir(dirname string) error {
	var dbg storage.IODebugContext
	return e.fs.CreateDir(dirname, storage.IOOptions{}, &dbg)
}

func (e *Env) CreateDirIfMissing(dirname string) error {
	var dbg storage.IODebugContext
	return e.fs.CreateDirIfMissing(dirname, storage.IOOptions{}, &dbg)
}

func (e *Env) DeleteDir(dirname string) error {
	var dbg storage.IODebugContext
	return e.fs.DeleteDir(dirname, storage.IOOptions{}, &dbg)
}

func (e *Env) GetFileSize(fname string) (uint64, error) {
	var dbg storage.IODebugContext
	return e.fs.GetFileSize(fname, storage.IOOptions{}, &dbg)
}

func (e *Env) GetFileModificationTime(fname string) (time.Time, error) {
	var dbg storage.IODebugContext
	return e.fs.GetFileModificationTime(fname, storage.IOOptions{}, &dbg)
}

func (e *Env) RenameFile(src, target string) error {
	var dbg storage.IODebugContext
	return e.fs.RenameFile(src, target, storage.IOOptions{}, &dbg)
}
