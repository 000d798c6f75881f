package adapters

import (
	"errors"
	"io"
	"os"
	"time"

	"github.com/go-kit/log"

	"github.com/youscentia/ydb-fsenv/vfs/storage"
)

var _ storage.FileSystem = (*OSAdapter)(nil)

// OSAdapter serves storage files from the local file system.
type OSAdapter struct {
	logger   log.Logger
	checksum storage.ChecksumType
}

func NewOSAdapter(opts ...Option) *OSAdapter {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return &OSAdapter{logger: o.logger, checksum: o.handoffChecksumType}
}

func (a *OSAdapter) Name() string { return "os" }

func (a *OSAdapter) NewSequentialFile(fname string, opts storage.FileOptions, _ *storage.IODebugContext) (storage.SequentialFile, error) {
	f, err := openFile(fname, os.O_RDONLY, opts.UseDirectReads)
	if err != nil {
		return nil, storage.FromOSError("open", fname, err)
	}
	return &osSequentialFile{file: f, name: fname, direct: opts.UseDirectReads}, nil
}

func (a *OSAdapter) NewRandomAccessFile(fname string, opts storage.FileOptions, _ *storage.IODebugContext) (storage.RandomAccessFile, error) {
	f, err := openFile(fname, os.O_RDONLY, opts.UseDirectReads)
	if err != nil {
		return nil, storage.FromOSError("open", fname, err)
	}
	return &osRandomAccessFile{file: f, name: fname, direct: opts.UseDirectReads}, nil
}

func (a *OSAdapter) NewWritableFile(fname string, opts storage.FileOptions, _ *storage.IODebugContext) (storage.WritableFile, error) {
	f, err := openFile(fname, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, opts.UseDirectWrites)
	if err != nil {
		return nil, storage.FromOSError("open", fname, err)
	}
	return a.newWritable(f, fname, 0, opts), nil
}

func (a *OSAdapter) ReopenWritableFile(fname string, opts storage.FileOptions, _ *storage.IODebugContext) (storage.WritableFile, error) {
	f, err := openFile(fname, os.O_WRONLY|os.O_CREATE, opts.UseDirectWrites)
	if err != nil {
		return nil, storage.FromOSError("open", fname, err)
	}
	fi, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, storage.FromOSError("stat", fname, err)
	}
	return a.newWritable(f, fname, uint64(fi.Size()), opts), nil
}

// ReuseWritableFile renames oldFname to fname and writes it from offset 0.
// Bytes past the written data keep their old content.
func (a *OSAdapter) ReuseWritableFile(fname, oldFname string, opts storage.FileOptions, _ *storage.IODebugContext) (storage.WritableFile, error) {
	if err := os.Rename(oldFname, fname); err != nil {
		return nil, storage.FromOSError("rename", oldFname, err)
	}
	f, err := openFile(fname, os.O_WRONLY|os.O_CREATE, opts.UseDirectWrites)
	if err != nil {
		return nil, storage.FromOSError("open", fname, err)
	}
	return a.newWritable(f, fname, 0, opts), nil
}

func (a *OSAdapter) newWritable(f *os.File, fname string, size uint64, opts storage.FileOptions) *osWritableFile {
	if opts.HandoffChecksumType == storage.ChecksumNone {
		opts.HandoffChecksumType = a.checksum
	}
	return &osWritableFile{
		file:   f,
		name:   fname,
		size:   size,
		opts:   opts,
		logger: log.With(a.logger, "file", fname),
	}
}

func (a *OSAdapter) NewRandomRWFile(fname string, opts storage.FileOptions, _ *storage.IODebugContext) (storage.RandomRWFile, error) {
	direct := opts.UseDirectReads && opts.UseDirectWrites
	f, err := openFile(fname, os.O_RDWR, direct)
	if err != nil {
		return nil, storage.FromOSError("open", fname, err)
	}
	return &osRandomRWFile{file: f, name: fname, direct: direct}, nil
}

func (a *OSAdapter) NewDirectory(name string, _ storage.IOOptions, _ *storage.IODebugContext) (storage.Directory, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, storage.FromOSError("open", name, err)
	}
	fi, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, storage.FromOSError("stat", name, err)
	}
	if !fi.IsDir() {
		_ = f.Close()
		return nil, storage.InvalidArgument("open", name, "not a directory")
	}
	return &osDirectory{file: f, name: name}, nil
}

func (a *OSAdapter) FileExists(fname string, _ storage.IOOptions, _ *storage.IODebugContext) error {
	_, err := os.Stat(fname)
	return storage.FromOSError("stat", fname, err)
}

func (a *OSAdapter) GetChildren(dir string, _ storage.IOOptions, _ *storage.IODebugContext) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, storage.FromOSError("readdir", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names, nil
}

func (a *OSAdapter) DeleteFile(fname string, _ storage.IOOptions, _ *storage.IODebugContext) error {
	return storage.FromOSError("unlink", fname, os.Remove(fname))
}

func (a *OSAdapter) CreateDir(dirname string, _ storage.IOOptions, _ *storage.IODebugContext) error {
	return storage.FromOSError("mkdir", dirname, os.Mkdir(dirname, 0o755))
}

func (a *OSAdapter) CreateDirIfMissing(dirname string, _ storage.IOOptions, _ *storage.IODebugContext) error {
	err := os.Mkdir(dirname, 0o755)
	if errors.Is(err, os.ErrExist) {
		fi, statErr := os.Stat(dirname)
		if statErr != nil {
			return storage.FromOSError("stat", dirname, statErr)
		}
		if !fi.IsDir() {
			return storage.NewIOError("mkdir", dirname, errors.New("exists but is not a directory"))
		}
		return nil
	}
	return storage.FromOSError("mkdir", dirname, err)
}

func (a *OSAdapter) DeleteDir(dirname string, _ storage.IOOptions, _ *storage.IODebugContext) error {
	return storage.FromOSError("rmdir", dirname, os.Remove(dirname))
}

func (a *OSAdapter) GetFileSize(fname string, _ storage.IOOptions, _ *storage.IODebugContext) (uint64, error) {
	fi, err := os.Stat(fname)
	if err != nil {
		return 0, storage.FromOSError("stat", fname, err)
	}
	return uint64(fi.Size()), nil
}

func (a *OSAdapter) GetFileModificationTime(fname string, _ storage.IOOptions, _ *storage.IODebugContext) (time.Time, error) {
	fi, err := os.Stat(fname)
	if err != nil {
		return time.Time{}, storage.FromOSError("stat", fname, err)
	}
	return fi.ModTime(), nil
}

func (a *OSAdapter) RenameFile(src, target string, _ storage.IOOptions, _ *storage.IODebugContext) error {
	return storage.FromOSError("rename", src, os.Rename(src, target))
}

func openFile(name string, flag int, direct bool) (*os.File, error) {
	if direct {
		df, err := directFlag()
		if err != nil {
			return nil, err
		}
		flag |= df
	}
	return os.OpenFile(name, flag, 0o644)
}

// preadFull reads n bytes at offset. Hitting the end of the file is not an
// error; the result is just shorter.
func preadFull(f *os.File, name string, offset uint64, n int, scratch []byte) ([]byte, error) {
	if n < 0 {
		return nil, storage.InvalidArgument("pread", name, "negative length %d", n)
	}
	if len(scratch) < n {
		return nil, storage.InvalidArgument("pread", name, "scratch holds %d bytes, want %d", len(scratch), n)
	}
	m, err := f.ReadAt(scratch[:n], int64(offset))
	if err != nil && err != io.EOF {
		return scratch[:m], storage.FromOSError("pread", name, err)
	}
	return scratch[:m], nil
}
