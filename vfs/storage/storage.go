// Package storage is the file API that backends implement. Unlike the vfs
// API, every call that may block takes an IOOptions value and an
// IODebugContext the backend may fill in.
package storage

import (
	"time"

	"github.com/youscentia/ydb-fsenv/vfs"
)

const (
	DefaultPageSize = 4096

	// MaxUniqueIDSize is large enough for any identifier a backend in this
	// module produces: three uvarint encoded 64-bit values.
	MaxUniqueIDSize = 3 * 10
)

type FileSystem interface {
	Name() string

	NewSequentialFile(fname string, opts FileOptions, dbg *IODebugContext) (SequentialFile, error)
	NewRandomAccessFile(fname string, opts FileOptions, dbg *IODebugContext) (RandomAccessFile, error)
	NewWritableFile(fname string, opts FileOptions, dbg *IODebugContext) (WritableFile, error)
	ReopenWritableFile(fname string, opts FileOptions, dbg *IODebugContext) (WritableFile, error)
	ReuseWritableFile(fname, oldFname string, opts FileOptions, dbg *IODebugContext) (WritableFile, error)
	NewRandomRWFile(fname string, opts FileOptions, dbg *IODebugContext) (RandomRWFile, error)
	NewDirectory(name string, opts IOOptions, dbg *IODebugContext) (Directory, error)

	FileExists(fname string, opts IOOptions, dbg *IODebugContext) error
	GetChildren(dir string, opts IOOptions, dbg *IODebugContext) ([]string, error)
	DeleteFile(fname string, opts IOOptions, dbg *IODebugContext) error
	CreateDir(dirname string, opts IOOptions, dbg *IODebugContext) error
	CreateDirIfMissing(dirname string, opts IOOptions, dbg *IODebugContext) error
	DeleteDir(dirname string, opts IOOptions, dbg *IODebugContext) error
	GetFileSize(fname string, opts IOOptions, dbg *IODebugContext) (uint64, error)
	GetFileModificationTime(fname string, opts IOOptions, dbg *IODebugContext) (time.Time, error)
	RenameFile(src, target string, opts IOOptions, dbg *IODebugContext) error
}

type SequentialFile interface {
	Read(n int, opts IOOptions, scratch []byte, dbg *IODebugContext) ([]byte, error)
	Skip(n uint64) error
	PositionedRead(offset uint64, n int, opts IOOptions, scratch []byte, dbg *IODebugContext) ([]byte, error)
	UseDirectIO() bool
	RequiredBufferAlignment() int
	InvalidateCache(offset, length int) error
	Close(opts IOOptions, dbg *IODebugContext) error
}

type RandomAccessFile interface {
	Read(offset uint64, n int, opts IOOptions, scratch []byte, dbg *IODebugContext) ([]byte, error)
	// MultiRead fills Result and Status of every request. The returned error
	// is reserved for failures of the call as a whole.
	MultiRead(reqs []ReadRequest, opts IOOptions, dbg *IODebugContext) error
	Prefetch(offset uint64, n int, opts IOOptions, dbg *IODebugContext) error
	GetUniqueId(id []byte) int
	Hint(pattern AccessPattern)
	UseDirectIO() bool
	RequiredBufferAlignment() int
	InvalidateCache(offset, length int) error
	Close(opts IOOptions, dbg *IODebugContext) error
}

type WritableFile interface {
	Append(data []byte, opts IOOptions, dbg *IODebugContext) error
	AppendWithVerification(data []byte, opts IOOptions, info vfs.DataVerificationInfo, dbg *IODebugContext) error
	PositionedAppend(data []byte, offset uint64, opts IOOptions, dbg *IODebugContext) error
	PositionedAppendWithVerification(data []byte, offset uint64, opts IOOptions, info vfs.DataVerificationInfo, dbg *IODebugContext) error
	Truncate(size uint64, opts IOOptions, dbg *IODebugContext) error
	Close(opts IOOptions, dbg *IODebugContext) error
	Flush(opts IOOptions, dbg *IODebugContext) error
	Sync(opts IOOptions, dbg *IODebugContext) error
	Fsync(opts IOOptions, dbg *IODebugContext) error
	IsSyncThreadSafe() bool
	UseDirectIO() bool
	RequiredBufferAlignment() int
	SetWriteLifeTimeHint(hint vfs.WriteLifeTimeHint)
	GetWriteLifeTimeHint() vfs.WriteLifeTimeHint
	GetFileSize(opts IOOptions, dbg *IODebugContext) uint64
	SetPreallocationBlockSize(size int)
	GetPreallocationStatus() (blockSize, lastAllocatedBlock int)
	GetUniqueId(id []byte) int
	InvalidateCache(offset, length int) error
	RangeSync(offset, nbytes uint64, opts IOOptions, dbg *IODebugContext) error
	PrepareWrite(offset, length int, opts IOOptions, dbg *IODebugContext)
	Allocate(offset, length uint64, opts IOOptions, dbg *IODebugContext) error
}

type RandomRWFile interface {
	UseDirectIO() bool
	RequiredBufferAlignment() int
	Write(offset uint64, data []byte, opts IOOptions, dbg *IODebugContext) error
	Read(offset uint64, n int, opts IOOptions, scratch []byte, dbg *IODebugContext) ([]byte, error)
	Flush(opts IOOptions, dbg *IODebugContext) error
	Sync(opts IOOptions, dbg *IODebugContext) error
	Fsync(opts IOOptions, dbg *IODebugContext) error
	Close(opts IOOptions, dbg *IODebugContext) error
}

type Directory interface {
	Fsync(opts IOOptions, dbg *IODebugContext) error
	FsyncWithDirOptions(opts IOOptions, dbg *IODebugContext, dirOpts DirFsyncOptions) error
	GetUniqueId(id []byte) int
	Close(opts IOOptions, dbg *IODebugContext) error
}

type ReadRequest struct {
	Offset  uint64
	Len     int
	Scratch []byte

	Result []byte
	Status error
}

// AccessPattern shares its ordinals with vfs.AccessPattern.
type AccessPattern int

const (
	AccessNormal AccessPattern = iota
	AccessRandom
	AccessSequential
	AccessWillNeed
	AccessWontNeed
)

func (p AccessPattern) String() string {
	switch p {
	case AccessNormal:
		return "normal"
	case AccessRandom:
		return "random"
	case AccessSequential:
		return "sequential"
	case AccessWillNeed:
		return "willneed"
	case AccessWontNeed:
		return "wontneed"
	}
	return "unknown"
}

type FsyncReason int

const (
	FsyncDefault FsyncReason = iota
	FsyncNewFileSynced
	FsyncFileRenamed
	FsyncDirRenamed
	FsyncFileDeleted
)

// DirFsyncOptions lets callers tell the backend why a directory is synced so
// it can skip work the file system already guarantees. The zero value asks
// for a plain fsync.
type DirFsyncOptions struct {
	Reason         FsyncReason
	RenamedNewName string
}
