package vfs

import (
	"time"
)

// Env is the file API the storage engine codes against. Calls carry no
// per-call I/O options or debug context.
type Env interface {
	NewSequentialFile(fname string, opts EnvOptions) (SequentialFile, error)
	NewRandomAccessFile(fname string, opts EnvOptions) (RandomAccessFile, error)
	NewWritableFile(fname string, opts EnvOptions) (WritableFile, error)
	ReopenWritableFile(fname string, opts EnvOptions) (WritableFile, error)
	ReuseWritableFile(fname, oldFname string, opts EnvOptions) (WritableFile, error)
	NewRandomRWFile(fname string, opts EnvOptions) (RandomRWFile, error)
	NewDirectory(name string) (Directory, error)

	FileExists(fname string) error
	GetChildren(dir string) ([]string, error)
	DeleteFile(fname string) error
	CreateDir(dirname string) error
	CreateDirIfMissing(dirname string) error
	DeleteDir(dirname string) error
	GetFileSize(fname string) (uint64, error)
	GetFileModificationTime(fname string) (time.Time, error)
	RenameFile(src, target string) error
}

type SequentialFile interface {
	// Read reads up to n bytes into scratch and returns the filled prefix.
	// A result shorter than n means the end of the file was reached.
	Read(n int, scratch []byte) ([]byte, error)
	Skip(n uint64) error
	PositionedRead(offset uint64, n int, scratch []byte) ([]byte, error)
	UseDirectIO() bool
	RequiredBufferAlignment() int
	InvalidateCache(offset, length int) error
	Close() error
}

type RandomAccessFile interface {
	Read(offset uint64, n int, scratch []byte) ([]byte, error)
	// MultiRead serves every request independently. The returned error only
	// reports call-level failure; callers must also check each Status.
	MultiRead(reqs []ReadRequest) error
	Prefetch(offset uint64, n int) error
	// GetUniqueId writes a stable identifier into id and returns its length,
	// or 0 when the file has no stable identifier.
	GetUniqueId(id []byte) int
	Hint(pattern AccessPattern)
	UseDirectIO() bool
	RequiredBufferAlignment() int
	InvalidateCache(offset, length int) error
	Close() error
}

type WritableFile interface {
	Append(data []byte) error
	AppendWithVerification(data []byte, info DataVerificationInfo) error
	PositionedAppend(data []byte, offset uint64) error
	PositionedAppendWithVerification(data []byte, offset uint64, info DataVerificationInfo) error
	Truncate(size uint64) error
	Close() error
	Flush() error
	Sync() error
	Fsync() error
	IsSyncThreadSafe() bool
	UseDirectIO() bool
	RequiredBufferAlignment() int
	SetWriteLifeTimeHint(hint WriteLifeTimeHint)
	GetWriteLifeTimeHint() WriteLifeTimeHint
	GetFileSize() uint64
	SetPreallocationBlockSize(size int)
	GetPreallocationStatus() (blockSize, lastAllocatedBlock int)
	GetUniqueId(id []byte) int
	InvalidateCache(offset, length int) error
	RangeSync(offset, nbytes uint64) error
	PrepareWrite(offset, length int)
	Allocate(offset, length uint64) error
}

type RandomRWFile interface {
	UseDirectIO() bool
	RequiredBufferAlignment() int
	Write(offset uint64, data []byte) error
	Read(offset uint64, n int, scratch []byte) ([]byte, error)
	Flush() error
	Sync() error
	Fsync() error
	Close() error
}

type Directory interface {
	Fsync() error
	GetUniqueId(id []byte) int
	Close() error
}

// ReadRequest is one element of a MultiRead batch. Offset, Len and Scratch
// are inputs; Result and Status are filled in by the read.
type ReadRequest struct {
	Offset  uint64
	Len     int
	Scratch []byte

	Result []byte
	Status error
}

type AccessPattern int

const (
	AccessNormal AccessPattern = iota
	AccessRandom
	AccessSequential
	AccessWillNeed
	AccessWontNeed
)

type WriteLifeTimeHint int

const (
	WLTHNotSet WriteLifeTimeHint = iota
	WLTHNone
	WLTHShort
	WLTHMedium
	WLTHLong
	WLTHExtreme
)

// DataVerificationInfo travels with a write so the layer below can verify
// what it received. Checksum is opaque to this package.
type DataVerificationInfo struct {
	Checksum []byte
}

type EnvOptions struct {
	UseMmapReads              bool
	UseMmapWrites             bool
	UseDirectReads            bool
	UseDirectWrites           bool
	AllowFallocate            bool
	SetFdCloexec              bool
	FallocateWithKeepSize     bool
	BytesPerSync              uint64
	CompactionReadaheadSize   int
	WritableFileMaxBufferSize int
}

func DefaultEnvOptions() EnvOptions {
	return EnvOptions{
		AllowFallocate:            true,
		SetFdCloexec:              true,
		FallocateWithKeepSize:     true,
		WritableFileMaxBufferSize: 1024 * 1024,
	}
}
