//go:build linux

package adapters

import (
	"encoding/binary"
	"os"

	"golang.org/x/sys/unix"

	"github.com/youscentia/ydb-fsenv/vfs/storage"
)

const uniqueIDSupported = true

func directFlag() (int, error) { return unix.O_DIRECT, nil }

func fdatasync(f *os.File) error {
	return unix.Fdatasync(int(f.Fd()))
}

func fallocate(f *os.File, offset, length int64, keepSize bool) error {
	var mode uint32
	if keepSize {
		mode = unix.FALLOC_FL_KEEP_SIZE
	}
	return unix.Fallocate(int(f.Fd()), mode, offset, length)
}

func fadvise(f *os.File, offset, length int64, pattern storage.AccessPattern) error {
	advice := unix.FADV_NORMAL
	switch pattern {
	case storage.AccessRandom:
		advice = unix.FADV_RANDOM
	case storage.AccessSequential:
		advice = unix.FADV_SEQUENTIAL
	case storage.AccessWillNeed:
		advice = unix.FADV_WILLNEED
	case storage.AccessWontNeed:
		advice = unix.FADV_DONTNEED
	}
	return unix.Fadvise(int(f.Fd()), offset, length, advice)
}

func syncFileRange(f *os.File, offset, nbytes int64) error {
	return unix.SyncFileRange(int(f.Fd()), offset, nbytes, unix.SYNC_FILE_RANGE_WRITE)
}

// uniqueID encodes the device and inode numbers of f. It returns 0 when id
// is too small to hold any identifier this package can produce.
func uniqueID(f *os.File, id []byte) int {
	if len(id) < storage.MaxUniqueIDSize {
		return 0
	}
	var st unix.Stat_t
	if err := unix.Fstat(int(f.Fd()), &st); err != nil {
		return 0
	}
	n := binary.PutUvarint(id, uint64(st.Dev))
	n += binary.PutUvarint(id[n:], uint64(st.Ino))
	return n
}
