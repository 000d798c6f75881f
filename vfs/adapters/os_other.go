//go:build !linux

package adapters

import (
	"errors"
	"os"

	"github.com/youscentia/ydb-fsenv/vfs/storage"
)

const uniqueIDSupported = false

func directFlag() (int, error) { return 0, errors.ErrUnsupported }

func fdatasync(f *os.File) error { return f.Sync() }

func fallocate(*os.File, int64, int64, bool) error { return errors.ErrUnsupported }

func fadvise(*os.File, int64, int64, storage.AccessPattern) error { return nil }

func syncFileRange(*os.File, int64, int64) error { return errors.ErrUnsupported }

// uniqueID has no stable source outside Linux.
func uniqueID(*os.File, []byte) int { return 0 }
