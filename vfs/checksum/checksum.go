// Package checksum computes and verifies the hand-off checksums that travel
// with verified appends.
package checksum

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/zeebo/xxh3"

	"github.com/youscentia/ydb-fsenv/vfs"
	"github.com/youscentia/ydb-fsenv/vfs/storage"
)

type Type = storage.ChecksumType

const (
	None     = storage.ChecksumNone
	CRC32c   = storage.ChecksumCRC32c
	XXHash64 = storage.ChecksumXXHash64
	XXH3     = storage.ChecksumXXH3
)

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// Size returns the encoded checksum length for t.
func Size(t Type) int {
	switch t {
	case CRC32c:
		return 4
	case XXHash64, XXH3:
		return 8
	}
	return 0
}

// Compute returns the big-endian encoded checksum of data. None yields nil.
func Compute(t Type, data []byte) []byte {
	switch t {
	case CRC32c:
		return binary.BigEndian.AppendUint32(nil, crc32.Checksum(data, castagnoli))
	case XXHash64:
		return binary.BigEndian.AppendUint64(nil, xxhash.Sum64(data))
	case XXH3:
		return binary.BigEndian.AppendUint64(nil, xxh3.Hash(data))
	}
	return nil
}

// Info wraps the checksum of data for a verified append.
func Info(t Type, data []byte) vfs.DataVerificationInfo {
	return vfs.DataVerificationInfo{Checksum: Compute(t, data)}
}

// Verify checks sum against data. None accepts anything.
func Verify(t Type, data, sum []byte) error {
	if t == None {
		return nil
	}
	if len(sum) != Size(t) {
		return storage.Corruption("verify", "", "%s checksum has %d bytes, want %d", Name(t), len(sum), Size(t))
	}
	if want := Compute(t, data); !bytes.Equal(want, sum) {
		return storage.Corruption("verify", "", "%s checksum mismatch: got %x, want %x", Name(t), sum, want)
	}
	return nil
}

func Name(t Type) string {
	switch t {
	case None:
		return "none"
	case CRC32c:
		return "crc32c"
	case XXHash64:
		return "xxhash64"
	case XXH3:
		return "xxh3"
	}
	return fmt.Sprintf("checksum(%d)", int(t))
}

func Parse(s string) (Type, error) {
	switch strings.ToLower(s) {
	case "", "none":
		return None, nil
	case "crc32c":
		return CRC32c, nil
	case "xxhash64":
		return XXHash64, nil
	case "xxh3":
		return XXH3, nil
	}
	return None, fmt.Errorf("unknown checksum type %q", s)
}
