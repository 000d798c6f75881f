package adapters

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/thanos-io/objstore"

	"github.com/youscentia/ydb-fsenv/vfs/checksum"
	"github.com/youscentia/ydb-fsenv/vfs/storage"
)

func objectContent(t *testing.T, bkt objstore.Bucket, name string) string {
	t.Helper()
	rc, err := bkt.Get(context.Background(), name)
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	return string(data)
}

func TestBucketAdapter_NotFound(t *testing.T) {
	fs := NewBucketAdapter(objstore.NewInMemBucket())

	_, err := fs.NewSequentialFile("db/missing", storage.FileOptions{}, nil)
	require.True(t, storage.IsNotFound(err))
	_, err = fs.NewRandomAccessFile("db/missing", storage.FileOptions{}, nil)
	require.True(t, storage.IsNotFound(err))
	require.True(t, storage.IsNotFound(fs.FileExists("db/missing", noIO, nil)))
	require.True(t, storage.IsNotFound(fs.DeleteFile("db/missing", noIO, nil)))
	_, err = fs.GetFileSize("db/missing", noIO, nil)
	require.True(t, storage.IsNotFound(err))
	_, err = fs.ReuseWritableFile("db/new", "db/missing", storage.FileOptions{}, nil)
	require.True(t, storage.IsNotFound(err))
}

func TestBucketAdapter_RandomRWNotSupported(t *testing.T) {
	fs := NewBucketAdapter(objstore.NewInMemBucket())
	_, err := fs.NewRandomRWFile("db/f", storage.FileOptions{}, nil)
	require.True(t, storage.IsNotSupported(err))
}

func TestBucketAdapter_UploadOnSync(t *testing.T) {
	bkt := objstore.NewInMemBucket()
	fs := NewBucketAdapter(bkt)

	w, err := fs.NewWritableFile("/db//000001.log", storage.FileOptions{}, nil)
	require.NoError(t, err)
	require.Equal(t, "", objectContent(t, bkt, "db/000001.log"))

	require.NoError(t, w.Append([]byte("abc"), noIO, nil))
	require.Equal(t, uint64(3), w.GetFileSize(noIO, nil))
	require.Equal(t, "", objectContent(t, bkt, "db/000001.log"))

	require.NoError(t, w.Sync(noIO, nil))
	require.Equal(t, "abc", objectContent(t, bkt, "db/000001.log"))

	require.NoError(t, w.PositionedAppend([]byte("XY"), 1, noIO, nil))
	require.NoError(t, w.Close(noIO, nil))
	require.Equal(t, "aXY", objectContent(t, bkt, "db/000001.log"))

	size, err := fs.GetFileSize("db/000001.log", noIO, nil)
	require.NoError(t, err)
	require.Equal(t, uint64(3), size)
}

func TestBucketAdapter_ReopenAndReuse(t *testing.T) {
	bkt := objstore.NewInMemBucket()
	fs := NewBucketAdapter(bkt)
	writeFile(t, fs, "db/MANIFEST-000001", []byte("abc"))

	w, err := fs.ReopenWritableFile("db/MANIFEST-000001", storage.FileOptions{}, nil)
	require.NoError(t, err)
	require.Equal(t, uint64(3), w.GetFileSize(noIO, nil))
	require.NoError(t, w.Append([]byte("def"), noIO, nil))
	require.NoError(t, w.Close(noIO, nil))
	require.Equal(t, "abcdef", objectContent(t, bkt, "db/MANIFEST-000001"))

	w, err = fs.ReopenWritableFile("db/CURRENT", storage.FileOptions{}, nil)
	require.NoError(t, err)
	require.Zero(t, w.GetFileSize(noIO, nil))
	require.NoError(t, w.Close(noIO, nil))
	require.NoError(t, fs.FileExists("db/CURRENT", noIO, nil))

	w, err = fs.ReuseWritableFile("db/MANIFEST-000002", "db/MANIFEST-000001", storage.FileOptions{}, nil)
	require.NoError(t, err)
	require.NoError(t, w.Append([]byte("x"), noIO, nil))
	require.NoError(t, w.Close(noIO, nil))
	require.True(t, storage.IsNotFound(fs.FileExists("db/MANIFEST-000001", noIO, nil)))
	require.Equal(t, "x", objectContent(t, bkt, "db/MANIFEST-000002"))
}

func TestBucketAdapter_VerifiedAppend(t *testing.T) {
	bkt := objstore.NewInMemBucket()
	fs := NewBucketAdapter(bkt)

	w, err := fs.NewWritableFile("db/sst", storage.FileOptions{HandoffChecksumType: checksum.XXH3}, nil)
	require.NoError(t, err)

	data := []byte("block")
	require.NoError(t, w.AppendWithVerification(data, noIO, checksum.Info(checksum.XXH3, data), nil))
	err = w.AppendWithVerification([]byte("junk"), noIO, checksum.Info(checksum.XXH3, data), nil)
	require.True(t, storage.IsCorruption(err))
	require.NoError(t, w.Close(noIO, nil))
	require.Equal(t, "block", objectContent(t, bkt, "db/sst"))
}

func TestBucketAdapter_SequentialRead(t *testing.T) {
	fs := NewBucketAdapter(objstore.NewInMemBucket())
	writeFile(t, fs, "db/f", []byte("hello world"))

	seq, err := fs.NewSequentialFile("db/f", storage.FileOptions{}, nil)
	require.NoError(t, err)
	defer seq.Close(noIO, nil)

	scratch := make([]byte, 5)
	res, err := seq.Read(5, noIO, scratch, nil)
	require.NoError(t, err)
	require.Equal(t, "hello", string(res))
	require.NoError(t, seq.Skip(1))
	res, err = seq.Read(5, noIO, scratch, nil)
	require.NoError(t, err)
	require.Equal(t, "world", string(res))
	res, err = seq.Read(5, noIO, scratch, nil)
	require.NoError(t, err)
	require.Empty(t, res)

	res, err = seq.PositionedRead(4, 3, noIO, scratch, nil)
	require.NoError(t, err)
	require.Equal(t, "o w", string(res))
}

func TestBucketAdapter_MultiReadKeepsIndices(t *testing.T) {
	fs := NewBucketAdapter(objstore.NewInMemBucket(), WithMultiReadConcurrency(3))

	var content bytes.Buffer
	for i := 0; i < 64; i++ {
		fmt.Fprintf(&content, "%04d", i)
	}
	writeFile(t, fs, "db/000007.sst", content.Bytes())

	ra, err := fs.NewRandomAccessFile("db/000007.sst", storage.FileOptions{}, nil)
	require.NoError(t, err)
	defer ra.Close(noIO, nil)

	reqs := make([]storage.ReadRequest, 64)
	for i := range reqs {
		rec := 63 - i
		reqs[i] = storage.ReadRequest{Offset: uint64(rec * 4), Len: 4, Scratch: make([]byte, 4)}
	}
	reqs = append(reqs, storage.ReadRequest{Offset: 1 << 20, Len: 4, Scratch: make([]byte, 4)})
	reqs = append(reqs, storage.ReadRequest{Offset: 0, Len: 8, Scratch: make([]byte, 4)})

	require.NoError(t, ra.MultiRead(reqs, noIO, nil))
	for i := 0; i < 64; i++ {
		require.NoError(t, reqs[i].Status)
		require.Equal(t, fmt.Sprintf("%04d", 63-i), string(reqs[i].Result))
	}
	require.NoError(t, reqs[64].Status)
	require.Empty(t, reqs[64].Result)
	require.True(t, storage.IsInvalidArgument(reqs[65].Status))
}

func TestBucketAdapter_NegativeLength(t *testing.T) {
	fs := NewBucketAdapter(objstore.NewInMemBucket())
	writeFile(t, fs, "db/000008.sst", []byte("0123456789"))

	ra, err := fs.NewRandomAccessFile("db/000008.sst", storage.FileOptions{}, nil)
	require.NoError(t, err)
	defer ra.Close(noIO, nil)

	_, err = ra.Read(0, -1, noIO, nil, nil)
	require.True(t, storage.IsInvalidArgument(err))

	reqs := []storage.ReadRequest{
		{Offset: 0, Len: -1},
		{Offset: 2, Len: 3, Scratch: make([]byte, 3)},
	}
	require.NoError(t, ra.MultiRead(reqs, noIO, nil))
	require.True(t, storage.IsInvalidArgument(reqs[0].Status))
	require.NoError(t, reqs[1].Status)
	require.Equal(t, "234", string(reqs[1].Result))

	seq, err := fs.NewSequentialFile("db/000008.sst", storage.FileOptions{}, nil)
	require.NoError(t, err)
	defer seq.Close(noIO, nil)
	_, err = seq.Read(-1, noIO, nil, nil)
	require.True(t, storage.IsInvalidArgument(err))
}

func TestBucketAdapter_Listing(t *testing.T) {
	bkt := objstore.NewInMemBucket()
	fs := NewBucketAdapter(bkt)
	writeFile(t, fs, "db/a", nil)
	writeFile(t, fs, "db/b", []byte("b"))
	writeFile(t, fs, "db/archive/c", nil)

	children, err := fs.GetChildren("db", noIO, nil)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"a", "b", "archive"}, children)

	require.NoError(t, fs.RenameFile("db/b", "db/archive/b", noIO, nil))
	children, err = fs.GetChildren("/db/archive/", noIO, nil)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"b", "c"}, children)
	require.True(t, storage.IsNotFound(fs.FileExists("db/b", noIO, nil)))

	require.NoError(t, fs.RenameFile("db/archive/b", "/db//archive/b", noIO, nil))
	require.Equal(t, "b", objectContent(t, bkt, "db/archive/b"))
	require.True(t, storage.IsNotFound(fs.RenameFile("db/gone", "db/gone", noIO, nil)))

	children, err = fs.GetChildren("db/never", noIO, nil)
	require.NoError(t, err)
	require.Empty(t, children)

	require.NoError(t, fs.CreateDir("db/x", noIO, nil))
	require.NoError(t, fs.CreateDirIfMissing("db/x", noIO, nil))
	require.NoError(t, fs.DeleteDir("db/x", noIO, nil))

	d, err := fs.NewDirectory("db", noIO, nil)
	require.NoError(t, err)
	require.NoError(t, d.Fsync(noIO, nil))
	require.Zero(t, d.GetUniqueId(make([]byte, storage.MaxUniqueIDSize)))
	require.NoError(t, d.Close(noIO, nil))
}

func TestObjectName(t *testing.T) {
	for in, want := range map[string]string{
		"db/000001.log":    "db/000001.log",
		"/db/000001.log":   "db/000001.log",
		"db//x/../CURRENT": "db/CURRENT",
		"":                 "",
		"/":                "",
	} {
		require.Equal(t, want, objectName(in), in)
	}
}

func TestBucketAdapter_DefaultHandoffChecksum(t *testing.T) {
	fs := NewBucketAdapter(objstore.NewInMemBucket(), WithHandoffChecksumType(checksum.CRC32c))

	w, err := fs.NewWritableFile("db/f", storage.FileOptions{}, nil)
	require.NoError(t, err)
	data := []byte("abc")
	require.NoError(t, w.AppendWithVerification(data, noIO, checksum.Info(checksum.CRC32c, data), nil))
	err = w.AppendWithVerification(data, noIO, checksum.Info(checksum.XXH3, data), nil)
	require.True(t, storage.IsCorruption(err))
	require.NoError(t, w.Close(noIO, nil))

	// A type named by the caller wins over the adapter default.
	w, err = fs.NewWritableFile("db/g", storage.FileOptions{HandoffChecksumType: checksum.XXH3}, nil)
	require.NoError(t, err)
	require.NoError(t, w.AppendWithVerification(data, noIO, checksum.Info(checksum.XXH3, data), nil))
	require.NoError(t, w.Close(noIO, nil))
}
