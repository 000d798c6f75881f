package main

import (
	"fmt"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/go-kit/log/level"
	"github.com/oklog/ulid/v2"
	"github.com/spf13/cobra"

	"github.com/youscentia/ydb-fsenv/vfs"
	"github.com/youscentia/ydb-fsenv/vfs/checksum"
)

func newCpCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "cp SRC DST",
		Short: "Copy a file, replacing DST atomically where the backend allows",
		Long: `Copy SRC into a temporary file next to DST, rename it over DST and sync
the directory. Every chunk is appended with a hand-off checksum of the type
selected by --checksum.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			handoff, err := checksum.Parse(a.cfg.checksum)
			if err != nil {
				return err
			}
			n, err := a.copyFile(args[0], args[1], handoff)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "copied %s to %s\n", humanize.IBytes(n), args[1])
			return nil
		},
	}
}

func (a *app) copyFile(src, dst string, handoff checksum.Type) (uint64, error) {
	opts := vfs.DefaultEnvOptions()
	in, err := a.env.NewSequentialFile(src, opts)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	dir := filepath.Dir(dst)
	tmp := filepath.Join(dir, "."+ulid.Make().String()+".tmp")
	out, err := a.env.NewWritableFile(tmp, opts)
	if err != nil {
		return 0, err
	}

	n, err := copyChunks(in, out, handoff)
	if err == nil {
		err = out.Sync()
	}
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		err = a.env.RenameFile(tmp, dst)
	}
	if err != nil {
		if rmErr := a.env.DeleteFile(tmp); rmErr != nil {
			level.Warn(a.logger).Log("msg", "failed to remove temporary file", "file", tmp, "err", rmErr)
		}
		return 0, fmt.Errorf("copy %s to %s: %w", src, dst, err)
	}

	d, err := a.env.NewDirectory(dir)
	if err != nil {
		return 0, err
	}
	defer d.Close()
	if err := d.Fsync(); err != nil {
		return 0, fmt.Errorf("sync %s: %w", dir, err)
	}
	return n, nil
}

func copyChunks(in vfs.SequentialFile, out vfs.WritableFile, handoff checksum.Type) (uint64, error) {
	var n uint64
	scratch := make([]byte, copyBufferSize)
	for {
		chunk, err := in.Read(len(scratch), scratch)
		if err != nil {
			return n, err
		}
		if len(chunk) == 0 {
			return n, nil
		}
		if err := out.AppendWithVerification(chunk, checksum.Info(handoff, chunk)); err != nil {
			return n, err
		}
		n += uint64(len(chunk))
	}
}
