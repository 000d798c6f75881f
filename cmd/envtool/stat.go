package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/youscentia/ydb-fsenv/vfs"
	"github.com/youscentia/ydb-fsenv/vfs/storage"
)

var keyStyle = lipgloss.NewStyle().Bold(true).Width(10)

func newStatCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stat FILE",
		Short: "Show size, modification time and unique id of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			size, err := a.env.GetFileSize(name)
			if err != nil {
				return err
			}
			mtime, err := a.env.GetFileModificationTime(name)
			if err != nil {
				return err
			}

			f, err := a.env.NewRandomAccessFile(name, vfs.DefaultEnvOptions())
			if err != nil {
				return err
			}
			defer f.Close()
			id := make([]byte, storage.MaxUniqueIDSize)
			uid := "-"
			if n := f.GetUniqueId(id); n > 0 {
				uid = hex.EncodeToString(id[:n])
			}

			out := cmd.OutOrStdout()
			printField(out, "file", name)
			printField(out, "size", fmt.Sprintf("%s (%d bytes)", humanize.IBytes(size), size))
			printField(out, "modified", fmt.Sprintf("%s (%s)", mtime.UTC().Format(time.RFC3339), humanize.Time(mtime)))
			printField(out, "unique id", uid)
			return nil
		},
	}
}

func printField(w io.Writer, key, value string) {
	fmt.Fprintf(w, "%s %s\n", keyStyle.Render(key+":"), value)
}
