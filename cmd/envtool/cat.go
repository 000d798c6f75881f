package main

import (
	"github.com/spf13/cobra"

	"github.com/youscentia/ydb-fsenv/vfs"
)

const copyBufferSize = 64 << 10

func newCatCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "cat FILE",
		Short: "Write a file to stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.env.NewSequentialFile(args[0], vfs.DefaultEnvOptions())
			if err != nil {
				return err
			}
			defer f.Close()

			out := cmd.OutOrStdout()
			scratch := make([]byte, copyBufferSize)
			for {
				chunk, err := f.Read(len(scratch), scratch)
				if err != nil {
					return err
				}
				if len(chunk) == 0 {
					return nil
				}
				if _, err := out.Write(chunk); err != nil {
					return err
				}
			}
		},
	}
}
