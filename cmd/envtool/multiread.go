package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/youscentia/ydb-fsenv/vfs"
)

func newMultiReadCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "multiread FILE OFF:LEN...",
		Short: "Read several ranges of a file in one batch",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			reqs := make([]vfs.ReadRequest, 0, len(args)-1)
			for _, arg := range args[1:] {
				req, err := parseRange(arg)
				if err != nil {
					return err
				}
				reqs = append(reqs, req)
			}

			f, err := a.env.NewRandomAccessFile(args[0], vfs.DefaultEnvOptions())
			if err != nil {
				return err
			}
			defer f.Close()
			if err := f.MultiRead(reqs); err != nil {
				return err
			}

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"#", "offset", "len", "status", "data"})
			table.SetAutoFormatHeaders(false)
			for i, r := range reqs {
				status := "OK"
				if r.Status != nil {
					status = r.Status.Error()
				}
				table.Append([]string{
					strconv.Itoa(i),
					strconv.FormatUint(r.Offset, 10),
					strconv.Itoa(len(r.Result)),
					status,
					strconv.Quote(string(r.Result)),
				})
			}
			table.Render()
			return nil
		},
	}
}

// parseRange parses OFF:LEN into a request with its own scratch buffer.
func parseRange(s string) (vfs.ReadRequest, error) {
	off, n, ok := strings.Cut(s, ":")
	if !ok {
		return vfs.ReadRequest{}, fmt.Errorf("range %q: want OFF:LEN", s)
	}
	offset, err := strconv.ParseUint(off, 10, 64)
	if err != nil {
		return vfs.ReadRequest{}, fmt.Errorf("range %q: bad offset: %w", s, err)
	}
	length, err := strconv.Atoi(n)
	if err != nil || length < 0 {
		return vfs.ReadRequest{}, fmt.Errorf("range %q: bad length", s)
	}
	return vfs.ReadRequest{Offset: offset, Len: length, Scratch: make([]byte, length)}, nil
}
