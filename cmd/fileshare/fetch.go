package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/yourname/fileshare_lite/pkg/fetchclient"
)

func newFetchCmd() *cobra.Command {
	var (
		dir      string
		parallel int
		quiet    bool
	)

	cmd := &cobra.Command{
		Use:   "fetch <config-url>",
		Short: "Download every file of a registered selection, resuming partial files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			var progress io.Writer = cmd.ErrOrStderr()
			if quiet {
				progress = nil
			}

			cli := fetchclient.New(fetchclient.Options{
				Dir:      dir,
				Parallel: parallel,
				Progress: progress,
			})

			doc, err := cli.FetchConfig(ctx, args[0])
			if err != nil {
				return err
			}

			res, err := cli.Download(ctx, doc)
			fmt.Fprintf(cmd.OutOrStdout(), "%d/%d files, %s transferred (%d resumed, %d already complete)\n",
				res.Files, len(doc.Entries), humanize.IBytes(uint64(res.Bytes)), res.Resumed, res.Skipped)
			return err
		},
	}

	f := cmd.Flags()
	f.StringVarP(&dir, "dir", "d", ".", "destination directory")
	f.IntVar(&parallel, "parallel", 0, "concurrent transfers (default: parallel-max from the config)")
	f.BoolVarP(&quiet, "quiet", "q", false, "no progress output")

	return cmd
}
