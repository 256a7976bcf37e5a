package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rlaau/pqsort/kvdb"
)

type historyOptions struct {
	store     string
	storePath string
}

func newHistoryCmd(root *rootOptions) *cobra.Command {
	opts := &historyOptions{}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List benchmark results persisted by bench --store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd, root.logger, opts)
		},
	}
	cmd.Flags().StringVar(&opts.store, "store", string(kvdb.BackendBbolt), "bbolt, badger or pebble")
	cmd.Flags().StringVar(&opts.storePath, "store-path", "results", "store directory")
	return cmd
}

func runHistory(cmd *cobra.Command, logger *zap.Logger, opts *historyOptions) error {
	backend, err := kvdb.ParseBackend(opts.store)
	if err != nil {
		return err
	}
	store, err := kvdb.Open(backend, opts.storePath, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	results, err := store.List()
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "시작\t알고리즘\t데이터 수\t저장방식\t테스트\t워커\t실행시간\t메모리")
	for _, r := range results {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\t%v\t%s\n",
			r.StartedAt.Format(time.DateTime), r.Algorithm, humanize.Comma(int64(r.DataSize)),
			r.StorageType, r.TestRun, r.Workers, r.Duration.Round(time.Microsecond),
			humanize.Bytes(r.MemoryUsage))
	}
	return tw.Flush()
}
