package main

import (
	"fmt"
	"slices"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rlaau/pqsort/bench"
	"github.com/rlaau/pqsort/metrics"
	"github.com/rlaau/pqsort/qsort"
)

type sortOptions struct {
	n           int
	workers     int
	cutoff      int
	capacity    int
	seed        int64
	input       string
	output      string
	metricsFile string
}

func newSortCmd(root *rootOptions) *cobra.Command {
	opts := &sortOptions{}

	cmd := &cobra.Command{
		Use:   "sort",
		Short: "Sort random (or file) data with the queue-coordinated quicksort",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSort(cmd, root.logger, opts)
		},
	}

	defaults := qsort.DefaultConfig()
	f := cmd.Flags()
	f.IntVarP(&opts.n, "size", "n", 10_000_000, "number of random elements (ignored with --input)")
	f.IntVarP(&opts.workers, "workers", "w", defaults.Workers, "worker goroutines")
	f.IntVar(&opts.cutoff, "cutoff", defaults.Cutoff, "ranges at or below this length use insertion sort")
	f.IntVar(&opts.capacity, "capacity", 0, "queue capacity (0 = max(n, workers))")
	f.Int64Var(&opts.seed, "seed", 0, "random seed (0 = current time)")
	f.StringVarP(&opts.input, "input", "i", "", "read data from file instead of generating")
	f.StringVarP(&opts.output, "output", "o", "", "write sorted data to file")
	f.StringVar(&opts.metricsFile, "metrics-file", "", "write prometheus textfile after the run")
	return cmd
}

func runSort(cmd *cobra.Command, logger *zap.Logger, opts *sortOptions) error {
	out := cmd.OutOrStdout()

	var data []float64
	if opts.input != "" {
		fileData, err := bench.ReadDataFile(opts.input)
		if err != nil {
			return err
		}
		data = fileData
	} else {
		if opts.n < 0 {
			return errors.Wrapf(qsort.ErrInvalidConfig, "size: must not be negative, got %d", opts.n)
		}
		seed := opts.seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		data = bench.GenerateRandomData(opts.n, seed)
	}

	fmt.Fprintf(out, "%s개 원소 정렬 (워커 %d, 컷오프 %d)\n",
		humanize.Comma(int64(len(data))), opts.workers, opts.cutoff)

	stats, err := qsort.Run(cmd.Context(), data, qsort.Config{
		Workers:  opts.workers,
		Cutoff:   opts.cutoff,
		Capacity: opts.capacity,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	// 정렬 결과 검증
	if !slices.IsSorted(data) {
		return errors.New("sort did not end successfully")
	}

	fmt.Fprintf(out, "완료: %v, 메시지 %s개, 최대 큐 점유 %s/%s, 전달 Done %s / Work %s\n",
		stats.Elapsed.Round(time.Microsecond),
		humanize.Comma(int64(stats.Messages)),
		humanize.Comma(int64(stats.PeakLive)), humanize.Comma(int64(stats.Capacity)),
		humanize.Comma(int64(stats.ForwardedDone)), humanize.Comma(int64(stats.ForwardedWork)))

	if opts.output != "" {
		if err := bench.WriteDataFile(data, opts.output); err != nil {
			return err
		}
	}

	if opts.metricsFile != "" {
		rec := metrics.NewRecorder()
		rec.ObserveRun(stats)
		if err := rec.WriteTextfile(opts.metricsFile); err != nil {
			return err
		}
	}
	return nil
}
