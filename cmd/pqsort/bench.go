package main

import (
	"fmt"
	"io"
	"runtime"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rlaau/pqsort/bench"
	"github.com/rlaau/pqsort/kvdb"
	"github.com/rlaau/pqsort/metrics"
)

type benchOptions struct {
	plan        bench.Plan
	jsonFile    string
	mdFile      string
	store       string
	storePath   string
	metricsFile string
}

func newBenchCmd(root *rootOptions) *cobra.Command {
	opts := &benchOptions{plan: bench.DefaultPlan()}

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Compare the queue quicksort against sequential, spawning and merge sorts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench(cmd, root.logger, opts)
		},
	}

	f := cmd.Flags()
	f.IntSliceVar(&opts.plan.Sizes, "sizes", opts.plan.Sizes, "data sizes to benchmark")
	f.IntVar(&opts.plan.Runs, "runs", opts.plan.Runs, "runs per algorithm and size")
	f.IntVar(&opts.plan.FileThreshold, "file-threshold", opts.plan.FileThreshold, "sizes at or above this go through a data file (0 = never)")
	f.StringSliceVar(&opts.plan.Algorithms, "algorithms", opts.plan.Algorithms, "algorithms to run")
	f.IntVarP(&opts.plan.Workers, "workers", "w", opts.plan.Workers, "worker goroutines")
	f.IntVar(&opts.plan.Cutoff, "cutoff", opts.plan.Cutoff, "insertion sort cutoff")
	f.Int64Var(&opts.plan.Seed, "seed", opts.plan.Seed, "random seed")
	f.StringVar(&opts.plan.Dir, "dir", "", "directory for data files (default temp dir)")
	f.StringVar(&opts.jsonFile, "json", "benchmark_results.json", "JSON output file (empty to skip)")
	f.StringVar(&opts.mdFile, "markdown", "benchmark_results.md", "markdown output file (empty to skip)")
	f.StringVar(&opts.store, "store", "", "persist results to bbolt, badger or pebble (empty to skip)")
	f.StringVar(&opts.storePath, "store-path", "results", "store directory")
	f.StringVar(&opts.metricsFile, "metrics-file", "", "write prometheus textfile after the benchmark")
	return cmd
}

func runBench(cmd *cobra.Command, logger *zap.Logger, opts *benchOptions) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "정렬 알고리즘 벤치마크 시작...")
	fmt.Fprintf(out, "CPU 코어 수: %d\n", runtime.NumCPU())
	fmt.Fprintf(out, "GOMAXPROCS: %d\n\n", runtime.GOMAXPROCS(0))

	// 계획과 저장소를 먼저 확인해 잘못된 설정이면 벤치마크 전에 실패
	if err := opts.plan.Validate(); err != nil {
		return err
	}
	var store kvdb.Store
	if opts.store != "" {
		backend, err := kvdb.ParseBackend(opts.store)
		if err != nil {
			return err
		}
		store, err = kvdb.Open(backend, opts.storePath, logger)
		if err != nil {
			return err
		}
		defer store.Close()
	}

	plan := opts.plan
	plan.Logger = logger
	results, err := bench.Run(cmd.Context(), plan)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "결과 저장 중...")
	if opts.mdFile != "" {
		if err := bench.SaveMarkdown(opts.mdFile, results); err != nil {
			return err
		}
		fmt.Fprintf(out, "%s 파일이 생성되었습니다.\n", opts.mdFile)
	}
	if opts.jsonFile != "" {
		if err := bench.SaveJSON(opts.jsonFile, results); err != nil {
			return err
		}
		fmt.Fprintf(out, "%s 파일이 생성되었습니다.\n", opts.jsonFile)
	}
	if store != nil {
		for _, r := range results {
			if err := store.Put(r); err != nil {
				return err
			}
		}
		fmt.Fprintf(out, "%d개 결과를 %s 저장소에 기록했습니다.\n", len(results), opts.store)
	}
	if opts.metricsFile != "" {
		rec := metrics.NewRecorder()
		rec.ObserveResults(results)
		if err := rec.WriteTextfile(opts.metricsFile); err != nil {
			return err
		}
	}

	printSummaries(out, bench.Summarize(results))
	fmt.Fprintln(out, "벤치마크 완료!")
	return nil
}

func printSummaries(w io.Writer, summaries []bench.Summary) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "\n저장방식\t데이터 수\t알고리즘\t평균 실행시간\t평균 메모리")
	for _, s := range summaries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%v\t%s\n",
			s.StorageType, humanize.Comma(int64(s.DataSize)), s.Algorithm,
			s.AvgDuration.Round(time.Microsecond), humanize.Bytes(s.AvgMemory))
	}
	tw.Flush()
}
