// Package bench 정렬 알고리즘 벤치마크 (데이터 생성, 파일 입출력, 측정, 결과 저장)
package bench

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/rlaau/pqsort/qsort"
)

// 비교 대상 알고리즘
const (
	AlgoQueueQuicksort      = "queue_quicksort"
	AlgoSequentialQuicksort = "sequential_quicksort"
	AlgoSpawningQuicksort   = "spawning_quicksort"
	AlgoMergesort           = "mergesort"
	AlgoParallelMergesort   = "parallel_mergesort"
)

// Algorithms 기본 비교 순서
var Algorithms = []string{
	AlgoQueueQuicksort,
	AlgoSequentialQuicksort,
	AlgoSpawningQuicksort,
	AlgoMergesort,
	AlgoParallelMergesort,
}

// 데이터 보관 방식
const (
	StorageMemory = "memory"
	StorageFile   = "file"
)

// Result 벤치마크 결과
type Result struct {
	Algorithm    string        `json:"algorithm"`
	DataSize     int           `json:"data_size"`
	StorageType  string        `json:"storage_type"`
	TestRun      int           `json:"test_run"`
	Workers      int           `json:"workers"`
	Cutoff       int           `json:"cutoff"`
	Duration     time.Duration `json:"duration"`
	MemoryUsage  uint64        `json:"memory_usage_bytes"`
	GoroutineNum int           `json:"goroutine_num"`
	StartedAt    time.Time     `json:"started_at"`

	// 큐 방식에서만 채워짐
	PeakLive      int    `json:"peak_live,omitempty"`
	Messages      uint64 `json:"messages,omitempty"`
	ForwardedDone uint64 `json:"forwarded_done,omitempty"`
	ForwardedWork uint64 `json:"forwarded_work,omitempty"`
}

// Plan 벤치마크 계획
type Plan struct {
	Sizes []int
	Runs  int
	// FileThreshold 이 크기 이상은 파일에 쓰고 매 실행마다 다시 읽음 (0 이면 항상 메모리)
	FileThreshold int
	Algorithms    []string
	Workers       int
	Cutoff        int
	Seed          int64
	// Dir 데이터 파일 위치 (기본 os.TempDir())
	Dir    string
	Logger *zap.Logger
}

// ErrInvalidPlan 잘못된 벤치마크 계획
var ErrInvalidPlan = errors.New("bench: invalid plan")

// Validate 계획 검증. 실패 시 ErrInvalidPlan.
func (p Plan) Validate() error {
	for _, size := range p.Sizes {
		if size < 0 {
			return errors.Wrapf(ErrInvalidPlan, "sizes: must not be negative, got %d", size)
		}
	}
	if p.Runs < 0 {
		return errors.Wrapf(ErrInvalidPlan, "runs: must not be negative, got %d", p.Runs)
	}
	if p.FileThreshold < 0 {
		return errors.Wrapf(ErrInvalidPlan, "file-threshold: must not be negative, got %d", p.FileThreshold)
	}
	return nil
}

// DefaultPlan 기본 계획: 1천/1만 인메모리, 10만 파일, 각 3회
func DefaultPlan() Plan {
	return Plan{
		Sizes:         []int{1000, 10000, 100000},
		Runs:          3,
		FileThreshold: 100000,
		Algorithms:    Algorithms,
		Workers:       runtime.NumCPU(),
		Cutoff:        qsort.DefaultCutoff,
		Seed:          42,
	}
}

// RunBenchmark 알고리즘 하나를 data 복사본으로 한 번 실행
// * 결과가 정렬되지 않았으면 에러
func RunBenchmark(ctx context.Context, algorithm string, data []float64, plan Plan) (Result, error) {
	result := Result{
		Algorithm:    algorithm,
		DataSize:     len(data),
		StorageType:  StorageMemory,
		Workers:      plan.Workers,
		Cutoff:       plan.Cutoff,
		GoroutineNum: runtime.NumGoroutine(),
		StartedAt:    time.Now(),
	}

	testData := slices.Clone(data)
	stats := startStats()

	switch algorithm {
	case AlgoQueueQuicksort:
		cfg := qsort.Config{Workers: plan.Workers, Cutoff: plan.Cutoff, Logger: plan.Logger}
		runStats, err := qsort.Run(ctx, testData, cfg)
		if err != nil {
			return result, err
		}
		result.PeakLive = runStats.PeakLive
		result.Messages = runStats.Messages
		result.ForwardedDone = runStats.ForwardedDone
		result.ForwardedWork = runStats.ForwardedWork
	case AlgoSequentialQuicksort:
		qsort.Sequential(testData, plan.Cutoff)
	case AlgoSpawningQuicksort:
		qsort.Spawning(testData, plan.Cutoff, plan.Workers)
	case AlgoMergesort:
		testData = qsort.MergeSort(testData)
	case AlgoParallelMergesort:
		testData = qsort.ParallelMergeSort(testData, plan.Workers)
	default:
		return result, errors.Newf("unknown algorithm %q", algorithm)
	}

	result.Duration, result.MemoryUsage = stats.endStats()

	if !slices.IsSorted(testData) {
		return result, errors.AssertionFailedf("%s produced unsorted output for %d elements", algorithm, len(data))
	}
	return result, nil
}

// Run 계획 전체 실행
func Run(ctx context.Context, plan Plan) ([]Result, error) {
	if err := plan.Validate(); err != nil {
		return nil, err
	}
	if plan.Logger == nil {
		plan.Logger = zap.NewNop()
	}
	if len(plan.Algorithms) == 0 {
		plan.Algorithms = Algorithms
	}
	if plan.Runs < 1 {
		plan.Runs = 1
	}
	if plan.Dir == "" {
		plan.Dir = os.TempDir()
	}

	var all []Result
	for _, size := range plan.Sizes {
		results, err := runSize(ctx, plan, size)
		all = append(all, results...)
		if err != nil {
			return all, err
		}
	}
	return all, nil
}

// runSize 한 크기에 대해 모든 알고리즘을 plan.Runs 번씩 실행
// * 파일 모드면 데이터 파일을 쓰고, 반환할 때 에러 여부와 무관하게 지움
func runSize(ctx context.Context, plan Plan, size int) (results []Result, err error) {
	log := plan.Logger
	data := GenerateRandomData(size, plan.Seed)
	fileMode := plan.FileThreshold > 0 && size >= plan.FileThreshold

	var filename string
	if fileMode {
		filename = filepath.Join(plan.Dir, fmt.Sprintf("test_data_%d.txt", size))
		defer func() {
			if rmErr := os.Remove(filename); rmErr != nil && !os.IsNotExist(rmErr) {
				err = errors.CombineErrors(err, errors.Wrapf(rmErr, "remove data file %s", filename))
			}
		}()
		if err := WriteDataFile(data, filename); err != nil {
			return nil, err
		}
	}

	log.Info("benchmarking size",
		zap.Int("size", size), zap.Bool("file_mode", fileMode))

	for _, algo := range plan.Algorithms {
		for run := 1; run <= plan.Runs; run++ {
			if err := ctx.Err(); err != nil {
				return results, err
			}

			input := data
			if fileMode {
				// 매번 파일에서 읽기
				fileData, err := ReadDataFile(filename)
				if err != nil {
					return results, err
				}
				input = fileData
			}

			result, err := RunBenchmark(ctx, algo, input, plan)
			if err != nil {
				return results, errors.Wrapf(err, "%s run %d on %d elements", algo, run, size)
			}
			result.TestRun = run
			if fileMode {
				result.StorageType = StorageFile
			}
			log.Debug("benchmark run",
				zap.String("algorithm", algo), zap.Int("run", run),
				zap.Duration("duration", result.Duration))
			results = append(results, result)
		}
	}
	return results, nil
}
