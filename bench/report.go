package bench

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"
	"slices"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/dustin/go-humanize"
)

var algoNames = map[string]string{
	AlgoQueueQuicksort:      "큐 퀵소트",
	AlgoSequentialQuicksort: "퀵소트",
	AlgoSpawningQuicksort:   "병렬퀵소트",
	AlgoMergesort:           "머지소트",
	AlgoParallelMergesort:   "병렬머지소트",
}

var storageNames = map[string]string{
	StorageMemory: "인메모리",
	StorageFile:   "파일",
}

// Summary 같은 (알고리즘, 크기, 저장방식) 묶음의 평균
type Summary struct {
	Algorithm   string
	DataSize    int
	StorageType string
	Runs        int
	AvgDuration time.Duration
	AvgMemory   uint64
}

type groupKey struct {
	size    int
	storage string
}

// groups 결과에 등장한 (크기, 저장방식) 조합을 크기 순으로
func groups(results []Result) []groupKey {
	var keys []groupKey
	for _, r := range results {
		k := groupKey{r.DataSize, r.StorageType}
		if !slices.Contains(keys, k) {
			keys = append(keys, k)
		}
	}
	slices.SortStableFunc(keys, func(a, b groupKey) int { return a.size - b.size })
	return keys
}

// algorithmsOf 결과에 등장한 알고리즘 (처음 등장 순서)
func algorithmsOf(results []Result) []string {
	var algos []string
	for _, r := range results {
		if !slices.Contains(algos, r.Algorithm) {
			algos = append(algos, r.Algorithm)
		}
	}
	return algos
}

// Summarize 묶음별 평균 계산
func Summarize(results []Result) []Summary {
	var out []Summary
	for _, g := range groups(results) {
		for _, algo := range algorithmsOf(results) {
			var totalDuration time.Duration
			var totalMemory uint64
			count := 0

			for _, r := range results {
				if r.Algorithm == algo && r.DataSize == g.size && r.StorageType == g.storage {
					totalDuration += r.Duration
					totalMemory += r.MemoryUsage
					count++
				}
			}
			if count == 0 {
				continue
			}
			out = append(out, Summary{
				Algorithm:   algo,
				DataSize:    g.size,
				StorageType: g.storage,
				Runs:        count,
				AvgDuration: totalDuration / time.Duration(count),
				AvgMemory:   totalMemory / uint64(count),
			})
		}
	}
	return out
}

func displayName(names map[string]string, key string) string {
	if name, ok := names[key]; ok {
		return name
	}
	return key
}

// WriteMarkdown 마크다운 표로 결과 출력
func WriteMarkdown(w io.Writer, results []Result, now time.Time) error {
	var builder strings.Builder
	builder.Grow(64 * 1024)

	builder.WriteString("# 정렬 알고리즘 벤치마크 결과\n\n")
	builder.WriteString(fmt.Sprintf("실행 시간: %s\n", now.Format("2006-01-02 15:04:05")))
	builder.WriteString(fmt.Sprintf("CPU 코어 수: %d\n", runtime.NumCPU()))
	builder.WriteString(fmt.Sprintf("GOMAXPROCS: %d\n\n", runtime.GOMAXPROCS(0)))

	for _, g := range groups(results) {
		builder.WriteString(fmt.Sprintf("## %s - %s개 데이터\n\n",
			displayName(storageNames, g.storage), humanize.Comma(int64(g.size))))

		builder.WriteString("| 알고리즘 | 테스트 | 실행시간 | 메모리사용량 | 고루틴수 | 최대 큐 점유 | 전달 횟수 |\n")
		builder.WriteString("|----------|--------|----------|--------------|----------|--------------|-----------|\n")

		for _, r := range results {
			if r.DataSize != g.size || r.StorageType != g.storage {
				continue
			}
			forwards := "-"
			peak := "-"
			if r.Algorithm == AlgoQueueQuicksort {
				forwards = humanize.Comma(int64(r.ForwardedDone + r.ForwardedWork))
				peak = humanize.Comma(int64(r.PeakLive))
			}
			builder.WriteString(fmt.Sprintf("| %s | %d | %v | %s | %d | %s | %s |\n",
				displayName(algoNames, r.Algorithm), r.TestRun, r.Duration,
				humanize.Bytes(r.MemoryUsage), r.GoroutineNum, peak, forwards))
		}
		builder.WriteString("\n")
	}

	builder.WriteString("## 요약 통계\n\n")
	builder.WriteString("| 저장방식 | 데이터 수 | 알고리즘 | 평균 실행시간 | 평균 메모리사용량 |\n")
	builder.WriteString("|----------|-----------|----------|---------------|-------------------|\n")
	for _, s := range Summarize(results) {
		builder.WriteString(fmt.Sprintf("| %s | %s | %s | %v | %s |\n",
			displayName(storageNames, s.StorageType), humanize.Comma(int64(s.DataSize)),
			displayName(algoNames, s.Algorithm), s.AvgDuration, humanize.Bytes(s.AvgMemory)))
	}

	_, err := io.WriteString(w, builder.String())
	return err
}

// SaveMarkdown 마크다운 파일로 저장
func SaveMarkdown(filename string, results []Result) error {
	return saveFile(filename, func(w io.Writer) error {
		return WriteMarkdown(w, results, time.Now())
	})
}

// SaveJSON JSON 파일로 저장
func SaveJSON(filename string, results []Result) error {
	return saveFile(filename, func(w io.Writer) error {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(results)
	})
}

func saveFile(filename string, write func(io.Writer) error) error {
	file, err := os.Create(filename)
	if err != nil {
		return errors.Wrapf(err, "create %s", filename)
	}
	defer file.Close()

	// 버퍼링된 쓰기
	writer := bufio.NewWriterSize(file, 32*1024)
	if err := write(writer); err != nil {
		return errors.Wrapf(err, "write %s", filename)
	}
	if err := writer.Flush(); err != nil {
		return errors.Wrapf(err, "flush %s", filename)
	}
	return file.Close()
}
