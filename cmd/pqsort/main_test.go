package main

import (
	"bytes"
	"context"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rlaau/pqsort/bench"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	require.NoError(t, cmd.ExecuteContext(context.Background()), out.String())
	return out.String()
}

func TestSortCommand(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.txt")
	output := filepath.Join(dir, "out.txt")
	prom := filepath.Join(dir, "sort.prom")

	data := bench.GenerateRandomData(5000, 9)
	require.NoError(t, bench.WriteDataFile(data, input))

	out := execute(t, "sort", "-i", input, "-o", output, "--workers", "3", "--cutoff", "16", "--metrics-file", prom)
	assert.Contains(t, out, "5,000개 원소 정렬")
	assert.Contains(t, out, "완료:")

	sorted, err := bench.ReadDataFile(output)
	require.NoError(t, err)
	slices.Sort(data)
	assert.Equal(t, data, sorted)
	assert.FileExists(t, prom)
}

func TestSortCommandRejectsBadConfig(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"sort", "-n", "10", "--cutoff", "-1"})
	require.Error(t, cmd.ExecuteContext(context.Background()))
}

func TestCommandsRejectNegativeSizes(t *testing.T) {
	for name, args := range map[string][]string{
		"sort":  {"sort", "-n", "-1"},
		"bench": {"bench", "--sizes", "100,-5", "--json", "", "--markdown", ""},
	} {
		t.Run(name, func(t *testing.T) {
			cmd := newRootCmd()
			cmd.SetOut(&bytes.Buffer{})
			cmd.SetErr(&bytes.Buffer{})
			cmd.SetArgs(args)
			err := cmd.ExecuteContext(context.Background())
			require.Error(t, err)
			assert.Contains(t, err.Error(), "must not be negative")
		})
	}
}

func TestBenchAndHistoryCommands(t *testing.T) {
	dir := t.TempDir()
	store := filepath.Join(dir, "store")

	out := execute(t, "bench",
		"--sizes", "300,1200", "--runs", "1", "--file-threshold", "1000",
		"--workers", "2", "--cutoff", "8", "--dir", dir,
		"--json", filepath.Join(dir, "r.json"), "--markdown", filepath.Join(dir, "r.md"),
		"--store", "pebble", "--store-path", store,
		"--metrics-file", filepath.Join(dir, "bench.prom"))
	assert.Contains(t, out, "벤치마크 완료!")
	assert.Contains(t, out, "10개 결과를 pebble 저장소에 기록했습니다.")
	assert.FileExists(t, filepath.Join(dir, "r.json"))
	assert.FileExists(t, filepath.Join(dir, "r.md"))

	out = execute(t, "history", "--store", "pebble", "--store-path", store)
	assert.Contains(t, out, bench.AlgoQueueQuicksort)
	assert.Contains(t, out, bench.AlgoParallelMergesort)
	assert.Contains(t, out, "1,200")
}

func TestLogLevelValidation(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--log-level", "loud", "history"})
	require.Error(t, cmd.ExecuteContext(context.Background()))
}
