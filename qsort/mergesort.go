package qsort

import (
	"runtime"
	"sync"
)

const (
	// mergeLeaf 이 길이 이하는 삽입정렬로 처리
	mergeLeaf = 16
	// parallelMergeMin 이 길이 이하는 고루틴을 나누지 않음
	parallelMergeMin = 2048
)

// MergeSort 머지소트 (비교용). 입력은 건드리지 않고 정렬된 새 슬라이스 반환.
func MergeSort(data []float64) []float64 {
	if len(data) <= 1 {
		out := make([]float64, len(data))
		copy(out, data)
		return out
	}

	// 작은 배열은 삽입정렬 사용
	if len(data) <= mergeLeaf {
		out := make([]float64, len(data))
		copy(out, data)
		insertionSort(out)
		return out
	}

	mid := len(data) / 2
	return merge(MergeSort(data[:mid]), MergeSort(data[mid:]))
}

func merge(left, right []float64) []float64 {
	result := make([]float64, 0, len(left)+len(right))
	i, j := 0, 0

	for i < len(left) && j < len(right) {
		if left[i] <= right[j] {
			result = append(result, left[i])
			i++
		} else {
			result = append(result, right[j])
			j++
		}
	}

	// 남은 요소들 한 번에 추가
	result = append(result, left[i:]...)
	result = append(result, right[j:]...)
	return result
}

// ParallelMergeSort 두 절반을 고루틴으로 나눠 정렬하는 병렬 머지소트 (비교용)
// * depth 는 maxGoroutines 에서 시작해 단계마다 절반. 1 이하면 순차 머지소트.
// * Spawning 과 같은 세마포 채널로 동시 고루틴 수 제한
func ParallelMergeSort(data []float64, maxGoroutines int) []float64 {
	if maxGoroutines < 1 {
		maxGoroutines = runtime.NumCPU()
	}
	sem := make(chan struct{}, maxGoroutines)
	return parallelMergeSortHelper(data, maxGoroutines, sem)
}

func parallelMergeSortHelper(data []float64, depth int, sem chan struct{}) []float64 {
	if depth <= 1 || len(data) <= parallelMergeMin {
		return MergeSort(data)
	}

	mid := len(data) / 2
	var left, right []float64

	var wg sync.WaitGroup
	wg.Add(2)

	sortHalf := func(half []float64, out *[]float64) {
		defer wg.Done()

		select {
		case sem <- struct{}{}: // 슬롯 획득 시도
			defer func() { <-sem }()
			*out = parallelMergeSortHelper(half, depth/2, sem)
		default:
			// 슬롯 없으면 순차 처리
			*out = MergeSort(half)
		}
	}
	go sortHalf(data[:mid], &left)
	go sortHalf(data[mid:], &right)

	wg.Wait()
	return merge(left, right)
}
