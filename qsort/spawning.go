package qsort

import (
	"runtime"
	"sync"
)

// Spawning 분할마다 고루틴을 띄우는 병렬 퀵소트 (비교용)
// * 세마포 채널로 동시 고루틴 수 제한. 슬롯이 없으면 현재 고루틴에서 순차 처리.
// * 큐 방식이 대체하는 "호출마다 스레드 생성" 접근
func Spawning(data []float64, cutoff, maxGoroutines int) {
	if len(data) < 2 {
		return
	}
	if cutoff < 1 {
		cutoff = DefaultCutoff
	}
	if maxGoroutines < 1 {
		maxGoroutines = runtime.NumCPU()
	}

	sem := make(chan struct{}, maxGoroutines)
	spawningHelper(data, cutoff, sem)
}

func spawningHelper(a []float64, cutoff int, sem chan struct{}) {
	if len(a) <= cutoff {
		insertionSort(a)
		return
	}

	split := partition(a)

	var wg sync.WaitGroup
	wg.Add(2)

	for _, part := range [][]float64{a[:split], a[split:]} {
		go func(part []float64) {
			defer wg.Done()

			select {
			case sem <- struct{}{}: // 슬롯 획득 시도
				defer func() { <-sem }()
				spawningHelper(part, cutoff, sem)
			default:
				// 슬롯 없으면 순차 처리
				sequentialHelper(part, cutoff)
			}
		}(part)
	}

	wg.Wait()
}
