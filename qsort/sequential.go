package qsort

// Sequential 단일 고루틴 퀵소트 (큐 방식과 같은 피벗 규칙/커널 사용)
// * 워커 1개짜리 Run 과 결과가 같아야 하는 기준 구현
func Sequential(data []float64, cutoff int) {
	if cutoff < 1 {
		cutoff = DefaultCutoff
	}
	sequentialHelper(data, cutoff)
}

func sequentialHelper(a []float64, cutoff int) {
	for len(a) > cutoff {
		split := partition(a)

		// 꼬리 재귀 최적화 (더 작은 부분을 재귀로)
		if split < len(a)-split {
			sequentialHelper(a[:split], cutoff)
			a = a[split:]
		} else {
			sequentialHelper(a[split:], cutoff)
			a = a[:split]
		}
	}
	insertionSort(a)
}
