package qsort

// insertionSort 작은 구간용 삽입정렬 (재귀의 바닥)
// * CUTOFF 이하 길이에서만 호출. 지역성이 좋고 상수항이 작음.
func insertionSort(a []float64) {
	for i := 1; i < len(a); i++ {
		key := a[i]
		j := i - 1

		for j >= 0 && a[j] > key {
			a[j+1] = a[j]
			j--
		}
		a[j+1] = key
	}
}
