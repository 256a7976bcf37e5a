package qsort

// partition 중앙값-3 피벗 + 양끝 커서(Hoare 방식) 제자리 분할
// 반환값 split 에 대해 a[:split] 의 모든 원소 <= 피벗 <= a[split:] 의 모든 원소.
// 반환값은 항상 [1, len(a)-1] 범위라 두 쪽 모두 비어있지 않음. len(a) >= 2 필요.
func partition(a []float64) int {
	n := len(a)
	first, mid, last := 0, n/2, n-1

	// 세 후보 정렬: a[first] <= a[last] <= a[mid], 피벗은 a[last]
	if a[last] < a[first] {
		a[last], a[first] = a[first], a[last]
	}
	if a[mid] < a[last] {
		a[mid], a[last] = a[last], a[mid]
	}
	if a[last] < a[first] {
		a[last], a[first] = a[first], a[last]
	}

	// a[first] <= 피벗 이라 j 는 0 아래로 내려가지 않고,
	// a[last] == 피벗 이라 i 는 last 를 넘지 않음
	p := a[last]
	i, j := 1, n-2
	for {
		for a[i] < p {
			i++
		}
		for p < a[j] {
			j--
		}
		if i >= j {
			return i
		}
		a[i], a[j] = a[j], a[i]
		i++
		j--
	}
}
