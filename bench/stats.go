package bench

import (
	"runtime"
	"time"
)

// systemStats 성능 측정용 스냅샷
type systemStats struct {
	startTime time.Time
	startMem  runtime.MemStats
	endMem    runtime.MemStats
}

// startStats 측정 시작
func startStats() *systemStats {
	runtime.GC() // 가비지 컬렉션으로 정확한 측정

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return &systemStats{
		startTime: time.Now(),
		startMem:  m,
	}
}

// endStats 측정 종료. 경과 시간과 측정 구간 동안 할당된 바이트 수 반환.
func (s *systemStats) endStats() (time.Duration, uint64) {
	duration := time.Since(s.startTime)

	runtime.ReadMemStats(&s.endMem)
	memUsage := s.endMem.TotalAlloc - s.startMem.TotalAlloc

	return duration, memUsage
}
