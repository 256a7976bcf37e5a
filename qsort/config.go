package qsort

import (
	"runtime"

	"go.uber.org/zap"
)

// DefaultCutoff 이 길이 이하 구간은 삽입정렬로 처리
const DefaultCutoff = 100

// Config 실행 설정. 0 인 필드는 기본값으로 채워짐.
type Config struct {
	// Workers 워커 고루틴 수 (기본 runtime.NumCPU())
	Workers int
	// Cutoff 분할을 멈추고 삽입정렬로 넘어가는 구간 길이
	Cutoff int
	// Capacity 큐 용량 (기본 DefaultCapacity). 동시에 살아있는 메시지 최대 수보다 작으면 교착.
	Capacity int
	Logger   *zap.Logger

	// onQueueChange 큐 내용이 바뀔 때마다 호출 (테스트용)
	onQueueChange func(*Queue)
}

// DefaultConfig 기본 설정
func DefaultConfig() Config {
	return Config{
		Workers: runtime.NumCPU(),
		Cutoff:  DefaultCutoff,
		Logger:  zap.NewNop(),
	}
}

// DefaultCapacity 교착이 불가능한 큐 용량
// * 살아있는 Work/Done 메시지는 서로 다른 원소를 최소 1개씩 덮으므로 최대 n 개.
// * Shutdown 은 모든 Done 을 소비한 뒤에만 나가므로 workers 개면 충분.
func DefaultCapacity(n, workers int) int {
	return max(n, workers, 1)
}

func (c Config) withDefaults(n int) Config {
	if c.Workers == 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.Cutoff == 0 {
		c.Cutoff = DefaultCutoff
	}
	if c.Capacity == 0 {
		c.Capacity = DefaultCapacity(n, c.Workers)
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	return c
}

// Validate 설정 검증. 실패 시 ErrInvalidConfig.
func (c Config) Validate() error {
	if c.Workers < 1 {
		return invalidConfig("workers", "must be positive, got %d", c.Workers)
	}
	if c.Cutoff < 1 {
		return invalidConfig("cutoff", "must be positive, got %d", c.Cutoff)
	}
	if c.Capacity < 1 {
		return invalidConfig("capacity", "must be positive, got %d", c.Capacity)
	}
	return nil
}
