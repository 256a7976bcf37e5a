package qsort

import "github.com/cockroachdb/errors"

var (
	// ErrInvalidConfig 잘못된 설정 (워커 시작 전에 반환)
	ErrInvalidConfig = errors.New("qsort: invalid config")
	// ErrProtocolViolation 내부 불변식 위반. 재시도 없음, 버그로 취급
	ErrProtocolViolation = errors.New("qsort: protocol violation")
	// ErrDeadlock 모든 참여자가 큐에서 블록됨 (큐 용량 부족)
	ErrDeadlock = errors.New("qsort: queue deadlock, capacity below peak in-flight messages")
	// ErrAborted Abort 이후의 큐 연산 결과
	ErrAborted = errors.New("qsort: queue aborted")
)

func protocolViolation(format string, args ...interface{}) error {
	return errors.WithAssertionFailure(errors.Wrapf(ErrProtocolViolation, format, args...))
}

func invalidConfig(field string, format string, args ...interface{}) error {
	return errors.Wrapf(ErrInvalidConfig, "%s: "+format, append([]interface{}{field}, args...)...)
}
