package qsort

import (
	"sync/atomic"

	"go.uber.org/zap"
)

// counters 워커/코디네이터가 공유하는 통계 카운터
type counters struct {
	partitions    atomic.Uint64
	kernels       atomic.Uint64
	forwardedDone atomic.Uint64
	forwardedWork atomic.Uint64
}

// worker 큐에서 메시지를 꺼내 처리하는 고정 풀의 일원
// * 공유 자원은 배열, 큐, 카운터뿐. 루프 변수 외 상태 없음.
type worker struct {
	id       int
	data     []float64
	cutoff   int
	queue    *Queue
	counters *counters
	log      *zap.Logger
}

// run Shutdown 을 받을 때까지 메시지 처리
func (w *worker) run() (err error) {
	defer w.queue.Leave()
	defer func() {
		if r := recover(); r != nil {
			err = protocolViolation("worker %d panicked: %v", w.id, r)
		}
		if err != nil {
			// 다른 참여자가 원인을 덮어쓰기 전에 큐를 먼저 중단
			w.queue.Abort(err)
		}
	}()

	for {
		m, err := w.queue.Get()
		if err != nil {
			return err
		}

		switch m.Kind {
		case KindShutdown:
			w.log.Debug("worker terminated", zap.Int("worker", w.id))
			return nil
		case KindWork:
			if err := w.handleWork(m.Range); err != nil {
				return err
			}
		case KindDone:
			// 코디네이터 몫. 그대로 다시 넣어 전달
			w.counters.forwardedDone.Add(1)
			if err := w.queue.Forward(m); err != nil {
				return err
			}
		default:
			return protocolViolation("worker %d received unknown message %s", w.id, m)
		}
	}
}

func (w *worker) handleWork(r Range) error {
	if r.Offset < 0 || r.Length < 0 || r.End() > len(w.data) {
		return protocolViolation("worker %d received range [%d:%d] outside array of %d",
			w.id, r.Offset, r.End(), len(w.data))
	}
	a := w.data[r.Offset:r.End()]

	if r.Length <= w.cutoff {
		insertionSort(a)
		w.counters.kernels.Add(1)
		w.queue.Progress()
		return w.queue.Put(Done(r.Length))
	}

	split := partition(a)
	w.counters.partitions.Add(1)
	w.queue.Progress()
	if err := w.queue.Put(Work(Range{Offset: r.Offset, Length: split})); err != nil {
		return err
	}
	return w.queue.Put(Work(Range{Offset: r.Offset + split, Length: r.Length - split}))
}
