package qsort

import "go.uber.org/zap"

// coordinator 전체 진행 상황을 소유하는 고루틴
// * 전체 구간 Work 를 넣고, Done 크기를 누적해 n 에 도달하면 워커마다 Shutdown 전송
type coordinator struct {
	n        int
	workers  int
	queue    *Queue
	counters *counters
	log      *zap.Logger
}

func (c *coordinator) run() error {
	if err := c.queue.Put(Work(Range{Offset: 0, Length: c.n})); err != nil {
		return err
	}

	sorted := 0
	for sorted < c.n {
		m, err := c.queue.Get()
		if err != nil {
			return err
		}

		switch m.Kind {
		case KindDone:
			sorted += m.Size()
			if sorted > c.n {
				return protocolViolation("sorted count %d overshoots %d elements", sorted, c.n)
			}
			c.queue.Progress()
		case KindWork:
			// 워커 몫. 그대로 다시 넣어 전달
			c.counters.forwardedWork.Add(1)
			if err := c.queue.Forward(m); err != nil {
				return err
			}
		default:
			return protocolViolation("coordinator received %s", m)
		}
	}

	c.log.Debug("all elements sorted, shutting down workers",
		zap.Int("n", c.n), zap.Int("workers", c.workers))
	for range c.workers {
		if err := c.queue.Put(Shutdown()); err != nil {
			return err
		}
	}
	// 이후 코디네이터는 Get 하지 않음
	c.queue.Leave()
	return nil
}
