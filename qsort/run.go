// Package qsort 공유 유한 큐 하나로 조율되는 병렬 퀵소트
//
// 고정된 수의 워커 고루틴과 코디네이터(Run 을 호출한 고루틴)가 같은 큐에서 메시지를
// 꺼낸다. 워커는 Work 를 분할하거나 삽입정렬 후 Done 을 넣고, 코디네이터는 Done 크기를
// 누적해 전체 원소가 정산되면 워커마다 Shutdown 을 보낸다. 누가 어떤 메시지를 꺼낼지
// 정해져 있지 않으므로 자기 몫이 아닌 메시지는 그대로 다시 넣어 전달한다.
package qsort

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Stats 한 번의 Run 결과 통계
type Stats struct {
	N        int
	Workers  int
	Cutoff   int
	Capacity int

	// PeakLive 큐에 동시에 있었던 최대 메시지 수
	PeakLive int
	// Messages 큐에 들어간 전체 메시지 수 (전달 포함)
	Messages      uint64
	Partitions    uint64
	Kernels       uint64
	ForwardedDone uint64
	ForwardedWork uint64
	// Residual 종료 후 큐에 남아 있던 메시지 수. 정상 실행이면 0.
	Residual int
	Elapsed  time.Duration
}

// Run data 를 제자리에서 오름차순 정렬
// * 실패하면 data 의 내용은 부분적으로만 정렬되어 있을 수 있음 (부분 성공 없음)
// * ctx 취소 시 큐를 중단시키고 모든 워커를 정리한 뒤 반환
func Run(ctx context.Context, data []float64, cfg Config) (Stats, error) {
	n := len(data)
	cfg = cfg.withDefaults(n)
	stats := Stats{N: n, Workers: cfg.Workers, Cutoff: cfg.Cutoff, Capacity: cfg.Capacity}
	if err := cfg.Validate(); err != nil {
		return stats, err
	}
	if n == 0 {
		return stats, nil
	}
	if err := ctx.Err(); err != nil {
		return stats, errors.Wrap(err, "qsort: run not started")
	}

	log := cfg.Logger.Named("qsort")
	q, err := NewQueue(cfg.Capacity, cfg.Workers+1)
	if err != nil {
		return stats, err
	}
	q.onChange = cfg.onQueueChange

	start := time.Now()
	var cnt counters

	g, gctx := errgroup.WithContext(ctx)
	stop := context.AfterFunc(gctx, func() { q.Abort(context.Cause(gctx)) })
	defer stop()

	for i := range cfg.Workers {
		w := &worker{
			id:       i,
			data:     data,
			cutoff:   cfg.Cutoff,
			queue:    q,
			counters: &cnt,
			log:      log,
		}
		g.Go(w.run)
	}
	log.Debug("workers started",
		zap.Int("n", n), zap.Int("workers", cfg.Workers),
		zap.Int("cutoff", cfg.Cutoff), zap.Int("capacity", cfg.Capacity))

	coord := &coordinator{n: n, workers: cfg.Workers, queue: q, counters: &cnt, log: log}
	coordErr := coord.run()
	if coordErr != nil {
		q.Abort(coordErr)
	}
	workerErr := g.Wait()

	stats.Elapsed = time.Since(start)
	stats.PeakLive = q.Peak()
	stats.Messages = q.Puts()
	stats.Partitions = cnt.partitions.Load()
	stats.Kernels = cnt.kernels.Load()
	stats.ForwardedDone = cnt.forwardedDone.Load()
	stats.ForwardedWork = cnt.forwardedWork.Load()
	stats.Residual = drain(q)

	if coordErr != nil || workerErr != nil {
		// 첫 번째로 큐를 중단시킨 원인이 근본 원인
		cause := q.Err()
		if cause == nil {
			cause = errors.CombineErrors(coordErr, workerErr)
		}
		log.Warn("run failed", zap.Error(cause), zap.Int("residual", stats.Residual))
		return stats, errors.Wrapf(cause, "qsort: sorting %d elements", n)
	}

	if stats.Residual > 0 {
		log.Warn("residual messages drained after shutdown", zap.Int("residual", stats.Residual))
	}
	log.Debug("run finished",
		zap.Duration("elapsed", stats.Elapsed),
		zap.Int("peak_live", stats.PeakLive),
		zap.Uint64("forwarded_done", stats.ForwardedDone),
		zap.Uint64("forwarded_work", stats.ForwardedWork))
	return stats, nil
}

// drain 큐에 남은 메시지를 비우고 개수 반환
func drain(q *Queue) int {
	residual := 0
	for {
		if _, ok := q.TryGet(); !ok {
			return residual
		}
		residual++
	}
}
