package qsort

import (
	"context"
	"fmt"
	"math/rand"
	"slices"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// runWithTimeout 멈추면 테스트가 대기하지 않고 실패하도록 타임아웃을 건 Run
func runWithTimeout(t *testing.T, data []float64, cfg Config) (Stats, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return Run(ctx, data, cfg)
}

func TestRunEmpty(t *testing.T) {
	stats, err := runWithTimeout(t, nil, Config{Workers: 2})
	require.NoError(t, err)
	assert.Equal(t, uint64(0), stats.Messages)
}

func TestRunSingleElement(t *testing.T) {
	data := []float64{42}
	stats, err := runWithTimeout(t, data, Config{Workers: 3})
	require.NoError(t, err)
	assert.Equal(t, []float64{42}, data)
	assert.Equal(t, uint64(0), stats.Partitions)
	assert.Equal(t, uint64(1), stats.Kernels)
}

func TestRunSmallBelowCutoff(t *testing.T) {
	data := []float64{5, 3, 4, 1, 2}
	stats, err := runWithTimeout(t, data, Config{Workers: 2, Cutoff: 100, Logger: zaptest.NewLogger(t)})
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3, 4, 5}, data)
	assert.Equal(t, uint64(0), stats.Partitions)
	assert.Equal(t, 0, stats.Residual)
}

func TestRunSortsAcrossPoolSizes(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, workers := range []int{1, 2, 4, 8} {
		for _, cutoff := range []int{1, 10, 100} {
			t.Run(fmt.Sprintf("workers=%d/cutoff=%d", workers, cutoff), func(t *testing.T) {
				data := randomFloats(rng, 20000)
				want := slices.Clone(data)
				slices.Sort(want)

				stats, err := runWithTimeout(t, data, Config{Workers: workers, Cutoff: cutoff})
				require.NoError(t, err)
				// 정렬 + 원소 보존
				assert.True(t, slices.IsSorted(data))
				assert.Equal(t, want, data)

				assert.Equal(t, 0, stats.Residual)
				assert.LessOrEqual(t, stats.PeakLive, stats.Capacity)
				assert.Positive(t, stats.Kernels)
				// 분할 1회당 Work 2개 + 커널 1회당 Done 1개 + 최초 Work 1개 + Shutdown
				minMessages := 2*stats.Partitions + stats.Kernels + 1 + uint64(workers)
				assert.Equal(t, minMessages+stats.ForwardedDone+stats.ForwardedWork, stats.Messages)
				// 이진 분할 트리: 잎 = 내부 노드 + 1
				assert.Equal(t, stats.Partitions+1, stats.Kernels)
			})
		}
	}
}

func TestRunDuplicatesAndNegatives(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	data := make([]float64, 10000)
	for i := range data {
		data[i] = float64(rng.Intn(5) - 2)
	}
	want := slices.Clone(data)
	slices.Sort(want)

	_, err := runWithTimeout(t, data, Config{Workers: 4, Cutoff: 8})
	require.NoError(t, err)
	assert.Equal(t, want, data)
}

func TestRunMatchesSequentialWithOneWorker(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	data := randomFloats(rng, 1000)
	seq := slices.Clone(data)

	Sequential(seq, 10)
	_, err := runWithTimeout(t, data, Config{Workers: 1, Cutoff: 10})
	require.NoError(t, err)
	assert.Equal(t, seq, data)
}

func TestRunCapacityAtDeterministicPeak(t *testing.T) {
	// n <= cutoff 이면 Work → Done → Shutdown 이 하나씩만 오가므로 최대치는 1
	rng := rand.New(rand.NewSource(5))
	data := randomFloats(rng, 50)

	stats, err := runWithTimeout(t, data, Config{Workers: 3, Cutoff: 100, Capacity: 1})
	require.NoError(t, err)
	assert.True(t, slices.IsSorted(data))
	assert.Equal(t, 1, stats.PeakLive)
}

func TestRunUndersizedQueueNeverHangs(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	data := randomFloats(rng, 5000)

	// 스케줄에 따라 끝까지 갈 수도, 교착에 빠질 수도 있음. 교착이면 반드시 감지되어야 함.
	_, err := runWithTimeout(t, data, Config{Workers: 2, Cutoff: 1, Capacity: 1})
	if err != nil {
		require.ErrorIs(t, err, ErrDeadlock)
		return
	}
	assert.True(t, slices.IsSorted(data))
}

func TestRunDetectsForwardingLivelock(t *testing.T) {
	// 최대 2개가 동시에 살아야 하는데 칸은 1개.
	// 워커는 Done 을, 코디네이터는 Work 를 쥔 채 서로의 메시지만 되돌려 넣게 됨
	data := []float64{2, 1}
	stats, err := runWithTimeout(t, data, Config{Workers: 1, Cutoff: 1, Capacity: 1})
	require.ErrorIs(t, err, ErrDeadlock)
	assert.LessOrEqual(t, stats.Kernels, uint64(1))
}

func TestRunConservesElementsWhileInFlight(t *testing.T) {
	const n = 3000
	rng := rand.New(rand.NewSource(17))
	data := randomFloats(rng, n)

	// onQueueChange 는 큐 락 안에서 호출되므로 아래 변수는 직렬화됨
	var checks int
	var violation string
	covered := make([]int, n)
	cfg := Config{Workers: 4, Cutoff: 4}
	cfg.onQueueChange = func(q *Queue) {
		checks++
		if violation != "" {
			return
		}
		clear(covered)
		total := 0
		for i := range q.count {
			m := q.buf[(q.head+i)%len(q.buf)]
			switch m.Kind {
			case KindWork:
				r := m.Range
				if r.Offset < 0 || r.Length < 1 || r.End() > n {
					violation = fmt.Sprintf("work %s outside [0:%d]", m, n)
					return
				}
				for j := r.Offset; j < r.End(); j++ {
					covered[j]++
					if covered[j] > 1 {
						violation = fmt.Sprintf("element %d covered twice by queued work", j)
						return
					}
				}
				total += r.Length
			case KindDone:
				total += m.Size()
			}
		}
		// 큐 안의 Work 길이 + Done 크기는 아직 정산되지 않은 원소 수를 넘을 수 없음
		if total > n {
			violation = fmt.Sprintf("queued messages cover %d of %d elements", total, n)
		}
	}

	stats, err := runWithTimeout(t, data, cfg)
	require.NoError(t, err)
	assert.Empty(t, violation)
	assert.True(t, slices.IsSorted(data))
	assert.Equal(t, int(stats.Messages)*2, checks, "every put is matched by one get")
}

func TestRunInvalidConfig(t *testing.T) {
	for name, cfg := range map[string]Config{
		"workers":  {Workers: -1},
		"cutoff":   {Cutoff: -5},
		"capacity": {Capacity: -1},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Run(context.Background(), []float64{3, 2, 1}, cfg)
			require.ErrorIs(t, err, ErrInvalidConfig)
			assert.Contains(t, err.Error(), name)
		})
	}
}

func TestRunCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, []float64{3, 2, 1}, Config{Workers: 2})
	require.ErrorIs(t, err, context.Canceled)
}

func TestRunCancelDuringBlockedQueue(t *testing.T) {
	// 실행 도중 취소되면 모든 대기가 풀리고 반환해야 함
	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()

	rng := rand.New(rand.NewSource(13))
	data := randomFloats(rng, 200000)

	done := make(chan error, 1)
	go func() {
		_, err := Run(ctx, data, Config{Workers: 4, Cutoff: 1})
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			assert.True(t, errors.Is(err, context.DeadlineExceeded) || errors.Is(err, ErrDeadlock), "unexpected error: %v", err)
		}
	case <-time.After(30 * time.Second):
		t.Fatal("Run did not return after context deadline")
	}
}

func TestWorkerRejectsOutOfRangeWork(t *testing.T) {
	q, err := NewQueue(4, 2)
	require.NoError(t, err)
	require.NoError(t, q.Put(Work(Range{Offset: 2, Length: 10})))

	w := &worker{data: make([]float64, 5), cutoff: 4, queue: q, counters: &counters{}, log: zaptest.NewLogger(t)}
	err = w.run()
	require.ErrorIs(t, err, ErrProtocolViolation)
	assert.ErrorIs(t, q.Err(), ErrProtocolViolation)
}

func TestWorkerForwardsDoneAndStopsOnShutdown(t *testing.T) {
	q, err := NewQueue(4, 2)
	require.NoError(t, err)
	require.NoError(t, q.Put(Done(3)))
	require.NoError(t, q.Put(Shutdown()))

	cnt := &counters{}
	w := &worker{data: make([]float64, 5), cutoff: 4, queue: q, counters: cnt, log: zaptest.NewLogger(t)}
	require.NoError(t, w.run())

	m, ok := q.TryGet()
	require.True(t, ok)
	assert.Equal(t, Done(3), m)
	assert.Equal(t, uint64(1), cnt.forwardedDone.Load())
}

func TestCoordinatorDetectsOvershoot(t *testing.T) {
	q, err := NewQueue(4, 1)
	require.NoError(t, err)
	require.NoError(t, q.Put(Done(10)))

	c := &coordinator{n: 5, workers: 1, queue: q, counters: &counters{}, log: zaptest.NewLogger(t)}
	err = c.run()
	require.ErrorIs(t, err, ErrProtocolViolation)
	assert.True(t, errors.IsAssertionFailure(err))
}

func TestCoordinatorForwardsWork(t *testing.T) {
	q, err := NewQueue(4, 1)
	require.NoError(t, err)
	// 코디네이터가 넣는 Work 앞에 Done 을 미리 넣어두면 Done → Work(전달) → Done 순서로 처리
	require.NoError(t, q.Put(Done(0)))

	cnt := &counters{}
	c := &coordinator{n: 2, workers: 1, queue: q, counters: cnt, log: zaptest.NewLogger(t)}

	errs := make(chan error, 1)
	go func() { errs <- c.run() }()

	// 코디네이터가 전달한 Work 를 꺼내 대신 완료 처리
	deadline := time.After(5 * time.Second)
	for cnt.forwardedWork.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("coordinator never forwarded work")
		default:
			time.Sleep(time.Millisecond)
		}
	}
	require.NoError(t, q.Put(Done(2)))

	select {
	case err := <-errs:
		require.NoError(t, err)
	case <-deadline:
		t.Fatal("coordinator did not finish")
	}
	// 전달 중이던 Work 가 Shutdown 앞에 남아 있을 수 있음
	var kinds []Kind
	for {
		m, ok := q.TryGet()
		if !ok {
			break
		}
		kinds = append(kinds, m.Kind)
	}
	require.NotEmpty(t, kinds)
	assert.Equal(t, KindShutdown, kinds[len(kinds)-1])
}
