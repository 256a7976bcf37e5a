package qsort

import "sync"

// Queue 고정 용량 원형 버퍼 기반 다중 생산자/다중 소비자 FIFO 큐
// * 뮤텍스 1개 + 조건변수 2개(notEmpty, notFull). 락은 인덱스 관리 동안만 잡음.
// * 모든 참여자가 동시에 블록되면 진행 불가능 상태이므로 ErrDeadlock 으로 스스로 중단.
// * 가득 찬 큐에서 진전 없이 전달(Forward)만 반복되는 경우도 같은 교착으로 봄.
type Queue struct {
	mu       sync.Mutex
	notEmpty *sync.Cond
	notFull  *sync.Cond

	buf   []Message
	head  int
	count int

	// 큐를 사용하는 고루틴 수와 각 방향으로 대기 중인 수
	participants int
	putWaiting   int
	getWaiting   int

	// stall 마지막 Progress 이후, 넣으려고 대기 중인 참여자가 있는 가득 찬 큐에서 일어난 전달 수
	stall int

	peak int
	puts uint64
	err  error

	// onChange 큐 내용이 바뀔 때마다 q.mu 를 잡은 채 호출 (테스트용)
	onChange func(*Queue)
}

// NewQueue capacity 칸짜리 큐 생성. participants 는 Put/Get 을 호출할 고루틴 수.
func NewQueue(capacity, participants int) (*Queue, error) {
	if capacity < 1 {
		return nil, invalidConfig("capacity", "must be positive, got %d", capacity)
	}
	if participants < 1 {
		return nil, invalidConfig("participants", "must be positive, got %d", participants)
	}
	q := &Queue{
		buf:          make([]Message, capacity),
		participants: participants,
	}
	q.notEmpty = sync.NewCond(&q.mu)
	q.notFull = sync.NewCond(&q.mu)
	return q, nil
}

// Put 빈 칸이 생길 때까지 블록 후 꼬리에 삽입
func (q *Queue) Put(m Message) error {
	return q.put(m, false)
}

// Forward 자기 몫이 아닌 메시지를 다시 넣음. Put 과 같지만 진전으로 치지 않음.
// 대기 중인 생산자가 있는 가득 찬 큐에서 진전 없이 capacity×participants 번 연속 전달되면
// 아무도 빈 칸을 얻지 못하고 같은 메시지만 돌고 있으므로 ErrDeadlock.
func (q *Queue) Forward(m Message) error {
	return q.put(m, true)
}

// Progress 분할, 커널 실행, Done 정산처럼 전체 작업이 실제로 줄었음을 알림
func (q *Queue) Progress() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.stall = 0
}

func (q *Queue) put(m Message, forward bool) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.err == nil && q.count == len(q.buf) {
		q.putWaiting++
		q.checkDeadlock()
		if q.err == nil {
			q.notFull.Wait()
		}
		q.putWaiting--
	}
	if q.err != nil {
		return q.err
	}

	q.buf[(q.head+q.count)%len(q.buf)] = m
	q.count++
	q.puts++
	if q.count > q.peak {
		q.peak = q.count
	}
	q.notEmpty.Signal()
	q.notify()

	if forward && q.count == len(q.buf) && q.putWaiting > 0 {
		q.stall++
		if q.stall >= len(q.buf)*max(q.participants, 1) {
			q.abortLocked(ErrDeadlock)
			return q.err
		}
	}
	return nil
}

// Get 메시지가 들어올 때까지 블록 후 머리에서 꺼냄
func (q *Queue) Get() (Message, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.err == nil && q.count == 0 {
		q.getWaiting++
		q.checkDeadlock()
		if q.err == nil {
			q.notEmpty.Wait()
		}
		q.getWaiting--
	}
	if q.err != nil {
		return Message{}, q.err
	}

	m := q.pop()
	q.notFull.Signal()
	q.notify()
	return m, nil
}

// TryGet 블록 없이 꺼냄. 잔여 메시지 정리용 (중단된 큐에서도 동작)
func (q *Queue) TryGet() (Message, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.count == 0 {
		return Message{}, false
	}
	m := q.pop()
	q.notFull.Signal()
	q.notify()
	return m, true
}

func (q *Queue) pop() Message {
	m := q.buf[q.head]
	q.buf[q.head] = Message{}
	q.head = (q.head + 1) % len(q.buf)
	q.count--
	return m
}

func (q *Queue) notify() {
	if q.onChange != nil {
		q.onChange(q)
	}
}

// Abort 대기 중인 모든 호출을 깨우고 이후 Put/Get 이 err 를 반환하게 함.
// 첫 번째 원인만 보존. err 가 nil 이면 ErrAborted.
func (q *Queue) Abort(err error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.abortLocked(err)
}

func (q *Queue) abortLocked(err error) {
	if q.err != nil {
		return
	}
	if err == nil {
		err = ErrAborted
	}
	q.err = err
	q.notEmpty.Broadcast()
	q.notFull.Broadcast()
}

// Leave 더 이상 큐를 쓰지 않는 참여자 등록 해제
func (q *Queue) Leave() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.participants--
	q.checkDeadlock()
}

// checkDeadlock 남은 참여자 전원이 같은 방향으로 대기 중이면 아무도 깨울 수 없음.
// q.mu 를 잡은 상태에서 호출.
func (q *Queue) checkDeadlock() {
	if q.err != nil || q.participants <= 0 {
		return
	}
	full := q.count == len(q.buf) && q.putWaiting >= q.participants
	empty := q.count == 0 && q.getWaiting >= q.participants
	if full || empty {
		q.abortLocked(ErrDeadlock)
	}
}

// Err 큐를 중단시킨 원인 (없으면 nil)
func (q *Queue) Err() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.err
}

// Len 현재 큐에 있는 메시지 수
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.count
}

// Cap 큐 용량
func (q *Queue) Cap() int { return len(q.buf) }

// Peak 지금까지 동시에 큐에 있었던 최대 메시지 수
func (q *Queue) Peak() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.peak
}

// Puts 누적 삽입 횟수
func (q *Queue) Puts() uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.puts
}
