package qsort

import "fmt"

// Kind 메시지 종류
type Kind uint8

const (
	// KindWork 구간 정렬 요청
	KindWork Kind = iota
	// KindDone Range.Length 개 원소 정렬 완료 통지
	KindDone
	// KindShutdown 워커 하나 종료
	KindShutdown
)

func (k Kind) String() string {
	switch k {
	case KindWork:
		return "work"
	case KindDone:
		return "done"
	case KindShutdown:
		return "shutdown"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Range 공유 배열의 구간 뷰. 살아있는 구간끼리는 겹치지 않음
type Range struct {
	Offset int
	Length int
}

// End 구간 끝 (미포함)
func (r Range) End() int { return r.Offset + r.Length }

// Message 큐로 전달되는 단위
type Message struct {
	Kind  Kind
	Range Range
}

func Work(r Range) Message { return Message{Kind: KindWork, Range: r} }

func Done(size int) Message { return Message{Kind: KindDone, Range: Range{Length: size}} }

func Shutdown() Message { return Message{Kind: KindShutdown} }

// Size Done 메시지가 정산하는 원소 수
func (m Message) Size() int { return m.Range.Length }

func (m Message) String() string {
	switch m.Kind {
	case KindWork:
		return fmt.Sprintf("work[%d:%d]", m.Range.Offset, m.Range.End())
	case KindDone:
		return fmt.Sprintf("done(%d)", m.Range.Length)
	default:
		return m.Kind.String()
	}
}
