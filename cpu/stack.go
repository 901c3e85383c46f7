package cpu

const (
	STACK_LIMIT = 256 // Default maximum include and macro expansion depth.
)

// Stack is a bounded LIFO, used as the worklist of the include and macro expanders.
type Stack[T any] struct {
	Limit int // Maximum depth; STACK_LIMIT if zero.
	Data  []T
}

func (s *Stack[T]) limit() int {
	if s.Limit <= 0 {
		return STACK_LIMIT
	}
	return s.Limit
}

// Push pushes a value. It returns false, leaving the stack unchanged, if the stack is full.
func (s *Stack[T]) Push(value T) (ok bool) {
	if s.Full() {
		return
	}
	s.Data = append(s.Data, value)
	return true
}

func (s *Stack[T]) Pop() (value T, ok bool) {
	value, ok = s.Peek()
	if ok {
		s.Data = s.Data[:len(s.Data)-1]
	}
	return
}

// Top returns a pointer to the top value, or nil if the stack is empty.
func (s *Stack[T]) Top() *T {
	if s.Empty() {
		return nil
	}
	return &s.Data[len(s.Data)-1]
}

func (s *Stack[T]) Empty() bool {
	return len(s.Data) == 0
}

func (s *Stack[T]) Full() bool {
	return len(s.Data) >= s.limit()
}

func (s *Stack[T]) Len() int {
	return len(s.Data)
}

func (s *Stack[T]) Peek() (value T, ok bool) {
	if s.Empty() {
		return
	}

	return s.Data[len(s.Data)-1], true
}
