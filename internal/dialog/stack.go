package dialog

import "sync/atomic"

// BaseLevel is the level the default stack counts up from.
const BaseLevel = 100

// Stack hands out stacking levels. Every call to Next returns a level higher
// than all previous ones; levels are never reused.
type Stack struct {
	level atomic.Int64
}

// NewStack creates a stack whose first level is base+1.
func NewStack(base int) *Stack {
	s := &Stack{}
	s.level.Store(int64(base))
	return s
}

// Next returns the next stacking level.
func (s *Stack) Next() int {
	return int(s.level.Add(1))
}

// Current returns the most recently issued level.
func (s *Stack) Current() int {
	return int(s.level.Load())
}

var defaultStack = NewStack(BaseLevel)

// DefaultStack returns the process-wide stack.
func DefaultStack() *Stack {
	return defaultStack
}
