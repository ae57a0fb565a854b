package order

import (
	"errors"
	"testing"
)

func TestStateMachineLegalPaths(t *testing.T) {
	sm := NewStateMachine()
	paths := [][2]Status{
		{StatusPending, StatusAccepted},
		{StatusPending, StatusRejected},
		{StatusPending, StatusCancelled},
		{StatusAccepted, StatusRouted},
		{StatusAccepted, StatusCancelled},
		{StatusRouted, StatusFilled},
		{StatusRouted, StatusCancelled},
		{StatusRouted, StatusAccepted}, // 本周期未触发，回到队列
	}
	for _, p := range paths {
		if err := sm.ValidateTransition(p[0], p[1]); err != nil {
			t.Fatalf("%s -> %s should be legal: %v", p[0], p[1], err)
		}
	}
}

func TestStateMachineTerminalStates(t *testing.T) {
	sm := NewStateMachine()
	terminals := []Status{StatusFilled, StatusCancelled, StatusRejected}
	targets := []Status{StatusPending, StatusAccepted, StatusRouted, StatusFilled, StatusCancelled, StatusRejected}
	for _, from := range terminals {
		if !sm.IsFinal(from) {
			t.Fatalf("%s should be final", from)
		}
		for _, to := range targets {
			if from == to {
				continue
			}
			if err := sm.ValidateTransition(from, to); !errors.Is(err, ErrInvalidState) {
				t.Fatalf("%s -> %s should be ErrInvalidState, got %v", from, to, err)
			}
		}
	}
}

// 相同状态转换幂等允许
func TestStateMachineIdempotent(t *testing.T) {
	sm := NewStateMachine()
	for _, st := range []Status{StatusPending, StatusAccepted, StatusRouted, StatusFilled} {
		if err := sm.ValidateTransition(st, st); err != nil {
			t.Fatalf("%s -> %s should be idempotent: %v", st, st, err)
		}
	}
}

func TestCanCancel(t *testing.T) {
	sm := NewStateMachine()
	for _, st := range []Status{StatusPending, StatusAccepted, StatusRouted} {
		if !sm.CanCancel(st) {
			t.Fatalf("%s should be cancellable", st)
		}
	}
	for _, st := range []Status{StatusFilled, StatusCancelled, StatusRejected} {
		if sm.CanCancel(st) {
			t.Fatalf("%s should not be cancellable", st)
		}
	}
}
