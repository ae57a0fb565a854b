package order

import "fmt"

// Status represents order lifecycle.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusAccepted  Status = "ACCEPTED"
	StatusRouted    Status = "ROUTED"
	StatusFilled    Status = "FILLED"
	StatusCancelled Status = "CANCELLED"
	StatusRejected  Status = "REJECTED"
)

// StateTransition 状态转换
type StateTransition struct {
	From Status
	To   Status
}

// StateMachine 订单状态机。回放是单线程顺序执行，无需加锁。
type StateMachine struct {
	transitions map[StateTransition]bool
}

func NewStateMachine() *StateMachine {
	sm := &StateMachine{transitions: make(map[StateTransition]bool)}
	legal := []StateTransition{
		// 从PENDING可以转到
		{StatusPending, StatusAccepted},
		{StatusPending, StatusRejected},
		{StatusPending, StatusCancelled},

		// 从ACCEPTED可以转到
		{StatusAccepted, StatusRouted},
		{StatusAccepted, StatusCancelled},

		// 从ROUTED可以转到：成交、撤单、本周期未触发则回到ACCEPTED
		{StatusRouted, StatusFilled},
		{StatusRouted, StatusCancelled},
		{StatusRouted, StatusAccepted},

		// 终态不能转换（FILLED, CANCELLED, REJECTED）
	}
	for _, t := range legal {
		sm.transitions[t] = true
	}
	return sm
}

// ValidateTransition 验证状态转换是否合法。相同状态幂等允许。
func (sm *StateMachine) ValidateTransition(from, to Status) error {
	if from == to {
		return nil
	}
	if !sm.transitions[StateTransition{From: from, To: to}] {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidState, from, to)
	}
	return nil
}

// IsFinal 判断是否是终态。
func (sm *StateMachine) IsFinal(status Status) bool {
	switch status {
	case StatusFilled, StatusCancelled, StatusRejected:
		return true
	default:
		return false
	}
}

// CanCancel 判断当前状态下是否可以撤单。
func (sm *StateMachine) CanCancel(status Status) bool {
	switch status {
	case StatusPending, StatusAccepted, StatusRouted:
		return true
	default:
		return false
	}
}
