package services

import (
	"errors"
	"sync"
)

// Conversation states of the presentation layer. The bot parks a user in an
// awaiting state after a prompt ("send me the amount") and returns to idle
// once the input arrives or the flow is cancelled.
type SessionState string

const (
	StateIdle                   = SessionState("idle")
	StateAwaitingTransaction    = SessionState("awaiting_transaction")
	StateAwaitingBudgetCategory = SessionState("awaiting_budget_category")
	StateAwaitingBudgetAmount   = SessionState("awaiting_budget_amount")
	StateAwaitingDebt           = SessionState("awaiting_debt")
	StateAwaitingGoal           = SessionState("awaiting_goal")
	StateAwaitingReminder       = SessionState("awaiting_reminder")
	StateAwaitingFilter         = SessionState("awaiting_filter")
)

// ErrInvalidTransition rejects a session move the state machine does not
// allow, e.g. jumping between two awaiting states.
var ErrInvalidTransition = errors.New("invalid session transition")

var sessionStates = map[SessionState]bool{
	StateIdle:                   true,
	StateAwaitingTransaction:    true,
	StateAwaitingBudgetCategory: true,
	StateAwaitingBudgetAmount:   true,
	StateAwaitingDebt:           true,
	StateAwaitingGoal:           true,
	StateAwaitingReminder:       true,
	StateAwaitingFilter:         true,
}

// SessionService is the explicit per-user conversation state machine, held
// in a mutex-guarded map keyed by user id. Allowed moves: idle to any
// awaiting state, any state back to idle, and the two-step budget-set flow
// (category then amount). Everything else is rejected.
type SessionService struct {
	mu     sync.Mutex
	states map[int64]SessionState
}

func NewSessionService() *SessionService {
	return &SessionService{states: make(map[int64]SessionState)}
}

// Current returns the user's state, idle when none is recorded.
func (s *SessionService) Current(userID int64) SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()

	if state, ok := s.states[userID]; ok {
		return state
	}
	return StateIdle
}

// Transition moves the user to a new state if the machine allows it.
func (s *SessionService) Transition(userID int64, to SessionState) error {
	if !sessionStates[to] {
		return ErrInvalidTransition
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	from, ok := s.states[userID]
	if !ok {
		from = StateIdle
	}

	if !allowedTransition(from, to) {
		return ErrInvalidTransition
	}

	if to == StateIdle {
		delete(s.states, userID)
	} else {
		s.states[userID] = to
	}
	return nil
}

// Reset forces the user back to idle regardless of the current state.
func (s *SessionService) Reset(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, userID)
}

func allowedTransition(from, to SessionState) bool {
	switch {
	case to == StateIdle:
		return true
	case from == StateIdle:
		return true
	case from == StateAwaitingBudgetCategory && to == StateAwaitingBudgetAmount:
		return true
	default:
		return false
	}
}
