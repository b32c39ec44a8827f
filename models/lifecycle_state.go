package models

// LifecycleState is the workflow of budgets and their works.
type LifecycleState string

const (
	StateBudgeted   LifecycleState = "Presupuestado"
	StateApproved   LifecycleState = "Aprobado"
	StateRejected   LifecycleState = "Rechazado"
	StateInProgress LifecycleState = "En proceso"
	StateDelivered  LifecycleState = "Entregado"
	StateCancelled  LifecycleState = "Cancelado"
)

var lifecycleTransitions = map[LifecycleState][]LifecycleState{
	StateBudgeted:   {StateApproved, StateRejected, StateCancelled},
	StateApproved:   {StateInProgress, StateCancelled},
	StateInProgress: {StateDelivered, StateCancelled},
}

func ParseLifecycleState(s string) (LifecycleState, bool) {
	switch st := LifecycleState(s); st {
	case StateBudgeted, StateApproved, StateRejected, StateInProgress, StateDelivered, StateCancelled:
		return st, true
	}
	return "", false
}

func (s LifecycleState) CanTransitionTo(target LifecycleState) bool {
	for _, next := range lifecycleTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// NextStates lists the legal targets from s; nil for terminal states.
func (s LifecycleState) NextStates() []LifecycleState {
	return lifecycleTransitions[s]
}
