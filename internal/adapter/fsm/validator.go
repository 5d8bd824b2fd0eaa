package fsm

import (
	"context"
	"errors"

	loopfsm "github.com/looplab/fsm"

	"github.com/neomorfeo/tenantpos/internal/domain"
)

var _ domain.TransitionValidator = (*Validator)(nil)

// statusMachine lists the two-state tenant machine: deactivate moves an
// ACTIVE tenant to INACTIVE and activate moves it back. Each event has
// exactly one source, so repeating an event on a tenant already in the
// target status is rejected rather than treated as a no-op.
func statusMachine(transitions []domain.Transition) loopfsm.Events {
	out := make(loopfsm.Events, 0, len(transitions))
	for _, t := range transitions {
		out = append(out, loopfsm.EventDesc{
			Name: string(t.Event),
			Src:  []string{string(t.Src)},
			Dst:  string(t.Dst),
		})
	}
	return out
}

var events = statusMachine(domain.Transitions)

// Validator decides whether a tenant may move between ACTIVE and INACTIVE.
// It never persists anything; the caller stores the returned status.
type Validator struct{}

// New returns a Validator over domain.Transitions.
func New() *Validator {
	return &Validator{}
}

// Apply returns the status event leads to from current. Unknown statuses,
// unknown events and events that do not start from current all yield a
// *domain.TransitionError.
func (v *Validator) Apply(ctx context.Context, current domain.Status, event domain.Event) (domain.Status, error) {
	if !current.Valid() {
		return "", &domain.TransitionError{Event: event, Current: current}
	}

	// looplab/fsm machines carry their own state; seed one from the stored status.
	machine := loopfsm.NewFSM(string(current), events, nil)

	err := machine.Event(ctx, string(event))
	if err == nil {
		return domain.Status(machine.Current()), nil
	}

	var invalid loopfsm.InvalidEventError
	var unknown loopfsm.UnknownEventError
	var stuck loopfsm.NoTransitionError
	if errors.As(err, &invalid) || errors.As(err, &unknown) || errors.As(err, &stuck) {
		return "", &domain.TransitionError{Event: event, Current: current}
	}
	return "", err
}
