package binding

import (
	"context"

	"github.com/aretw0/tally/pkg/domain"
	"github.com/aretw0/tally/pkg/ports"
)

// Connected is a consumer wired to the store through mapState / mapDispatch.
// P is the props type derived from state, D the bound actions type.
type Connected[P any, D any] struct {
	*Selection[P]
	actions D
}

// Connect binds a consumer to the store.
// mapState derives props from every committed state; mapDispatch receives a bound
// Dispatch and returns the callbacks the consumer needs. mapDispatch may be nil.
func Connect[P any, D any](ctx context.Context, store ports.Store, mapState func(domain.State) P, mapDispatch func(Dispatch) D) *Connected[P, D] {
	c := &Connected[P, D]{
		Selection: UseSelector(store, mapState),
	}
	if mapDispatch != nil {
		c.actions = mapDispatch(UseDispatch(ctx, store))
	}
	return c
}

// Props returns the props derived from the latest state.
func (c *Connected[P, D]) Props() P {
	return c.Value()
}

// Actions returns the bound callbacks built by mapDispatch.
func (c *Connected[P, D]) Actions() D {
	return c.actions
}

// Bind turns an action creator without arguments into a callback that dispatches its result.
func Bind(dispatch Dispatch, creator func() domain.Action) func() domain.State {
	return func() domain.State {
		return dispatch(creator())
	}
}

// BindWith is Bind for single-argument action creators.
func BindWith[A any](dispatch Dispatch, creator func(A) domain.Action) func(A) domain.State {
	return func(arg A) domain.State {
		return dispatch(creator(arg))
	}
}
