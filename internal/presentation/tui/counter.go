package tui

import (
	"context"
	"fmt"

	"github.com/aretw0/tally/pkg/binding"
	"github.com/aretw0/tally/pkg/domain"
	"github.com/aretw0/tally/pkg/ports"
)

// ConnectedStep is what the connected counter's Inc button adds.
const ConnectedStep = 10

// View is a counter component with two buttons.
type View interface {
	Name() string
	Render() string
	Inc() domain.State
	Dec() domain.State
	// OnChange registers fn to run whenever the rendered count changes.
	OnChange(fn func())
	Close()
}

// CounterProps are the props the connected counter reads from the state.
type CounterProps struct {
	Count int
}

// CounterActions are the bound callbacks of the connected counter.
type CounterActions struct {
	Increment func(int) domain.State
	Decrement func() domain.State
}

// CounterView is attached through binding.Connect.
type CounterView struct {
	conn *binding.Connected[CounterProps, CounterActions]
}

// NewCounterView connects a counter to the store.
func NewCounterView(ctx context.Context, store ports.Store) *CounterView {
	mapState := func(s domain.State) CounterProps {
		return CounterProps{Count: s.Count}
	}
	mapDispatch := func(d binding.Dispatch) CounterActions {
		return CounterActions{
			Increment: binding.BindWith(d, domain.Increment),
			Decrement: binding.Bind(d, domain.Decrement),
		}
	}
	return &CounterView{conn: binding.Connect(ctx, store, mapState, mapDispatch)}
}

func (v *CounterView) Name() string { return "connect" }

func (v *CounterView) Render() string {
	return renderCounter(v.conn.Props().Count)
}

func (v *CounterView) Inc() domain.State { return v.conn.Actions().Increment(ConnectedStep) }

func (v *CounterView) Dec() domain.State { return v.conn.Actions().Decrement() }

func (v *CounterView) OnChange(fn func()) {
	v.conn.OnChange(func(CounterProps) { fn() })
}

func (v *CounterView) Close() { v.conn.Close() }

// CounterHooksView reads the count with UseSelector and dispatches with UseDispatch.
type CounterHooksView struct {
	count    *binding.Selection[int]
	dispatch binding.Dispatch
	step     int
}

// NewCounterHooksView builds the hook-style counter. Inc adds step.
func NewCounterHooksView(ctx context.Context, store ports.Store, step int) *CounterHooksView {
	return &CounterHooksView{
		count:    binding.UseSelector(store, func(s domain.State) int { return s.Count }),
		dispatch: binding.UseDispatch(ctx, store),
		step:     step,
	}
}

func (v *CounterHooksView) Name() string { return "hooks" }

func (v *CounterHooksView) Render() string {
	return renderCounter(v.count.Value())
}

func (v *CounterHooksView) Inc() domain.State { return v.dispatch(domain.Increment(v.step)) }

func (v *CounterHooksView) Dec() domain.State { return v.dispatch(domain.Decrement()) }

func (v *CounterHooksView) OnChange(fn func()) {
	v.count.OnChange(func(int) { fn() })
}

func (v *CounterHooksView) Close() { v.count.Close() }

func renderCounter(count int) string {
	return fmt.Sprintf("%d\n[Inc] [Dec]\n", count)
}
