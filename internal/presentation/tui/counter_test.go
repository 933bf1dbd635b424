package tui

import (
	"context"
	"strings"
	"testing"

	"github.com/aretw0/tally"
	"github.com/aretw0/tally/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestCounterViews_ShareStore(t *testing.T) {
	ctx := context.Background()
	store := tally.New()

	connected := NewCounterView(ctx, store)
	defer connected.Close()
	hooks := NewCounterHooksView(ctx, store, 1)
	defer hooks.Close()

	assert.Equal(t, "0\n[Inc] [Dec]\n", connected.Render())

	connected.Inc()
	assert.Equal(t, "10\n[Inc] [Dec]\n", hooks.Render())

	hooks.Inc()
	hooks.Dec()
	got := connected.Dec()

	assert.Equal(t, domain.State{Count: 9, OtherProperty: "someValue"}, got)
	assert.Equal(t, "9\n[Inc] [Dec]\n", connected.Render())
	assert.Equal(t, "9\n[Inc] [Dec]\n", hooks.Render())
}

func TestCounterViews_Close(t *testing.T) {
	ctx := context.Background()
	store := tally.New()

	views := []View{NewCounterView(ctx, store), NewCounterHooksView(ctx, store, 1)}
	assert.Equal(t, 2, store.ListenerCount())
	for _, v := range views {
		v.Close()
	}
	assert.Equal(t, 0, store.ListenerCount())
}

func TestStatusMarkdown(t *testing.T) {
	md := StatusMarkdown(domain.State{Count: 3, OtherProperty: "x"})
	assert.True(t, strings.HasPrefix(md, "| field | value |"))
	assert.Contains(t, md, "| count | 3 |")
	assert.Contains(t, md, "| otherProperty | x |")
}

func TestNewRenderer(t *testing.T) {
	render := NewRenderer()
	out, err := render("**count**")
	assert.NoError(t, err)
	assert.Contains(t, out, "count")
}

func TestCounterViews_OnChange(t *testing.T) {
	ctx := context.Background()
	store := tally.New()

	connected := NewCounterView(ctx, store)
	defer connected.Close()

	renders := 0
	connected.OnChange(func() { renders++ })

	connected.Inc()
	store.Dispatch(ctx, domain.Action{Type: "RESET"})
	connected.Dec()

	assert.Equal(t, 2, renders, "identity dispatch must not re-render")
}
