package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/aretw0/tally"
	"github.com/aretw0/tally/pkg/domain"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runTranscript(t *testing.T, store *tally.Store, input string) []byte {
	t.Helper()

	var out bytes.Buffer
	ctx := context.Background()
	s := NewSession(ctx, store, SessionOptions{
		In:        strings.NewReader(input),
		Out:       &out,
		HooksStep: 1,
	})
	defer s.Close()

	require.NoError(t, s.Run(ctx))
	return out.Bytes()
}

func TestSession_Golden(t *testing.T) {
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)

	tests := []struct {
		name  string
		opts  []tally.Option
		input string
	}{
		{
			name:  "session",
			input: "inc\nhooks inc\ndec\ndispatch RESET\ninc -3\nfoo\n\nstate\nquit\n",
		},
		{
			name:  "session_legacy",
			opts:  []tally.Option{tally.WithLegacyReducer()},
			input: "inc\nhooks inc\nconnect dec\nstate\nexit\n",
		},
		{
			name:  "session_eof",
			input: "inc 5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g.Assert(t, tt.name, runTranscript(t, tally.New(tt.opts...), tt.input))
		})
	}
}

func TestSession_Execute(t *testing.T) {
	ctx := context.Background()
	store := tally.New()
	var out bytes.Buffer
	s := NewSession(ctx, store, SessionOptions{Out: &out, HooksStep: 3})
	defer s.Close()

	require.NoError(t, s.Execute(ctx, "hooks inc"))
	assert.Equal(t, 3, store.GetState().Count)

	require.NoError(t, s.Execute(ctx, "connect inc"))
	assert.Equal(t, 13, store.GetState().Count)

	require.NoError(t, s.Execute(ctx, "dispatch DECREMENT"))
	assert.Equal(t, 12, store.GetState().Count)

	require.NoError(t, s.Execute(ctx, "dispatch INCREMENT 8"))
	assert.Equal(t, 20, store.GetState().Count)

	t.Run("Unknown commands", func(t *testing.T) {
		for _, line := range []string{"jump", "dec 2", "hooks reset", "dispatch", "inc 1 2"} {
			err := s.Execute(ctx, line)
			assert.ErrorIs(t, err, domain.ErrUnknownCommand, line)
		}
	})

	t.Run("Malformed amounts", func(t *testing.T) {
		assert.ErrorIs(t, s.Execute(ctx, "inc ten"), domain.ErrMalformedAction)
		assert.ErrorIs(t, s.Execute(ctx, "dispatch INCREMENT x"), domain.ErrMalformedAction)
	})

	assert.Equal(t, 20, store.GetState().Count, "rejected commands must not dispatch")
}

func TestSession_ZeroHooksStep(t *testing.T) {
	ctx := context.Background()
	store := tally.New()
	var out bytes.Buffer
	s := NewSession(ctx, store, SessionOptions{Out: &out, HooksStep: 0})
	defer s.Close()

	require.NoError(t, s.Execute(ctx, "hooks inc"))
	assert.Equal(t, 0, store.GetState().Count)
	assert.Equal(t, "(no change)\n", out.String())
}

func TestSession_Help(t *testing.T) {
	ctx := context.Background()
	var out bytes.Buffer
	s := NewSession(ctx, tally.New(), SessionOptions{Out: &out})
	defer s.Close()

	require.NoError(t, s.Execute(ctx, "help"))
	assert.Contains(t, out.String(), "hooks inc|dec")
}

func TestSession_Close(t *testing.T) {
	store := tally.New()
	s := NewSession(context.Background(), store, SessionOptions{Out: &bytes.Buffer{}})
	assert.Equal(t, 2, store.ListenerCount())

	s.Close()
	assert.Equal(t, 0, store.ListenerCount())
}

func TestSession_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewSession(ctx, tally.New(), SessionOptions{In: strings.NewReader("inc\n"), Out: &bytes.Buffer{}})
	defer s.Close()

	assert.ErrorIs(t, s.Run(ctx), context.Canceled)
}
