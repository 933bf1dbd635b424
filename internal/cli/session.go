package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/aretw0/tally/internal/presentation/tui"
	"github.com/aretw0/tally/pkg/domain"
	"github.com/aretw0/tally/pkg/ports"
)

const helpText = `Commands:
  inc                  press Inc on the connected counter (+10)
  inc N                increment by N
  dec                  decrement by one
  connect inc|dec      press a button on the connected counter
  hooks inc|dec        press a button on the hook-style counter
  dispatch TYPE [N]    dispatch a raw action
  state                show the full state
  help                 show this help
  quit                 leave the session
`

// SessionOptions configures an interactive session.
type SessionOptions struct {
	In  io.Reader
	Out io.Writer

	// HooksStep is what the hook-style counter adds on Inc. Zero is a valid step.
	HooksStep int

	// Rich enables the banner and markdown rendering. Set it only when Out is a terminal.
	Rich bool
}

// Session is a line-oriented loop that drives the two counter views over one store.
type Session struct {
	store     ports.Store
	opts      SessionOptions
	connected tui.View
	hooks     tui.View
	render    func(string) (string, error)
}

// NewSession attaches both counter views to the store.
func NewSession(ctx context.Context, store ports.Store, opts SessionOptions) *Session {
	s := &Session{
		store:     store,
		opts:      opts,
		connected: tui.NewCounterView(ctx, store),
		hooks:     tui.NewCounterHooksView(ctx, store, opts.HooksStep),
		render:    func(md string) (string, error) { return md, nil },
	}
	if opts.Rich {
		s.render = tui.NewRenderer()
	}
	for _, v := range s.views() {
		v.OnChange(func() { s.draw(v) })
	}
	return s
}

func (s *Session) views() []tui.View {
	return []tui.View{s.connected, s.hooks}
}

// Close detaches the views from the store.
func (s *Session) Close() {
	for _, v := range s.views() {
		v.Close()
	}
}

// Run reads commands until quit, EOF or ctx cancellation.
func (s *Session) Run(ctx context.Context) error {
	if s.opts.Rich {
		tui.PrintBanner(s.opts.Out)
	}
	fmt.Fprintln(s.opts.Out, "Type 'help' for commands.")
	for _, v := range s.views() {
		s.draw(v)
	}

	scanner := bufio.NewScanner(s.opts.In)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(s.opts.Out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(s.opts.Out)
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			fmt.Fprintln(s.opts.Out, "Bye!")
			return nil
		}
		if err := s.Execute(ctx, line); err != nil {
			fmt.Fprintln(s.opts.Out, err)
		}
	}
}

// Execute runs one command line. Views redraw themselves through their change callbacks.
func (s *Session) Execute(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	switch fields[0] {
	case "help":
		fmt.Fprint(s.opts.Out, helpText)
		return nil
	case "state":
		return s.printState()
	case "inc":
		if len(fields) == 1 {
			s.press(s.connected, "inc")
			return nil
		}
		if len(fields) == 2 {
			n, err := strconv.Atoi(fields[1])
			if err != nil {
				return fmt.Errorf("%w: %q is not a number", domain.ErrMalformedAction, fields[1])
			}
			s.dispatch(ctx, domain.Increment(n))
			return nil
		}
	case "dec":
		if len(fields) == 1 {
			s.dispatch(ctx, domain.Decrement())
			return nil
		}
	case "connect", "hooks":
		if len(fields) == 2 && (fields[1] == "inc" || fields[1] == "dec") {
			v := s.connected
			if fields[0] == "hooks" {
				v = s.hooks
			}
			s.press(v, fields[1])
			return nil
		}
	case "dispatch":
		if len(fields) == 2 || len(fields) == 3 {
			action := domain.Action{Type: domain.ActionType(fields[1])}
			if len(fields) == 3 {
				n, err := strconv.Atoi(fields[2])
				if err != nil {
					return fmt.Errorf("%w: %q is not a number", domain.ErrMalformedAction, fields[2])
				}
				action.Payload = n
			}
			s.dispatch(ctx, action)
			return nil
		}
	}
	return fmt.Errorf("%w: %q", domain.ErrUnknownCommand, line)
}

func (s *Session) press(v tui.View, button string) {
	before := s.store.GetState()
	var after domain.State
	if button == "inc" {
		after = v.Inc()
	} else {
		after = v.Dec()
	}
	s.reportIdentity(before, after)
}

func (s *Session) dispatch(ctx context.Context, action domain.Action) {
	before := s.store.GetState()
	s.reportIdentity(before, s.store.Dispatch(ctx, action))
}

func (s *Session) reportIdentity(before, after domain.State) {
	if before == after {
		fmt.Fprintln(s.opts.Out, "(no change)")
	}
}

func (s *Session) draw(v tui.View) {
	fmt.Fprintf(s.opts.Out, "%s:\n%s", v.Name(), v.Render())
}

func (s *Session) printState() error {
	out, err := s.render(tui.StatusMarkdown(s.store.GetState()))
	if err != nil {
		return fmt.Errorf("failed to render state: %w", err)
	}
	fmt.Fprint(s.opts.Out, out)
	return nil
}
