package tui

import (
	"fmt"

	"github.com/aretw0/tally/pkg/domain"
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders markdown using glamour.
// It falls back to the raw markdown if the renderer cannot be built.
func NewRenderer() func(string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
	)
	if err != nil {
		return func(markdown string) (string, error) {
			return markdown, nil
		}
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// StatusMarkdown describes the full state as a markdown table.
func StatusMarkdown(s domain.State) string {
	return fmt.Sprintf("| field | value |\n|---|---|\n| count | %d |\n| otherProperty | %s |\n", s.Count, s.OtherProperty)
}
