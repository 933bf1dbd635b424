package domain

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestDiff(t *testing.T) {
	tests := []struct {
		name      string
		old       *State
		new       State
		wantCount *int
		wantOther *string
		wantNil   bool
	}{
		{
			name:      "Initial Load (Old is Nil)",
			old:       nil,
			new:       State{Count: 3, OtherProperty: "someValue"},
			wantCount: ptr(3),
			wantOther: ptr("someValue"),
		},
		{
			name:    "No Changes",
			old:     &State{Count: 3, OtherProperty: "someValue"},
			new:     State{Count: 3, OtherProperty: "someValue"},
			wantNil: true,
		},
		{
			name:      "Count Change",
			old:       &State{Count: 3, OtherProperty: "someValue"},
			new:       State{Count: 2, OtherProperty: "someValue"},
			wantCount: ptr(2),
		},
		{
			name:      "Both Fields",
			old:       &State{Count: 3, OtherProperty: "someValue"},
			new:       State{Count: 2, OtherProperty: "Heloo Juhi"},
			wantCount: ptr(2),
			wantOther: ptr("Heloo Juhi"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Diff(tt.old, tt.new)
			if tt.wantNil {
				if got != nil {
					t.Errorf("Diff() = %v, want nil", got)
				}
				return
			}
			if got == nil {
				t.Fatal("Diff() = nil, want a diff")
			}
			if !equalPtr(got.Count, tt.wantCount) {
				t.Errorf("Diff().Count = %v, want %v", got.Count, tt.wantCount)
			}
			if !equalPtr(got.OtherProperty, tt.wantOther) {
				t.Errorf("Diff().OtherProperty = %v, want %v", got.OtherProperty, tt.wantOther)
			}
		})
	}
}

func TestDiffApply(t *testing.T) {
	old := State{Count: 1, OtherProperty: "a"}
	next := State{Count: 5, OtherProperty: "a"}

	diff := Diff(&old, next)
	if diff == nil {
		t.Fatal("Expected diff, got nil")
	}
	if got := diff.Apply(old); got != next {
		t.Errorf("Apply() = %+v, want %+v", got, next)
	}
	if !diff.Touches("count") || diff.Touches("otherProperty") || diff.Touches("unknown") {
		t.Errorf("Touches() mismatch for %+v", diff)
	}
}

func TestDiffJSONSerialization(t *testing.T) {
	t.Run("Unchanged Fields Omitted", func(t *testing.T) {
		diff := Diff(&State{Count: 1, OtherProperty: "x"}, State{Count: 0, OtherProperty: "x"})
		if diff == nil {
			t.Fatal("Expected diff, got nil")
		}

		bytes, _ := json.Marshal(diff)
		if strings.Contains(string(bytes), `"otherProperty"`) {
			t.Errorf("JSON should not contain 'otherProperty' when unchanged, got: %s", string(bytes))
		}
		if !strings.Contains(string(bytes), `"count":0`) {
			t.Errorf("JSON should carry a zero count explicitly, got: %s", string(bytes))
		}
	})
}

func ptr[T any](v T) *T {
	return &v
}

func equalPtr[T comparable](a, b *T) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}
