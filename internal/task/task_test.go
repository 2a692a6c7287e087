package task

import "testing"

func TestProgress(t *testing.T) {
	tests := []struct {
		name      string
		completed int64
		total     int64
		want      float64
	}{
		{name: "half done", completed: 50, total: 100, want: 0.5},
		{name: "complete", completed: 100, total: 100, want: 1},
		{name: "unknown total", completed: 50, total: 0, want: 0},
		{name: "overshoot clamps", completed: 150, total: 100, want: 1},
	}

	for _, tt := range tests {
		s := Snapshot{CompletedLength: tt.completed, TotalLength: tt.total}
		if got := s.Progress(); got != tt.want {
			t.Fatalf("%s: Progress() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestStateTerminal(t *testing.T) {
	tests := []struct {
		state State
		want  bool
	}{
		{state: StateActive, want: false},
		{state: StateWaiting, want: false},
		{state: StatePaused, want: false},
		{state: StateError, want: true},
		{state: StateComplete, want: true},
		{state: StateRemoved, want: true},
	}

	for _, tt := range tests {
		if got := tt.state.Terminal(); got != tt.want {
			t.Fatalf("Terminal(%s) = %v, want %v", tt.state, got, tt.want)
		}
	}
}
