package task

type State string

const (
	StateActive   State = "active"
	StateWaiting  State = "waiting"
	StatePaused   State = "paused"
	StateError    State = "error"
	StateComplete State = "complete"
	StateRemoved  State = "removed"
)

func (s State) Terminal() bool {
	switch s {
	case StateError, StateComplete, StateRemoved:
		return true
	}
	return false
}

// Snapshot is one download as the daemon reported it at poll time.
type Snapshot struct {
	GID             string
	Name            string
	State           State
	CompletedLength int64
	TotalLength     int64
	DownloadSpeed   int64
}

// Progress is the completed fraction in [0, 1]. Zero when the total
// length is still unknown (magnet metadata not yet fetched).
func (s Snapshot) Progress() float64 {
	if s.TotalLength <= 0 {
		return 0
	}
	p := float64(s.CompletedLength) / float64(s.TotalLength)
	if p > 1 {
		return 1
	}
	return p
}
