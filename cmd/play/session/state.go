package session

// State is the playback state of a session.
type State int

const (
	StateStopped State = iota
	StateLoading
	StateReady
	StatePlaying
	StatePaused
	StateSeeking
	StateEnded
	StateError
)

// String returns the label shown on the state chip.
func (s State) String() string {
	switch s {
	case StateStopped:
		return "STOPPED"
	case StateLoading:
		return "LOADING"
	case StateReady:
		return "READY"
	case StatePlaying:
		return "PLAYING"
	case StatePaused:
		return "PAUSED"
	case StateSeeking:
		return "SEEKING"
	case StateEnded:
		return "ENDED"
	case StateError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// footer returns the short status line for a state.
func footer(s State) string {
	switch s {
	case StatePlaying:
		return "Live"
	case StateLoading:
		return "Loading"
	case StateEnded:
		return "Ended"
	case StateError:
		return "Audio error"
	default:
		return "Ready"
	}
}
