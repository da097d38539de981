package duplex

// State is the pipeline connection state.
type State int

const (
	// StateDisconnected means no session exists.
	StateDisconnected State = iota
	// StateConnecting means a connect is in flight.
	StateConnecting
	// StateLive means the session is established and audio is flowing.
	StateLive
	// StateError means the last session ended with a failure. A new
	// Connect leaves this state.
	StateError
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateLive:
		return "live"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}
