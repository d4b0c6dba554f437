package health

import "sync/atomic"

type ServerState int32

const (
	ServerStateReady ServerState = iota + 1
	ServerStateInGracePeriod
	ServerStateInCleanupPeriod
)

// Status is the lifecycle state shared by the server and the health endpoint.
type Status struct {
	state atomic.Int32
}

func NewStatus() *Status {
	status := &Status{}
	status.Set(ServerStateReady)

	return status
}

func (s *Status) Set(state ServerState) {
	s.state.Store(int32(state))
}

func (s *Status) Get() ServerState {
	return ServerState(s.state.Load())
}

func (s *Status) Ready() bool {
	return s.Get() == ServerStateReady
}
