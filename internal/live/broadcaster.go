package live

type Broadcaster interface {
	Broadcast(attemptID string, action string, data any)
}
