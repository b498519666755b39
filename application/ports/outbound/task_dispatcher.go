package outbound

// TaskDispatcher submits work onto the shared supervised worker pool.
// Satisfied by *ants.Pool.
type TaskDispatcher interface {
	Submit(task func()) error
}
