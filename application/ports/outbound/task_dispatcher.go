package outbound

// TaskDispatcher schedules work onto a bounded worker pool.
type TaskDispatcher interface {
	Submit(task func()) error
}
