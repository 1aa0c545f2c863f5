package util

// EmptyChannel discards everything currently buffered in ch.
func EmptyChannel[T interface{}](ch chan T) {
	for len(ch) > 0 {
		<-ch
	}
}

// Notify sends a wake-up on ch without blocking. Pending wake-ups coalesce.
func Notify(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}
