package raptor

// roundListener is notified before a worker starts a round.
type roundListener interface {
	PrepareForNextRound(round int)
}

// lifeCycle holds the round listeners of one worker. The list is fixed when the
// worker is built and called synchronously.
type lifeCycle struct {
	listeners []roundListener
}

func newLifeCycle(listeners ...roundListener) lifeCycle {
	return lifeCycle{listeners: listeners}
}

func (l lifeCycle) prepareForNextRound(round int) {
	for _, listener := range l.listeners {
		listener.PrepareForNextRound(round)
	}
}
