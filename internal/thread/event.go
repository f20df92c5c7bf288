package thread

type EventKind int

const (
	FeedChanged EventKind = iota
	RepliesChanged
	CommentPosted
	LikeChanged
	OperationFailed
)

// Event says the thread changed and should be rendered again from Snapshot.
type Event struct {
	Kind      EventKind
	CommentId int64
	Err       error
}

const subscriberBuffer = 16

// Subscribe returns a channel of change events and a func that stops delivery and closes
// it. Events are dropped for a subscriber whose buffer is full.
func (t *Thread) Subscribe() (<-chan Event, func()) {
	t.subMu.Lock()
	defer t.subMu.Unlock()

	id := t.nextSub
	t.nextSub++

	events := make(chan Event, subscriberBuffer)
	t.subscribers[id] = events

	cancel := func() {
		t.subMu.Lock()
		defer t.subMu.Unlock()

		if ch, ok := t.subscribers[id]; ok {
			delete(t.subscribers, id)
			close(ch)
		}
	}

	return events, cancel
}

func (t *Thread) publish(event Event) {
	t.subMu.Lock()
	defer t.subMu.Unlock()

	for _, ch := range t.subscribers {
		select {
		case ch <- event:
		default:
		}
	}
}
