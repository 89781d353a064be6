package repository

import "sync"

// changeFeed is the in-process change signal for the local store. Writers in
// this process publish on it directly because the slot's own change signal
// is asynchronous and may not fire for the writer at all.
type changeFeed struct {
	mu          sync.RWMutex
	subscribers map[uint64]chan struct{}
	nextID      uint64
}

func newChangeFeed() *changeFeed {
	return &changeFeed{
		subscribers: make(map[uint64]chan struct{}),
	}
}

func (f *changeFeed) Subscribe() (uint64, <-chan struct{}) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	// One slot is enough: a pending signal already means "re-read".
	ch := make(chan struct{}, 1)
	f.subscribers[f.nextID] = ch
	return f.nextID, ch
}

func (f *changeFeed) Unsubscribe(id uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if ch, exists := f.subscribers[id]; exists {
		delete(f.subscribers, id)
		close(ch)
	}
}

func (f *changeFeed) Publish() {
	f.mu.RLock()
	defer f.mu.RUnlock()

	for _, ch := range f.subscribers {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
