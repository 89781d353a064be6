package repository

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/krakosik/guessing/internal/model"
)

// TallyObserver receives the current tally, or a non-nil error when the
// underlying change channel failed. Calls for one subscription never overlap.
// A call already under way when Unsubscribe runs may still complete.
type TallyObserver func(tally model.Tally, err error)

// Unsubscribe stops a tally subscription. It is idempotent and may be called
// from inside the observer. It does not wait for a callback in progress.
type Unsubscribe func()

type VoteStore interface {
	RecordVote(ctx context.Context, name string, choice model.Choice) (model.Vote, error)
	// Tally reads the current counts once, without subscribing.
	Tally(ctx context.Context) (model.Tally, error)
	ObserveTallies(ctx context.Context, observer TallyObserver) Unsubscribe
	Close() error
}

var (
	_ VoteStore = (*localStore)(nil)
	_ VoteStore = (*remoteStore)(nil)
)

type subscription struct {
	observer  TallyObserver
	cancel    context.CancelFunc
	stopped   atomic.Bool
	once      sync.Once
	delivered bool
	last      model.Tally
}

func newSubscription(ctx context.Context, observer TallyObserver) (*subscription, context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	return &subscription{observer: observer, cancel: cancel}, ctx
}

// deliver forwards the tally unless the subscription was stopped or the
// observer has already seen this exact tally.
func (s *subscription) deliver(tally model.Tally) {
	if s.stopped.Load() {
		return
	}
	if s.delivered && s.last == tally {
		return
	}
	s.delivered = true
	s.last = tally
	s.observer(tally, nil)
}

func (s *subscription) fail(err error) {
	if s.stopped.Load() {
		return
	}
	s.observer(model.Tally{}, err)
}

func (s *subscription) Unsubscribe() {
	s.once.Do(func() {
		s.stopped.Store(true)
		s.cancel()
	})
}
