package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/krakosik/guessing/internal/dto"
	"github.com/krakosik/guessing/internal/model"
	"github.com/sirupsen/logrus"
)

// localStore keeps every vote in one slot and derives tallies by counting.
// Writers in this process are serialised; writers in other processes are
// last-writer-wins.
type localStore struct {
	slot Slot
	feed *changeFeed
	mu   sync.Mutex
	now  func() time.Time
}

func newLocalStore(slot Slot) *localStore {
	return &localStore{
		slot: slot,
		feed: newChangeFeed(),
		now:  time.Now,
	}
}

func (s *localStore) RecordVote(ctx context.Context, name string, choice model.Choice) (model.Vote, error) {
	vote, err := model.NewVote(name, choice, s.now())
	if err != nil {
		return model.Vote{}, fmt.Errorf("%w: %v", dto.ErrInvalidVote, err)
	}
	vote.ID = uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()

	votes, err := s.load(ctx)
	if err != nil {
		return model.Vote{}, fmt.Errorf("%w: %v", dto.ErrWriteFailure, err)
	}

	data, err := json.Marshal(append(votes, vote))
	if err != nil {
		return model.Vote{}, fmt.Errorf("%w: %v", dto.ErrWriteFailure, err)
	}
	if err := s.slot.Store(ctx, data); err != nil {
		return model.Vote{}, fmt.Errorf("%w: %v", dto.ErrWriteFailure, err)
	}

	s.feed.Publish()
	return vote, nil
}

func (s *localStore) Tally(ctx context.Context) (model.Tally, error) {
	votes, err := s.load(ctx)
	if err != nil {
		return model.Tally{}, fmt.Errorf("%w: %v", dto.ErrReadFailure, err)
	}
	return model.TallyOf(votes), nil
}

func (s *localStore) ObserveTallies(ctx context.Context, observer TallyObserver) Unsubscribe {
	sub, ctx := newSubscription(ctx, observer)

	feedID, feedChanges := s.feed.Subscribe()
	slotChanges, watchErr := s.slot.Watch(ctx)

	s.refresh(ctx, sub)
	if watchErr != nil {
		// Votes from this process are still seen through the feed.
		sub.fail(fmt.Errorf("%w: %v", dto.ErrSubscriptionFailure, watchErr))
	}

	go func() {
		defer s.feed.Unsubscribe(feedID)
		for {
			select {
			case <-ctx.Done():
				return
			case <-feedChanges:
				s.refresh(ctx, sub)
			case err, ok := <-slotChanges:
				if !ok {
					slotChanges = nil
					continue
				}
				if err != nil {
					sub.fail(fmt.Errorf("%w: %v", dto.ErrSubscriptionFailure, err))
					continue
				}
				s.refresh(ctx, sub)
			}
		}
	}()

	return sub.Unsubscribe
}

func (s *localStore) refresh(ctx context.Context, sub *subscription) {
	votes, err := s.load(ctx)
	if err != nil {
		sub.fail(fmt.Errorf("%w: %v", dto.ErrSubscriptionFailure, err))
		return
	}
	sub.deliver(model.TallyOf(votes))
}

// load reads the stored votes. A missing or corrupt slot reads as no votes.
func (s *localStore) load(ctx context.Context) ([]model.Vote, error) {
	data, err := s.slot.Load(ctx)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}

	var votes []model.Vote
	if err := json.Unmarshal(data, &votes); err != nil {
		logrus.Warnf("Ignoring unreadable vote list: %v", err)
		return nil, nil
	}
	return votes, nil
}

func (s *localStore) Close() error {
	return s.slot.Close()
}
