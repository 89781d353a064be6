package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/krakosik/guessing/internal/dto"
	"github.com/krakosik/guessing/internal/model"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	votesCollection = "guesses"
	statsCollection = "stats"
	countsDocument  = "counts"
)

// remoteStore keeps votes in Firestore. The tally lives in one document that
// is updated in the same transaction as the vote insert.
type remoteStore struct {
	client      *firestore.Client
	votes       *firestore.CollectionRef
	counts      *firestore.DocumentRef
	maxAttempts int
	now         func() time.Time
}

func newRemoteStore(client *firestore.Client, maxAttempts int) *remoteStore {
	return &remoteStore{
		client:      client,
		votes:       client.Collection(votesCollection),
		counts:      client.Collection(statsCollection).Doc(countsDocument),
		maxAttempts: maxAttempts,
		now:         time.Now,
	}
}

func (s *remoteStore) RecordVote(ctx context.Context, name string, choice model.Choice) (model.Vote, error) {
	vote, err := model.NewVote(name, choice, s.now())
	if err != nil {
		return model.Vote{}, fmt.Errorf("%w: %v", dto.ErrInvalidVote, err)
	}
	ref := s.votes.NewDoc()

	err = s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		tally, err := tallyFromSnapshot(tx.Get(s.counts))
		if err != nil {
			return err
		}
		if err := tx.Set(s.counts, tally.Add(vote.Choice)); err != nil {
			return err
		}
		return tx.Create(ref, vote)
	}, firestore.MaxAttempts(s.maxAttempts))
	if err != nil {
		return model.Vote{}, fmt.Errorf("%w: %v", dto.ErrWriteFailure, err)
	}

	vote.ID = ref.ID
	return vote, nil
}

func (s *remoteStore) Tally(ctx context.Context) (model.Tally, error) {
	tally, err := tallyFromSnapshot(s.counts.Get(ctx))
	if err != nil {
		return model.Tally{}, fmt.Errorf("%w: %v", dto.ErrReadFailure, err)
	}
	return tally, nil
}

func (s *remoteStore) ObserveTallies(ctx context.Context, observer TallyObserver) Unsubscribe {
	sub, ctx := newSubscription(ctx, observer)
	snapshots := s.counts.Snapshots(ctx)

	go func() {
		defer snapshots.Stop()
		for {
			tally, err := tallyFromSnapshot(snapshots.Next())
			if err != nil {
				if ctx.Err() != nil || errors.Is(err, iterator.Done) {
					return
				}
				sub.fail(fmt.Errorf("%w: %v", dto.ErrSubscriptionFailure, err))
				return
			}
			sub.deliver(tally)
		}
	}()

	return sub.Unsubscribe
}

// tallyFromSnapshot reads the counts document; a missing document is an
// empty tally.
func tallyFromSnapshot(snap *firestore.DocumentSnapshot, err error) (model.Tally, error) {
	if status.Code(err) == codes.NotFound {
		return model.Tally{}, nil
	}
	if err != nil {
		return model.Tally{}, err
	}
	if !snap.Exists() {
		return model.Tally{}, nil
	}

	var tally model.Tally
	if err := snap.DataTo(&tally); err != nil {
		return model.Tally{}, err
	}
	return tally, nil
}

func (s *remoteStore) Close() error {
	return nil
}
