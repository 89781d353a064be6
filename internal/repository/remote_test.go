package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/krakosik/guessing/internal/dto"
	"github.com/krakosik/guessing/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemoteStore(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	newClient := setupFirestore(t)
	ctx := context.Background()

	t.Run("empty tally", func(t *testing.T) {
		store := newRemoteStore(newClient(t), 5)
		recorder := &tallyRecorder{}

		unsubscribe := store.ObserveTallies(ctx, recorder.observe)
		defer unsubscribe()

		assert.Eventually(t, recorder.seen(model.Tally{}), 5*time.Second, 20*time.Millisecond)
	})

	t.Run("first vote creates the tally document", func(t *testing.T) {
		client := newClient(t)
		store := newRemoteStore(client, 5)

		vote, err := store.RecordVote(ctx, "Sam", model.ChoiceA)
		require.NoError(t, err)
		require.NotEmpty(t, vote.ID)

		snap, err := client.Collection("stats").Doc("counts").Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, map[string]interface{}{"A": int64(1), "B": int64(0)}, snap.Data())

		voteSnap, err := client.Collection("guesses").Doc(vote.ID).Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Sam", voteSnap.Data()["name"])
		assert.Equal(t, "A", voteSnap.Data()["choice"])
		assert.Contains(t, voteSnap.Data(), "timestamp")
	})

	t.Run("concurrent votes are all counted", func(t *testing.T) {
		client := newClient(t)
		store := newRemoteStore(client, 5)

		var wg sync.WaitGroup
		for _, choice := range []model.Choice{model.ChoiceA, model.ChoiceB} {
			wg.Add(1)
			go func(choice model.Choice) {
				defer wg.Done()
				_, err := store.RecordVote(ctx, "voter-"+string(choice), choice)
				assert.NoError(t, err)
			}(choice)
		}
		wg.Wait()

		snap, err := client.Collection("stats").Doc("counts").Get(ctx)
		require.NoError(t, err)
		var tally model.Tally
		require.NoError(t, snap.DataTo(&tally))
		assert.Equal(t, model.Tally{A: 1, B: 1}, tally)

		votes, err := client.Collection("guesses").Documents(ctx).GetAll()
		require.NoError(t, err)
		assert.Len(t, votes, 2)
	})

	t.Run("observer follows votes and stops after unsubscribe", func(t *testing.T) {
		store := newRemoteStore(newClient(t), 5)
		recorder := &tallyRecorder{}

		unsubscribe := store.ObserveTallies(ctx, recorder.observe)
		assert.Eventually(t, recorder.seen(model.Tally{}), 5*time.Second, 20*time.Millisecond)

		for _, choice := range []model.Choice{model.ChoiceA, model.ChoiceA, model.ChoiceB} {
			_, err := store.RecordVote(ctx, "voter", choice)
			require.NoError(t, err)
		}
		assert.Eventually(t, recorder.seen(model.Tally{A: 2, B: 1}), 5*time.Second, 20*time.Millisecond)

		unsubscribe()
		unsubscribe()
		seen := recorder.count()

		_, err := store.RecordVote(ctx, "late", model.ChoiceB)
		require.NoError(t, err)
		time.Sleep(500 * time.Millisecond)
		assert.Equal(t, seen, recorder.count())
		assert.Empty(t, recorder.failures())
	})

	t.Run("invalid votes are not written", func(t *testing.T) {
		client := newClient(t)
		store := newRemoteStore(client, 5)

		_, err := store.RecordVote(ctx, "", model.ChoiceA)
		assert.ErrorIs(t, err, dto.ErrInvalidVote)

		_, err = client.Collection("stats").Doc("counts").Get(ctx)
		assert.Error(t, err)
	})

	t.Run("cancelled write fails as a whole", func(t *testing.T) {
		client := newClient(t)
		store := newRemoteStore(client, 5)

		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := store.RecordVote(cancelled, "Sam", model.ChoiceA)
		assert.ErrorIs(t, err, dto.ErrWriteFailure)

		votes, err := client.Collection("guesses").Documents(ctx).GetAll()
		require.NoError(t, err)
		assert.Empty(t, votes)
	})

	t.Run("tally reads the counts document once", func(t *testing.T) {
		store := newRemoteStore(newClient(t), 5)

		tally, err := store.Tally(ctx)
		require.NoError(t, err)
		assert.Equal(t, model.Tally{}, tally)

		_, err = store.RecordVote(ctx, "Sam", model.ChoiceB)
		require.NoError(t, err)

		tally, err = store.Tally(ctx)
		require.NoError(t, err)
		assert.Equal(t, model.Tally{B: 1}, tally)
	})

	t.Run("unreadable counts reach the observer", func(t *testing.T) {
		client := newClient(t)
		store := newRemoteStore(client, 5)
		_, err := client.Collection("stats").Doc("counts").Set(ctx, map[string]interface{}{"A": "many", "B": 0})
		require.NoError(t, err)

		_, err = store.Tally(ctx)
		assert.ErrorIs(t, err, dto.ErrReadFailure)

		recorder := &tallyRecorder{}
		unsubscribe := store.ObserveTallies(ctx, recorder.observe)
		defer unsubscribe()

		assert.Eventually(t, func() bool {
			failures := recorder.failures()
			return len(failures) == 1 && errors.Is(failures[0], dto.ErrSubscriptionFailure)
		}, 5*time.Second, 20*time.Millisecond)
		assert.Equal(t, 0, recorder.count())
	})
}
