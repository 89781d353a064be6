package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/krakosik/guessing/internal/client"
	"github.com/krakosik/guessing/internal/dto"
	"github.com/krakosik/guessing/internal/model"
	"github.com/krakosik/guessing/internal/repository"
	"github.com/sirupsen/logrus"
)

type VoteService interface {
	RecordVote(ctx context.Context, name string, choice model.Choice) (model.Vote, error)
	ObserveTallies(ctx context.Context, observer repository.TallyObserver) repository.Unsubscribe
	// CurrentTally reads the counts once.
	CurrentTally(ctx context.Context) (model.Tally, error)
	Labels() model.Labels
	Backend() dto.Backend
}

type voteService struct {
	voteStore    repository.VoteStore
	backend      dto.Backend
	rabbitClient client.RabbitClient
	labels       model.Labels
}

func newVoteService(voteStore repository.VoteStore, backend dto.Backend, rabbitClient client.RabbitClient, labels model.Labels) VoteService {
	return &voteService{
		voteStore:    voteStore,
		backend:      backend,
		rabbitClient: rabbitClient,
		labels:       labels,
	}
}

func (v *voteService) RecordVote(ctx context.Context, name string, choice model.Choice) (model.Vote, error) {
	vote, err := v.voteStore.RecordVote(ctx, name, choice)
	if err != nil {
		return model.Vote{}, err
	}

	logrus.Infof("%s voted %s (%s), vote %s", vote.Name, v.labels.For(vote.Choice), vote.Choice, vote.ID)
	v.announce(ctx, vote)

	return vote, nil
}

// announce tells other systems about the vote. Failures are logged only: the
// vote is already stored.
func (v *voteService) announce(ctx context.Context, vote model.Vote) {
	message, err := json.Marshal(model.VoteRecorded{
		Vote:       vote,
		Backend:    string(v.backend),
		RecordedAt: time.Now().UTC(),
	})
	if err != nil {
		logrus.Errorf("Error marshaling vote %s: %v", vote.ID, err)
		return
	}

	if err := v.rabbitClient.PublishMessage(context.WithoutCancel(ctx), message); err != nil {
		logrus.Errorf("Error announcing vote %s: %v", vote.ID, err)
	}
}

func (v *voteService) ObserveTallies(ctx context.Context, observer repository.TallyObserver) repository.Unsubscribe {
	return v.voteStore.ObserveTallies(ctx, observer)
}

func (v *voteService) CurrentTally(ctx context.Context) (model.Tally, error) {
	return v.voteStore.Tally(ctx)
}

func (v *voteService) Labels() model.Labels {
	return v.labels
}

func (v *voteService) Backend() dto.Backend {
	return v.backend
}
