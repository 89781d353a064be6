package service

import (
	"github.com/krakosik/guessing/internal/client"
	"github.com/krakosik/guessing/internal/dto"
	"github.com/krakosik/guessing/internal/model"
	"github.com/krakosik/guessing/internal/repository"
)

type Services interface {
	Vote() VoteService
}

type services struct {
	voteService VoteService
}

func NewServices(repositories repository.Repositories, config dto.Config, clients client.Clients) Services {
	labels := model.Labels{A: config.ChoiceALabel, B: config.ChoiceBLabel}
	return &services{
		voteService: newVoteService(repositories.Vote(), repositories.Backend(), clients.RabbitMQClient(), labels),
	}
}

func (s services) Vote() VoteService {
	return s.voteService
}
