package repository

import (
	"fmt"

	"github.com/krakosik/guessing/internal/client"
	"github.com/krakosik/guessing/internal/dto"
	"github.com/sirupsen/logrus"
)

type Repositories interface {
	Vote() VoteStore
	Backend() dto.Backend
	Close() error
}

type repositories struct {
	voteStore VoteStore
	backend   dto.Backend
}

// NewRepositories picks the vote store once from configuration. The choice
// holds for the lifetime of the returned value.
func NewRepositories(cfg dto.Config, clients client.Clients) (Repositories, error) {
	backend := cfg.Backend()
	voteStore, err := newVoteStore(cfg, backend, clients)
	if err != nil {
		return nil, err
	}

	logrus.Infof("Using %s vote store", backend)
	return &repositories{
		voteStore: voteStore,
		backend:   backend,
	}, nil
}

func newVoteStore(cfg dto.Config, backend dto.Backend, clients client.Clients) (VoteStore, error) {
	if backend == dto.BackendRemote {
		if clients.Firestore() == nil {
			return nil, fmt.Errorf("remote vote store selected but no Firestore client is configured")
		}
		return newRemoteStore(clients.Firestore(), cfg.RemoteTxMaxAttempts), nil
	}

	if db := clients.Database(); db != nil {
		slot, err := NewDatabaseSlot(db, cfg.LocalStorageKey, cfg.LocalPollInterval)
		if err != nil {
			return nil, err
		}
		return newLocalStore(slot), nil
	}
	return newLocalStore(NewFileSlot(cfg.LocalStoragePath, cfg.LocalStorageKey)), nil
}

func (r repositories) Vote() VoteStore {
	return r.voteStore
}

func (r repositories) Backend() dto.Backend {
	return r.backend
}

func (r repositories) Close() error {
	return r.voteStore.Close()
}
