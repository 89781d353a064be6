package service

import (
	"cloud.google.com/go/firestore"
	"github.com/krakosik/guessing/internal/client"
	"gorm.io/gorm"
)

type localClients struct {
	rabbit client.RabbitClient
}

func (c localClients) Firestore() *firestore.Client { return nil }
func (c localClients) Database() *gorm.DB { return nil }
func (c localClients) RabbitMQClient() client.RabbitClient { return c.rabbit }
func (c localClients) Close() error { return nil }
