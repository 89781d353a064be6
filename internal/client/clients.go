package client

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"github.com/krakosik/guessing/internal/dto"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Clients interface {
	// Firestore is nil unless the remote vote store is selected.
	Firestore() *firestore.Client
	// Database is nil unless LOCAL_DATABASE_URL is set.
	Database() *gorm.DB
	RabbitMQClient() RabbitClient
	Close() error
}

type clients struct {
	firestoreClient *firestore.Client
	database        *gorm.DB
	rabbitClient    RabbitClient
}

func (c clients) Firestore() *firestore.Client {
	return c.firestoreClient
}

func (c clients) Database() *gorm.DB {
	return c.database
}

func (c clients) RabbitMQClient() RabbitClient {
	return c.rabbitClient
}

func (c clients) Close() error {
	var errs []error
	if c.firestoreClient != nil {
		errs = append(errs, c.firestoreClient.Close())
	}
	if c.database != nil {
		if sqlDB, err := c.database.DB(); err == nil {
			errs = append(errs, sqlDB.Close())
		}
	}
	errs = append(errs, c.rabbitClient.Close())
	return errors.Join(errs...)
}

func NewClients(ctx context.Context, cfg dto.Config) (Clients, error) {
	c := &clients{}

	if cfg.Backend() == dto.BackendRemote {
		firestoreClient, err := newFirestoreClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		c.firestoreClient = firestoreClient
	} else if cfg.LocalDatabaseURL != "" {
		db, err := gorm.Open(postgres.Open(cfg.LocalDatabaseURL), &gorm.Config{})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to local database: %w", err)
		}
		c.database = db
	}

	if cfg.RabbitMQURL == "" {
		c.rabbitClient = newNoopRabbitClient()
		return c, nil
	}

	rabbitClient, err := NewRabbitMQClient(cfg)
	if err != nil {
		logrus.Errorf("Failed to connect to RabbitMQ, votes will not be announced: %v", err)
		c.rabbitClient = newNoopRabbitClient()
		return c, nil
	}
	c.rabbitClient = rabbitClient
	return c, nil
}

func newFirestoreClient(ctx context.Context, cfg dto.Config) (*firestore.Client, error) {
	decodedFirebaseKey, err := cfg.DecodeFirebaseKey()
	if err != nil {
		return nil, err
	}

	var appConfig *firebase.Config
	if cfg.FirebaseProjectID != "" {
		appConfig = &firebase.Config{ProjectID: cfg.FirebaseProjectID}
	}

	app, err := firebase.NewApp(ctx, appConfig, option.WithCredentialsJSON(decodedFirebaseKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialise firebase app: %w", err)
	}

	firestoreClient, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client: %w", err)
	}
	return firestoreClient, nil
}
