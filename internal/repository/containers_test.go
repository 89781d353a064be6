package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupPostgres(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := tcpostgres.Run(ctx, "postgres:15-alpine",
		tcpostgres.WithDatabase("guessing"),
		tcpostgres.WithUsername("user"),
		tcpostgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, pgContainer.Terminate(context.Background()))
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(connStr), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// setupFirestore starts the Firestore emulator and returns a factory for
// clients bound to fresh, isolated projects.
func setupFirestore(t *testing.T) func(t *testing.T) *firestore.Client {
	t.Helper()
	ctx := context.Background()

	emulator, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "gcr.io/google.com/cloudsdktool/cloud-sdk:367.0.0-emulators",
			ExposedPorts: []string{"8080/tcp"},
			Cmd:          []string{"/bin/sh", "-c", "gcloud beta emulators firestore start --host-port 0.0.0.0:8080"},
			WaitingFor:   wait.ForLog("running").WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, emulator.Terminate(context.Background()))
	})

	endpoint, err := emulator.PortEndpoint(ctx, "8080/tcp", "")
	require.NoError(t, err)
	t.Setenv("FIRESTORE_EMULATOR_HOST", endpoint)

	return func(t *testing.T) *firestore.Client {
		t.Helper()
		client, err := firestore.NewClient(context.Background(), fmt.Sprintf("guessing-%d", time.Now().UnixNano()))
		require.NoError(t, err)
		t.Cleanup(func() { client.Close() })
		return client
	}
}
