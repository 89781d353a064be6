package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/krakosik/guessing/internal/client"
	"github.com/krakosik/guessing/internal/controller"
	"github.com/krakosik/guessing/internal/dto"
	"github.com/krakosik/guessing/internal/repository"
	"github.com/krakosik/guessing/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

func main() {
	config, err := dto.LoadConfig()
	if err != nil {
		logrus.Panic(err)
	}
	if err := config.ConfigureLogger(); err != nil {
		logrus.Panic(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	clients, err := client.NewClients(ctx, config)
	if err != nil {
		logrus.Panic(err)
	}
	defer clients.Close()

	repositories, err := repository.NewRepositories(config, clients)
	if err != nil {
		logrus.Panic(err)
	}
	defer repositories.Close()

	services := service.NewServices(repositories, config, clients)
	controllers := controller.NewControllers(services)

	e := echo.New()
	e.HideBanner = true
	controllers.Route(e)

	go func() {
		if err := e.Start(":" + config.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Panic(err)
		}
	}()

	<-ctx.Done()
	logrus.Info("Gracefully shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("Shutdown failed: %v", err)
	}
}
