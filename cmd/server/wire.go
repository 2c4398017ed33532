//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"homeward_notifications/internal/app"
	"homeward_notifications/internal/config"
	"homeward_notifications/internal/http"
	"homeward_notifications/internal/http/controller"
	"homeward_notifications/internal/logging"
	"homeward_notifications/internal/metrics"
	"homeward_notifications/internal/queue/rabbitmq"
	"homeward_notifications/internal/service/notify"
	"homeward_notifications/internal/sse"
	"homeward_notifications/internal/store"
)

func InitializeApp() (*app.App, error) {
	wire.Build(
		config.New,
		logging.New,
		metrics.New,
		store.NewStore,
		sse.NewHub,
		notify.NewService,
		notify.NewFactory,
		controller.NewHandler,
		http.NewRouter,
		rabbitmq.NewConsumer,
		rabbitmq.NewPublisher,
		app.NewApp,
	)
	return &app.App{}, nil
}
