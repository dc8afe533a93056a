package main

import (
	"io"
	"log/slog"
	"testing"

	"customer-api/internal/config"

	"github.com/stretchr/testify/assert"
)

func TestNewEventPublisherWhenDisabled(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := config.Config{}

	publisher, conn := newEventPublisher(cfg, logger)

	assert.Nil(t, publisher, "Publisher should be nil when RabbitMQ is disabled")
	assert.Nil(t, conn, "Connection should be nil when RabbitMQ is disabled")
}

func TestNewEventPublisherWhenBrokerUnreachable(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := config.Config{}
	cfg.RabbitMQ.Enabled = true
	cfg.RabbitMQ.Host = "127.0.0.1"
	cfg.RabbitMQ.Port = 1 // nothing listens here
	cfg.RabbitMQ.Username = "guest"
	cfg.RabbitMQ.Password = "guest"
	cfg.RabbitMQ.ExchangeName = "customer-api"

	publisher, conn := newEventPublisher(cfg, logger)

	assert.Nil(t, publisher, "Publisher should be nil when the broker is unreachable")
	assert.Nil(t, conn, "Connection should be nil when the broker is unreachable")
}
