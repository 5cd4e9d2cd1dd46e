package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tokotopup/internal/config"
)

func TestNewPublisherWithoutBroker(t *testing.T) {
	publisher, client := newPublisher(config.Config{})
	assert.Nil(t, publisher)
	assert.Nil(t, client)

	publisher, client = newPublisher(config.Config{RabbitMQURL: "not-a-broker-url"})
	assert.Nil(t, publisher)
	assert.Nil(t, client)
}
