package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingClient struct {
	channel string
	message []byte
	err     error
}

func (c *recordingClient) Publish(_ context.Context, channel string, message interface{}) *redis.IntCmd {
	c.channel = channel
	c.message, _ = message.([]byte)
	return redis.NewIntResult(1, c.err)
}

func TestRedisPublisherWritesJSON(t *testing.T) {
	client := &recordingClient{}
	pub := NewRedisPublisher(client, " directory ")

	event := NewContractorApplied("665f1c2a9b1e8a0012345678", "Capital Heat Pumps", []string{"DC"}, []string{"HVAC / Heat Pump"})
	require.NoError(t, pub.Publish(context.Background(), event))

	assert.Equal(t, "directory", client.channel)
	var got Event
	require.NoError(t, json.Unmarshal(client.message, &got))
	assert.Equal(t, TypeContractorApplied, got.Type)
	assert.Equal(t, "Capital Heat Pumps", got.Name)
	assert.Equal(t, []string{"DC"}, got.StatesServed)
	_, err := uuid.Parse(got.ID)
	assert.NoError(t, err)
}

func TestRedisPublisherDefaultChannel(t *testing.T) {
	client := &recordingClient{}
	require.NoError(t, NewRedisPublisher(client, "").Publish(context.Background(), Event{Type: "x"}))
	assert.Equal(t, "electrify-dmv.events", client.channel)
}

func TestRedisPublisherWrapsErrors(t *testing.T) {
	boom := errors.New("connection refused")
	err := NewRedisPublisher(&recordingClient{err: boom}, "c").Publish(context.Background(), Event{Type: TypeContractorApplied})
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "publish contractor.applied")
}

func TestNopPublisher(t *testing.T) {
	var pub Publisher = NopPublisher{}
	assert.NoError(t, pub.Publish(context.Background(), Event{}))
}

func TestNewRedisClientRejectsBadURL(t *testing.T) {
	_, err := NewRedisClient(context.Background(), "://nope")
	assert.Error(t, err)
}
