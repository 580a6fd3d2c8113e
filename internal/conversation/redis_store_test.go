package conversation_test

import (
	"context"
	"testing"
	"time"

	"github.com/iyhunko/price-monitor/internal/conversation"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestRedisStore_Unreachable(t *testing.T) {
	// given
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()
	store := conversation.NewRedisStore(client)
	ctx := context.Background()

	// when
	_, getErr := store.Get(ctx, 1)
	saveErr := store.Save(ctx, 1, conversation.Session{Flow: conversation.FlowAdd, Stage: conversation.StageAwaitingInfoURL})
	clearErr := store.Clear(ctx, 1)

	// then
	assert.Error(t, getErr)
	assert.NotErrorIs(t, getErr, conversation.ErrNoSession)
	assert.ErrorContains(t, saveErr, "failed to save session")
	assert.ErrorContains(t, clearErr, "failed to clear session")
}
