package draftstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"dormdesk/internal/core/apperror"
	"dormdesk/internal/domain/registration"
	"dormdesk/pkg/logger"
)

var _ registration.DraftRepository = (*Redis)(nil)

// KeyPrefix namespaces draft keys.
const KeyPrefix = "dormdesk:draft:"

// Redis keeps drafts in Redis so every BFF instance sees them. Concurrent
// saves of one draft from different instances are last-write-wins.
type Redis struct {
	client *redis.Client
	codec  *Codec
	ttl    time.Duration
}

// NewRedis creates a Redis-backed store.
func NewRedis(client *redis.Client, codec *Codec, ttl time.Duration) *Redis {
	return &Redis{client: client, codec: codec, ttl: ttl}
}

// Connect opens a client for addr and checks it answers.
func Connect(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("draftstore: ping: %w", err)
	}
	return client, nil
}

// Save stores d with the store's TTL.
func (r *Redis) Save(ctx context.Context, d *registration.Draft) error {
	payload, err := r.codec.Encode(d)
	if err != nil {
		return apperror.NewInternal(err)
	}
	if err := r.client.Set(ctx, KeyPrefix+d.ID, payload, r.ttl).Err(); err != nil {
		return apperror.NewInternal(fmt.Errorf("save draft %s: %w", d.ID, err))
	}
	if Compressed(payload) {
		logger.Debug(ctx, "draft stored compressed", "draft_id", d.ID, "bytes", len(payload))
	}
	return nil
}

// Get loads the draft with id.
func (r *Redis) Get(ctx context.Context, id string) (*registration.Draft, error) {
	payload, err := r.client.Get(ctx, KeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, apperror.NewNotFound("draft", id)
	}
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("load draft %s: %w", id, err))
	}
	d, err := r.codec.Decode(payload)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}
	return d, nil
}

// Delete drops the draft with id.
func (r *Redis) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, KeyPrefix+id).Err(); err != nil {
		return apperror.NewInternal(fmt.Errorf("delete draft %s: %w", id, err))
	}
	return nil
}

// Ping checks the connection.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
