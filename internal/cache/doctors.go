// Package cache keeps doctor availability lookups in redis so that slot
// queries do not hit the upstream source on every date change in the UI.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"hospital-slots/internal/domain"
)

const keyPrefix = "hospital-slots:doctor:"

type DoctorSource interface {
	GetDoctor(ctx context.Context, id int64) (domain.Doctor, error)
}

// Doctors is a read-through cache in front of a DoctorSource. Redis failures
// are logged and fall through to the source.
type Doctors struct {
	client *redis.Client
	source DoctorSource
	ttl    time.Duration
	log    *zap.Logger
}

func NewDoctors(client *redis.Client, source DoctorSource, ttl time.Duration, log *zap.Logger) *Doctors {
	if log == nil {
		log = zap.NewNop()
	}
	return &Doctors{client: client, source: source, ttl: ttl, log: log}
}

func NewClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func key(id int64) string {
	return fmt.Sprintf("%s%d", keyPrefix, id)
}

func (c *Doctors) GetDoctor(ctx context.Context, id int64) (domain.Doctor, error) {
	raw, err := c.client.Get(ctx, key(id)).Bytes()
	switch {
	case err == nil:
		var d domain.Doctor
		if err := json.Unmarshal(raw, &d); err == nil {
			return d, nil
		}
		c.log.Warn("dropping undecodable cache entry", zap.Int64("doctor_id", id))
	case !errors.Is(err, redis.Nil):
		c.log.Warn("doctor cache read failed", zap.Int64("doctor_id", id), zap.Error(err))
	}

	d, err := c.source.GetDoctor(ctx, id)
	if err != nil {
		return d, err
	}

	payload, err := json.Marshal(d)
	if err != nil {
		return d, nil
	}
	if err := c.client.Set(ctx, key(id), payload, c.ttl).Err(); err != nil {
		c.log.Warn("doctor cache write failed", zap.Int64("doctor_id", id), zap.Error(err))
	}
	return d, nil
}

// Invalidate drops a cached doctor, e.g. after its availability changed upstream.
func (c *Doctors) Invalidate(ctx context.Context, id int64) error {
	return c.client.Del(ctx, key(id)).Err()
}

func (c *Doctors) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
