// Package redisopt parses Redis connection URLs shared by the session store and the task queue.
// This is part of the platform layer and contains no business logic.
package redisopt

import (
	"crypto/tls"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

// Parse reads a redis:// or rediss:// URL. tlsInsecure skips certificate verification.
func Parse(redisURL string, tlsInsecure bool) (*redis.Options, error) {
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	if opt.TLSConfig != nil {
		clone := opt.TLSConfig.Clone()
		if tlsInsecure {
			clone.InsecureSkipVerify = true
		}
		opt.TLSConfig = clone
	} else if tlsInsecure {
		opt.TLSConfig = &tls.Config{InsecureSkipVerify: true}
	}
	return opt, nil
}

// NewClient builds a go-redis client from a URL.
func NewClient(redisURL string, tlsInsecure bool) (*redis.Client, error) {
	opt, err := Parse(redisURL, tlsInsecure)
	if err != nil {
		return nil, err
	}
	return redis.NewClient(opt), nil
}

// Asynq converts a URL to the connection options used by asynq clients and servers.
func Asynq(redisURL string, tlsInsecure bool) (asynq.RedisClientOpt, error) {
	opt, err := Parse(redisURL, tlsInsecure)
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}
	return asynq.RedisClientOpt{
		Addr:      opt.Addr,
		Password:  opt.Password,
		DB:        opt.DB,
		TLSConfig: opt.TLSConfig,
	}, nil
}
