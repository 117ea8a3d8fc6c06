/*
Copyright 2024 Onramp Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package redis_db

import (
	"context"
	"crypto/tls"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis wraps a go-redis universal client together with the address it was
// built from.
type Redis struct {
	address string
	client  redis.UniversalClient
}

// ParseRedisURL turns a connection string into client options. It accepts
// plain host:port addresses as well as full redis:// URLs with credentials.
func ParseRedisURL(rawURL string) (*redis.Options, error) {
	var opts *redis.Options

	// Plain docker-style addresses (e.g. redis:6379) are not valid URLs.
	if strings.Count(rawURL, ":") == 1 && !strings.Contains(rawURL, "@") && !strings.Contains(rawURL, "//") {
		opts = &redis.Options{Addr: rawURL}
	} else {
		if !strings.Contains(rawURL, "://") {
			rawURL = "redis://" + rawURL
		}
		var err error
		opts, err = redis.ParseURL(rawURL)
		if err != nil {
			return nil, err
		}
	}

	// Managed Redis offerings on port 6380 expect TLS.
	if opts.TLSConfig == nil && strings.HasSuffix(opts.Addr, ":6380") {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	return opts, nil
}

// NewRedisClient connects to a Redis instance and verifies the connection
// with a short ping.
func NewRedisClient(address string) (*Redis, error) {
	if address == "" {
		return nil, errors.New("redis address cannot be empty")
	}

	opts, err := ParseRedisURL(address)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, err
	}

	return &Redis{address: address, client: client}, nil
}

// Client returns the underlying universal client for direct Redis operations.
func (r *Redis) Client() redis.UniversalClient {
	return r.client
}
