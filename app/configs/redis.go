package configs

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

func OpenRedis(ctx context.Context, env ENV) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         env.RedisAddr,
		Password:     env.RedisPassword,
		DB:           0,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", env.RedisAddr, err)
	}

	log.Println("✅ Redis connection successful!")
	return client, nil
}
