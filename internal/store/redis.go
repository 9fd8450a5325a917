package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"

	"github.com/lox/blackjack/internal/blackjack"
)

// Redis keeps the bankroll as a plain integer under key and the round
// history as a capped list under key + ":rounds", newest at the head.
type Redis struct {
	client *redis.Client
	key    string
}

// OpenRedis connects to addr and checks the connection
func OpenRedis(ctx context.Context, addr, key string) (*Redis, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return &Redis{client: client, key: key}, nil
}

func (r *Redis) roundsKey() string {
	return r.key + ":rounds"
}

// LoadBankroll reads the bankroll key, or ErrNotFound if it is unset
func (r *Redis) LoadBankroll(ctx context.Context) (int, error) {
	amount, err := r.client.Get(ctx, r.key).Int()
	if errors.Is(err, redis.Nil) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read bankroll: %w", err)
	}
	return amount, nil
}

// SaveBankroll sets the bankroll key with no expiry
func (r *Redis) SaveBankroll(ctx context.Context, amount int) error {
	if err := r.client.Set(ctx, r.key, amount, 0).Err(); err != nil {
		return fmt.Errorf("failed to write bankroll: %w", err)
	}
	return nil
}

// RecordRound pushes rec onto the head of the history list and trims it
// to MaxHistory entries in one transaction
func (r *Redis) RecordRound(ctx context.Context, rec blackjack.RoundRecord) error {
	data, err := json.Marshal(encodeRound(rec))
	if err != nil {
		return err
	}

	pipe := r.client.TxPipeline()
	pipe.LPush(ctx, r.roundsKey(), data)
	pipe.LTrim(ctx, r.roundsKey(), 0, MaxHistory-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to record round: %w", err)
	}
	return nil
}

// RecentRounds reads the first n entries of the list, which are already
// newest first
func (r *Redis) RecentRounds(ctx context.Context, n int) ([]blackjack.RoundRecord, error) {
	if n <= 0 {
		return nil, nil
	}
	items, err := r.client.LRange(ctx, r.roundsKey(), 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read rounds: %w", err)
	}

	out := make([]blackjack.RoundRecord, 0, len(items))
	for _, item := range items {
		var rj roundJSON
		if err := json.Unmarshal([]byte(item), &rj); err != nil {
			return nil, fmt.Errorf("decode round: %w", err)
		}
		rec, err := rj.decode()
		if err != nil {
			return nil, fmt.Errorf("round %s: %w", rj.ID, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

// Close closes the client connection pool
func (r *Redis) Close() error {
	return r.client.Close()
}
