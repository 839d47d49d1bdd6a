package accounts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"
)

const (
	redisKeyPrefix = "accounts:"
	redisIndexKey  = "accounts:index"
)

// RedisStore keeps each account as a JSON document under accounts:<folded username>.
type RedisStore struct {
	client redis.UniversalClient
}

// NewRedisStore constructs a Redis-backed store.
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

// redisAccount is the stored form; Account hides its secrets from JSON.
type redisAccount struct {
	Account
	PasswordHash string `json:"password_hash"`
	Salt         string `json:"salt"`
}

func redisKey(username string) string {
	return redisKeyPrefix + FoldUsername(username)
}

func encodeAccount(a Account) ([]byte, error) {
	return json.Marshal(redisAccount{Account: a, PasswordHash: a.PasswordHash, Salt: a.Salt})
}

func decodeAccount(raw []byte) (Account, error) {
	var ra redisAccount
	if err := json.Unmarshal(raw, &ra); err != nil {
		return Account{}, err
	}
	a := ra.Account
	a.PasswordHash = ra.PasswordHash
	a.Salt = ra.Salt
	return a, nil
}

// Insert adds a with SET NX so concurrent creators cannot both succeed. The
// index entry is written in the same MULTI so a crash cannot leave the
// document unlisted.
func (s *RedisStore) Insert(ctx context.Context, a Account) error {
	payload, err := encodeAccount(a)
	if err != nil {
		return fmt.Errorf("accounts: encode: %w", err)
	}
	key := redisKey(a.Username)
	var created *redis.BoolCmd
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		created = pipe.SetNX(ctx, key, payload, 0)
		pipe.SAdd(ctx, redisIndexKey, key)
		return nil
	})
	if err != nil {
		return fmt.Errorf("accounts: redis insert: %w", err)
	}
	if !created.Val() {
		return ErrDuplicateIdentity
	}
	return nil
}

// FindByUsername fetches the account for username.
func (s *RedisStore) FindByUsername(ctx context.Context, username string) (Account, error) {
	raw, err := s.client.Get(ctx, redisKey(username)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Account{}, ErrNotFound
		}
		return Account{}, fmt.Errorf("accounts: redis get: %w", err)
	}
	a, err := decodeAccount(raw)
	if err != nil {
		return Account{}, fmt.Errorf("accounts: decode: %w", err)
	}
	return a, nil
}

// Update overwrites an existing account with SET XX and re-indexes it.
func (s *RedisStore) Update(ctx context.Context, a Account) error {
	payload, err := encodeAccount(a)
	if err != nil {
		return fmt.Errorf("accounts: encode: %w", err)
	}
	key := redisKey(a.Username)
	ok, err := s.client.SetXX(ctx, key, payload, 0).Result()
	if err != nil {
		return fmt.Errorf("accounts: redis update: %w", err)
	}
	if !ok {
		return ErrNotFound
	}
	if err := s.client.SAdd(ctx, redisIndexKey, key).Err(); err != nil {
		return fmt.Errorf("accounts: redis index: %w", err)
	}
	return nil
}

// List returns all indexed accounts ordered by username.
func (s *RedisStore) List(ctx context.Context) ([]Account, error) {
	keys, err := s.client.SMembers(ctx, redisIndexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("accounts: redis index: %w", err)
	}
	if len(keys) == 0 {
		return nil, nil
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("accounts: redis mget: %w", err)
	}
	out := make([]Account, 0, len(values))
	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		a, err := decodeAccount([]byte(raw))
		if err != nil {
			return nil, fmt.Errorf("accounts: decode: %w", err)
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

var _ Store = (*RedisStore)(nil)
