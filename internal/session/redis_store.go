package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "bff:session:"

// RedisStore guarda cada sessão em um hash (token, role, username, userId)
// e as mensagens flash em um hash separado, ambos com o mesmo TTL.
type RedisStore struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewRedisStore(client redis.UniversalClient, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func sessionKey(id string) string { return keyPrefix + id }
func flashKey(id string) string   { return keyPrefix + id + ":flash" }

func (r *RedisStore) Load(ctx context.Context, id string) (*Session, error) {
	fields, err := r.client.HGetAll(ctx, sessionKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if len(fields) == 0 {
		return nil, ErrNotFound
	}
	return decodeSession(id, fields)
}

func decodeSession(id string, fields map[string]string) (*Session, error) {
	role, err := ParseRole(fields["role"])
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	s := &Session{
		ID:       id,
		Token:    fields["token"],
		Role:     role,
		Username: fields["username"],
	}
	if v := fields["userId"]; v != "" {
		if s.UserID, err = strconv.ParseInt(v, 10, 64); err != nil {
			return nil, fmt.Errorf("load session: bad userId: %w", err)
		}
	}
	if v := fields["expiresAt"]; v != "" {
		if unix, err := strconv.ParseInt(v, 10, 64); err == nil && unix > 0 {
			s.ExpiresAt = time.Unix(unix, 0).UTC()
		}
	}
	return s, nil
}

func (r *RedisStore) Save(ctx context.Context, s *Session) error {
	var expiresAt int64
	if !s.ExpiresAt.IsZero() {
		expiresAt = s.ExpiresAt.Unix()
	}
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, sessionKey(s.ID), map[string]interface{}{
			"token":     s.Token,
			"role":      s.Role.String(),
			"username":  s.Username,
			"userId":    strconv.FormatInt(s.UserID, 10),
			"expiresAt": strconv.FormatInt(expiresAt, 10),
		})
		if r.ttl > 0 {
			pipe.Expire(ctx, sessionKey(s.ID), r.ttl)
			pipe.Expire(ctx, flashKey(s.ID), r.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Delete é o logout: remove sessão e flashes na mesma transação.
func (r *RedisStore) Delete(ctx context.Context, id string) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, sessionKey(id), flashKey(id))
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (r *RedisStore) PushFlash(ctx context.Context, id, key, msg string) error {
	n, err := r.client.Exists(ctx, sessionKey(id)).Result()
	if err != nil {
		return fmt.Errorf("push flash: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, flashKey(id), key, msg)
		if r.ttl > 0 {
			pipe.Expire(ctx, flashKey(id), r.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("push flash: %w", err)
	}
	return nil
}

func (r *RedisStore) PopFlash(ctx context.Context, id, key string) (string, bool, error) {
	var get *redis.StringCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		get = pipe.HGet(ctx, flashKey(id), key)
		pipe.HDel(ctx, flashKey(id), key)
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", false, fmt.Errorf("pop flash: %w", err)
	}
	msg, err := get.Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("pop flash: %w", err)
	}
	return msg, true, nil
}

func (r *RedisStore) PopAllFlashes(ctx context.Context, id string) (map[string]string, error) {
	var all *redis.MapStringStringCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		all = pipe.HGetAll(ctx, flashKey(id))
		pipe.Del(ctx, flashKey(id))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("pop flashes: %w", err)
	}
	return all.Val(), nil
}
