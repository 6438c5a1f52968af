package implementation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"website-chatbot-be/internal/repository/contract"
	"website-chatbot-be/pkg/store"
)

const sessionKeyPrefix = "chatbot:session:"

// RedisSessionRepository stores one JSON record per session id. TTL of
// zero keeps sessions forever, matching the file backend; deployments
// that want expiry set SESSION_TTL_HOURS.
type RedisSessionRepository struct {
	client *redis.Client
	ttl    time.Duration
}

var _ contract.SessionRepository = &RedisSessionRepository{}

func NewRedisSessionRepository(client *redis.Client, ttl time.Duration) *RedisSessionRepository {
	return &RedisSessionRepository{
		client: client,
		ttl:    ttl,
	}
}

func (r *RedisSessionRepository) GetOrCreate(ctx context.Context, sessionID string) (*store.Session, error) {
	data, err := r.client.Get(ctx, sessionKeyPrefix+sessionID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			sess := store.NewSession(sessionID)
			if err := r.Save(ctx, sess); err != nil {
				return nil, err
			}
			return sess, nil
		}
		return nil, fmt.Errorf("get session %s: %w", sessionID, err)
	}

	var sess store.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", sessionID, err)
	}
	sess.ID = sessionID
	return &sess, nil
}

func (r *RedisSessionRepository) Save(ctx context.Context, session *store.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", session.ID, err)
	}
	if err := r.client.Set(ctx, sessionKeyPrefix+session.ID, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("save session %s: %w", session.ID, err)
	}
	return nil
}
