package contract

import (
	"context"

	"website-chatbot-be/pkg/store"
)

// SessionRepository is the durable mapping from session id to conversation
// state. GetOrCreate persists the default record on first contact; Save
// must complete before the reply that announced the mutation is returned.
type SessionRepository interface {
	GetOrCreate(ctx context.Context, sessionID string) (*store.Session, error)
	Save(ctx context.Context, session *store.Session) error
}
