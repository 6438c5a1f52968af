package implementation

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/patrickmn/go-cache"

	"website-chatbot-be/internal/repository/contract"
	"website-chatbot-be/pkg/store"
)

// FileSessionRepository keeps sessions in a go-cache map fronting a flat
// JSON file (one object keyed by session id). Reads are served from
// memory; every mutation rewrites the whole file. A missing or corrupt
// file at startup means a fresh store.
//
// Callers always get a private copy, so concurrent turns on the same
// session id never share a record; writes are serialized by the repo
// lock and the last Save wins, matching the redis backend.
type FileSessionRepository struct {
	path string

	mu       sync.Mutex // serializes create and Save: cache update + file rewrite
	sessions *cache.Cache
}

var _ contract.SessionRepository = &FileSessionRepository{}

func NewFileSessionRepository(path string) *FileSessionRepository {
	// Sessions are never expired (no TTL in scope), so the cache acts as
	// a concurrency-safe map.
	r := &FileSessionRepository{
		path:     path,
		sessions: cache.New(cache.NoExpiration, 0),
	}
	r.loadFromDisk()
	return r
}

func (r *FileSessionRepository) loadFromDisk() {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return // first run or unreadable: start empty
	}
	var records map[string]*store.Session
	if err := json.Unmarshal(data, &records); err != nil {
		return // corrupt file: start empty rather than crash
	}
	for id, sess := range records {
		sess.ID = id
		r.sessions.Set(id, sess, cache.NoExpiration)
	}
}

func (r *FileSessionRepository) GetOrCreate(ctx context.Context, sessionID string) (*store.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if x, found := r.sessions.Get(sessionID); found {
		sess := *x.(*store.Session)
		return &sess, nil
	}

	sess := store.NewSession(sessionID)
	stored := *sess
	r.sessions.Set(sessionID, &stored, cache.NoExpiration)
	if err := r.persistLocked(); err != nil {
		return nil, err
	}
	return sess, nil
}

func (r *FileSessionRepository) Save(ctx context.Context, session *store.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *session
	r.sessions.Set(session.ID, &stored, cache.NoExpiration)
	return r.persistLocked()
}

// persistLocked rewrites the whole session file. Written to a temp file
// then renamed, so a crash mid-write cannot leave a half-written store.
func (r *FileSessionRepository) persistLocked() error {
	records := make(map[string]*store.Session)
	for id, item := range r.sessions.Items() {
		records[id] = item.Object.(*store.Session)
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal sessions: %w", err)
	}

	if dir := filepath.Dir(r.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create session dir: %w", err)
		}
	}

	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write sessions: %w", err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		return fmt.Errorf("replace sessions: %w", err)
	}
	return nil
}
