package session

import (
	"context"
	"log"

	"github.com/buynlarge/console/internal/id"
	"github.com/buynlarge/console/internal/model/chat"
	"github.com/buynlarge/console/internal/storage"
)

// Identity owns the durable conversation identifier of one client installation.
type Identity struct {
	store storage.Store
	newID func() string
}

// NewIdentity returns an Identity persisting through store.
func NewIdentity(store storage.Store) *Identity {
	return &Identity{store: store, newID: id.New}
}

// GetOrCreate returns the persisted session id, creating and persisting one on
// first use. Storage failures are logged and yield a fresh id for this call
// only; the conversation then simply starts over.
func (i *Identity) GetOrCreate(ctx context.Context) string {
	existing, ok, err := i.store.Get(ctx, chat.SessionKey)
	if err != nil {
		log.Printf("[session] read %s failed, using a fresh id: %v", chat.SessionKey, err)
	} else if ok && existing != "" {
		return existing
	}

	sessionID := i.newID()
	if err != nil {
		return sessionID
	}
	if err := i.store.Set(ctx, chat.SessionKey, sessionID); err != nil {
		log.Printf("[session] persist %s failed: %v", chat.SessionKey, err)
	}
	return sessionID
}

// Reset forgets the persisted id so the next GetOrCreate starts a new conversation.
func (i *Identity) Reset(ctx context.Context) error {
	return i.store.Delete(ctx, chat.SessionKey)
}
