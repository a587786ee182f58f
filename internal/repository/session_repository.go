package repository

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/campus-events-api/internal/models"
	"github.com/noah-isme/campus-events-api/pkg/kvstore"
)

// SessionRepository persists the identity attached to a session.
type SessionRepository struct {
	docs documentStore
}

// NewSessionRepository constructs the repository.
func NewSessionRepository(store kvstore.Store, logger *zap.Logger) *SessionRepository {
	return &SessionRepository{docs: newDocumentStore(store, logger)}
}

// IdentityKey is the store key holding a session's signed-in identity.
func IdentityKey(sessionID string) string {
	return "session:" + sessionID + ":auth_user"
}

// GetIdentity returns nil when the session has no identity.
func (r *SessionRepository) GetIdentity(ctx context.Context, sessionID string) (*models.Identity, error) {
	key := IdentityKey(sessionID)
	doc, ok, err := r.docs.load(ctx, key)
	if err != nil || !ok {
		return nil, err
	}
	var identity *models.Identity
	if err := decode(key, doc, &identity); err != nil {
		r.docs.logger.Warn("ignoring malformed identity", zap.String("key", key), zap.Error(err))
		return nil, nil
	}
	if identity == nil || identity.Email == "" {
		return nil, nil
	}
	return identity, nil
}

// SaveIdentity attaches identity to the session, replacing any previous one.
func (r *SessionRepository) SaveIdentity(ctx context.Context, sessionID string, identity models.Identity) error {
	return r.docs.save(ctx, IdentityKey(sessionID), identity)
}

// ClearIdentity removes the identity; enrollments are untouched.
func (r *SessionRepository) ClearIdentity(ctx context.Context, sessionID string) error {
	return r.docs.remove(ctx, IdentityKey(sessionID))
}
