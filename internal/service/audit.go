package service

import (
	"context"
	"time"

	"github.com/cobrexhq/cobrex/internal/domain"
	"github.com/cobrexhq/cobrex/internal/metrics"
	"github.com/cobrexhq/cobrex/internal/store"
	"github.com/cobrexhq/cobrex/pkg/idx"
	"github.com/cobrexhq/cobrex/pkg/slogx"
)

// DefaultAuditPageSize bounds list and search responses when the caller does
// not ask for a specific limit.
const DefaultAuditPageSize = 100

// AuditService assigns ids and timestamps to activity records and reads the
// trail back out. Writes never fail a business operation: a storage error on
// append is logged and swallowed, because losing one trail entry is better
// than failing the login or update it describes.
type AuditService struct {
	Store store.Store
}

// Record appends an activity entry on behalf of the acting user.
func (s *AuditService) Record(ctx context.Context, actor domain.Identity, action domain.AuditAction, resource, resourceID, details string) {
	entry := domain.AuditEntry{
		ID:         idx.New().String(),
		UserID:     actor.ID,
		UserName:   actor.Name,
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
		Details:    details,
		Timestamp:  time.Now().UTC(),
	}

	if err := s.Store.Audit().Append(ctx, entry); err != nil {
		slogx.FromContext(ctx).Error("audit append failed",
			"action", string(action),
			"resource", resource,
			"err", err,
		)
		return
	}
	metrics.AuditAppends.Inc()
}

// List returns a most-recent-first window of the trail.
func (s *AuditService) List(ctx context.Context, limit, offset int) ([]domain.AuditEntry, error) {
	return s.Store.Audit().List(ctx, clampLimit(limit), max(offset, 0))
}

// ListByUser filters the trail by acting user.
func (s *AuditService) ListByUser(ctx context.Context, userID string, limit int) ([]domain.AuditEntry, error) {
	return s.Store.Audit().ListByUser(ctx, userID, clampLimit(limit))
}

// ListByResource filters by resource type and, optionally, resource id.
func (s *AuditService) ListByResource(ctx context.Context, resource, resourceID string, limit int) ([]domain.AuditEntry, error) {
	return s.Store.Audit().ListByResource(ctx, resource, resourceID, clampLimit(limit))
}

// Search matches the query case-insensitively against user name, action,
// resource and details. An empty query behaves like List.
func (s *AuditService) Search(ctx context.Context, query string, limit int) ([]domain.AuditEntry, error) {
	if query == "" {
		return s.List(ctx, limit, 0)
	}
	return s.Store.Audit().Search(ctx, query, clampLimit(limit))
}

// Count reports how many entries are currently retained.
func (s *AuditService) Count(ctx context.Context) (int, error) {
	return s.Store.Audit().Count(ctx)
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > DefaultAuditPageSize {
		return DefaultAuditPageSize
	}
	return limit
}
