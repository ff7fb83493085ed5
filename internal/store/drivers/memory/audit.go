package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/cobrexhq/cobrex/internal/domain"
)

// auditRepo holds entries most-recent-first. Append is atomic under the
// mutex, so readers always observe whole entries; eviction trims from the
// tail, which is the oldest insertion regardless of entry timestamps.
type auditRepo struct {
	mu      sync.RWMutex
	cap     int
	entries []domain.AuditEntry
}

func (r *auditRepo) Append(ctx context.Context, e domain.AuditEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = append([]domain.AuditEntry{e}, r.entries...)
	if len(r.entries) > r.cap {
		r.entries = r.entries[:r.cap]
	}
	return nil
}

func (r *auditRepo) List(ctx context.Context, limit, offset int) ([]domain.AuditEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if offset < 0 || offset >= len(r.entries) || limit <= 0 {
		return []domain.AuditEntry{}, nil
	}
	end := min(offset+limit, len(r.entries))

	out := make([]domain.AuditEntry, end-offset)
	copy(out, r.entries[offset:end])
	return out, nil
}

func (r *auditRepo) ListByUser(ctx context.Context, userID string, limit int) ([]domain.AuditEntry, error) {
	return r.filter(limit, func(e domain.AuditEntry) bool {
		return e.UserID == userID
	})
}

func (r *auditRepo) ListByResource(ctx context.Context, resource, resourceID string, limit int) ([]domain.AuditEntry, error) {
	return r.filter(limit, func(e domain.AuditEntry) bool {
		if resourceID != "" {
			return e.Resource == resource && e.ResourceID == resourceID
		}
		return e.Resource == resource
	})
}

func (r *auditRepo) Search(ctx context.Context, query string, limit int) ([]domain.AuditEntry, error) {
	term := strings.ToLower(query)
	return r.filter(limit, func(e domain.AuditEntry) bool {
		return strings.Contains(strings.ToLower(e.UserName), term) ||
			strings.Contains(strings.ToLower(string(e.Action)), term) ||
			strings.Contains(strings.ToLower(e.Resource), term) ||
			strings.Contains(strings.ToLower(e.Details), term)
	})
}

func (r *auditRepo) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries), nil
}

func (r *auditRepo) filter(limit int, keep func(domain.AuditEntry) bool) ([]domain.AuditEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []domain.AuditEntry{}
	for _, e := range r.entries {
		if len(out) >= limit && limit > 0 {
			break
		}
		if keep(e) {
			out = append(out, e)
		}
	}
	return out, nil
}
