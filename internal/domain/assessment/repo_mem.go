package assessment

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// In-memory repositories back the store=memory driver and the one-shot
// CLI, replacing the browser-local persistence of the legacy web ports.
// Entries are copied on the way in and out so callers never share state.

type profileRepoMem struct {
	mu    sync.RWMutex
	items map[uuid.UUID]*InputProfile
	seq   map[uuid.UUID]int64
	next  int64
}

func NewProfileRepoMemory() ProfileRepository {
	return &profileRepoMem{
		items: make(map[uuid.UUID]*InputProfile),
		seq:   make(map[uuid.UUID]int64),
	}
}

func (r *profileRepoMem) Create(ctx context.Context, p *InputProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.ID = uuid.New()
	p.CreatedAt = time.Now().UTC()
	p.UpdatedAt = p.CreatedAt
	cp := *p
	r.items[p.ID] = &cp
	r.next++
	r.seq[p.ID] = r.next
	return nil
}

func (r *profileRepoMem) GetByID(ctx context.Context, id uuid.UUID) (*InputProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *profileRepoMem) Update(ctx context.Context, p *InputProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.items[p.ID]
	if !ok {
		return ErrNotFound
	}
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = time.Now().UTC()
	cp := *p
	r.items[p.ID] = &cp
	return nil
}

func (r *profileRepoMem) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
	delete(r.seq, id)
	return nil
}

func (r *profileRepoMem) List(ctx context.Context, limit, offset int) ([]*InputProfile, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ordered := make([]*InputProfile, 0, len(r.items))
	for _, p := range r.items {
		ordered = append(ordered, p)
	}
	// Newest first, matching the SQL repositories.
	sort.Slice(ordered, func(i, j int) bool {
		return r.seq[ordered[i].ID] > r.seq[ordered[j].ID]
	})
	total := len(ordered)
	page := paginate(len(ordered), limit, offset)
	items := make([]*InputProfile, 0, len(page))
	for _, i := range page {
		cp := *ordered[i]
		items = append(items, &cp)
	}
	return items, total, nil
}

type assessmentRepoMem struct {
	mu    sync.RWMutex
	items map[uuid.UUID]*Assessment
	seq   map[uuid.UUID]int64
	next  int64
}

func NewAssessmentRepoMemory() AssessmentRepository {
	return &assessmentRepoMem{
		items: make(map[uuid.UUID]*Assessment),
		seq:   make(map[uuid.UUID]int64),
	}
}

func (r *assessmentRepoMem) Create(ctx context.Context, a *Assessment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a.ID = uuid.New()
	a.CreatedAt = time.Now().UTC()
	cp := *a
	r.items[a.ID] = &cp
	r.next++
	r.seq[a.ID] = r.next
	return nil
}

func (r *assessmentRepoMem) GetByID(ctx context.Context, id uuid.UUID) (*Assessment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *assessmentRepoMem) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
	delete(r.seq, id)
	return nil
}

func (r *assessmentRepoMem) List(ctx context.Context, limit, offset int) ([]*Assessment, int, error) {
	return r.list(ctx, nil, limit, offset)
}

func (r *assessmentRepoMem) ListByProfile(ctx context.Context, profileID uuid.UUID, limit, offset int) ([]*Assessment, int, error) {
	return r.list(ctx, &profileID, limit, offset)
}

func (r *assessmentRepoMem) list(ctx context.Context, profileID *uuid.UUID, limit, offset int) ([]*Assessment, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ordered := make([]*Assessment, 0, len(r.items))
	for _, a := range r.items {
		if profileID != nil && (a.ProfileID == nil || *a.ProfileID != *profileID) {
			continue
		}
		ordered = append(ordered, a)
	}
	sort.Slice(ordered, func(i, j int) bool {
		return r.seq[ordered[i].ID] > r.seq[ordered[j].ID]
	})
	total := len(ordered)
	page := paginate(len(ordered), limit, offset)
	items := make([]*Assessment, 0, len(page))
	for _, i := range page {
		cp := *ordered[i]
		items = append(items, &cp)
	}
	return items, total, nil
}

// paginate returns the index window [offset, offset+limit) clamped to n.
func paginate(n, limit, offset int) []int {
	if offset < 0 {
		offset = 0
	}
	if offset >= n || limit <= 0 {
		return nil
	}
	end := offset + limit
	if end > n {
		end = n
	}
	idx := make([]int, 0, end-offset)
	for i := offset; i < end; i++ {
		idx = append(idx, i)
	}
	return idx
}
