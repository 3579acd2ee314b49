// Package memory provides an in-process link store. Every operation runs
// under one mutex, so reservation, click appends and read-modify-write
// updates are atomic with respect to each other.
package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vadimbarashkov/bytelink/internal/entity"
)

// LinkRepository keeps links and the set of reserved short codes in memory.
type LinkRepository struct {
	mu       sync.Mutex
	reserved map[string]time.Time
	links    map[uuid.UUID]*entity.Link
	byCode   map[string]uuid.UUID
}

// NewLinkRepository creates an empty LinkRepository.
func NewLinkRepository() *LinkRepository {
	return &LinkRepository{
		reserved: make(map[string]time.Time),
		links:    make(map[uuid.UUID]*entity.Link),
		byCode:   make(map[string]uuid.UUID),
	}
}

// Reserve marks shortCode as taken. Reservations are never released.
func (r *LinkRepository) Reserve(ctx context.Context, shortCode string) error {
	const op = "adapter.repository.memory.LinkRepository.Reserve"

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.reserved[shortCode]; ok {
		return fmt.Errorf("%s: %w", op, entity.ErrCodeTaken)
	}
	r.reserved[shortCode] = time.Now()

	return nil
}

func (r *LinkRepository) Save(ctx context.Context, link *entity.Link) (*entity.Link, error) {
	const op = "adapter.repository.memory.LinkRepository.Save"

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byCode[link.ShortCode]; ok {
		return nil, fmt.Errorf("%s: %w", op, entity.ErrCodeTaken)
	}
	if _, ok := r.links[link.ID]; ok {
		return nil, fmt.Errorf("%s: link %s already exists", op, link.ID)
	}

	stored := link.Clone()
	if stored.Analytics == nil {
		stored.Analytics = []entity.Click{}
	}
	stored.Clicks = int64(len(stored.Analytics))

	r.reserved[stored.ShortCode] = stored.CreatedAt
	r.links[stored.ID] = stored
	r.byCode[stored.ShortCode] = stored.ID

	return stored.Clone(), nil
}

func (r *LinkRepository) RetrieveByID(ctx context.Context, id uuid.UUID) (*entity.Link, error) {
	const op = "adapter.repository.memory.LinkRepository.RetrieveByID"

	r.mu.Lock()
	defer r.mu.Unlock()

	link, ok := r.links[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, entity.ErrLinkNotFound)
	}

	return link.Clone(), nil
}

// Update applies fn to a copy of the link and stores the copy only if fn succeeds.
func (r *LinkRepository) Update(ctx context.Context, id uuid.UUID, fn func(link *entity.Link) error) (*entity.Link, error) {
	const op = "adapter.repository.memory.LinkRepository.Update"

	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.links[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, entity.ErrLinkNotFound)
	}

	next := current.Clone()
	if err := fn(next); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// Identity, the click stream and its counter are owned by AppendClick.
	next.ID = current.ID
	next.CreatedAt = current.CreatedAt
	next.Analytics = current.Analytics
	next.Clicks = current.Clicks

	if next.ShortCode != current.ShortCode {
		if other, ok := r.byCode[next.ShortCode]; ok && other != id {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrCodeTaken)
		}
		delete(r.byCode, current.ShortCode)
		r.byCode[next.ShortCode] = id
		if _, ok := r.reserved[next.ShortCode]; !ok {
			r.reserved[next.ShortCode] = time.Now()
		}
	}

	r.links[id] = next

	return next.Clone(), nil
}

// AppendClick appends click to the active link with shortCode and increments
// its counter in the same critical section. The returned link carries no click stream.
func (r *LinkRepository) AppendClick(ctx context.Context, shortCode string, click entity.Click) (*entity.Link, error) {
	const op = "adapter.repository.memory.LinkRepository.AppendClick"

	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.byCode[shortCode]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, entity.ErrLinkNotFound)
	}
	link := r.links[id]
	if !link.IsActive {
		return nil, fmt.Errorf("%s: %w", op, entity.ErrLinkNotFound)
	}

	next := link.Clone()
	next.Analytics = append(next.Analytics, click)
	next.Clicks = int64(len(next.Analytics))
	r.links[id] = next

	return withoutAnalytics(next), nil
}

// ListActive returns active links newest first, without their click streams.
func (r *LinkRepository) ListActive(ctx context.Context, offset, limit int) ([]*entity.Link, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	active := r.activeLocked()
	if offset >= len(active) {
		return []*entity.Link{}, nil
	}
	active = active[offset:]
	if limit < len(active) {
		active = active[:limit]
	}

	out := make([]*entity.Link, 0, len(active))
	for _, l := range active {
		out = append(out, withoutAnalytics(l))
	}

	return out, nil
}

func (r *LinkRepository) CountActive(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for _, l := range r.links {
		if l.IsActive {
			n++
		}
	}

	return n, nil
}

// RetrieveAllActive returns every active link with its click stream.
func (r *LinkRepository) RetrieveAllActive(ctx context.Context) ([]*entity.Link, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	active := r.activeLocked()
	out := make([]*entity.Link, 0, len(active))
	for _, l := range active {
		out = append(out, l.Clone())
	}

	return out, nil
}

func (r *LinkRepository) activeLocked() []*entity.Link {
	active := make([]*entity.Link, 0, len(r.links))
	for _, l := range r.links {
		if l.IsActive {
			active = append(active, l)
		}
	}

	slices.SortFunc(active, func(a, b *entity.Link) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID.String(), a.ID.String())
	})

	return active
}

func withoutAnalytics(l *entity.Link) *entity.Link {
	c := *l
	c.Analytics = nil
	return &c
}
