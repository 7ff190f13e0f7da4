package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"nimbusdrive/models"
)

// MemoryStore is an in-process EntryStore used by tests. It enforces the same
// sibling-name uniqueness as the Mongo index, atomically under its lock.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[primitive.ObjectID]*models.Entry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[primitive.ObjectID]*models.Entry),
	}
}

func (s *MemoryStore) Insert(_ context.Context, entry *models.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !entry.IsTrash {
		for _, e := range s.entries {
			if !e.IsTrash && e.OwnerID == entry.OwnerID && e.Name == entry.Name && sameParent(e.ParentID, entry.ParentID) {
				return ErrDuplicate
			}
		}
	}

	clone := *entry
	s.entries[entry.ID] = &clone
	return nil
}

func (s *MemoryStore) GetByID(_ context.Context, id primitive.ObjectID) (*models.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *entry
	return &clone, nil
}

func (s *MemoryStore) FindSibling(_ context.Context, ownerID string, parentID *primitive.ObjectID, name string) (*models.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.entries {
		if !e.IsTrash && e.OwnerID == ownerID && e.Name == name && sameParent(e.ParentID, parentID) {
			clone := *e
			return &clone, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) ListChildren(_ context.Context, ownerID string, parentID *primitive.ObjectID) ([]models.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var entries []models.Entry
	for _, e := range s.entries {
		if !e.IsTrash && e.OwnerID == ownerID && sameParent(e.ParentID, parentID) {
			entries = append(entries, *e)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].IsFolder != entries[j].IsFolder {
			return entries[i].IsFolder
		}
		return entries[i].Name < entries[j].Name
	})
	return entries, nil
}

func (s *MemoryStore) SearchByName(_ context.Context, ownerID, query string) ([]models.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lowered := strings.ToLower(query)
	var entries []models.Entry
	for _, e := range s.entries {
		if !e.IsTrash && e.OwnerID == ownerID && strings.Contains(strings.ToLower(e.Name), lowered) {
			entries = append(entries, *e)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].IsFolder != entries[j].IsFolder {
			return entries[i].IsFolder
		}
		return entries[i].Name < entries[j].Name
	})
	return entries, nil
}

func (s *MemoryStore) Update(_ context.Context, entry *models.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.entries[entry.ID]
	if !ok || existing.OwnerID != entry.OwnerID {
		return ErrNotFound
	}

	if !entry.IsTrash {
		for id, e := range s.entries {
			if id != entry.ID && !e.IsTrash && e.OwnerID == entry.OwnerID && e.Name == entry.Name && sameParent(e.ParentID, entry.ParentID) {
				return ErrDuplicate
			}
		}
	}

	clone := *entry
	s.entries[entry.ID] = &clone
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id primitive.ObjectID, ownerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.entries[id]
	if !ok || existing.OwnerID != ownerID {
		return ErrNotFound
	}
	delete(s.entries, id)
	return nil
}

func (s *MemoryStore) CountChildren(_ context.Context, ownerID string, parentID *primitive.ObjectID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int64
	for _, e := range s.entries {
		if e.OwnerID == ownerID && sameParent(e.ParentID, parentID) {
			count++
		}
	}
	return count, nil
}

func (s *MemoryStore) SetTrashedSubtree(_ context.Context, ownerID string, rootID primitive.ObjectID, trashed bool, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var modified int64
	frontier := map[primitive.ObjectID]bool{rootID: true}
	for len(frontier) > 0 {
		next := make(map[primitive.ObjectID]bool)
		for _, e := range s.entries {
			if e.OwnerID == ownerID && e.ParentID != nil && frontier[*e.ParentID] {
				if e.IsTrash != trashed {
					e.IsTrash = trashed
					e.UpdatedAt = now
					modified++
				}
				next[e.ID] = true
			}
		}
		frontier = next
	}
	return modified, nil
}

func (s *MemoryStore) DeleteTrashedBefore(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64
	for id, e := range s.entries {
		if e.IsTrash && !e.UpdatedAt.After(cutoff) {
			delete(s.entries, id)
			deleted++
		}
	}
	return deleted, nil
}

func sameParent(a, b *primitive.ObjectID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
