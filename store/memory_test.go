package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"nimbusdrive/models"
)

func newEntry(owner, name string, parentID *primitive.ObjectID) *models.Entry {
	now := time.Now().UTC()
	return &models.Entry{
		ID:        primitive.NewObjectID(),
		Name:      name,
		Path:      "/" + name,
		Type:      models.TypeFolder,
		OwnerID:   owner,
		ParentID:  parentID,
		IsFolder:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestMemoryStoreInsertAndGet(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	entry := newEntry("user_1", "Docs", nil)
	if err := s.Insert(ctx, entry); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	got, err := s.GetByID(ctx, entry.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Name != "Docs" || got.OwnerID != "user_1" {
		t.Errorf("got %+v, want name Docs owned by user_1", got)
	}

	if _, err := s.GetByID(ctx, primitive.NewObjectID()); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID of unknown id: got %v, want ErrNotFound", err)
	}
}

func TestMemoryStoreDuplicateSibling(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if err := s.Insert(ctx, newEntry("user_1", "Docs", nil)); err != nil {
		t.Fatalf("first Insert: %v", err)
	}
	if err := s.Insert(ctx, newEntry("user_1", "Docs", nil)); !errors.Is(err, ErrDuplicate) {
		t.Errorf("duplicate Insert: got %v, want ErrDuplicate", err)
	}

	// Same name is fine under a different parent, for a different owner, or
	// when the existing sibling is trashed.
	parent := primitive.NewObjectID()
	if err := s.Insert(ctx, newEntry("user_1", "Docs", &parent)); err != nil {
		t.Errorf("Insert under different parent: %v", err)
	}
	if err := s.Insert(ctx, newEntry("user_2", "Docs", nil)); err != nil {
		t.Errorf("Insert for different owner: %v", err)
	}

	trashed := newEntry("user_1", "Old", nil)
	trashed.IsTrash = true
	if err := s.Insert(ctx, trashed); err != nil {
		t.Fatalf("Insert trashed: %v", err)
	}
	if err := s.Insert(ctx, newEntry("user_1", "Old", nil)); err != nil {
		t.Errorf("Insert over trashed sibling: %v", err)
	}
}

func TestMemoryStoreConcurrentInsertOneWinner(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	const workers = 8
	var wg sync.WaitGroup
	results := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- s.Insert(ctx, newEntry("user_1", "Race", nil))
		}()
	}
	wg.Wait()
	close(results)

	var successes, duplicates int
	for err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, ErrDuplicate):
			duplicates++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if successes != 1 || duplicates != workers-1 {
		t.Errorf("got %d successes and %d duplicates, want 1 and %d", successes, duplicates, workers-1)
	}
}

func TestMemoryStoreFindSiblingAndList(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	folder := newEntry("user_1", "Docs", nil)
	if err := s.Insert(ctx, folder); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	file := newEntry("user_1", "a.txt", nil)
	file.IsFolder = false
	file.Type = "text/plain"
	if err := s.Insert(ctx, file); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	if _, err := s.FindSibling(ctx, "user_1", nil, "Docs"); err != nil {
		t.Errorf("FindSibling: %v", err)
	}
	if _, err := s.FindSibling(ctx, "user_2", nil, "Docs"); !errors.Is(err, ErrNotFound) {
		t.Errorf("FindSibling for wrong owner: got %v, want ErrNotFound", err)
	}

	entries, err := s.ListChildren(ctx, "user_1", nil)
	if err != nil {
		t.Fatalf("ListChildren: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	// folders sort first
	if !entries[0].IsFolder || entries[1].IsFolder {
		t.Errorf("expected folder before file, got %q then %q", entries[0].Name, entries[1].Name)
	}
}

func TestMemoryStoreSetTrashedSubtree(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	docs := newEntry("user_1", "Docs", nil)
	child := newEntry("user_1", "Sub", &docs.ID)
	child.Path = "/Docs/Sub"
	grandchild := newEntry("user_1", "Deep", &child.ID)
	grandchild.Path = "/Docs/Sub/Deep"
	sibling := newEntry("user_1", "Other", nil)
	// A different subtree that merely reuses the path text must stay untouched.
	decoy := newEntry("user_1", "Sub", nil)
	decoy.IsTrash = true
	decoy.Path = "/Docs/Sub"

	for _, e := range []*models.Entry{docs, child, grandchild, sibling, decoy} {
		if err := s.Insert(ctx, e); err != nil {
			t.Fatalf("Insert %s: %v", e.Name, err)
		}
	}

	modified, err := s.SetTrashedSubtree(ctx, "user_1", docs.ID, true, time.Now().UTC())
	if err != nil {
		t.Fatalf("SetTrashedSubtree: %v", err)
	}
	if modified != 2 {
		t.Errorf("got %d modified, want 2", modified)
	}

	for _, id := range []primitive.ObjectID{child.ID, grandchild.ID} {
		e, _ := s.GetByID(ctx, id)
		if !e.IsTrash {
			t.Errorf("descendant %s not trashed", e.Path)
		}
	}
	if e, _ := s.GetByID(ctx, sibling.ID); e.IsTrash {
		t.Error("sibling outside the subtree was trashed")
	}

	// Restore only flips the real descendants back; the decoy stays trashed.
	if _, err := s.SetTrashedSubtree(ctx, "user_1", docs.ID, false, time.Now().UTC()); err != nil {
		t.Fatalf("SetTrashedSubtree restore: %v", err)
	}
	if e, _ := s.GetByID(ctx, decoy.ID); !e.IsTrash {
		t.Error("unrelated entry with the same path was restored")
	}
	if e, _ := s.GetByID(ctx, grandchild.ID); e.IsTrash {
		t.Error("descendant not restored")
	}
}

func TestMemoryStoreDeleteTrashedBefore(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	old := newEntry("user_1", "old", nil)
	old.IsTrash = true
	old.UpdatedAt = time.Now().Add(-48 * time.Hour)
	recent := newEntry("user_1", "recent", nil)
	recent.IsTrash = true
	live := newEntry("user_1", "live", nil)

	for _, e := range []*models.Entry{old, recent, live} {
		if err := s.Insert(ctx, e); err != nil {
			t.Fatalf("Insert %s: %v", e.Name, err)
		}
	}

	deleted, err := s.DeleteTrashedBefore(ctx, time.Now().Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("DeleteTrashedBefore: %v", err)
	}
	if deleted != 1 {
		t.Errorf("got %d deleted, want 1", deleted)
	}
	if _, err := s.GetByID(ctx, old.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("old trashed entry still present: %v", err)
	}
	if _, err := s.GetByID(ctx, live.ID); err != nil {
		t.Errorf("live entry removed: %v", err)
	}
}
