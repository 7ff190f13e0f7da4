package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"nimbusdrive/models"
)

var (
	// ErrNotFound is returned when no entry matches the lookup.
	ErrNotFound = errors.New("entry not found")
	// ErrDuplicate is returned when an insert would create a second
	// non-trashed sibling with the same name.
	ErrDuplicate = errors.New("duplicate sibling name")
)

// EntryStore is the persistence boundary for the files collection. The Mongo
// implementation backs production; the in-memory implementation backs tests.
//
// Sibling uniqueness on (owner_id, parent_id, name) is enforced by the store
// itself: Insert must fail with ErrDuplicate under concurrent same-name
// creations, independent of any pre-check the caller ran.
type EntryStore interface {
	Insert(ctx context.Context, entry *models.Entry) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Entry, error)
	FindSibling(ctx context.Context, ownerID string, parentID *primitive.ObjectID, name string) (*models.Entry, error)
	ListChildren(ctx context.Context, ownerID string, parentID *primitive.ObjectID) ([]models.Entry, error)
	SearchByName(ctx context.Context, ownerID, query string) ([]models.Entry, error)
	Update(ctx context.Context, entry *models.Entry) error
	Delete(ctx context.Context, id primitive.ObjectID, ownerID string) error
	CountChildren(ctx context.Context, ownerID string, parentID *primitive.ObjectID) (int64, error)
	// SetTrashedSubtree flips the trash flag on every descendant of rootID,
	// walking parent links so that an unrelated entry which merely reuses the
	// folder's old path is never touched. Used to cascade folder trash and
	// restore; the root entry itself is the caller's responsibility.
	SetTrashedSubtree(ctx context.Context, ownerID string, rootID primitive.ObjectID, trashed bool, now time.Time) (int64, error)
	DeleteTrashedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
