package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"nimbusdrive/models"
	"nimbusdrive/store"
	"nimbusdrive/utils"
)

// FileInput carries the metadata the client reports after it has uploaded the
// bytes to the external store. Size is a pointer so that an absent size can be
// told apart from a legitimate zero-byte file.
type FileInput struct {
	Name         string
	FileURL      string
	ThumbnailURL *string
	Size         *int64
	Type         string
	ParentID     *string
}

// EntryService implements folder and file creation on top of an EntryStore:
// parent resolution, materialized-path composition, sibling conflict checking
// and the final insert, plus the listing and lifecycle operations around them.
type EntryService struct {
	store       store.EntryStore
	maxFileSize int64
}

// NewEntryService wires the service over a store. maxFileSize bounds the size
// accepted at file registration; zero or negative means no limit.
func NewEntryService(entryStore store.EntryStore, maxFileSize int64) *EntryService {
	return &EntryService{store: entryStore, maxFileSize: maxFileSize}
}

// CreateFolder validates, resolves the parent and inserts a new folder entry.
// The folder name is trimmed before validation and storage.
func (s *EntryService) CreateFolder(ctx context.Context, ownerID string, name string, parentID *string) (*models.Entry, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if err := utils.ValidateEntryName(name); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidName, err)
	}

	prefix, parentObjID, err := s.resolveParent(ctx, ownerID, parentID)
	if err != nil {
		return nil, err
	}

	if err := s.checkSiblingConflict(ctx, ownerID, parentObjID, name); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	folder := &models.Entry{
		ID:        primitive.NewObjectID(),
		Name:      name,
		Path:      prefix + name,
		Type:      models.TypeFolder,
		Size:      0,
		FileURL:   "",
		OwnerID:   ownerID,
		ParentID:  parentObjID,
		IsFolder:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.insert(ctx, folder); err != nil {
		return nil, err
	}
	return folder, nil
}

// CreateFile records the metadata for an already-uploaded file.
func (s *EntryService) CreateFile(ctx context.Context, ownerID string, in FileInput) (*models.Entry, error) {
	if in.Name == "" || strings.TrimSpace(in.Name) == "" {
		return nil, ErrNameRequired
	}
	if err := utils.ValidateEntryName(in.Name); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidName, err)
	}
	if in.FileURL == "" || in.Type == "" || in.Size == nil {
		return nil, ErrMissingFields
	}
	if s.maxFileSize > 0 && *in.Size > s.maxFileSize {
		return nil, ErrFileTooLarge
	}

	prefix, parentObjID, err := s.resolveParent(ctx, ownerID, in.ParentID)
	if err != nil {
		return nil, err
	}

	if err := s.checkSiblingConflict(ctx, ownerID, parentObjID, in.Name); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	file := &models.Entry{
		ID:           primitive.NewObjectID(),
		Name:         in.Name,
		Path:         prefix + in.Name,
		Type:         in.Type,
		Size:         *in.Size,
		FileURL:      in.FileURL,
		ThumbnailURL: in.ThumbnailURL,
		OwnerID:      ownerID,
		ParentID:     parentObjID,
		IsFolder:     false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.insert(ctx, file); err != nil {
		return nil, err
	}
	return file, nil
}

// ListChildren returns the direct, non-trashed children of a folder, or the
// root-level entries when parentID is nil.
func (s *EntryService) ListChildren(ctx context.Context, ownerID string, parentID *string) ([]models.Entry, error) {
	var parentObjID *primitive.ObjectID
	if parentID != nil && *parentID != "" {
		_, resolved, err := s.resolveParent(ctx, ownerID, parentID)
		if err != nil {
			return nil, err
		}
		parentObjID = resolved
	}
	return s.store.ListChildren(ctx, ownerID, parentObjID)
}

// Search returns the owner's non-trashed entries whose name contains the
// query, case-insensitively.
func (s *EntryService) Search(ctx context.Context, ownerID, query string) ([]models.Entry, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrNameRequired
	}
	return s.store.SearchByName(ctx, ownerID, query)
}

// ToggleStarred flips the starred flag and returns the updated entry.
func (s *EntryService) ToggleStarred(ctx context.Context, ownerID, entryID string) (*models.Entry, error) {
	entry, err := s.getOwned(ctx, ownerID, entryID)
	if err != nil {
		return nil, err
	}
	entry.IsStarred = !entry.IsStarred
	entry.UpdatedAt = time.Now().UTC()
	if err := s.store.Update(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to update entry: %w", err)
	}
	return entry, nil
}

// ToggleTrashed moves an entry to trash or restores it. Trashing a folder
// trashes its whole subtree, and restoring brings the subtree back, so the
// purge job never removes a folder that still has live descendants. Restoring
// fails with ErrNameConflict when a live sibling has since taken the name, and
// with ErrParentNotFound when the entry's own parent is gone or still trashed.
func (s *EntryService) ToggleTrashed(ctx context.Context, ownerID, entryID string) (*models.Entry, error) {
	entry, err := s.getOwned(ctx, ownerID, entryID)
	if err != nil {
		return nil, err
	}

	if entry.IsTrash {
		if entry.ParentID != nil {
			parent, err := s.store.GetByID(ctx, *entry.ParentID)
			if errors.Is(err, store.ErrNotFound) {
				return nil, ErrParentNotFound
			}
			if err != nil {
				return nil, fmt.Errorf("parent lookup failed: %w", err)
			}
			if parent.IsTrash {
				return nil, ErrParentNotFound
			}
		}
		if _, err := s.store.FindSibling(ctx, ownerID, entry.ParentID, entry.Name); err == nil {
			return nil, ErrNameConflict
		} else if !errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("conflict check failed: %w", err)
		}
	}

	now := time.Now().UTC()
	entry.IsTrash = !entry.IsTrash
	entry.UpdatedAt = now
	if err := s.store.Update(ctx, entry); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrNameConflict
		}
		return nil, fmt.Errorf("failed to update entry: %w", err)
	}

	if entry.IsFolder {
		if _, err := s.store.SetTrashedSubtree(ctx, ownerID, entry.ID, entry.IsTrash, now); err != nil {
			return nil, fmt.Errorf("failed to update folder contents: %w", err)
		}
	}
	return entry, nil
}

// DeletePermanently removes a trashed entry. Folders must be empty.
func (s *EntryService) DeletePermanently(ctx context.Context, ownerID, entryID string) error {
	entry, err := s.getOwned(ctx, ownerID, entryID)
	if err != nil {
		return err
	}
	if !entry.IsTrash {
		return ErrNotTrashed
	}
	if entry.IsFolder {
		count, err := s.store.CountChildren(ctx, ownerID, &entry.ID)
		if err != nil {
			return fmt.Errorf("failed to count children: %w", err)
		}
		if count > 0 {
			return ErrFolderNotEmpty
		}
	}
	if err := s.store.Delete(ctx, entry.ID, ownerID); err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	return nil
}

// PurgeTrashedBefore permanently deletes trashed entries older than the
// cutoff. Used by the background purge job.
func (s *EntryService) PurgeTrashedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return s.store.DeleteTrashedBefore(ctx, cutoff)
}

// resolveParent determines the path prefix under which a new entry will live.
// The prefix always ends with exactly one separator, so composing the child
// path is a plain concatenation whether the parent is root or nested.
//
// Ownership policy is uniform across entry points: a missing parent is
// ErrParentNotFound, a parent owned by someone else is ErrForbidden, and a
// non-folder parent is ErrParentNotFolder.
func (s *EntryService) resolveParent(ctx context.Context, ownerID string, parentID *string) (string, *primitive.ObjectID, error) {
	if parentID == nil || *parentID == "" {
		return "/", nil, nil
	}

	parentObjID, err := primitive.ObjectIDFromHex(*parentID)
	if err != nil {
		return "", nil, ErrParentNotFound
	}

	parent, err := s.store.GetByID(ctx, parentObjID)
	if errors.Is(err, store.ErrNotFound) {
		return "", nil, ErrParentNotFound
	}
	if err != nil {
		return "", nil, fmt.Errorf("parent lookup failed: %w", err)
	}

	if parent.OwnerID != ownerID {
		return "", nil, ErrForbidden
	}
	if !parent.IsFolder {
		return "", nil, ErrParentNotFolder
	}
	if parent.IsTrash {
		return "", nil, ErrParentNotFound
	}

	prefix := parent.Path
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return prefix, &parentObjID, nil
}

// checkSiblingConflict is the early exit for duplicate names. It is not the
// guard: the store's unique index is, and insert maps its violation to the
// same ErrNameConflict.
func (s *EntryService) checkSiblingConflict(ctx context.Context, ownerID string, parentID *primitive.ObjectID, name string) error {
	_, err := s.store.FindSibling(ctx, ownerID, parentID, name)
	if err == nil {
		return ErrNameConflict
	}
	if !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("conflict check failed: %w", err)
	}
	return nil
}

func (s *EntryService) insert(ctx context.Context, entry *models.Entry) error {
	err := s.store.Insert(ctx, entry)
	if errors.Is(err, store.ErrDuplicate) {
		return ErrNameConflict
	}
	if err != nil {
		return fmt.Errorf("failed to create entry: %w", err)
	}
	return nil
}

func (s *EntryService) getOwned(ctx context.Context, ownerID, entryID string) (*models.Entry, error) {
	id, err := primitive.ObjectIDFromHex(entryID)
	if err != nil {
		return nil, ErrEntryNotFound
	}
	entry, err := s.store.GetByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrEntryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("entry lookup failed: %w", err)
	}
	if entry.OwnerID != ownerID {
		return nil, ErrForbidden
	}
	return entry, nil
}
