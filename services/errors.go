package services

import "errors"

// Domain errors returned by EntryService. Controllers map these to HTTP
// statuses with errors.Is; anything else is treated as an internal failure.
var (
	ErrForbidden       = errors.New("entry belongs to another user")
	ErrParentNotFound  = errors.New("parent folder not found")
	ErrParentNotFolder = errors.New("parent is not a folder")
	ErrNameRequired    = errors.New("name is required")
	ErrInvalidName     = errors.New("invalid name")
	ErrMissingFields   = errors.New("missing required file fields")
	ErrFileTooLarge    = errors.New("file exceeds the maximum upload size")
	ErrNameConflict    = errors.New("a file or folder with this name already exists in this folder")
	ErrEntryNotFound   = errors.New("entry not found")
	ErrNotTrashed      = errors.New("entry is not in trash")
	ErrFolderNotEmpty  = errors.New("folder is not empty")
)
