package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"nimbusdrive/services"
	"nimbusdrive/utils"
)

type FolderController struct {
	entryService *services.EntryService
}

func NewFolderController(entryService *services.EntryService) *FolderController {
	return &FolderController{entryService: entryService}
}

// CreateFolder handles POST /folders.
func (fc *FolderController) CreateFolder(c *gin.Context) {
	userID := c.GetString("userId")
	if userID == "" {
		utils.UnauthorizedResponse(c, "User not authenticated")
		return
	}

	var req struct {
		Name     string  `json:"name"`
		UserID   string  `json:"userId"`
		ParentID *string `json:"parentId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request data")
		return
	}

	// The body userId is only a match-or-reject check; the session is the
	// source of truth.
	if req.UserID != "" && req.UserID != userID {
		utils.ForbiddenResponse(c, "Forbidden")
		return
	}

	folder, err := fc.entryService.CreateFolder(c.Request.Context(), userID, req.Name, req.ParentID)
	if err != nil {
		respondEntryError(c, err, "Failed to create folder")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"folder":  folder,
	})
}

// respondEntryError maps domain errors to HTTP statuses. Anything outside the
// taxonomy is an internal failure and never leaks details to the client.
func respondEntryError(c *gin.Context, err error, defaultMessage string) {
	switch {
	case errors.Is(err, services.ErrForbidden):
		utils.ForbiddenResponse(c, err.Error())
	case errors.Is(err, services.ErrParentNotFound):
		utils.NotFoundResponse(c, "Parent folder not found")
	case errors.Is(err, services.ErrEntryNotFound):
		utils.NotFoundResponse(c, "Entry not found")
	case errors.Is(err, services.ErrParentNotFolder):
		utils.BadRequestResponse(c, "Parent is not a folder")
	case errors.Is(err, services.ErrNameRequired):
		utils.BadRequestResponse(c, "Name is required")
	case errors.Is(err, services.ErrMissingFields):
		utils.BadRequestResponse(c, "Missing required file fields")
	case errors.Is(err, services.ErrFileTooLarge):
		utils.BadRequestResponse(c, "File exceeds the maximum upload size")
	case errors.Is(err, services.ErrInvalidName):
		utils.BadRequestResponse(c, err.Error())
	case errors.Is(err, services.ErrNotTrashed):
		utils.BadRequestResponse(c, "Entry is not in trash")
	case errors.Is(err, services.ErrFolderNotEmpty):
		utils.BadRequestResponse(c, "Folder is not empty")
	case errors.Is(err, services.ErrNameConflict):
		utils.ConflictResponse(c, "A file or folder with this name already exists in this folder")
	default:
		utils.InternalServerErrorResponse(c, defaultMessage)
	}
}
