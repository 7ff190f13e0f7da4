package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"nimbusdrive/services"
	"nimbusdrive/utils"
)

type FileController struct {
	entryService *services.EntryService
}

func NewFileController(entryService *services.EntryService) *FileController {
	return &FileController{entryService: entryService}
}

// CreateFile handles POST /files. The client has already uploaded the bytes
// to the external store; this records the metadata row.
func (fc *FileController) CreateFile(c *gin.Context) {
	userID := c.GetString("userId")
	if userID == "" {
		utils.UnauthorizedResponse(c, "User not authenticated")
		return
	}

	var req struct {
		UserID       string  `json:"userId"`
		Name         string  `json:"name"`
		FileURL      string  `json:"fileUrl"`
		ThumbnailURL *string `json:"thumbnailUrl"`
		Size         *int64  `json:"size"`
		Type         string  `json:"type"`
		ParentID     *string `json:"parentId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request data")
		return
	}

	if req.UserID != "" && req.UserID != userID {
		utils.ForbiddenResponse(c, "Forbidden")
		return
	}

	if req.Name == "" || req.FileURL == "" || req.Size == nil || req.Type == "" {
		utils.BadRequestResponse(c, "Missing required file fields")
		return
	}
	if *req.Size < 0 {
		utils.BadRequestResponse(c, "Size cannot be negative")
		return
	}

	file, err := fc.entryService.CreateFile(c.Request.Context(), userID, services.FileInput{
		Name:         req.Name,
		FileURL:      req.FileURL,
		ThumbnailURL: req.ThumbnailURL,
		Size:         req.Size,
		Type:         req.Type,
		ParentID:     req.ParentID,
	})
	if err != nil {
		respondEntryError(c, err, "Failed to create file record")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"file":    file,
	})
}

// ListEntries handles GET /files?parentId= and returns the direct children of
// a folder, or the root-level entries when no parent is given.
func (fc *FileController) ListEntries(c *gin.Context) {
	userID := c.GetString("userId")
	if userID == "" {
		utils.UnauthorizedResponse(c, "User not authenticated")
		return
	}

	var parentID *string
	if v, ok := c.GetQuery("parentId"); ok && v != "" {
		parentID = &v
	}

	entries, err := fc.entryService.ListChildren(c.Request.Context(), userID, parentID)
	if err != nil {
		respondEntryError(c, err, "Failed to list entries")
		return
	}

	utils.SuccessResponse(c, "Entries retrieved", entries)
}

// SearchEntries handles GET /files/search?q= and matches entry names
// case-insensitively within the caller's own entries.
func (fc *FileController) SearchEntries(c *gin.Context) {
	userID := c.GetString("userId")
	if userID == "" {
		utils.UnauthorizedResponse(c, "User not authenticated")
		return
	}

	query := c.Query("q")
	if query == "" {
		utils.BadRequestResponse(c, "Search query is required")
		return
	}

	entries, err := fc.entryService.Search(c.Request.Context(), userID, query)
	if err != nil {
		respondEntryError(c, err, "Search failed")
		return
	}

	utils.SuccessResponse(c, "Search results", entries)
}

// ToggleStar handles PATCH /files/:id/star.
func (fc *FileController) ToggleStar(c *gin.Context) {
	userID := c.GetString("userId")
	if userID == "" {
		utils.UnauthorizedResponse(c, "User not authenticated")
		return
	}

	entry, err := fc.entryService.ToggleStarred(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondEntryError(c, err, "Failed to update entry")
		return
	}

	utils.SuccessResponse(c, "Star toggled", entry)
}

// ToggleTrash handles PATCH /files/:id/trash, moving an entry to trash or
// restoring it.
func (fc *FileController) ToggleTrash(c *gin.Context) {
	userID := c.GetString("userId")
	if userID == "" {
		utils.UnauthorizedResponse(c, "User not authenticated")
		return
	}

	entry, err := fc.entryService.ToggleTrashed(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondEntryError(c, err, "Failed to update entry")
		return
	}

	utils.SuccessResponse(c, "Trash toggled", entry)
}

// DeleteFile handles DELETE /files/:id. Only trashed entries may be deleted
// permanently.
func (fc *FileController) DeleteFile(c *gin.Context) {
	userID := c.GetString("userId")
	if userID == "" {
		utils.UnauthorizedResponse(c, "User not authenticated")
		return
	}

	if err := fc.entryService.DeletePermanently(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondEntryError(c, err, "Failed to delete entry")
		return
	}

	utils.SuccessResponse(c, "Entry deleted permanently", nil)
}
