package controllers

import (
	"github.com/gin-gonic/gin"

	"nimbusdrive/services"
	"nimbusdrive/utils"
)

type UploadController struct {
	uploadAuthService *services.UploadAuthService
}

func NewUploadController(uploadAuthService *services.UploadAuthService) *UploadController {
	return &UploadController{uploadAuthService: uploadAuthService}
}

// GetUploadAuth handles GET /upload/auth. It mints the short-lived credentials
// the client presents to the media CDN when uploading bytes directly.
func (uc *UploadController) GetUploadAuth(c *gin.Context) {
	userID := c.GetString("userId")
	if userID == "" {
		utils.UnauthorizedResponse(c, "User not authenticated")
		return
	}

	creds := uc.uploadAuthService.Credentials()
	utils.SuccessResponse(c, "Upload credentials issued", creds)
}
