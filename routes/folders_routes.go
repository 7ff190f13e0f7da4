package routes

import (
	"github.com/gin-gonic/gin"

	"nimbusdrive/controllers"
	"nimbusdrive/middleware"
	"nimbusdrive/services"
)

func RegisterFolderRoutes(rg *gin.RouterGroup, jwtSecret string, entryService *services.EntryService) {
	folderController := controllers.NewFolderController(entryService)

	folders := rg.Group("/folders")
	folders.Use(middleware.AuthMiddleware(jwtSecret))
	{
		folders.POST("", folderController.CreateFolder) // POST /folders
	}
}
