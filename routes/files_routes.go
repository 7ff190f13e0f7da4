package routes

import (
	"github.com/gin-gonic/gin"

	"nimbusdrive/controllers"
	"nimbusdrive/middleware"
	"nimbusdrive/services"
)

func RegisterFileRoutes(rg *gin.RouterGroup, jwtSecret string, entryService *services.EntryService) {
	fileController := controllers.NewFileController(entryService)

	files := rg.Group("/files")
	files.Use(middleware.AuthMiddleware(jwtSecret))
	{
		files.POST("", fileController.CreateFile)             // POST /files (metadata, after direct upload)
		files.GET("", fileController.ListEntries)             // GET /files?parentId=
		files.GET("/search", fileController.SearchEntries)    // GET /files/search?q=
		files.PATCH("/:id/star", fileController.ToggleStar)   // PATCH /files/:id/star
		files.PATCH("/:id/trash", fileController.ToggleTrash) // PATCH /files/:id/trash
		files.DELETE("/:id", fileController.DeleteFile)       // DELETE /files/:id (permanent, trash only)
	}
}
