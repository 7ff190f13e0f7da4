package routes

import (
	"github.com/gin-gonic/gin"

	"nimbusdrive/controllers"
	"nimbusdrive/middleware"
	"nimbusdrive/services"
)

func RegisterUploadRoutes(rg *gin.RouterGroup, jwtSecret string, uploadAuthService *services.UploadAuthService) {
	uploadController := controllers.NewUploadController(uploadAuthService)

	upload := rg.Group("/upload")
	upload.Use(middleware.AuthMiddleware(jwtSecret))
	{
		upload.GET("/auth", uploadController.GetUploadAuth) // GET /upload/auth
	}
}
