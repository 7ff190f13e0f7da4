package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"nimbusdrive/services"
	"nimbusdrive/store"
)

// UploadAuthConfig holds the media CDN credential configuration.
type UploadAuthConfig struct {
	PublicKey  string
	PrivateKey string
	UploadURL  string
	TokenTTL   time.Duration
}

// ServiceContainer holds all services and dependencies.
type ServiceContainer struct {
	Store             store.EntryStore
	JWTSecret         string
	EntryService      *services.EntryService
	UploadAuthService *services.UploadAuthService
}

// NewServiceContainer wires the services over a Mongo-backed entry store.
func NewServiceContainer(db *mongo.Database, jwtSecret string, uploadConfig UploadAuthConfig, maxFileSize int64) *ServiceContainer {
	entryStore := store.NewMongoStore(db)
	return NewServiceContainerWithStore(entryStore, jwtSecret, uploadConfig, maxFileSize)
}

// NewServiceContainerWithStore wires the services over any entry store.
// Tests use this with the in-memory store.
func NewServiceContainerWithStore(entryStore store.EntryStore, jwtSecret string, uploadConfig UploadAuthConfig, maxFileSize int64) *ServiceContainer {
	return &ServiceContainer{
		Store:             entryStore,
		JWTSecret:         jwtSecret,
		EntryService:      services.NewEntryService(entryStore, maxFileSize),
		UploadAuthService: services.NewUploadAuthService(uploadConfig.PublicKey, uploadConfig.PrivateKey, uploadConfig.UploadURL, uploadConfig.TokenTTL),
	}
}

// SetupRoutes configures all API routes for the application.
// This function is called from main.go after middleware is already set up.
func SetupRoutes(api *gin.RouterGroup, container *ServiceContainer) {
	RegisterFolderRoutes(api, container.JWTSecret, container.EntryService)
	RegisterFileRoutes(api, container.JWTSecret, container.EntryService)
	RegisterUploadRoutes(api, container.JWTSecret, container.UploadAuthService)
}
