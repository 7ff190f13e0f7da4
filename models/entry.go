package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TypeFolder is the discriminator value stored for folder entries. File
// entries carry the MIME type reported at upload time instead.
const TypeFolder = "folder"

// Entry is a single row in the files collection. Files and folders share the
// schema; folders have Size 0, an empty FileURL and IsFolder set.
type Entry struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name         string              `bson:"name" json:"name"`
	Path         string              `bson:"path" json:"path"`
	Type         string              `bson:"type" json:"type"`
	Size         int64               `bson:"size" json:"size"`
	FileURL      string              `bson:"file_url" json:"fileUrl"`
	ThumbnailURL *string             `bson:"thumbnail_url,omitempty" json:"thumbnailUrl,omitempty"`
	OwnerID      string              `bson:"owner_id" json:"userId"`
	ParentID     *primitive.ObjectID `bson:"parent_id" json:"parentId,omitempty"`
	IsFolder     bool                `bson:"is_folder" json:"isFolder"`
	IsStarred    bool                `bson:"is_starred" json:"isStarred"`
	IsTrash      bool                `bson:"is_trash" json:"isTrash"`
	CreatedAt    time.Time           `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time           `bson:"updated_at" json:"updatedAt"`
}
