package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	FatwahStatusPending   = "pending"
	FatwahStatusDraft     = "draft"
	FatwahStatusPublished = "published"
)

type Fatwah struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Question    string             `bson:"question" json:"question"`
	Answer      string             `bson:"answer,omitempty" json:"answer,omitempty"`
	Category    string             `bson:"category" json:"category"`
	Status      string             `bson:"status" json:"status"`
	AskedBy     string             `bson:"askedBy,omitempty" json:"askedBy,omitempty"`
	AskerEmail  string             `bson:"askerEmail,omitempty" json:"-"`
	PublishedAt *time.Time         `bson:"publishedAt,omitempty" json:"publishedAt,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
