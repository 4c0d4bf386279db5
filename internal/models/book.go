package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Languages flags which editions of a book are available.
type Languages struct {
	English bool `bson:"english" json:"english"`
	Urdu    bool `bson:"urdu" json:"urdu"`
}

type Book struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Author      string             `bson:"author,omitempty" json:"author,omitempty"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Price       float64            `bson:"price" json:"price"`
	Images      StringList         `bson:"images" json:"images"`
	Languages   Languages          `bson:"languages" json:"languages"`
	IsActive    bool               `bson:"isActive" json:"isActive"`
	IsDeleted   bool               `bson:"isDeleted" json:"isDeleted,omitempty"`
	DeletedAt   *time.Time         `bson:"deletedAt,omitempty" json:"deletedAt,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
