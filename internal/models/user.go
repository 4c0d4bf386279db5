package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Address represents a single shipping address entry for a user. At most one
// entry carries IsDefault=true; the handlers enforce that on every mutation.
type Address struct {
	ID        string `bson:"id" json:"id"`
	FullName  string `bson:"fullName" json:"fullName"`
	Phone     string `bson:"phone" json:"phone"`
	Line1     string `bson:"line1" json:"line1"`
	Line2     string `bson:"line2,omitempty" json:"line2,omitempty"`
	City      string `bson:"city" json:"city"`
	State     string `bson:"state" json:"state"`
	Pincode   string `bson:"pincode" json:"pincode"`
	IsDefault bool   `bson:"isDefault" json:"isDefault"`
}

// CartItem stores only the book reference plus the purchase-time selections;
// display fields are joined against the live book record on read.
type CartItem struct {
	BookID   primitive.ObjectID `bson:"bookId" json:"bookId"`
	Quantity int                `bson:"quantity" json:"quantity"`
	Language string             `bson:"language" json:"language"`
}

// User represents the application user account.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"passwordHash" json:"-"`
	Name         string             `bson:"name" json:"name"`
	Phone        string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Role         string             `bson:"role" json:"role"`
	Addresses    []Address          `bson:"addresses" json:"addresses"`
	Cart         []CartItem         `bson:"cart" json:"cart"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}
