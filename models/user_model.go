package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	Id       primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name     string             `bson:"name" json:"name"`
	Email    string             `bson:"email" json:"email" validate:"required,email"`
	Password string             `bson:"password" json:"-"`
	Role     string             `bson:"role,omitempty" json:"role,omitempty" validate:"oneof=user admin"`
	Status   string             `bson:"status,omitempty" json:"status,omitempty"`
	// HasOrdered flips to true with the user's first completed order and is
	// never reset. It gates the one-time welcome discount.
	HasOrdered bool      `bson:"hasOrdered" json:"hasOrdered"`
	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
}

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)
