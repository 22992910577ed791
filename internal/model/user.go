package model

import (
	"time"
)

type User struct {
	ID              string    `db:"id" json:"id"`
	Email           string    `db:"email" json:"email"`
	Name            string    `db:"name" json:"name"`
	PasswordHash    string    `db:"password_hash" json:"-"`
	APIKeyEncrypted *string   `db:"api_key_encrypted" json:"-"`
	CreatedAt       time.Time `db:"created_at" json:"createdAt"`
}

type CreateUserParams struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
}
