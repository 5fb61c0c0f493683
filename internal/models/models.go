package models

import "time"

type Product struct {
	ID          uint      `gorm:"primaryKey;autoIncrement"     json:"id"`
	Name        string    `gorm:"size:255;not null;index"      json:"name"`
	Description string    `gorm:"type:text;not null"           json:"description"`
	Price       float64   `gorm:"type:decimal(10,2);not null"  json:"price"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement"     json:"id"`
	Name         string    `gorm:"size:255;not null"            json:"name"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"column:password;not null"     json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RevokedToken marks an access token as logged out until it would have
// expired anyway.
type RevokedToken struct {
	ID        uint      `gorm:"primaryKey"                   json:"id"`
	JTI       string    `gorm:"size:64;uniqueIndex;not null" json:"jti"`
	UserID    uint      `gorm:"index;not null"               json:"user_id"`
	ExpiresAt time.Time `gorm:"index;not null"               json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

func All() []any {
	return []any{&Product{}, &User{}, &RevokedToken{}}
}
