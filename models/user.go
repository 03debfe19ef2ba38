package models

import (
	"time"
)

type User struct {
	ID        int       `db:"id" json:"id"`
	Username  *string   `db:"username" json:"username"`
	Password  *string   `db:"password" json:"-"`
	Phone     *string   `db:"phone" json:"phone"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}
