package models

import "github.com/uptrace/bun"

// User is an app user. The email doubles as the login name; social sign-ins
// get a random unusable password on first login.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID         int     `bun:"id,pk,autoincrement" json:"id"`
	Email      string  `bun:"email,notnull,unique" json:"email"`
	Password   string  `bun:"password,notnull" json:"-"`
	FirstName  string  `bun:"first_name,notnull,default:''" json:"first_name"`
	LastName   string  `bun:"last_name,notnull,default:''" json:"last_name"`
	ResetToken *string `bun:"reset_token" json:"-"`
}
