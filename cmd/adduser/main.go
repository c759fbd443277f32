// cmd/adduser/main.go
// Creates or updates a user in the database.
//
// Usage:
//
//	go run ./cmd/adduser -email runner@example.com -password testing -first Ada -last Lovelace
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"

	"github.com/racethestates/api/config"
	bundb "github.com/racethestates/api/db"
	"github.com/racethestates/api/models"
)

func main() {
	email := flag.String("email", "", "email (required)")
	password := flag.String("password", "", "plain-text password (required)")
	first := flag.String("first", "", "first name")
	last := flag.String("last", "", "last name")
	flag.Parse()

	if *email == "" || *password == "" {
		log.Fatal("both -email and -password are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("bcrypt:", err)
	}

	cfg := config.Load()
	db := bundb.Setup(cfg)
	defer db.Close()

	user := &models.User{
		Email:     *email,
		Password:  string(hash),
		FirstName: *first,
		LastName:  *last,
	}

	_, err = db.NewInsert().Model(user).
		On("CONFLICT (email) DO UPDATE SET password = EXCLUDED.password, first_name = EXCLUDED.first_name, last_name = EXCLUDED.last_name").
		Exec(context.Background())
	if err != nil {
		log.Fatal("insert user:", err)
	}

	fmt.Printf("user %q saved\n", *email)
}
