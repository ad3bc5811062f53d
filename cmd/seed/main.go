// seed inserts a test user and a handful of todos into the local dev
// database. Run: go run ./cmd/seed
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/caxgpt/todo-api/internal/infrastructure/postgres"
	"github.com/caxgpt/todo-api/internal/password"
)

const (
	seedUsername = "junaid"
	seedEmail    = "junaid@test.local"
	seedPassword = "junaid"
)

type todoSpec struct {
	title       string
	description string
	completed   bool
}

var todos = []todoSpec{
	{"Buy groceries", "Milk, eggs, bread", false},
	{"Write weekly report", "Due Friday EOD", false},
	{"Renew gym membership", "", false},
	{"Ship API docs", "OpenAPI schema plus examples", true},
	{"Book dentist appointment", "", true},
}

func main() {
	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set — run: direnv allow")
	}

	pool, err := postgres.NewPool(ctx, dbURL)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}

	if err := postgres.Migrate(dbURL); err != nil {
		pool.Close()
		log.Fatalf("migrate: %v", err)
	}

	hasher, err := password.NewHasher()
	if err != nil {
		pool.Close()
		log.Fatalf("password hasher: %v", err)
	}
	digest, err := hasher.Hash(seedPassword)
	if err != nil {
		pool.Close()
		log.Fatalf("hash password: %v", err)
	}

	// Upsert test user, marked verified so the reminder digest picks it up
	var userID string
	err = pool.QueryRow(ctx, `
		INSERT INTO users (username, email, full_name, hashed_password, email_verified)
		VALUES ($1, $2, 'Muhammad Junaid', $3, TRUE)
		ON CONFLICT (username) DO UPDATE SET updated_at = NOW()
		RETURNING id`,
		seedUsername, seedEmail, digest,
	).Scan(&userID)
	if err != nil {
		pool.Close()
		log.Fatalf("upsert user: %v", err)
	}

	// Insert todos, skip duplicates on re-runs
	var inserted, skipped int
	for _, spec := range todos {
		var exists bool
		err := pool.QueryRow(ctx, `
			SELECT EXISTS (SELECT 1 FROM todos WHERE user_id = $1 AND title = $2)`,
			userID, spec.title,
		).Scan(&exists)
		if err != nil {
			pool.Close()
			log.Fatalf("check todo %q: %v", spec.title, err)
		}
		if exists {
			skipped++
			continue
		}

		_, err = pool.Exec(ctx, `
			INSERT INTO todos (user_id, title, description, completed)
			VALUES ($1, $2, NULLIF($3, ''), $4)`,
			userID, spec.title, spec.description, spec.completed,
		)
		if err != nil {
			pool.Close()
			log.Fatalf("insert todo %q: %v", spec.title, err)
		}
		inserted++
	}

	pool.Close()

	fmt.Println("Seed complete")
	fmt.Println()
	fmt.Printf("  User:          %s / %s\n", seedUsername, seedPassword)
	fmt.Printf("  User ID:       %s\n", userID)
	fmt.Printf("  Todos created: %d  (skipped %d already existing)\n", inserted, skipped)
	fmt.Println()
	fmt.Println("How to test:")
	fmt.Println()
	fmt.Println("  Step 1 — log in:")
	fmt.Println()
	fmt.Printf("    curl -s -X POST http://localhost:8080/api/oauth/login \\\n")
	fmt.Printf("      -d 'username=%s&password=%s'\n", seedUsername, seedPassword)
	fmt.Println("    # → {\"access_token\":\"eyJ...\",\"refresh_token\":\"eyJ...\",...}")
	fmt.Println()
	fmt.Println("  Step 2 — list todos:")
	fmt.Println()
	fmt.Println("    export JWT=eyJ...")
	fmt.Println("    curl -s http://localhost:8080/api/todos -H \"Authorization: Bearer $JWT\"")
	fmt.Println()
	fmt.Println("  Step 3 — refresh the session:")
	fmt.Println()
	fmt.Println("    curl -s -X POST http://localhost:8080/api/oauth/token \\")
	fmt.Println("      -d 'grant_type=refresh_token&refresh_token=REFRESH'")
}
