package main

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/coursehub/user-service/config"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	seedUser(db, "admin@coursehub.dev", "Ada", "Admin", "admin", "active")
	seedUser(db, "instructor@coursehub.dev", "Ines", "Instructor", "instructor", "verified")
	studentID := seedUser(db, "student@coursehub.dev", "Sam", "Student", "student", "verified")

	cartID := uuid.NewString()
	if _, err := db.Exec(`
		INSERT INTO carts (id, user_id) VALUES ($1, $2)
		ON CONFLICT (user_id) DO NOTHING
	`, cartID, studentID); err != nil {
		log.Fatalf("failed to seed cart: %v", err)
	}
	wishlistID := uuid.NewString()
	if _, err := db.Exec(`
		INSERT INTO wishlists (id, user_id) VALUES ($1, $2)
		ON CONFLICT (user_id) DO NOTHING
	`, wishlistID, studentID); err != nil {
		log.Fatalf("failed to seed wishlist: %v", err)
	}

	fmt.Println("seed complete")
}

func seedUser(db *sql.DB, email, first, last, role, status string) string {
	var id string
	err := db.QueryRow(`
		INSERT INTO users (id, email, role, status, first_name, last_name)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (email) DO UPDATE SET role = EXCLUDED.role, status = EXCLUDED.status
		RETURNING id
	`, uuid.NewString(), email, role, status, first, last).Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed user %s: %v", email, err)
	}
	fmt.Printf("seeded user: id=%s email=%s role=%s\n", id, email, role)
	return id
}
