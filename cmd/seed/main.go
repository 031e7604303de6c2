package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"github.com/wishwell/wishwell-server/config"
	"github.com/wishwell/wishwell-server/internal/domain/entity"
	pginfra "github.com/wishwell/wishwell-server/internal/infrastructure/postgres"
	"github.com/wishwell/wishwell-server/pkg/helpers"
)

// Seeds a couple of demo accounts and a shared wishlist for local development.
func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer pool.Close()

	users := pginfra.NewUserRepository(pool)
	lists := pginfra.NewWishlistRepository(pool)

	alice := seedUser(ctx, users, "alice", "alice@example.com", "password123")
	bob := seedUser(ctx, users, "bob", "bob@example.com", "password123")

	w, err := entity.NewWishlist("Birthday ideas", "Things Alice would love", entity.TypeCollaborative, alice.ID)
	if err != nil {
		log.Fatalf("build wishlist: %v", err)
	}
	if err := w.AddCollaborator(bob.ID); err != nil {
		log.Fatalf("add collaborator: %v", err)
	}
	price := 59.90
	if _, err := w.AddItem("Espresso grinder", "Conical burr", &price, "https://example.com/grinder", bob.ID); err != nil {
		log.Fatalf("add item: %v", err)
	}
	if err := lists.Create(ctx, w); err != nil {
		log.Fatalf("create wishlist: %v", err)
	}

	log.Printf("seeded users alice=%s bob=%s wishlist=%s", alice.ID, bob.ID, w.ID)
}

func seedUser(ctx context.Context, repo *pginfra.UserRepository, username, email, password string) *entity.User {
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("hash: %v", err)
	}
	u := &entity.User{Username: username, Email: email, Password: hash}
	if err := repo.Create(ctx, u); err != nil {
		log.Fatalf("seed %s: %v", username, err)
	}
	return u
}
