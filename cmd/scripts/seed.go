package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spinmate/wheel-backend/internal/models"
	mongorepo "github.com/spinmate/wheel-backend/internal/repositories/mongodb"
	"github.com/spinmate/wheel-backend/internal/utils"
	"github.com/spinmate/wheel-backend/pkg/mongodb"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// Seeds the default tenant with a starter wheel and an admin user.
// Usage: go run ./cmd/scripts
func main() {
	// Load .env file
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	mongoURI := os.Getenv("MONGODB_URI")
	if mongoURI == "" {
		mongoURI = "mongodb://localhost:27017"
	}

	dbName := os.Getenv("MONGODB_DATABASE")
	if dbName == "" {
		dbName = "spinmate"
	}

	tenantID := os.Getenv("TENANT_ID")
	if tenantID == "" {
		tenantID = "default"
	}

	client, err := mongodb.NewClient(mongoURI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(context.Background())

	db := client.Database(dbName)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	seedWheel(ctx, db, tenantID)
	seedAdmin(ctx, db)
}

func seedWheel(ctx context.Context, db *mongo.Database, tenantID string) {
	wheelRepo := mongorepo.NewWheelRepository(db)

	existing, err := wheelRepo.FindByTenant(ctx, tenantID)
	if err != nil {
		log.Fatalf("Failed to read wheel: %v", err)
	}
	if len(existing) > 0 {
		log.Printf("Wheel for tenant %q already has %d items, skipping", tenantID, len(existing))
		return
	}

	items := []*models.WheelItem{
		{TenantID: tenantID, Label: "10% discount", Weight: 40},
		{TenantID: tenantID, Label: "Free consultation", Weight: 25},
		{TenantID: tenantID, Label: "Free delivery", Weight: 20},
		{TenantID: tenantID, Label: "Gift box", Weight: 10},
		{TenantID: tenantID, Label: "Grand prize", Weight: 5},
	}
	if err := wheelRepo.ReplaceAll(ctx, tenantID, items); err != nil {
		log.Fatalf("Failed to seed wheel: %v", err)
	}
	log.Printf("Seeded %d wheel items for tenant %q", len(items), tenantID)
}

func seedAdmin(ctx context.Context, db *mongo.Database) {
	adminRepo := mongorepo.NewAdminUserRepository(db)

	email := os.Getenv("ADMIN_EMAIL")
	if email == "" {
		email = "admin@spinmate.local"
	}

	if _, err := adminRepo.FindByEmail(ctx, email); err == nil {
		log.Printf("Admin user %q already exists, skipping", email)
		return
	} else if err != mongo.ErrNoDocuments {
		log.Fatalf("Failed to look up admin user: %v", err)
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		generated, err := utils.GenerateRandomString(12)
		if err != nil {
			log.Fatalf("Failed to generate password: %v", err)
		}
		password = generated
		log.Printf("Generated admin password: %s", password)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	admin := &models.AdminUser{
		Email:    email,
		Password: string(hash),
		Role:     "admin",
	}
	if err := adminRepo.Create(ctx, admin); err != nil {
		log.Fatalf("Failed to create admin user: %v", err)
	}
	log.Printf("Created admin user %q", email)
}
