// Package main provides a CLI tool for seeding the database with initial data.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"domus/internal/app"
	"domus/internal/core/config"
	"domus/internal/core/id"
	"domus/internal/domain/auth"
	"domus/internal/domain/catalogs/apartment"
	"domus/internal/domain/catalogs/building"
	"domus/internal/domain/catalogs/paymentmethod"
	"domus/internal/domain/catalogs/resident"
	"domus/internal/domain/fees/monthlyfee"
	"domus/internal/infrastructure/storage/postgres"
	"domus/pkg/logger"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := logger.WithLogger(context.Background(), log)

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(dbURL))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	if err := seedSystemRoles(ctx, pool, log); err != nil {
		log.Fatalw("failed to seed system roles", "error", err)
	}

	if err := seedAdminUser(ctx, pool, log); err != nil {
		log.Fatalw("failed to seed admin user", "error", err)
	}

	if os.Getenv("SEED_DEMO_DATA") == "true" {
		if err := seedDemoData(ctx, pool, log); err != nil {
			log.Fatalw("failed to seed demo data", "error", err)
		}
	}

	log.Info("seeding completed successfully")
}

func seedSystemRoles(ctx context.Context, pool *postgres.Pool, log *logger.Logger) error {
	for _, sr := range auth.SystemRoles() {
		role := auth.NewRole(sr.Code, sr.Name, sr.Permissions)
		role.Description = sr.Description
		role.IsSystem = true

		tag, err := pool.Pool.Exec(ctx, `
			INSERT INTO roles (id, code, name, description, permissions, is_system, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, true, $6, $7)
			ON CONFLICT (code) DO UPDATE SET
				name = EXCLUDED.name,
				description = EXCLUDED.description,
				permissions = EXCLUDED.permissions,
				updated_at = now()
		`, role.ID, role.Code, role.Name, role.Description, role.Permissions,
			role.CreatedAt, role.UpdatedAt)
		if err != nil {
			return fmt.Errorf("seed role %s: %w", sr.Code, err)
		}
		if tag.RowsAffected() > 0 {
			log.Infow("role seeded", "code", sr.Code)
		}
	}
	return nil
}

func seedAdminUser(ctx context.Context, pool *postgres.Pool, log *logger.Logger) error {
	adminEmail := os.Getenv("ADMIN_EMAIL")
	if adminEmail == "" {
		adminEmail = "admin@domus.local"
	}

	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "Admin123!"
	}

	var existingID id.ID
	err := pool.Pool.QueryRow(ctx,
		`SELECT id FROM users WHERE email = $1`, adminEmail,
	).Scan(&existingID)
	if err == nil {
		log.Infow("admin user already exists", "email", adminEmail, "user_id", existingID)
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("check admin exists: %w", err)
	}

	var adminRoleID id.ID
	if err := pool.Pool.QueryRow(ctx,
		`SELECT id FROM roles WHERE code = 'admin'`,
	).Scan(&adminRoleID); err != nil {
		return fmt.Errorf("admin role not found: %w", err)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user := auth.NewUser(adminEmail, string(passwordHash), adminRoleID)
	user.Name = "System"
	user.Surname = "Admin"

	_, err = pool.Pool.Exec(ctx, `
		INSERT INTO users (
			id, email, password_hash, name, surname, phone,
			role_id, resident_id, status, building_access, is_using_mobile_app,
			created_at, updated_at, version
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`, user.ID, user.Email, user.PasswordHash, user.Name, user.Surname, user.Phone,
		user.RoleID, user.ResidentID, user.Status, user.BuildingAccess, user.IsUsingMobileApp,
		user.CreatedAt, user.UpdatedAt, user.Version)
	if err != nil {
		return fmt.Errorf("insert admin user: %w", err)
	}

	log.Infow("admin user created", "email", adminEmail, "user_id", user.ID)
	return nil
}

// seedDemoData goes through the service layer rather than raw SQL so the
// usual side effects fire: building codes get numbered, the main cash
// inventory is created, fee allocations are computed.
func seedDemoData(ctx context.Context, pool *postgres.Pool, log *logger.Logger) error {
	log.Info("seeding demo data...")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	services, err := app.Build(pool, cfg)
	if err != nil {
		return fmt.Errorf("build services: %w", err)
	}

	b := building.New("Sunrise Residence", building.TypeResidential)
	b.City = "Varna"
	b.Street = "Harbour Street"
	b.Number = "12"
	if err := services.Buildings.Create(ctx, b); err != nil {
		return fmt.Errorf("create demo building: %w", err)
	}
	log.Infow("demo building created", "building_id", b.ID, "code", b.Code)

	apartments := []struct {
		number     string
		residents  int
		quadrature float64
	}{
		{"1", 2, 64.5},
		{"2", 1, 48.0},
		{"3", 4, 92.3},
	}

	var firstApartment *apartment.Apartment
	for _, a := range apartments {
		apt := apartment.New(b.ID, a.number, apartment.TypeApartment)
		apt.Quadrature = a.quadrature
		if err := services.Apartments.Create(ctx, apt); err != nil {
			return fmt.Errorf("create demo apartment %s: %w", a.number, err)
		}
		if firstApartment == nil {
			firstApartment = apt
		}
	}

	if firstApartment != nil {
		r := resident.New(firstApartment.ID, "Maria", "Petrova", resident.RoleOwner)
		r.IsMainContact = true
		if err := services.Residents.Create(ctx, r); err != nil {
			return fmt.Errorf("create demo resident: %w", err)
		}
	}

	methods := []struct {
		name string
		kind paymentmethod.Kind
	}{
		{"Cash desk", paymentmethod.KindCash},
		{"Bank transfer", paymentmethod.KindBank},
	}
	for _, m := range methods {
		pm := paymentmethod.New(m.name, m.kind)
		if err := services.PaymentMethods.Create(ctx, pm); err != nil {
			return fmt.Errorf("create payment method %s: %w", m.name, err)
		}
	}

	fee := monthlyfee.New(b.ID, "General maintenance",
		monthlyfee.BasisApartment, monthlyfee.ModePerUnit, decimal.NewFromInt(40))
	if err := services.Fees.Create(ctx, fee); err != nil {
		return fmt.Errorf("create demo fee: %w", err)
	}

	log.Info("demo data seeded successfully")
	return nil
}
