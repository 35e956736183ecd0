package main

import (
	"strings"
	"time"

	"github.com/petshop-next/internal/app"
	"github.com/petshop-next/internal/authz"
	"github.com/petshop-next/internal/config"
	"github.com/petshop-next/internal/constants"
	"github.com/petshop-next/internal/logger"
	"github.com/petshop-next/internal/models"
	"github.com/petshop-next/internal/repository"
	"github.com/petshop-next/internal/service"

	"golang.org/x/crypto/bcrypt"
)

type seedUser struct {
	username string
	email    string
	password string
	roles    []string
}

type seedProduct struct {
	name        string
	slug        string
	description string
	price       string
	oldPrice    string
	stock       int
	sku         string
}

type seedPromo struct {
	code      string
	kind      string
	value     string
	maxUses   int
	validDays int
	expired   bool
}

var users = []seedUser{
	{username: "orders", email: "orders@petshop.local", password: "orders123", roles: []string{authz.RoleOrderManager}},
	{username: "marketing", email: "marketing@petshop.local", password: "marketing123", roles: []string{authz.RoleMarketing}},
	{username: "moderator", email: "moderator@petshop.local", password: "moderator123", roles: []string{authz.RoleModerator}},
	{username: "buyer", email: "buyer@petshop.local", password: "buyer123"},
}

var products = []seedProduct{
	{name: "Сухой корм для кошек 2 кг", slug: "cat-dry-food-2kg", description: "Полнорационный корм для взрослых кошек", price: "1290.00", oldPrice: "1490.00", stock: 40, sku: "CAT-FOOD-2"},
	{name: "Влажный корм для собак 400 г", slug: "dog-wet-food-400g", description: "Консервы с говядиной", price: "189.00", stock: 120, sku: "DOG-WET-400"},
	{name: "Поводок-рулетка 5 м", slug: "retractable-leash-5m", description: "Для собак до 25 кг", price: "990.00", stock: 15, sku: "LEASH-5M"},
	{name: "Когтеточка-столбик", slug: "cat-scratching-post", description: "Высота 60 см, сизаль", price: "1750.00", oldPrice: "1990.00", stock: 8, sku: "SCRATCH-60"},
	{name: "Наполнитель комкующийся 10 л", slug: "clumping-litter-10l", description: "Бентонит, без запаха", price: "640.00", stock: 3, sku: "LITTER-10"},
	{name: "Аквариум 30 л", slug: "aquarium-30l", description: "Стекло, крышка с подсветкой", price: "4500.00", stock: 0, sku: "AQUA-30"},
}

var promos = []seedPromo{
	{code: "WELCOME30", kind: constants.DiscountTypePercent, value: "30", maxUses: constants.UnlimitedUses, validDays: 365},
	{code: "MINUS500", kind: constants.DiscountTypeFixed, value: "500.00", maxUses: 100, validDays: 30},
	{code: "FIRSTONLY", kind: constants.DiscountTypePercent, value: "15", maxUses: 1},
	{code: "SUMMER2020", kind: constants.DiscountTypePercent, value: "20", maxUses: constants.UnlimitedUses, expired: true},
}

func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	roles, err := authz.NewService(models.DB)
	if err != nil {
		stdLog.Fatalf("Failed to init authz: %v", err)
	}
	if err := roles.BootstrapBuiltinRoles(); err != nil {
		stdLog.Fatalf("Failed to bootstrap roles: %v", err)
	}
	if _, err := app.EnsureDefaultAdmin(roles, "", ""); err != nil {
		stdLog.Printf("Failed to init default admin: %v", err)
	}

	userRepo := repository.NewUserRepository(models.DB)
	var buyerID uint
	for _, item := range users {
		id, err := ensureUser(userRepo, item)
		if err != nil {
			stdLog.Printf("Failed to create user %s: %v", item.email, err)
			continue
		}
		if len(item.roles) > 0 {
			if err := roles.SetUserRoles(id, item.roles); err != nil {
				stdLog.Printf("Failed to bind roles for %s: %v", item.email, err)
			}
		}
		if item.username == "buyer" {
			buyerID = id
		}
	}

	productRepo := repository.NewProductRepository(models.DB)
	productService := service.NewProductService(productRepo)
	for _, item := range products {
		existing, err := productRepo.GetBySlug(item.slug)
		if err != nil {
			stdLog.Printf("Failed to load product %s: %v", item.slug, err)
			continue
		}
		if existing != nil {
			stdLog.Printf("Product already exists: %s", item.slug)
			continue
		}
		input := service.CreateProductInput{
			Name:        item.name,
			Slug:        item.slug,
			Description: item.description,
			Price:       models.MustMoney(item.price),
			Stock:       item.stock,
			SKU:         item.sku,
		}
		if item.oldPrice != "" {
			old := models.MustMoney(item.oldPrice)
			input.OldPrice = &old
		}
		if _, err := productService.Create(input); err != nil {
			stdLog.Printf("Failed to create product %s: %v", item.slug, err)
			continue
		}
		stdLog.Printf("Created product: %s", item.slug)
	}

	promoAdmin := service.NewPromoAdminService(repository.NewPromoCodeRepository(models.DB))
	now := time.Now().UTC()
	for _, item := range promos {
		maxUses := item.maxUses
		input := service.PromoCodeInput{
			Code:          item.code,
			DiscountType:  item.kind,
			DiscountValue: models.MustMoney(item.value),
			ValidFrom:     &now,
			MaxUses:       &maxUses,
		}
		switch {
		case item.expired:
			from := now.AddDate(-1, 0, 0)
			until := now.AddDate(0, 0, -1)
			input.ValidFrom = &from
			input.ValidUntil = &until
		case item.validDays > 0:
			until := now.AddDate(0, 0, item.validDays)
			input.ValidUntil = &until
		}
		if _, err := promoAdmin.Create(input); err != nil {
			stdLog.Printf("Skip promo %s: %v", item.code, err)
			continue
		}
		stdLog.Printf("Created promo code: %s", item.code)
	}

	if buyerID != 0 {
		addressService := service.NewAddressService(
			repository.NewAddressRepository(models.DB),
			repository.NewOrderRepository(models.DB),
		)
		existing, err := addressService.List(buyerID)
		if err == nil && len(existing) == 0 {
			_, err = addressService.Create(buyerID, service.AddressInput{
				FullName:   "Иван Петров",
				Phone:      "+79990000000",
				Street:     "ул. Ленина, 1",
				City:       "Москва",
				PostalCode: "101000",
				Country:    "Russia",
				IsDefault:  true,
			})
		}
		if err != nil {
			stdLog.Printf("Failed to seed buyer address: %v", err)
		}
	}

	stdLog.Printf("Seed completed")
}

func ensureUser(repo repository.UserRepository, item seedUser) (uint, error) {
	email := strings.ToLower(item.email)
	existing, err := repo.GetByEmail(email)
	if err != nil {
		return 0, err
	}
	if existing != nil {
		return existing.ID, nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(item.password), bcrypt.DefaultCost)
	if err != nil {
		return 0, err
	}
	user := &models.User{
		Username:     item.username,
		Email:        email,
		PasswordHash: string(hash),
		IsVerified:   true,
		Status:       constants.UserStatusActive,
	}
	if err := repo.Create(user); err != nil {
		return 0, err
	}
	return user.ID, nil
}
