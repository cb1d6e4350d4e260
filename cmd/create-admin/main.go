package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/brightpath/institute-api/internal/config"
	"github.com/brightpath/institute-api/internal/database"
	"github.com/brightpath/institute-api/internal/logger"
	"github.com/brightpath/institute-api/internal/model"
	"github.com/brightpath/institute-api/internal/repository"
	"github.com/brightpath/institute-api/internal/service"
	"github.com/brightpath/institute-api/internal/validator"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()

	// ─── Connect to MongoDB ────────────────────────────────────────────
	mongo, err := database.NewMongoClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	defer mongo.Close(ctx)

	// ─── Initialize Service ────────────────────────────────────────────
	adminService := service.NewAdminUserService(repository.NewAdminUserRepository(mongo.Database()), cfg.BcryptCost)

	// ─── CLI Input ─────────────────────────────────────────────────────
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("=== Create New Admin User ===")

	fmt.Print("Enter Name: ")
	name, _ := reader.ReadString('\n')
	name = strings.TrimSpace(name)

	fmt.Print("Enter Email: ")
	email, _ := reader.ReadString('\n')
	email = strings.TrimSpace(email)

	fmt.Print("Enter Password: ")
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		fmt.Println("\nError reading password")
		return
	}
	fmt.Println()

	fmt.Printf("Enter Role (%s, %s, %s; default %s): ",
		model.RoleSuperAdmin, model.RoleStaff, model.RoleDataEntry, model.RoleSuperAdmin)
	role, _ := reader.ReadString('\n')
	role = strings.TrimSpace(role)
	if role == "" {
		role = string(model.RoleSuperAdmin)
	}

	req := model.CreateAdminUserRequest{
		Name:     name,
		Email:    email,
		Password: string(bytePassword),
		Role:     model.AdminRole(role),
	}

	// Same rules as the HTTP endpoint.
	validator.Setup()
	if fields := validator.Struct(req); fields != nil {
		for field, msg := range fields {
			fmt.Printf("Error: %s %s\n", field, msg)
		}
		os.Exit(1)
	}

	// ─── Create Admin ──────────────────────────────────────────────────
	admin, err := adminService.Create(ctx, req)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create admin")
	}

	fmt.Printf("\nSuccess! Admin '%s' (%s) created with ID: %s\n", admin.Name, admin.Email, admin.ID.Hex())
}
