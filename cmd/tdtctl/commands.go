package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/noah-isme/tdt-go-api/internal/config"
	"github.com/noah-isme/tdt-go-api/internal/database"
	"github.com/noah-isme/tdt-go-api/internal/models"
	"github.com/noah-isme/tdt-go-api/internal/repository"
)

func openDatabase() (*gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return database.Connect(cfg.DatabaseDriver, cfg.DatabaseURL)
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDatabase()
			if err != nil {
				return err
			}
			if err := database.Migrate(db); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema migrated")
			return nil
		},
	}
}

func createAdminCmd() *cobra.Command {
	var username, email, password string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an admin account or promote an existing user",
		Long: `Create an admin account, or promote and reactivate the user with the given username.

Examples:
  tdtctl create-admin --username root --email root@example.com --password s3cret!`,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDatabase()
			if err != nil {
				return err
			}
			if err := database.Migrate(db); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			user, created, err := ensureAdmin(cmd.Context(), repository.NewUserRepository(db), username, email, password)
			if err != nil {
				return err
			}
			if created {
				fmt.Fprintf(cmd.OutOrStdout(), "admin %q created (id %d)\n", user.Username, user.ID)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "user %q promoted to admin\n", user.Username)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "admin username")
	cmd.Flags().StringVarP(&email, "email", "e", "", "admin email, required when creating")
	cmd.Flags().StringVarP(&password, "password", "p", "", "admin password, required when creating")
	_ = cmd.MarkFlagRequired("username")

	return cmd
}

// ensureAdmin promotes username to admin, creating the account when it does not exist.
// A non-empty password replaces the stored one on promotion.
func ensureAdmin(ctx context.Context, users repository.UserRepository, username, email, password string) (models.User, bool, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return models.User{}, false, errors.New("username is required")
	}
	if password != "" && len(password) < 6 {
		return models.User{}, false, errors.New("password must be at least 6 characters")
	}

	user, err := users.GetByUsername(ctx, username)
	switch {
	case err == nil:
		user.Role = models.RoleAdmin
		user.IsActive = true
		if password != "" {
			if err := user.SetPassword(password); err != nil {
				return models.User{}, false, err
			}
		}
		if err := users.Update(ctx, &user); err != nil {
			return models.User{}, false, fmt.Errorf("failed to promote user: %w", err)
		}
		return user, false, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return models.User{}, false, err
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return models.User{}, false, errors.New("email and password are required for a new admin")
	}

	user = models.User{
		Username: username,
		Email:    email,
		IsActive: true,
		Role:     models.RoleAdmin,
	}
	if err := user.SetPassword(password); err != nil {
		return models.User{}, false, err
	}
	if err := users.Create(ctx, &user); err != nil {
		return models.User{}, false, fmt.Errorf("failed to create admin: %w", err)
	}
	return user, true, nil
}
