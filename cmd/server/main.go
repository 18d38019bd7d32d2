// Kassets - Multi-Company Asset Management
package main

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/kassets/kassets/internal/api"
	"github.com/kassets/kassets/internal/auth"
	"github.com/kassets/kassets/internal/config"
	"github.com/kassets/kassets/internal/models"
	"github.com/kassets/kassets/internal/observ"
	"github.com/kassets/kassets/internal/store"
)

var Version = "2.0.0"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "kassets: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// .env is optional, the environment wins either way
	_ = godotenv.Load()

	cfg := config.Load()

	log, err := observ.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer log.Sync()

	if len(os.Args) > 1 && os.Args[1] != "serve" {
		return runCLI(cfg, log)
	}

	return startServer(cfg, log)
}

func startServer(cfg *config.Config, log *zap.Logger) error {
	log.Info("starting", zap.String("version", Version), zap.String("env", cfg.Env))

	st, err := openStore(cfg, log)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	log.Info("store ready", zap.String("data_dir", cfg.DataDir))

	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.JWTExpiry)

	handler := api.NewHandler(st, jwtService, log)
	adminHandler := api.NewAdminHandler(st, log)
	authHandler := api.NewAuthHandler(st, jwtService, log)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.SetupRouter(handler, adminHandler, authHandler, cfg.CORSAllowedOrigins)

	log.Info("listening", zap.String("port", cfg.Port))
	return router.Run(":" + cfg.Port)
}

func openStore(cfg *config.Config, log *zap.Logger) (*store.Store, error) {
	return store.Open(store.Options{
		DataDir:            cfg.DataDir,
		Logger:             log,
		UseCounterIDs:      cfg.UseCounterIDs,
		SuperAdminPassword: cfg.SuperAdminPassword,
	})
}

// CLI
func runCLI(cfg *config.Config, log *zap.Logger) error {
	switch os.Args[1] {
	case "user":
		return runUserCmd(cfg, log)
	default:
		printUsage()
		return nil
	}
}

func printUsage() {
	fmt.Println(`Usage: kassets <command>
Commands:
  serve                                       Start server (default)
  user list                                   List users
  user create --username= --password= --role= --company= Create user
  user reset-password --username= --password= Reset a password`)
}

func runUserCmd(cfg *config.Config, log *zap.Logger) error {
	if len(os.Args) < 3 {
		printUsage()
		return nil
	}

	st, err := openStore(cfg, log)
	if err != nil {
		return err
	}

	switch os.Args[2] {
	case "list":
		for _, u := range st.GetAllUsers() {
			company := "-"
			if u.CompanyID != nil {
				company = fmt.Sprintf("%d", *u.CompanyID)
			}
			fmt.Printf("%-20s %-14s company=%s\n", u.Username, u.Role, company)
		}
		return nil

	case "create":
		username, password := getFlag("--username"), getFlag("--password")
		if username == "" || password == "" {
			printUsage()
			return nil
		}
		role := getFlag("--role")
		if role == "" {
			role = models.RoleViewer
		}
		var companyID *int
		if c := getFlag("--company"); c != "" {
			var id int
			if _, err := fmt.Sscanf(c, "%d", &id); err != nil {
				return fmt.Errorf("invalid --company: %q", c)
			}
			companyID = &id
		}
		hash, err := auth.HashPassword(password)
		if err != nil {
			return err
		}
		user, err := st.CreateUser(store.NewUser{
			Username:    username,
			Password:    hash,
			DisplayName: username,
			Role:        role,
			CompanyID:   companyID,
			IsActive:    true,
		})
		if err != nil {
			return err
		}
		fmt.Printf("User created: %s (id %d)\n", user.Username, user.ID)
		return nil

	case "reset-password":
		username, password := getFlag("--username"), getFlag("--password")
		if username == "" || password == "" {
			printUsage()
			return nil
		}
		user, err := st.GetUser(username)
		if err != nil {
			return err
		}
		hash, err := auth.HashPassword(password)
		if err != nil {
			return err
		}
		if err := st.UpdateUser(user.ID, models.UserUpdate{Password: &hash}); err != nil {
			return err
		}
		fmt.Printf("Password reset: %s\n", username)
		return nil

	default:
		printUsage()
		return nil
	}
}

func getFlag(name string) string {
	prefix := name + "="
	for _, arg := range os.Args {
		if len(arg) > len(prefix) && arg[:len(prefix)] == prefix {
			return arg[len(prefix):]
		}
	}
	return ""
}
