package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"hotel-booking-api/internal/app"
	"hotel-booking-api/internal/core/config"
	"hotel-booking-api/internal/repo"
	"hotel-booking-api/internal/service"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "hotelctl",
	Short:         "Operational commands for the hotel booking backend",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update database tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load(configPath)
		log, cleanup := app.NewLogger(cfg)
		defer cleanup()

		db, err := app.OpenDB(cfg, log)
		if err != nil {
			return fmt.Errorf("open db: %w", err)
		}
		if err := repo.AutoMigrate(db.WithContext(cmd.Context())); err != nil {
			return fmt.Errorf("automigrate: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "migrate done")
		return nil
	},
}

var admin service.SignupInput

// 注册接口只会建 CUSTOMER，第一个管理员只能从这里建
var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an ADMIN user",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load(configPath)
		log, cleanup := app.NewLogger(cfg)
		defer cleanup()

		db, err := app.OpenDB(cfg, log)
		if err != nil {
			return fmt.Errorf("open db: %w", err)
		}
		if err := repo.AutoMigrate(db.WithContext(cmd.Context())); err != nil {
			return fmt.Errorf("automigrate: %w", err)
		}
		svc := service.NewAuthService(repo.NewStore(db), app.NewJWTer(cfg), log)
		u, err := svc.CreateAdmin(cmd.Context(), admin)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "admin created: id=%s email=%s\n", u.ID, u.Email)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default $CONFIG_PATH or ./configs/config.local.yaml)")

	f := createAdminCmd.Flags()
	f.StringVar(&admin.Email, "email", "", "admin email")
	f.StringVar(&admin.Password, "password", "", "admin password")
	f.StringVar(&admin.FirstName, "first-name", "Admin", "first name")
	f.StringVar(&admin.LastName, "last-name", "User", "last name")
	_ = createAdminCmd.MarkFlagRequired("email")
	_ = createAdminCmd.MarkFlagRequired("password")

	rootCmd.AddCommand(migrateCmd, createAdminCmd)
}

func main() {
	_ = godotenv.Load()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
