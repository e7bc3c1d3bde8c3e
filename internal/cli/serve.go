package cli

import (
	"fmt"
	"path/filepath"

	"github.com/amaumene/listahan/internal/api"
	"github.com/amaumene/listahan/internal/config"
	"github.com/amaumene/listahan/internal/controllers"
	"github.com/amaumene/listahan/internal/models"
	"github.com/amaumene/listahan/internal/scheduler"
	"github.com/amaumene/listahan/internal/services/sheets"
	"github.com/amaumene/listahan/internal/utils"
	"github.com/spf13/cobra"
)

// NewServeCmd creates the serve command.
// The server holds the local database lock, so other commands cannot run
// next to it; --user signs in as part of startup instead.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and connection monitor until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd)
		},
	}

	cmd.Flags().StringP("user", "u", "", "sign in as this user before serving")
	cmd.Flags().StringP("password", "p", "", "password for --user (prompted when omitted)")
	return cmd
}

func runServe(cmd *cobra.Command) error {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// 2. Setup logger
	logger := utils.NewLogger(cmd.OutOrStdout(), cfg.LogLevel, cfg.LogFormat)
	logger.Info("Starting Listahan")
	logger.WithField("config_dir", filepath.Dir(cfg.DatabaseFile)).Info("Configuration loaded")

	// 3. Initialize local cache
	db, err := models.NewDatabase(cfg.DatabaseFile)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()
	logger.Info("Database initialized")

	// 4. Initialize remote store client
	client, err := sheets.NewClient(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize remote store client: %w", err)
	}

	// 5. Initialize controllers and sign in
	syncCtrl := controllers.NewSyncController(client, db, logger)
	authCtrl := controllers.NewAuthController(client, db, logger)

	if userID, _ := cmd.Flags().GetString("user"); userID != "" {
		password, err := passwordFlagOrPrompt(cmd, newSecretReader(cmd))
		if err != nil {
			return err
		}
		if err := authCtrl.Login(cmd.Context(), userID, password); err != nil {
			return fmt.Errorf("failed to sign in: %w", err)
		}
	}

	user, err := authCtrl.CurrentUser()
	if err != nil {
		return fmt.Errorf("failed to read session: %w", err)
	}
	if user == "" {
		logger.Warn("No user logged in, restart with --user; entry routes will answer 401")
	} else {
		logger.WithField("user_id", user).Info("Serving entries")
	}

	// 6. Start connection monitor
	monitor := scheduler.NewMonitor(client, cfg.MonitorSchedule, logger)
	if err := monitor.Start(); err != nil {
		return fmt.Errorf("failed to start connection monitor: %w", err)
	}
	defer monitor.Stop()

	// 7. Serve until the command context is cancelled
	server := api.NewServer(cfg, syncCtrl, monitor, logger)
	logger.Info("Listahan is running")

	if err := server.Start(cmd.Context()); err != nil {
		return err
	}

	logger.Info("Listahan stopped")
	return nil
}
