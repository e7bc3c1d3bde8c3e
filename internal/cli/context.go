package cli

import (
	"fmt"

	"github.com/amaumene/listahan/internal/config"
	"github.com/amaumene/listahan/internal/controllers"
	"github.com/amaumene/listahan/internal/models"
	"github.com/amaumene/listahan/internal/services/sheets"
	"github.com/amaumene/listahan/internal/utils"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// CommandContext holds everything a command needs, built once per invocation
type CommandContext struct {
	Config   *config.Config
	Logger   *logrus.Logger
	DB       *models.Database
	Client   *sheets.Client
	Sync     *controllers.SyncController
	Auth     *controllers.AuthController
	JSONMode bool
}

// GetContext loads configuration and opens the local cache. Callers must
// Close the returned context.
func GetContext(cmd *cobra.Command) (*CommandContext, error) {
	jsonMode, _ := cmd.Flags().GetBool("json")
	verbose, _ := cmd.Flags().GetBool("verbose")

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	// Logs go to stderr so they never mix with command output. Only
	// warnings are shown unless --verbose is set.
	level := "warn"
	if verbose {
		level = "debug"
	}
	logger := utils.NewLogger(cmd.ErrOrStderr(), level, cfg.LogFormat)

	db, err := models.NewDatabase(cfg.DatabaseFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open local cache: %w", err)
	}

	client, err := sheets.NewClient(cfg, logger)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize remote store client: %w", err)
	}

	return &CommandContext{
		Config:   cfg,
		Logger:   logger,
		DB:       db,
		Client:   client,
		Sync:     controllers.NewSyncController(client, db, logger),
		Auth:     controllers.NewAuthController(client, db, logger),
		JSONMode: jsonMode,
	}, nil
}

// Close releases the local cache
func (c *CommandContext) Close() error {
	return c.DB.Close()
}
