package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"review-catalog/internal/data/migrations"
	"review-catalog/internal/data/repository"
	"review-catalog/internal/usecase"
	"review-catalog/internal/wire"
	"review-catalog/pkg/database"
	"review-catalog/pkg/mailer"
	"review-catalog/pkg/token"
	"review-catalog/pkg/utils"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"
)

// CLI is the command line of the review-catalog binary.
type CLI struct {
	Serve           ServeCmd           `cmd:"" default:"1" help:"Run the HTTP API (default)."`
	Migrate         MigrateCmd         `cmd:"" help:"Apply or roll back the database schema."`
	CreateSuperuser CreateSuperuserCmd `cmd:"" name:"create-superuser" help:"Create an admin account with the superuser flag."`
}

// Runtime is shared by every command.
type Runtime struct {
	Config *utils.Config
	Logger *zap.Logger
}

type ServeCmd struct {
	NoMigrate bool `help:"Skip applying migrations on startup."`
}

func (c *ServeCmd) Run(rt *Runtime) error {
	config, logger := rt.Config, rt.Logger

	if config.JWT.Secret == "" {
		return errors.New("JWT_SECRET must be set")
	}

	if config.App.AutoMigrate && !c.NoMigrate {
		version, err := database.Migrate(config.Database, migrations.FS, database.MigrateUp)
		if err != nil {
			return err
		}
		logger.Info("Schema up to date", zap.Uint("version", version))
	}

	db, err := database.InitDB(config.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	repos := repository.NewRepository(db, logger)
	app := wire.Wiring(repos, db, mailer.New(config.Email, logger), config, logger)

	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))
	return APIServer(app.Router, config.App.Port, logger)
}

type MigrateCmd struct {
	Direction string `arg:"" optional:"" enum:"up,down" default:"up" help:"up or down."`
}

func (c *MigrateCmd) Run(rt *Runtime) error {
	version, err := database.Migrate(rt.Config.Database, migrations.FS, database.MigrateDirection(c.Direction))
	if err != nil {
		return err
	}

	rt.Logger.Info("Migration finished",
		zap.String("direction", c.Direction),
		zap.Uint("version", version),
	)
	return nil
}

type CreateSuperuserCmd struct {
	Username string `arg:"" help:"Account username."`
	Email    string `arg:"" help:"Address the confirmation code is sent to."`
}

func (c *CreateSuperuserCmd) Run(rt *Runtime) error {
	config, logger := rt.Config, rt.Logger

	db, err := database.InitDB(config.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	tokens := token.NewManager(config.JWT.Secret, time.Duration(config.JWT.ExpiryHours)*time.Hour)
	service := usecase.NewService(repository.NewRepository(db, logger), config, mailer.New(config.Email, logger), tokens, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	user, err := service.User.CreateSuperuser(ctx, c.Username, c.Email)
	if err != nil {
		var verr *usecase.ValidationError
		if errors.As(err, &verr) {
			return fmt.Errorf("invalid superuser: %s", utils.FormatValidationErrors(verr.Fields))
		}
		return err
	}

	fmt.Printf("Superuser %s created. Exchange the code mailed to %s at /api/v1/auth/token/.\n", user.Username, user.Email)
	return nil
}

// Execute parses the command line and runs the selected command.
func Execute() error {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("review-catalog"),
		kong.Description("Catalog of titles with user reviews and comments."),
		kong.UsageOnError(),
	)

	config, err := utils.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("command", kctx.Command()),
		zap.Bool("debug", config.App.Debug),
	)

	return kctx.Run(&Runtime{Config: config, Logger: logger})
}
