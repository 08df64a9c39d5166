package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/alifhakimiazwan/RateMyCitra/internal/models"
	"github.com/alifhakimiazwan/RateMyCitra/internal/repository"
	"github.com/alifhakimiazwan/RateMyCitra/internal/service"
	"github.com/alifhakimiazwan/RateMyCitra/migrations"
	"github.com/alifhakimiazwan/RateMyCitra/pkg/cache"
	"github.com/alifhakimiazwan/RateMyCitra/pkg/config"
	"github.com/alifhakimiazwan/RateMyCitra/pkg/database"
)

type appContext struct {
	cfg    *config.Config
	logger *zap.Logger
}

func (a *appContext) openDB(ctx context.Context) (*sqlx.DB, error) {
	if a.cfg.Database.URL == "" {
		return nil, config.ErrMissingDatabaseURL
	}
	db, err := database.NewPostgres(ctx, a.cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	return db, nil
}

func newImportCommand(app *appContext) *cli.Command {
	return &cli.Command{
		Name:        "import",
		Usage:       "Bulk insert citras from a CSV file",
		Description: "The file needs name, courseCode, citraType and faculty columns in any order. The whole file is inserted in one transaction.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "file",
				Usage:    "The CSV file to import.",
				Required: true,
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Parse and validate the file without inserting anything.",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			path := c.String("file")
			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("open file: %w", err)
			}
			defer f.Close()

			citras, err := readCitras(f)
			if err != nil {
				return fmt.Errorf("parse %s: %w", path, err)
			}
			app.logger.Info("citras parsed", zap.String("file", path), zap.Int("count", len(citras)))
			if c.Bool("dry-run") {
				fmt.Printf("%d citras would be imported from %q\n", len(citras), path)
				return nil
			}

			db, err := app.openDB(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			svc := service.NewCitraService(repository.NewCitraRepository(db), repository.NewRatingRepository(db), service.CitraServiceConfig{Logger: app.logger})
			listings, closeCache := app.openCache(ctx)
			defer closeCache()

			inserted, err := importCitras(ctx, svc, listings, citras, app.logger)
			if err != nil {
				return err
			}
			fmt.Printf("✅ %d citras imported from %q\n", inserted, path)
			return nil
		},
	}
}

// openCache returns the listing cache of a running API so imports can clear
// it. A nil cache means caching is off or Redis is unreachable.
func (a *appContext) openCache(ctx context.Context) (listingCache, func()) {
	if !a.cfg.Cache.Enabled {
		return nil, func() {}
	}
	client, err := cache.NewRedis(ctx, a.cfg.Redis)
	if err != nil {
		a.logger.Warn("redis unavailable, cached listings expire after their ttl", zap.Error(err))
		return nil, func() {}
	}
	repo := repository.NewCacheRepository(client, a.logger)
	return repo, func() { _ = repo.Close() }
}

func newMigrateCommand(app *appContext) *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Apply pending database migrations",
		Action: func(ctx context.Context, c *cli.Command) error {
			db, err := app.openDB(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := database.Migrate(ctx, db, migrations.FS, app.logger); err != nil {
				return err
			}
			fmt.Println("✅ Migration complete!")
			return nil
		},
	}
}

func newIssueTokenCommand(app *appContext) *cli.Command {
	return &cli.Command{
		Name:        "issue-token",
		Usage:       "Sign a bearer token for local testing",
		Description: "Signs a token with JWT_SECRET so the write endpoints can be exercised without the identity provider.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "user",
				Usage:    "Subject (user id) of the token.",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "role",
				Usage: "STUDENT or ADMIN.",
				Value: string(models.RoleStudent),
			},
			&cli.DurationFlag{
				Name:  "ttl",
				Usage: "Token lifetime.",
				Value: time.Hour,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			role, err := parseRole(c.String("role"))
			if err != nil {
				return err
			}
			auth := service.NewAuthService(service.AuthConfig{Secret: app.cfg.JWT.Secret, Issuer: app.cfg.JWT.Issuer}, app.logger)
			token, err := auth.IssueToken(c.String("user"), role, c.Duration("ttl"))
			if err != nil {
				return err
			}
			fmt.Println(token)
			return nil
		},
	}
}

func newRootCommand(subcommands ...*cli.Command) *cli.Command {
	return &cli.Command{
		Name:     "citra-cli",
		Usage:    "Maintenance tasks for the RateMyCitra API.",
		Commands: subcommands,
	}
}
