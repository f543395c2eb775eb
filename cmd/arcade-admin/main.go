package main

import (
	"context"
	"errors"
	"log"
	"os"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/arcade-hub-api/internal/repository"
	"github.com/noah-isme/arcade-hub-api/internal/service"
	"github.com/noah-isme/arcade-hub-api/pkg/config"
	"github.com/noah-isme/arcade-hub-api/pkg/database"
	"github.com/noah-isme/arcade-hub-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg, "admin-cli")
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx := context.Background()

	db, err := database.NewPostgres(ctx, cfg.Database, cfg.Store.Driver)
	if err != nil {
		log.Fatalf("failed to connect postgres: %v", err)
	}
	defer db.Close()

	stores, err := repository.OpenStores(ctx, cfg, db, logr)
	if err != nil {
		log.Fatalf("failed to open content store: %v", err)
	}
	defer stores.Close(ctx) //nolint:errcheck

	validate := validator.New()
	authSvc := service.NewAuthService(repository.NewUserRepository(db), validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             cfg.JWT.Issuer,
	})
	// no notifier: nothing is subscribed to this process
	contentSvc := service.NewContentService(stores.Content, validate, nil, logr)
	statusSvc := service.NewStatusService(contentSvc, nil, nil, service.StatusConfig{Location: cfg.Venue.Location}, logr)

	cli := &commandLine{
		users:  authSvc,
		seeder: contentSvc,
		status: statusSvc,
		out:    os.Stdout,
		now:    time.Now,
	}
	if err := cli.run(ctx, os.Args); err != nil {
		if errors.Is(err, errHelp) {
			os.Exit(2)
		}
		log.Fatal(err)
	}
}
