// Package main содержит административные команды.
//
//	admin createsuperuser -email root@example.com -password secret
//	admin addmoderator -email user@example.com
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/magabrotheeeer/course-platform/internal/app/admin"
	"github.com/magabrotheeeer/course-platform/internal/config"
	"github.com/magabrotheeeer/course-platform/internal/lib/sl"
	"github.com/magabrotheeeer/course-platform/internal/migrations"
	"github.com/magabrotheeeer/course-platform/internal/storage/repository"
)

func main() {
	if len(os.Args) < 2 {
		usage()
	}

	cfg := config.MustLoad()
	logger := sl.New(os.Stdout, cfg.IsDebug())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := repository.New(ctx, cfg.StorageConnectionString)
	if err != nil {
		logger.Error("failed to connect storage", sl.Err(err))
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	if err := migrations.Run(db.DB(), cfg.MigrationsPath); err != nil {
		logger.Error("failed to apply migrations", sl.Err(err))
		os.Exit(1)
	}

	svc := admin.NewService(db, logger)

	switch os.Args[1] {
	case "createsuperuser":
		fs := flag.NewFlagSet("createsuperuser", flag.ExitOnError)
		email := fs.String("email", "", "superuser email")
		pass := fs.String("password", "", "superuser password")
		_ = fs.Parse(os.Args[2:])
		if _, err := svc.CreateSuperuser(ctx, *email, *pass); err != nil {
			logger.Error("failed to create superuser", sl.Err(err))
			os.Exit(1)
		}
	case "addmoderator":
		fs := flag.NewFlagSet("addmoderator", flag.ExitOnError)
		email := fs.String("email", "", "user email")
		_ = fs.Parse(os.Args[2:])
		if err := svc.AddModerator(ctx, *email); err != nil {
			logger.Error("failed to add moderator", sl.Err(err))
			os.Exit(1)
		}
	default:
		usage()
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: admin createsuperuser -email E -password P | admin addmoderator -email E")
	os.Exit(2)
}
