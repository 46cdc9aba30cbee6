// Точка входа сервиса редактора блога: конфигурация, подключение к базе, миграция и запуск HTTP серверов.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/true1ck/blog-editor/internal/blog"
	"github.com/true1ck/blog-editor/internal/blog/config"
	"github.com/true1ck/blog-editor/internal/blog/dao"
	"github.com/true1ck/blog-editor/internal/blog/gormlogger"
)

var version string = "DEV"

// Пример запуска: go run ./cmd/blog --trace --noMigration
func main() {
	noTranslateFlag := flag.Bool("noTranslate", false, "Turn off BD errors translate")
	paramQueries := flag.Bool("paramQueries", true, "Mask queries params in log")
	noMigration := flag.Bool("noMigration", false, "Turn off DB migration")
	trace := flag.Bool("trace", false, "Verbose logs and sql trace")
	flag.Parse()

	if *trace {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	// Set prod log format
	if version != "DEV" {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{})))
	}

	slog.Info("Blog editor start", "version", version)

	cfg, err := config.ReadConfig()
	if err != nil {
		slog.Error("Read config", "err", err)
		os.Exit(1)
	}

	dialector, err := openDialector(cfg)
	if err != nil {
		slog.Error("Database is not configured", "err", err)
		os.Exit(1)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: !*noTranslateFlag,
		Logger:         gormlogger.NewGormLogger(slog.Default(), time.Second*4, *paramQueries),
	})
	if err != nil {
		slog.Error("Fail init DB connection", "err", err)
		os.Exit(1)
	}

	sqlDB, err := db.DB()
	if err != nil {
		slog.Error("Fail set settings to conn pool", "err", err)
		os.Exit(1)
	}
	if cfg.DatabaseDSN != "" {
		sqlDB.SetMaxOpenConns(50)
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetConnMaxLifetime(time.Hour)
		sqlDB.SetConnMaxIdleTime(time.Minute * 15)
	} else {
		sqlDB.SetMaxOpenConns(1)
	}

	if !*noMigration {
		slog.Info("Migrate models")
		if err := dao.Migrate(db); err != nil {
			slog.Error("Migration failed", "err", err)
			os.Exit(1)
		}
	}

	services, err := blog.NewServices(db, cfg, version)
	if err != nil {
		slog.Error("Init services", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := services.Run(ctx); err != nil {
		slog.Error("Server fail", "err", err)
		os.Exit(1)
	}
	slog.Info("Blog editor stopped")
}

// openDialector выбирает Postgres по DATABASE_URL, иначе файл SQLite из SQLITE_PATH.
func openDialector(cfg *config.Config) (gorm.Dialector, error) {
	switch {
	case cfg.DatabaseDSN != "":
		return postgres.New(postgres.Config{
			DSN:                  cfg.DatabaseDSN,
			PreferSimpleProtocol: false, // disables implicit prepared statement usage
		}), nil
	case cfg.SQLitePath != "":
		slog.Warn("Using SQLite storage", "path", cfg.SQLitePath)
		return sqlite.Open(cfg.SQLitePath), nil
	case version == "DEV":
		slog.Warn("Using SQLite storage", "path", "blog.db")
		return sqlite.Open("blog.db"), nil
	}
	return nil, fmt.Errorf("DATABASE_URL or SQLITE_PATH is required")
}
