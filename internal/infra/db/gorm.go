package db

import (
	"fmt"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect はPostgresに接続して *gorm.DB を返す。
// DATABASE_URLが設定されていればそれを使い、なければ個別のPOSTGRES_*から組み立てる。
func Connect() (*gorm.DB, error) {
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)}

	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		return gorm.Open(postgres.Open(dsn), cfg)
	}

	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		envOr("POSTGRES_HOST", "localhost"),
		envOr("POSTGRES_PORT", "5432"),
		envOr("POSTGRES_USER", "postgres"),
		envOr("POSTGRES_PASSWORD", "postgres"),
		envOr("POSTGRES_DB", "storefront"),
		envOr("POSTGRES_SSLMODE", "disable"),
		envOr("POSTGRES_TIMEZONE", "Asia/Jakarta"),
	)
	return gorm.Open(postgres.Open(dsn), cfg)
}

func envOr(key string, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
