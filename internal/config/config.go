// Package config loads serve-mode settings from the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

type Config struct {
	DBPath      string // SHADOWGATE_DB_PATH (default ~/.shadowgate/gates.db)
	DatabaseURL string // SHADOWGATE_DATABASE_URL (optional, switches to Postgres)
	HTTPAddr    string // SHADOWGATE_HTTP_ADDR (default ":8080")
	NATSURL     string // SHADOWGATE_NATS_URL (optional, empty = in-process bus)
	UpstreamURL string // SHADOWGATE_UPSTREAM_URL (required for serve)

	// Backup settings
	BackupInterval   time.Duration // SHADOWGATE_BACKUP_INTERVAL (default 3m; 0 = disabled)
	BackupS3Bucket   string        // SHADOWGATE_BACKUP_S3_BUCKET (enables S3 when set)
	BackupS3Endpoint string        // SHADOWGATE_BACKUP_S3_ENDPOINT (custom endpoint for MinIO)
	BackupS3Region   string        // SHADOWGATE_BACKUP_S3_REGION (default "us-east-1")
	BackupS3Key      string        // SHADOWGATE_BACKUP_S3_KEY (default "shadowgate/gates.jsonl")
	BackupGitRepo    string        // SHADOWGATE_BACKUP_GIT_REPO (enables git when set; path to clone)
	BackupGitFile    string        // SHADOWGATE_BACKUP_GIT_FILE (default "gates.jsonl")
	BackupGitBranch  string        // SHADOWGATE_BACKUP_GIT_BRANCH (default "main")
}

func Load() (*Config, error) {
	c := &Config{
		DBPath:           envOrDefault("SHADOWGATE_DB_PATH", defaultDBPath()),
		DatabaseURL:      os.Getenv("SHADOWGATE_DATABASE_URL"),
		HTTPAddr:         envOrDefault("SHADOWGATE_HTTP_ADDR", ":8080"),
		NATSURL:          os.Getenv("SHADOWGATE_NATS_URL"),
		UpstreamURL:      os.Getenv("SHADOWGATE_UPSTREAM_URL"),
		BackupS3Bucket:   os.Getenv("SHADOWGATE_BACKUP_S3_BUCKET"),
		BackupS3Endpoint: os.Getenv("SHADOWGATE_BACKUP_S3_ENDPOINT"),
		BackupS3Region:   envOrDefault("SHADOWGATE_BACKUP_S3_REGION", "us-east-1"),
		BackupS3Key:      envOrDefault("SHADOWGATE_BACKUP_S3_KEY", "shadowgate/gates.jsonl"),
		BackupGitRepo:    os.Getenv("SHADOWGATE_BACKUP_GIT_REPO"),
		BackupGitFile:    envOrDefault("SHADOWGATE_BACKUP_GIT_FILE", "gates.jsonl"),
		BackupGitBranch:  envOrDefault("SHADOWGATE_BACKUP_GIT_BRANCH", "main"),
	}

	intervalStr := envOrDefault("SHADOWGATE_BACKUP_INTERVAL", "3m")
	if intervalStr != "" {
		d, err := time.ParseDuration(intervalStr)
		if err != nil {
			return nil, fmt.Errorf("SHADOWGATE_BACKUP_INTERVAL: %w", err)
		}
		c.BackupInterval = d
	}

	return c, nil
}

// defaultDBPath places the local database under the user's home directory,
// falling back to the working directory when home is unknown.
func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "shadowgate.db"
	}
	return filepath.Join(home, ".shadowgate", "gates.db")
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
