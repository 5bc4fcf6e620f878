package config

import (
	"testing"
	"time"
)

// backupEnvVars lists backup-related env vars cleared between tests.
var backupEnvVars = []string{
	"SHADOWGATE_BACKUP_INTERVAL", "SHADOWGATE_BACKUP_S3_BUCKET", "SHADOWGATE_BACKUP_S3_ENDPOINT",
	"SHADOWGATE_BACKUP_S3_REGION", "SHADOWGATE_BACKUP_S3_KEY", "SHADOWGATE_BACKUP_GIT_REPO",
	"SHADOWGATE_BACKUP_GIT_FILE", "SHADOWGATE_BACKUP_GIT_BRANCH",
}

func clearAllEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SHADOWGATE_DB_PATH", "SHADOWGATE_DATABASE_URL", "SHADOWGATE_HTTP_ADDR",
		"SHADOWGATE_NATS_URL", "SHADOWGATE_UPSTREAM_URL",
	} {
		t.Setenv(key, "")
	}
	for _, key := range backupEnvVars {
		t.Setenv(key, "")
	}
}

func TestLoad(t *testing.T) {
	for _, tc := range []struct {
		name         string
		env          map[string]string
		wantErr      bool
		wantHTTPAddr string
		wantNATSURL  string
		wantDBURL    string
	}{
		{
			name:         "Defaults",
			env:          map[string]string{},
			wantHTTPAddr: ":8080",
		},
		{
			name: "CustomAddresses",
			env: map[string]string{
				"SHADOWGATE_DATABASE_URL": "postgres://db:5432/shadowgate",
				"SHADOWGATE_HTTP_ADDR":    ":3000",
				"SHADOWGATE_NATS_URL":     "nats://localhost:4222",
			},
			wantHTTPAddr: ":3000",
			wantNATSURL:  "nats://localhost:4222",
			wantDBURL:    "postgres://db:5432/shadowgate",
		},
		{
			name:    "BadInterval",
			env:     map[string]string{"SHADOWGATE_BACKUP_INTERVAL": "soon"},
			wantErr: true,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			clearAllEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			cfg, err := Load()
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cfg.HTTPAddr != tc.wantHTTPAddr {
				t.Errorf("HTTPAddr = %q, want %q", cfg.HTTPAddr, tc.wantHTTPAddr)
			}
			if cfg.NATSURL != tc.wantNATSURL {
				t.Errorf("NATSURL = %q, want %q", cfg.NATSURL, tc.wantNATSURL)
			}
			if cfg.DatabaseURL != tc.wantDBURL {
				t.Errorf("DatabaseURL = %q, want %q", cfg.DatabaseURL, tc.wantDBURL)
			}
			if cfg.DBPath == "" {
				t.Error("DBPath is empty, want a default")
			}
		})
	}
}

func TestLoad_BackupDefaults(t *testing.T) {
	clearAllEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.BackupInterval != 3*time.Minute {
		t.Errorf("BackupInterval = %v, want 3m", cfg.BackupInterval)
	}
	if cfg.BackupS3Region != "us-east-1" {
		t.Errorf("BackupS3Region = %q", cfg.BackupS3Region)
	}
	if cfg.BackupS3Key != "shadowgate/gates.jsonl" {
		t.Errorf("BackupS3Key = %q", cfg.BackupS3Key)
	}
	if cfg.BackupGitFile != "gates.jsonl" || cfg.BackupGitBranch != "main" {
		t.Errorf("git defaults = %q %q", cfg.BackupGitFile, cfg.BackupGitBranch)
	}
}

func TestLoad_CustomInterval(t *testing.T) {
	clearAllEnv(t)
	t.Setenv("SHADOWGATE_BACKUP_INTERVAL", "45s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.BackupInterval != 45*time.Second {
		t.Errorf("BackupInterval = %v, want 45s", cfg.BackupInterval)
	}
}
