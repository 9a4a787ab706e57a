package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("AWS_REGION", "eu-west-1")
	t.Setenv("S3_BUCKET", "gallery-images")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_SECRET_NAME", "gallery/db-creds")
	t.Setenv("GALLERY_MODE", "")
	t.Setenv("STORAGE_BACKEND", "")
	t.Setenv("PORT", "")
	t.Setenv("DB_PORT", "")
}

func TestLoadDefaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ModeDB, cfg.Mode)
	assert.Equal(t, BackendMinio, cfg.StorageBackend)
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "5432", cfg.DBPort)
	assert.Equal(t, "eu-west-1", cfg.StorageRegion)
	assert.Equal(t, "gallery-images", cfg.StorageBucket)
}

func TestLoadRefusesMissingRequired(t *testing.T) {
	cases := []struct{ name, unset string }{
		{"region", "AWS_REGION"},
		{"bucket", "S3_BUCKET"},
		{"db host", "DB_HOST"},
		{"secret id", "DB_SECRET_NAME"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			setBaseEnv(t)
			t.Setenv(tc.unset, "")

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestStorageModeNeedsNoDatabase(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("GALLERY_MODE", ModeStorage)
	t.Setenv("DB_HOST", "")
	t.Setenv("DB_SECRET_NAME", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ModeStorage, cfg.Mode)
}

func TestLoadRejectsUnknownMode(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("GALLERY_MODE", "hybrid")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("STORAGE_BACKEND", "gcs")

	_, err := Load()
	assert.Error(t, err)
}
