package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigShippedDefaults(t *testing.T) {
	// Keep the local-storage branch from creating directories relative
	// to the test working dir; also exercises the env override.
	t.Setenv("STORAGE_TYPE", "minio")

	cfg, err := LoadConfig("../../configs")
	require.NoError(t, err)
	assert.Equal(t, "minio", cfg.Storage.Type)

	// expire_hours is a plain hour count; a token minted now must not
	// already be expired.
	assert.Equal(t, 72*time.Hour, cfg.JWT.ExpireTime)
	assert.Greater(t, cfg.JWT.ExpireTime, time.Duration(0))

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 17, cfg.Practice.ExamSize)
	assert.NotEmpty(t, cfg.JWT.Secret)
}
