package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("BACKEND_BASE_URL", "https://panel.example.test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, DraftStoreMemory, cfg.DraftStore)
	assert.Equal(t, 12*time.Hour, cfg.DraftTTL)
	assert.Equal(t, 20*time.Second, cfg.BackendTimeout)
	assert.Equal(t, 30*time.Second, cfg.PaymentCacheTTL)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoad_RequiresBackend(t *testing.T) {
	t.Setenv("BACKEND_BASE_URL", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate_RejectsUnknownStore(t *testing.T) {
	cfg := &Config{BackendBaseURL: "http://x", DraftStore: "etcd", DraftTTL: time.Hour, DefaultInstallments: 1}
	assert.ErrorContains(t, cfg.Validate(), "unknown draft store")
}

func TestValidate_RejectsZeroPaymentCacheTTL(t *testing.T) {
	cfg := &Config{BackendBaseURL: "http://x", DraftStore: DraftStoreMemory, DraftTTL: time.Hour, DefaultInstallments: 1}
	assert.ErrorContains(t, cfg.Validate(), "payment cache ttl")
}
