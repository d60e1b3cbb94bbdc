package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hestia/internal/fees"
	"hestia/internal/models"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "5250", cfg.Port)
	assert.Equal(t, "0 6 1 * *", cfg.Billing.Schedule)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORSOrigins)
	assert.Equal(t, 3, cfg.BatchProcessing.MaxRetries)
	assert.False(t, cfg.Telegram.Enabled)
	assert.Equal(t, logrus.InfoLevel, cfg.Level())

	policy, err := cfg.ParsedGasPolicy()
	require.NoError(t, err)
	assert.Equal(t, fees.GasExcluded, policy)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("GAS_POLICY", "passthrough")
	t.Setenv("BATCH_MAX_RETRIES", "5")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	policy, err := cfg.ParsedGasPolicy()
	require.NoError(t, err)
	assert.Equal(t, fees.GasPassThrough, policy)
	assert.Equal(t, 5, cfg.BatchProcessing.MaxRetries)
	assert.Equal(t, logrus.DebugLevel, cfg.Level())
}

func TestLoadConfigFromDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("STATEMENTS_PATH=/tmp/hestia-statements\n"), 0644))
	t.Setenv("STATEMENTS_PATH", "")
	os.Unsetenv("STATEMENTS_PATH")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/hestia-statements", cfg.StatementsPath)
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	t.Setenv("GAS_POLICY", "prorated")
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}

func TestCompanyStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "company.yaml")
	store := NewCompanyStore(path)

	assert.Equal(t, models.Company{}, store.Get())
	assert.Error(t, store.Load())

	company := models.Company{
		Name:         "CW Holdings LLC",
		RemitTo:      models.Address{Street: "1 Main St", City: "Seattle", State: "WA", ZipCode: "98101"},
		PaymentTerms: "Payment Due 1st of Coming Month",
	}
	require.NoError(t, store.Update(company))

	reloaded := NewCompanyStore(path)
	require.NoError(t, reloaded.Load())
	assert.Equal(t, company, reloaded.Get())
}

func TestCompanyStoreRequiresName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "company.yaml")
	require.NoError(t, os.WriteFile(path, []byte("email: a@b.c\n"), 0644))
	assert.Error(t, NewCompanyStore(path).Load())
}

func TestSampleCompanyFile(t *testing.T) {
	store := NewCompanyStore("company.yaml")
	require.NoError(t, store.Load())
	assert.Equal(t, "CW Holdings LLC", store.Get().Name)
}
