package config_test

import (
	"testing"
	"time"

	"github.com/jhoicas/Fabrica-api/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.Equal(t, "./reports", cfg.Reports.Dir)
	assert.Equal(t, time.Minute, cfg.Redis.CacheTTL)
	assert.False(t, cfg.Redis.Enabled())
	assert.False(t, cfg.Kafka.Enabled())
	assert.False(t, cfg.Mail.Enabled())
	assert.Equal(t, "inventory.stock_moved", cfg.Kafka.Topic)
}

func TestLoad_VariablesDeEntorno(t *testing.T) {
	t.Setenv("APP_ENV", "staging")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("CACHE_TTL_SECONDS", "15")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("SENDGRID_API_KEY", "SG.x")
	t.Setenv("MAIL_FROM", "alertas@planta.co")
	t.Setenv("ALERT_EMAILS", "jefe@planta.co")
	t.Setenv("DB_AUTO_MIGRATE", "true")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, 15*time.Second, cfg.Redis.CacheTTL)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.True(t, cfg.Mail.Enabled())
	assert.True(t, cfg.DB.AutoMigrate)
}

func TestLoad_ProduccionExigeSecreto(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss word", DBName: "fabrica", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%20word@db:5432/fabrica?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://otro"
	assert.Equal(t, "postgres://otro", c.ConnectionString())
}
