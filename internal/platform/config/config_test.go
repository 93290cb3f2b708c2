package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Empty(t, cfg.Redis.URL)
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.Equal(t, 5*time.Minute, cfg.SCA.ChallengeTTL)
	assert.Equal(t, int64(50000), cfg.SCA.DefaultThreshold)
	assert.Empty(t, cfg.Gateways)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("RAILHUB_ADDR", ":9000")
	t.Setenv("RAILHUB_KAFKA_BROKERS", "kafka1:9092, kafka2:9092")
	t.Setenv("RAILHUB_SCA_CHALLENGE_TTL", "90s")
	t.Setenv("RAILHUB_SCA_THRESHOLD", "10000")
	t.Setenv("RAILHUB_GATEWAYS", "SEPA=http://sepa:8081,swift=http://swift:8082")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, []string{"kafka1:9092", "kafka2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 90*time.Second, cfg.SCA.ChallengeTTL)
	assert.Equal(t, int64(10000), cfg.SCA.DefaultThreshold)
	require.Len(t, cfg.Gateways, 2)
	assert.Equal(t, "SEPA", cfg.Gateways[0].Category)
	assert.Equal(t, "SWIFT", cfg.Gateways[1].Category)
	assert.Equal(t, "http://swift:8082", cfg.Gateways[1].BaseURL)
}

func TestFromEnvMalformed(t *testing.T) {
	t.Run("bad duration", func(t *testing.T) {
		t.Setenv("RAILHUB_SCA_CHALLENGE_TTL", "soon")
		_, err := FromEnv()
		assert.Error(t, err)
	})

	t.Run("bad gateway entry", func(t *testing.T) {
		t.Setenv("RAILHUB_GATEWAYS", "http://no-category")
		_, err := FromEnv()
		assert.Error(t, err)
	})
}
