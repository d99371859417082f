package db

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/mentorlink/internal/config"
)

func TestPoolConfig(t *testing.T) {
	cfg := &config.Config{}
	cfg.Database = config.DatabaseConfig{
		Host:            "db.internal",
		Port:            "5433",
		User:            "mentor",
		Password:        "secret",
		DBName:          "mentorlink",
		SSLMode:         "require",
		MaxOpenConns:    10,
		MaxIdleConns:    2,
		ConnMaxLifetime: "30m",
	}

	poolConfig, err := PoolConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, int32(10), poolConfig.MaxConns)
	assert.Equal(t, int32(2), poolConfig.MinConns)
	assert.Equal(t, 30*time.Minute, poolConfig.MaxConnLifetime)
	assert.Equal(t, "db.internal", poolConfig.ConnConfig.Host)
	assert.Equal(t, uint16(5433), poolConfig.ConnConfig.Port)
	assert.Equal(t, "mentorlink", poolConfig.ConnConfig.Database)
	assert.NotNil(t, poolConfig.BeforeAcquire)

	cfg.Database.ConnMaxLifetime = "forever"
	_, err = PoolConfig(cfg)
	assert.Error(t, err)
}
