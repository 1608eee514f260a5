package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fiecl/barcode-inventory-management/pkg/config"
)

func TestPoolConfig_DesdeCamposDB(t *testing.T) {
	pc, err := poolConfig(config.DBConfig{
		Host: "db.local", Port: 5433, User: "bim", Password: "p@ss:word", DBName: "bim_db", SSLMode: "disable", MaxConns: 7,
	})
	require.NoError(t, err)
	assert.Equal(t, "db.local", pc.ConnConfig.Host)
	assert.Equal(t, uint16(5433), pc.ConnConfig.Port)
	assert.Equal(t, "p@ss:word", pc.ConnConfig.Password)
	assert.Equal(t, "bim_db", pc.ConnConfig.Database)
	assert.Equal(t, int32(7), pc.MaxConns)
	assert.Equal(t, int32(2), pc.MinConns)
	assert.Equal(t, time.Hour, pc.MaxConnLifetime)
}

func TestPoolConfig_DatabaseURLTienePrioridad(t *testing.T) {
	pc, err := poolConfig(config.DBConfig{
		DatabaseURL: "postgres://u:p@pg.example.com:5432/otra?sslmode=disable",
		Host:        "ignorado",
	})
	require.NoError(t, err)
	assert.Equal(t, "pg.example.com", pc.ConnConfig.Host)
	assert.Equal(t, "otra", pc.ConnConfig.Database)
	assert.Equal(t, int32(defaultMaxConns), pc.MaxConns)
}

func TestPoolConfig_MinConnsNoSuperaMax(t *testing.T) {
	pc, err := poolConfig(config.DBConfig{DatabaseURL: "postgres://u:p@localhost:5432/db?sslmode=disable", MaxConns: 1})
	require.NoError(t, err)
	assert.Equal(t, int32(1), pc.MaxConns)
	assert.Equal(t, int32(1), pc.MinConns)
}

func TestPoolConfig_DSNInvalido(t *testing.T) {
	_, err := poolConfig(config.DBConfig{DatabaseURL: "postgres://u:p@host:notaport/db"})
	assert.Error(t, err)
}
