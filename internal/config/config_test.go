package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIntDefault(t *testing.T) {
	assert.Equal(t, 25, intDefault("DB_MAX_OPEN_CONNS", 25), "unset env falls back to the default")

	t.Setenv("DB_MAX_OPEN_CONNS", "40")
	assert.Equal(t, 40, intDefault("DB_MAX_OPEN_CONNS", 25))

	t.Setenv("DB_MAX_OPEN_CONNS", "not-a-number")
	assert.Equal(t, 25, intDefault("DB_MAX_OPEN_CONNS", 25), "garbage keeps the default")
}

func TestDurDefault(t *testing.T) {
	assert.Equal(t, 30*time.Minute, durDefault("DB_CONN_MAX_LIFETIME", 30*time.Minute))

	t.Setenv("DB_CONN_MAX_LIFETIME", "90s")
	assert.Equal(t, 90*time.Second, durDefault("DB_CONN_MAX_LIFETIME", 30*time.Minute))

	t.Setenv("DB_CONN_MAX_LIFETIME", "-5s")
	assert.Equal(t, 30*time.Minute, durDefault("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		"non-positive durations keep the default")
}
