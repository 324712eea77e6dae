package db

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubBackend struct {
	config *Config
}

func (s *stubBackend) Connect(ctx context.Context) error    { return nil }
func (s *stubBackend) Disconnect(ctx context.Context) error { return nil }
func (s *stubBackend) Ping(ctx context.Context) error       { return nil }
func (s *stubBackend) DB() *sql.DB                          { return nil }
func (s *stubBackend) Dialect() Dialect                     { return nil }
func (s *stubBackend) Introspection() Introspector          { return nil }

func init() {
	Register("stub", func(cfg *Config) (Database, error) {
		return &stubBackend{config: cfg}, nil
	})
}

func TestOpenDispatchesOnEngine(t *testing.T) {
	cfg := &Config{Engine: "stub", Name: "anything"}
	backend, err := Open(cfg)
	require.NoError(t, err)

	stub, ok := backend.(*stubBackend)
	require.True(t, ok)
	assert.Same(t, cfg, stub.config)
}

func TestOpenUnknownEngine(t *testing.T) {
	_, err := Open(&Config{Engine: "oracle", Name: "anything"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMisconfigured)
	assert.Contains(t, err.Error(), "oracle")
}

func TestOpenNilConfig(t *testing.T) {
	_, err := Open(nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMisconfigured)
}

func TestEnginesIsSorted(t *testing.T) {
	names := Engines()
	assert.Contains(t, names, "stub")
	for i := 1; i < len(names); i++ {
		assert.LessOrEqual(t, names[i-1], names[i])
	}
}

func TestRegisterPanics(t *testing.T) {
	assert.Panics(t, func() { Register("", func(cfg *Config) (Database, error) { return nil, nil }) })
	assert.Panics(t, func() { Register("nilfactory", nil) })
	assert.Panics(t, func() {
		Register("stub", func(cfg *Config) (Database, error) { return nil, nil })
	})
}
