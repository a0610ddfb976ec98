package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/agent2048/internal/config"
	"github.com/vovakirdan/agent2048/internal/games/t2048"
	"github.com/vovakirdan/agent2048/internal/logging"
	"github.com/vovakirdan/agent2048/internal/search"
)

func TestCacheEntries(t *testing.T) {
	cfg := config.DefaultAgentConfig()

	cfg.Search.MaxCacheEntries = 500
	assert.Equal(t, 500, cacheEntries(cfg, 4))

	cfg.Search.MaxCacheEntries = -1
	assert.Equal(t, 0, cacheEntries(cfg, 4))

	cfg.Search.MaxCacheEntries = 0
	assert.Equal(t, search.DefaultMaxCacheEntries()/4, cacheEntries(cfg, 4))
	assert.Equal(t, search.DefaultMaxCacheEntries(), cacheEntries(cfg, 0))
}

func TestBuildPolicy(t *testing.T) {
	cfg := config.DefaultAgentConfig()
	cfg.Search.Depth = 2
	require.NoError(t, cfg.Validate())

	p, eval, cleanup, err := buildPolicy(cfg, 7, 1000, logging.Discard())
	require.NoError(t, err)
	defer cleanup()

	assert.Equal(t, "expectimax", p.ID())
	assert.NotNil(t, eval)

	s := t2048.NewDecisionState(t2048.Board{{1, 1, 0, 0}})
	a, ok := p.SelectAction(context.Background(), s)
	require.True(t, ok)
	assert.Contains(t, s.LegalActions(), a)
}

func TestBuildPolicyUnknown(t *testing.T) {
	cfg := config.DefaultAgentConfig()
	cfg.Search.Policy = "oracle"

	_, _, _, err := buildPolicy(cfg, 1, 0, logging.Discard())
	assert.Error(t, err)
}
