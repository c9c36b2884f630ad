package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetChatbotNamesEmptyInput(t *testing.T) {
	// Empty input short-circuits before any database access
	names, err := GetChatbotNames(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, names)

	names, err = GetChatbotNames(context.Background(), []string{})
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestCountChatbotsByTeamEmptyInput(t *testing.T) {
	counts, err := countChatbotsByTeam(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, counts)
}
