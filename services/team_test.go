package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveTeamName(t *testing.T) {
	t.Run("stored name wins", func(t *testing.T) {
		assert.Equal(t, "Acme", DeriveTeamName("Acme", "0f3a9c21"))
	})

	t.Run("placeholder from id tail", func(t *testing.T) {
		assert.Equal(t, "Team 9c21", DeriveTeamName("", "0f3a9c21"))
	})

	t.Run("short id used whole", func(t *testing.T) {
		assert.Equal(t, "Team ab", DeriveTeamName("", "ab"))
	})

	t.Run("deterministic", func(t *testing.T) {
		a := DeriveTeamName("", "team-4711")
		b := DeriveTeamName("", "team-4711")
		assert.Equal(t, a, b)
	})
}
