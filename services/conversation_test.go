package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"chatsa-backend/models"
)

func TestAppendConversationMessageRejectsInvalidRole(t *testing.T) {
	// Role validation happens before any database access
	msg := models.ConversationMessage{
		Role:    "system",
		Content: "hello",
	}

	err := AppendConversationMessage(context.Background(), "bot-1", "user-1", "widget", msg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid message role")
}

func TestIsValidMessageRole(t *testing.T) {
	assert.True(t, models.IsValidMessageRole("user"))
	assert.True(t, models.IsValidMessageRole("assistant"))
	assert.False(t, models.IsValidMessageRole("system"))
	assert.False(t, models.IsValidMessageRole(""))
	assert.False(t, models.IsValidMessageRole("User"))
}
