package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReviewEdited(t *testing.T) {
	now := time.Now().UTC()

	fresh := Review{CreatedAt: now, UpdatedAt: now}
	assert.False(t, fresh.Edited())

	edited := Review{CreatedAt: now, UpdatedAt: now.Add(time.Minute)}
	assert.True(t, edited.Edited())
}

func TestIsValidRole(t *testing.T) {
	assert.True(t, IsValidRole(RoleUser))
	assert.True(t, IsValidRole(RoleAdmin))
	assert.False(t, IsValidRole("customer"))
	assert.False(t, IsValidRole(""))
}
