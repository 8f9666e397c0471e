package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"electorate/internal/moderation/models"
)

func TestCanTransitionTo(t *testing.T) {
	allowed := []struct{ from, to models.Status }{
		{models.StatusSuggested, models.StatusRejected},
		{models.StatusSuggested, models.StatusApproved},
		{models.StatusRejected, models.StatusSuggested},
		{models.StatusApproved, models.StatusApproved},
		{models.StatusApproved, models.StatusDeleted},
	}
	for _, tc := range allowed {
		assert.True(t, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}

	denied := []struct{ from, to models.Status }{
		{models.StatusSuggested, models.StatusSuggested},
		{models.StatusSuggested, models.StatusDeleted},
		{models.StatusRejected, models.StatusApproved},
		{models.StatusRejected, models.StatusDeleted},
		{models.StatusApproved, models.StatusSuggested},
		{models.StatusApproved, models.StatusRejected},
		{models.StatusDeleted, models.StatusSuggested},
		{models.StatusDeleted, models.StatusApproved},
		{models.StatusDeleted, models.StatusDeleted},
	}
	for _, tc := range denied {
		assert.False(t, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestValid(t *testing.T) {
	for _, s := range []models.Status{
		models.StatusSuggested, models.StatusRejected, models.StatusApproved, models.StatusDeleted,
	} {
		assert.True(t, s.Valid())
	}
	assert.False(t, models.Status("Pending").Valid())
	assert.False(t, models.Status("").Valid())
}
