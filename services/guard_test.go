package services_test

import (
	"testing"

	"inkpress/models"
	"inkpress/services"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	manuscript := &models.Manuscript{ID: 1, AuthorID: author.ID, Status: models.StatusDraft}

	cases := []struct {
		name       string
		actor      models.Actor
		transition models.Transition
		suspended  bool
		want       bool
	}{
		{"owner submits", author, models.TransitionSubmit, false, true},
		{"owner resubmits", author, models.TransitionResubmit, false, true},
		{"non-owner submit", otherAuthor, models.TransitionSubmit, false, false},
		{"admin submit", admin, models.TransitionSubmit, false, false},
		{"admin approve", admin, models.TransitionApprove, false, true},
		{"author approve", author, models.TransitionApprove, false, false},
		{"reader reject", models.Actor{ID: 7, Role: models.RoleReader}, models.TransitionReject, false, false},
		{"suspended blocks owner", author, models.TransitionSubmit, true, false},
		{"suspended blocks admin", admin, models.TransitionPublish, true, false},
		{"unknown transition", admin, models.Transition("shred"), false, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := services.CanTransition(tc.actor, manuscript, tc.transition, tc.suspended)
			assert.Equal(t, tc.want, got)
		})
	}
}
