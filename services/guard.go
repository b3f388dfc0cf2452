package services

import (
	"inkpress/models"
)

// CanTransition is the pure authorization rule for manuscript
// transitions: author-initiated transitions require ownership, everything
// else requires admin, and a suspended author's manuscripts accept no
// transition at all.
func CanTransition(actor models.Actor, manuscript *models.Manuscript, transition models.Transition, authorSuspended bool) bool {
	if !transition.Known() {
		return false
	}
	if authorSuspended {
		return false
	}
	if transition.AuthorOnly() {
		return actor.Role == models.RoleAuthor && actor.ID == manuscript.AuthorID
	}
	return actor.Role == models.RoleAdmin
}

func authorizeTransition(actor models.Actor, manuscript *models.Manuscript, transition models.Transition, authorSuspended bool) error {
	if CanTransition(actor, manuscript, transition, authorSuspended) {
		return nil
	}
	if authorSuspended {
		return models.ErrorUnauthorized{Message: "author is suspended"}
	}
	return models.ErrorUnauthorized{Message: "actor may not perform " + string(transition)}
}

// canModerateVerification gates the admin-only verification actions.
func canModerateVerification(actor models.Actor) bool {
	return actor.Role == models.RoleAdmin
}
