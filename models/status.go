package models

import (
	"fmt"
	"strings"
)

type ManuscriptStatus string

const (
	StatusDraft     ManuscriptStatus = "draft"
	StatusSubmitted ManuscriptStatus = "submitted"
	StatusInReview  ManuscriptStatus = "in_review"
	StatusApproved  ManuscriptStatus = "approved"
	StatusRejected  ManuscriptStatus = "rejected"
	StatusPublished ManuscriptStatus = "published"
	StatusArchived  ManuscriptStatus = "archived"
)

// statusAliases maps the legacy uppercase forms still present in old rows
// onto the canonical set. EDITING means the author is still working on the
// text, which is a draft here.
var statusAliases = map[string]ManuscriptStatus{
	"draft":     StatusDraft,
	"editing":   StatusDraft,
	"submitted": StatusSubmitted,
	"review":    StatusInReview,
	"in_review": StatusInReview,
	"approved":  StatusApproved,
	"rejected":  StatusRejected,
	"published": StatusPublished,
	"archived":  StatusArchived,
}

// NormalizeStatus resolves a raw status string (canonical or legacy alias,
// any casing) to its canonical value. Every ingestion boundary goes through
// here; nothing else compares raw status strings.
func NormalizeStatus(raw string) (ManuscriptStatus, error) {
	status, ok := statusAliases[strings.ToLower(strings.TrimSpace(raw))]
	if !ok {
		return "", ErrorValidation{Field: "status", Message: fmt.Sprintf("unknown status %q", raw)}
	}
	return status, nil
}

type Transition string

const (
	TransitionSubmit      Transition = "submit"
	TransitionResubmit    Transition = "resubmit"
	TransitionStartReview Transition = "start_review"
	TransitionApprove     Transition = "approve"
	TransitionReject      Transition = "reject"
	TransitionPublish     Transition = "publish"
	TransitionUnpublish   Transition = "unpublish"
)

type transitionRule struct {
	source      ManuscriptStatus
	target      ManuscriptStatus
	authorOnly  bool
	needsReason bool
}

var transitionRules = map[Transition]transitionRule{
	TransitionSubmit:      {source: StatusDraft, target: StatusSubmitted, authorOnly: true},
	TransitionResubmit:    {source: StatusRejected, target: StatusSubmitted, authorOnly: true},
	TransitionStartReview: {source: StatusSubmitted, target: StatusInReview},
	TransitionApprove:     {source: StatusInReview, target: StatusApproved},
	TransitionReject:      {source: StatusInReview, target: StatusRejected, needsReason: true},
	TransitionPublish:     {source: StatusApproved, target: StatusPublished},
	TransitionUnpublish:   {source: StatusPublished, target: StatusDraft, needsReason: true},
}

func (t Transition) Known() bool {
	_, ok := transitionRules[t]
	return ok
}

// Source is the only status the transition may be applied from.
func (t Transition) Source() ManuscriptStatus {
	return transitionRules[t].source
}

func (t Transition) Target() ManuscriptStatus {
	return transitionRules[t].target
}

// AuthorOnly reports whether the transition belongs to the owning author
// rather than an admin.
func (t Transition) AuthorOnly() bool {
	return transitionRules[t].authorOnly
}

func (t Transition) RequiresReason() bool {
	return transitionRules[t].needsReason
}
