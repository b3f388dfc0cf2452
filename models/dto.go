package models

type RegisterRequest struct {
	Username string   `json:"username" binding:"required,min=3,max=50"`
	Email    string   `json:"email" binding:"required,email"`
	Password string   `json:"password" binding:"required,min=6"`
	Role     UserRole `json:"role,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type CreateManuscriptRequest struct {
	Title string `json:"title" binding:"required,min=1,max=255"`
}

// ReasonRequest carries the mandatory reason for reject, unpublish,
// revoke and suspend. Whitespace-only reasons are rejected in the
// services, not here.
type ReasonRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type ManuscriptListParams struct {
	Status    string `form:"status"`
	AuthorID  uint   `form:"author_id"`
	Page      int    `form:"page,default=1"`
	Limit     int    `form:"limit,default=10"`
	SortOrder string `form:"sort_order,default=asc"`
}

type VerificationListParams struct {
	Page  int `form:"page,default=1"`
	Limit int `form:"limit,default=10"`
}

type AuditListParams struct {
	TargetType string `form:"target_type"`
	TargetID   string `form:"target_id"`
	Page       int    `form:"page,default=1"`
	Limit      int    `form:"limit,default=20"`
}
