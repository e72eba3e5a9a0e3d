package auth

import "errors"

type LoginDTO struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	Token        string `json:"token"`
	Username     string `json:"username"`
	IsSuperAdmin bool   `json:"is_super_admin"`
}

type sessionResponse struct {
	AdminID      string `json:"admin_id"`
	Username     string `json:"username"`
	Name         string `json:"name"`
	IsSuperAdmin bool   `json:"is_super_admin"`
}

// Internal sentinels. Handlers collapse both credential failures into
// one uniform message so usernames cannot be enumerated; the distinct
// cause only reaches the log.
var (
	errUserNotFound  = errors.New("auth user not found")
	errWrongPassword = errors.New("auth wrong password")
)

// uniformCredentialError is the only credential failure text callers see.
const uniformCredentialError = "invalid username or password"
