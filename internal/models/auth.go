package models

// AuthLoginBody is the login form submitted by the admin UI. Form and JSON encodings share the json tags.
type AuthLoginBody struct {
	Email    string `json:"email"    validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,max=128"`
}

// BackendUser is the subset of the backend user object the dashboard relies on.
type BackendUser struct {
	Email string `json:"email,omitempty"`
	Role  string `json:"role"`
}

// BackendLoginResponse is the part of the POST /auth/login reply the login flow reads.
type BackendLoginResponse struct {
	Token   string      `json:"token"`
	User    BackendUser `json:"user"`
	Message string      `json:"message,omitempty"`
}

// LoginState is the terminal state reached by a login attempt.
type LoginState string

const (
	LoginStateAuthenticated LoginState = "authenticated"
	LoginStateRejected      LoginState = "rejected"
	LoginStateFailed        LoginState = "failed"
	LoginStateError         LoginState = "error"
)

// LoginResult is the outcome of the login flow. Token is only set when State is LoginStateAuthenticated.
type LoginResult struct {
	State    LoginState
	Status   int
	Token    string
	User     BackendUser
	Message  string
	Redirect string
}

// AccountUpdateBody changes the signed-in admin's email or password on the backend.
type AccountUpdateBody struct {
	Email           string `json:"email"                 validate:"required,email,max=254"`
	CurrentPassword string `json:"currentPassword"       validate:"required,max=128"`
	NewPassword     string `json:"newPassword,omitempty" validate:"omitempty,min=6,max=128"`
}

// RedirectResponse is returned to JSON clients in place of a 303.
type RedirectResponse struct {
	Redirect string `json:"redirect"`
}
