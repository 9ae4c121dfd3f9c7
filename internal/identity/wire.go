package identity

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is the body returned by POST /auth/login.
// A non-empty Error means the gateway rejected the credentials.
type LoginResponse struct {
	Token              string  `json:"token,omitempty"`
	RefreshToken       string  `json:"refreshToken,omitempty"`
	User               *User   `json:"user,omitempty"`
	Tenant             *Tenant `json:"tenant,omitempty"`
	MustChangePassword bool    `json:"mustChangePassword,omitempty"`
	Error              string  `json:"error,omitempty"`
}

// RegisterRequest is the body of POST /auth/register. The snake_case keys
// are fixed by the gateway.
type RegisterRequest struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	Password    string `json:"password"`
}

// MessageResponse is returned by register, verify and resend.
type MessageResponse struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}
