package model

// User is the profile payload of GET /users/profile/.
type User struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number,omitempty"`
	ProfilePic  string `json:"profile_pic,omitempty"`
}

// LoginRequest carries JSON credentials for POST /users/login/.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by login and register: the user plus a
// fresh access token. The refresh credential travels separately as an
// http-only cookie and never appears in the body.
type AuthResponse struct {
	User
	Access string `json:"access"`
}

// RefreshResponse is the body of a successful POST /users/refresh/.
type RefreshResponse struct {
	Access string `json:"access"`
}
