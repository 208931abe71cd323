package models

// User represents the signed-in account as returned by the remote auth API
type User struct {
	ID      string `json:"_id"`
	Name    string `json:"name"`
	Surname string `json:"surname,omitempty"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
}

// Credentials is the login request body
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the sign-up request body
type Registration struct {
	Name     string `json:"name"`
	Surname  string `json:"surname,omitempty"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Password string `json:"password"`
}

// AuthPayload is returned by both login and register
type AuthPayload struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
