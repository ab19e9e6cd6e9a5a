package structs

// Claims is the decoded content of a bearer token.
type Claims struct {
	Subject  string `json:"sub"`
	Email    string `json:"email"`
	IsAdmin  bool   `json:"is_admin"`
	ClientID *int64 `json:"client_id"`
}

// User is a gateway login account. It is not a CRM entity; the CRM knows
// nothing about gateway credentials.
type User struct {
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	Email        string `json:"email"`
	IsAdmin      bool   `json:"is_admin"`
	ClientID     *int64 `json:"client_id"`
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	IsAdmin  bool   `json:"is_admin"`
	ClientID *int64 `json:"client_id"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

type MeResponse struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	IsAdmin  bool   `json:"is_admin"`
	ClientID *int64 `json:"client_id"`
}
