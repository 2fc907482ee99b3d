package dto

import "time"

// LoginRequest carries username/password credentials.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries an issued access token.
type LoginResponse struct {
	AccessToken string    `json:"accessToken"`
	TokenType   string    `json:"tokenType"`
	ExpiresAt   time.Time `json:"expiresAt"`
	UserID      string    `json:"userID"`
}

// UpdateCredentialsRequest lets the holder of a single-use token set their username and password.
type UpdateCredentialsRequest struct {
	Token    string  `json:"token" binding:"required"`
	Username *string `json:"username" binding:"omitempty,min=3,max=180"`
	Password *string `json:"password" binding:"omitempty,min=8"`
}
