package dto

// LoginRequest defines the credentials for email/password login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued access token.
type LoginResponse struct {
	AccountID   string `json:"accountID"`
	AccessToken string `json:"accessToken"`
}
