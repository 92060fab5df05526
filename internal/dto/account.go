package dto

import (
	"github.com/nakamart/nakamart_backend/internal/core/domain"
)

// RegisterAccountRequest defines the data needed to create an account.
type RegisterAccountRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	DisplayName string `json:"displayName" binding:"required,max=60"`
}

// UpdateProfileRequest defines the profile fields an account may change.
// Pointers differentiate omitted fields from zero-value fields.
type UpdateProfileRequest struct {
	DisplayName *string `json:"displayName" binding:"omitempty,max=60"`
	Bio         *string `json:"bio" binding:"omitempty,max=500"`
	AvatarURL   *string `json:"avatarURL" binding:"omitempty,url"`
}

// AccountResponse is the caller-facing shape of an account.
type AccountResponse struct {
	AccountID   string `json:"accountID"`
	DisplayName string `json:"displayName"`
	Bio         string `json:"bio"`
	AvatarURL   string `json:"avatarURL"`
	Balance     int64  `json:"balance"`
	NetWorth    int64  `json:"netWorth"`
	Reputation  int    `json:"reputation"`
	Wins        int    `json:"wins"`
}

// ToAccountResponse converts a domain.Account to its response DTO.
func ToAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:   a.AccountID,
		DisplayName: a.DisplayName,
		Bio:         a.Bio,
		AvatarURL:   a.AvatarURL,
		Balance:     a.Balance,
		NetWorth:    a.NetWorth,
		Reputation:  a.Reputation,
		Wins:        a.Wins,
	}
}
