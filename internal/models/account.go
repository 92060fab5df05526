package models

import "time"

// Account represents a participant row: profile plus wallet.
type Account struct {
	AccountID     string    `db:"account_id"`
	Email         string    `db:"email"`
	PasswordHash  string    `db:"password_hash"`
	DisplayName   string    `db:"display_name"`
	Bio           string    `db:"bio"`
	AvatarURL     string    `db:"avatar_url"`
	Balance       int64     `db:"balance"`
	NetWorth      int64     `db:"net_worth"`
	Reputation    int       `db:"reputation"`
	Wins          int       `db:"wins"`
	CreatedAt     time.Time `db:"created_at"`
	LastUpdatedAt time.Time `db:"last_updated_at"`
}
