package domain

// Account represents a participant's profile and wallet.
// Balance is liquid OTC and is never driven negative by a trade; NetWorth is
// an informational aggregate that also counts item holdings.
type Account struct {
	AccountID   string `json:"accountID"`
	DisplayName string `json:"displayName"`
	Bio         string `json:"bio"`
	AvatarURL   string `json:"avatarURL"`
	Balance     int64  `json:"balance"`
	NetWorth    int64  `json:"netWorth"`
	Reputation  int    `json:"reputation"`
	Wins        int    `json:"wins"`
	AuditFields
}
