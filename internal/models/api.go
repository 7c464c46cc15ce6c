package models

// StatusResponse is the reply to a status query from the bot frontend
type StatusResponse struct {
	AttemptsLeft   int    `json:"attemptsLeft"`
	SpinsTotal     int    `json:"spinsTotal"`
	ReferralsTotal int64  `json:"referralsTotal"`
	ReferralLink   string `json:"referralLink"`
}

// SpinRequest is a wheel-play request for a user
type SpinRequest struct {
	UserID     string `json:"userId" binding:"required"`
	Username   string `json:"username,omitempty"`
	ReferrerID string `json:"referrerId,omitempty"`
}

// SpinResponse carries the prize outcome of a successful spin
type SpinResponse struct {
	Prize        string `json:"prize"`
	SpinID       string `json:"spinId"`
	AttemptsLeft int    `json:"attemptsLeft"`
}

// LeadRequest submits contact details for a won prize
type LeadRequest struct {
	UserID string `json:"userId" binding:"required"`
	SpinID string `json:"spinId" binding:"required"`
	Name   string `json:"name,omitempty"`
	Phone  string `json:"phone,omitempty"`
}
