package model

import "time"

// CreateStrategyRequest is the body of POST create-strategy.
type CreateStrategyRequest struct {
	Name        string `json:"name" binding:"required"`
	TargetToken string `json:"targetToken"`
	ExpectedAPY string `json:"expectedAPY"`
	Description string `json:"description"`
}

// Strategy is echoed back to the caller; nothing is stored.
type Strategy struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	TargetToken    string    `json:"targetToken"`
	ExpectedAPY    string    `json:"expectedAPY"`
	Description    string    `json:"description"`
	IsActive       bool      `json:"isActive"`
	TotalDeposited string    `json:"totalDeposited"`
	CreatedAt      time.Time `json:"createdAt"`
}

type CreateStrategyResponse struct {
	Success  bool     `json:"success"`
	Strategy Strategy `json:"strategy"`
	Message  string   `json:"message"`
}
