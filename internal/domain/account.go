package domain

import "time"

// AccountPlan enumerates subscription plans.
type AccountPlan string

const (
	AccountPlanFree    AccountPlan = "FREE"
	AccountPlanPremium AccountPlan = "PREMIUM"
)

// AccountStatus enumerates account lifecycle states.
type AccountStatus string

const (
	AccountStatusActive   AccountStatus = "ACTIVE"
	AccountStatusDisabled AccountStatus = "DISABLED"
)

// Account is the caller identity that owns collections and requests links.
type Account struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Plan         AccountPlan
	Status       AccountStatus
	CreatedAt    time.Time
}
