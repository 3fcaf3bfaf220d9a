package domain

// Subject identifies an authenticated identity-provider user.
type Subject struct {
	ID    string
	Email string
}
