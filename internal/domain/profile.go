package domain

// Profile holds the per-user metadata used to personalize generated letters.
// Exactly one row exists per user; it is created empty at signup time.
type Profile struct {
	UserID  string
	Name    *string
	Skills  []string
	Summary *string
}
