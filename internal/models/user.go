package models

// User is the locally signed-in identity. Habits are not scoped by user.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
