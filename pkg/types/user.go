package types

// User represents an authenticated MatrixLogger account
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
