package auth

// UserKey is the client-local storage key holding the serialised current user.
const UserKey = "user"

// Role distinguishes the two demo account kinds.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// User is the minimal identity record kept for the logged-in operator.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}
