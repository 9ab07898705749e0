package domain

import "time"

const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

// User models an account that can sign in. PasswordHash never leaves the
// persistence layer.
type User struct {
	ID           int64     `json:"id"`
	FullName     string    `json:"full_name"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// Customer is a customer account annotated with how many orders it owns.
type Customer struct {
	ID          int64     `json:"id"`
	FullName    string    `json:"full_name"`
	Username    string    `json:"username"`
	CreatedAt   time.Time `json:"created_at"`
	TotalOrders int64     `json:"total_orders"`
}

// Claims is the verified content of a session token.
type Claims struct {
	UserID    int64
	Username  string
	Role      string
	ExpiresAt time.Time
}

// Actor returns the identity the claims speak for.
func (c Claims) Actor() Actor {
	return Actor{ID: c.UserID, Username: c.Username, Role: c.Role}
}

// Actor is the authenticated caller of a use case. It is passed explicitly
// down the call chain; nothing reads identity from ambient state.
type Actor struct {
	ID       int64
	Username string
	Role     string
}

func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

// CanSee reports whether the actor may observe a record owned by userID.
func (a Actor) CanSee(userID int64) bool {
	return a.IsAdmin() || a.ID == userID
}
