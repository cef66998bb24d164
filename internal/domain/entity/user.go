package entity

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is the profile record stored under users/<uid>. Credentials live in
// the external credential store, never here.
type User struct {
	UID      string `json:"uid" firestore:"uid"`
	Email    string `json:"email" firestore:"email"`
	Name     string `json:"name" firestore:"name"`
	Phone    string `json:"phone" firestore:"phone"`
	Avatar   string `json:"avatar" firestore:"avatar"`
	Role     string `json:"role" firestore:"role"`
	IsBanned bool   `json:"isBanned" firestore:"isBanned"`
	JoinedAt int64  `json:"joinedAt" firestore:"joinedAt"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// UserFields lists the keys a partial user update may carry.
var UserFields = map[string]bool{
	"email":    true,
	"name":     true,
	"phone":    true,
	"avatar":   true,
	"role":     true,
	"isBanned": true,
}
