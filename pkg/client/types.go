package client

// Wire records as the API serves them. Timestamps are Unix milliseconds.

type User struct {
	UID      string `json:"uid"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Avatar   string `json:"avatar"`
	Role     string `json:"role"`
	IsBanned bool   `json:"isBanned"`
	JoinedAt int64  `json:"joinedAt"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == "admin"
}

type Post struct {
	ID        string `json:"id"`
	UID       string `json:"uid"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp"`
}

type Request struct {
	ID        string `json:"id"`
	UID       string `json:"uid"`
	Email     string `json:"email,omitempty"`
	Type      string `json:"type"`
	Desc      string `json:"desc"`
	Status    string `json:"status"`
	Timestamp int64  `json:"timestamp"`
}

type ChatMessage struct {
	ID        string  `json:"id"`
	UID       string  `json:"uid"`
	Email     string  `json:"email"`
	Name      string  `json:"name"`
	Msg       string  `json:"msg"`
	TargetUID *string `json:"targetUid"`
	Timestamp int64   `json:"timestamp"`
}

// FromSupport reports whether support wrote the message.
func (m ChatMessage) FromSupport() bool {
	return m.TargetUID != nil && *m.TargetUID != ""
}

type Feedback struct {
	ID        string `json:"id"`
	UID       string `json:"uid"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
}

// UserUpdate is a partial user. Nil fields are left out of the PATCH body.
type UserUpdate struct {
	UID      string  `json:"-"`
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
	Name     *string `json:"name,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Avatar   *string `json:"avatar,omitempty"`
	Role     *string `json:"role,omitempty"`
	IsBanned *bool   `json:"isBanned,omitempty"`
}

type NewPost struct {
	UID     string `json:"uid"`
	Email   string `json:"email"`
	Name    string `json:"name,omitempty"`
	Content string `json:"content"`
}

type NewRequest struct {
	UID   string `json:"uid"`
	Email string `json:"email,omitempty"`
	Type  string `json:"type"`
	Desc  string `json:"desc"`
}

type NewChatMessage struct {
	UID       string `json:"uid"`
	Email     string `json:"email,omitempty"`
	Name      string `json:"name,omitempty"`
	Msg       string `json:"msg"`
	TargetUID string `json:"targetUid,omitempty"`
}

type NewFeedback struct {
	UID     string `json:"uid"`
	Email   string `json:"email,omitempty"`
	Name    string `json:"name,omitempty"`
	Message string `json:"message"`
}

// String and Bool build UserUpdate fields.
func String(s string) *string { return &s }
func Bool(b bool) *bool       { return &b }
