package entity

// ChatMessage is one line of a support conversation.
//
// A nil TargetUID means the message was written by the user identified by
// UID. A non-nil TargetUID means support wrote it to that user.
type ChatMessage struct {
	ID        string  `json:"id" firestore:"id"`
	UID       string  `json:"uid" firestore:"uid"`
	Email     string  `json:"email" firestore:"email"`
	Name      string  `json:"name" firestore:"name"`
	Msg       string  `json:"msg" firestore:"msg"`
	TargetUID *string `json:"targetUid" firestore:"targetUid"`
	Timestamp int64   `json:"timestamp" firestore:"timestamp"`
}

func (m *ChatMessage) FromSupport() bool {
	return m.TargetUID != nil && *m.TargetUID != ""
}

// Participant is the conversation the message belongs to: the addressed
// user for support replies, the author otherwise.
func (m *ChatMessage) Participant() string {
	if m.FromSupport() {
		return *m.TargetUID
	}
	return m.UID
}

// InConversation reports whether the message belongs to uid's conversation.
func (m *ChatMessage) InConversation(uid string) bool {
	return m.Participant() == uid
}
