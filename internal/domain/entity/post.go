package entity

// Post is immutable once created; it can only be deleted.
type Post struct {
	ID        string `json:"id" firestore:"id"`
	UID       string `json:"uid" firestore:"uid"`
	Email     string `json:"email" firestore:"email"`
	Name      string `json:"name" firestore:"name"`
	Content   string `json:"content" firestore:"content"`
	Timestamp int64  `json:"timestamp" firestore:"timestamp"`
}
