package entity

type Feedback struct {
	ID        string `json:"id" firestore:"id"`
	UID       string `json:"uid" firestore:"uid"`
	Email     string `json:"email" firestore:"email"`
	Name      string `json:"name" firestore:"name"`
	Message   string `json:"message" firestore:"message"`
	Timestamp int64  `json:"timestamp" firestore:"timestamp"`
}
