package entity

const (
	RequestPending   = "pending"
	RequestActive    = "active"
	RequestCompleted = "completed"
)

// Request is a service request. Its status is advanced by admins only.
type Request struct {
	ID        string `json:"id" firestore:"id"`
	UID       string `json:"uid" firestore:"uid"`
	Email     string `json:"email,omitempty" firestore:"email,omitempty"`
	Type      string `json:"type" firestore:"type"`
	Desc      string `json:"desc" firestore:"desc"`
	Status    string `json:"status" firestore:"status"`
	Timestamp int64  `json:"timestamp" firestore:"timestamp"`
}

func ValidRequestStatus(status string) bool {
	switch status {
	case RequestPending, RequestActive, RequestCompleted:
		return true
	}
	return false
}
