package view

import (
	"sort"

	"communityhub/pkg/client"
)

const UnknownOperative = "Unknown Operative"

// Conversation is the bucket of messages exchanged with one participant.
type Conversation struct {
	UID      string               `json:"uid"`
	Messages []client.ChatMessage `json:"messages"`
}

// BucketKey is the participant a message belongs to: the target of a
// support reply, else the author.
func BucketKey(msg client.ChatMessage) string {
	if msg.TargetUID != nil && *msg.TargetUID != "" {
		return *msg.TargetUID
	}
	return msg.UID
}

// GroupConversations buckets msgs by participant in order of first
// appearance. When openUID is set and has no messages yet, an empty bucket
// is appended for it.
func GroupConversations(msgs []client.ChatMessage, openUID string) []Conversation {
	index := make(map[string]int)
	var out []Conversation
	for _, msg := range msgs {
		key := BucketKey(msg)
		i, ok := index[key]
		if !ok {
			i = len(out)
			index[key] = i
			out = append(out, Conversation{UID: key, Messages: []client.ChatMessage{}})
		}
		out[i].Messages = append(out[i].Messages, msg)
	}
	if openUID != "" {
		if _, ok := index[openUID]; !ok {
			out = append(out, Conversation{UID: openUID, Messages: []client.ChatMessage{}})
		}
	}
	return out
}

func findConversation(convs []Conversation, uid string) (Conversation, bool) {
	for _, c := range convs {
		if c.UID == uid {
			return c, true
		}
	}
	return Conversation{}, false
}

func findUser(users []client.User, uid string) *client.User {
	for i := range users {
		if users[i].UID == uid {
			return &users[i]
		}
	}
	return nil
}

// ResolveDisplayName names the participant uid. The order is fixed: name
// on one of their own messages, their user record's name, email on one of
// their own messages, their user record's email, then UnknownOperative.
func ResolveDisplayName(uid string, msgs []client.ChatMessage, users []client.User) string {
	var own *client.ChatMessage
	for i := range msgs {
		if msgs[i].UID == uid && !msgs[i].FromSupport() {
			own = &msgs[i]
			break
		}
	}
	user := findUser(users, uid)

	switch {
	case own != nil && own.Name != "":
		return own.Name
	case user != nil && user.Name != "":
		return user.Name
	case own != nil && own.Email != "":
		return own.Email
	case user != nil && user.Email != "":
		return user.Email
	}
	return UnknownOperative
}

// Thread returns the messages that carry a timestamp, oldest first.
func Thread(msgs []client.ChatMessage) []client.ChatMessage {
	out := make([]client.ChatMessage, 0, len(msgs))
	for _, msg := range msgs {
		if msg.Timestamp != 0 {
			out = append(out, msg)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp < out[j].Timestamp
	})
	return out
}
