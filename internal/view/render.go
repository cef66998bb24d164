package view

import (
	"communityhub/pkg/client"
)

const (
	SupportTeam     = "Support Team"
	NewStream       = "New Stream"
	EmptyThread     = "No messages yet. Send a message to start the conversation."
	EmptyChat       = "Start a conversation with Support."
	EmptyPublicFeed = "No posts from others yet."
	EmptyOwnFeed    = "You haven't posted anything yet."
	selfSenderLabel = "You"
	clockLayout     = "15:04"
)

type PostItem struct {
	Post   client.Post
	Author string
	Mine   bool
}

type ConversationItem struct {
	UID      string
	Name     string
	LastSync string
	Open     bool
}

// ThreadLine is one message in the admin thread pane.
type ThreadLine struct {
	Msg     string
	Time    string
	Support bool
}

type ThreadPane struct {
	Header      string
	Lines       []ThreadLine
	Placeholder string
	Viewport    Viewport
}

// ChatLine is one message in a user's own support conversation.
type ChatLine struct {
	Sender string
	Time   string
	Msg    string
	Self   bool
}

type Profile struct {
	DisplayName string
	Role        string
	User        client.User
}

type Feed struct {
	Public          []PostItem
	Mine            []PostItem
	PublicEmptyText string
	MineEmptyText   string
}

type AdminRenderer interface {
	RenderProfile(Profile)
	RenderUsers([]client.User)
	RenderRequests([]client.Request)
	RenderPosts([]PostItem)
	RenderConversations([]ConversationItem)
	RenderThread(ThreadPane)
}

type DashboardRenderer interface {
	RenderProfile(Profile)
	RenderFeed(Feed)
	RenderRequests([]client.Request)
	RenderChat(lines []ChatLine, placeholder string)
}

func profileOf(user client.User) Profile {
	name := user.Name
	if name == "" {
		name = user.Email
	}
	role := user.Role
	if role == "" {
		role = "user"
	}
	return Profile{DisplayName: name, Role: role, User: user}
}
