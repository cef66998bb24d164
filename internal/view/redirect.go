package view

import (
	"errors"

	"communityhub/pkg/client"
)

type Page string

const (
	PageLogin     Page = "login"
	PageDashboard Page = "dashboard"
	PageAdmin     Page = "admin"
)

var ErrLoginRequired = errors.New("login required")

// Route decides which page a session lands on when it asks for want.
func Route(user *client.User, want Page) Page {
	if user == nil {
		return PageLogin
	}
	if want == PageAdmin && !user.IsAdmin() {
		return PageDashboard
	}
	if want == PageLogin {
		return PageDashboard
	}
	return want
}
