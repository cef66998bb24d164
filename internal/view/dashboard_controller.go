package view

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"communityhub/pkg/client"
	"communityhub/pkg/logger"
)

const (
	sectionFeed   = "feed"
	sectionChat   = "chat"
	sectionOwnReq = "own-requests"
)

var ErrMessageRequired = errors.New("Please enter a message.")

// DashboardController drives a member's view: profile, community feed,
// their own service requests and their support conversation.
type DashboardController struct {
	api     *client.Client
	session *client.Session
	render  DashboardRenderer
	log     zerolog.Logger

	mu   sync.Mutex
	snap *Snapshot
}

// NewDashboardController syncs the stored session with the user's current
// record before the first paint. A failed sync is logged and the stored
// record is used as is.
func NewDashboardController(ctx context.Context, api *client.Client, session *client.Session, render DashboardRenderer) (*DashboardController, error) {
	user := session.CurrentUser()
	if Route(user, PageDashboard) == PageLogin {
		return nil, ErrLoginRequired
	}

	d := &DashboardController{
		api:     api,
		session: session,
		render:  render,
		log:     logger.Component("dashboard-view"),
		snap:    NewSnapshot(),
	}

	if users, err := api.GetUsers(ctx); err != nil {
		d.log.Warn().Err(err).Msg("could not sync session")
	} else if fresh := findUser(users, user.UID); fresh != nil && Serialize(fresh) != Serialize(user) {
		if err := session.SaveSession(fresh); err != nil {
			d.log.Warn().Err(err).Msg("could not sync session")
		}
	}
	return d, nil
}

func (d *DashboardController) Run(ctx context.Context) {
	Poll(ctx, d.api.Bus(), d, PollInterval, d.log,
		client.KindUsers, client.KindPosts, client.KindRequests, client.KindChat)
}

func (d *DashboardController) user() (*client.User, error) {
	user := d.session.CurrentUser()
	if user == nil {
		return nil, ErrLoginRequired
	}
	return user, nil
}

func (d *DashboardController) Refresh(ctx context.Context) error {
	user, err := d.user()
	if err != nil {
		return err
	}

	posts, err := d.api.GetPosts(ctx)
	if err != nil {
		return err
	}
	users, err := d.api.GetUsers(ctx)
	if err != nil {
		return err
	}
	requests, err := d.api.GetRequests(ctx, user.UID)
	if err != nil {
		return err
	}
	chat, err := d.api.GetChat(ctx, user.UID)
	if err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.snap.Swap(sectionProfile, Serialize(user)) {
		d.render.RenderProfile(profileOf(*user))
	}
	if d.snap.Swap(sectionFeed, Serialize(posts)) {
		d.render.RenderFeed(buildFeed(posts, users, user.UID))
	}
	if d.snap.Swap(sectionOwnReq, Serialize(requests)) {
		d.render.RenderRequests(requests)
	}
	if d.snap.Swap(sectionChat, Serialize(chat)) {
		d.render.RenderChat(chatLines(chat, user.UID), EmptyChat)
	}
	return nil
}

func buildFeed(posts []client.Post, users []client.User, uid string) Feed {
	feed := Feed{PublicEmptyText: EmptyPublicFeed, MineEmptyText: EmptyOwnFeed}
	for _, p := range posts {
		item := PostItem{Post: p, Author: postAuthor(p, users), Mine: p.UID == uid}
		if item.Mine {
			feed.Mine = append(feed.Mine, item)
		} else {
			feed.Public = append(feed.Public, item)
		}
	}
	return feed
}

func postAuthor(p client.Post, users []client.User) string {
	if p.Name != "" {
		return p.Name
	}
	if u := findUser(users, p.UID); u != nil && u.Name != "" {
		return u.Name
	}
	if p.Email != "" {
		return p.Email
	}
	return UnknownOperative
}

func chatLines(msgs []client.ChatMessage, uid string) []ChatLine {
	lines := make([]ChatLine, 0, len(msgs))
	for _, m := range msgs {
		fromSupport := m.TargetUID != nil && *m.TargetUID == uid
		self := m.UID == uid && !m.FromSupport()

		sender := m.Name
		switch {
		case fromSupport:
			sender = SupportTeam
		case self:
			sender = selfSenderLabel
		case sender == "":
			sender = m.Email
		}

		line := ChatLine{Sender: sender, Msg: m.Msg, Self: self}
		if m.Timestamp != 0 {
			line.Time = clock(m.Timestamp)
		}
		lines = append(lines, line)
	}
	return lines
}

// shortName is the name a member posts and chats under when their record
// has none: the local part of their email.
func shortName(u *client.User) string {
	if u.Name != "" {
		return u.Name
	}
	local, _, _ := strings.Cut(u.Email, "@")
	return local
}

// Post shares content on the feed. Blank content is ignored.
func (d *DashboardController) Post(ctx context.Context, content string) (*client.Post, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, nil
	}
	user, err := d.user()
	if err != nil {
		return nil, err
	}
	return d.api.AddPost(ctx, client.NewPost{UID: user.UID, Email: user.Email, Name: shortName(user), Content: content})
}

func (d *DashboardController) DeletePost(ctx context.Context, id string) error {
	return d.api.DeletePost(ctx, id)
}

// RequestService files a request. Blank type or description is ignored.
func (d *DashboardController) RequestService(ctx context.Context, kind, desc string) (*client.Request, error) {
	kind, desc = strings.TrimSpace(kind), strings.TrimSpace(desc)
	if kind == "" || desc == "" {
		return nil, nil
	}
	user, err := d.user()
	if err != nil {
		return nil, err
	}
	return d.api.AddRequest(ctx, client.NewRequest{UID: user.UID, Email: user.Email, Type: kind, Desc: desc})
}

// SendMessage writes to support. Blank messages are ignored.
func (d *DashboardController) SendMessage(ctx context.Context, msg string) (*client.ChatMessage, error) {
	msg = strings.TrimSpace(msg)
	if msg == "" {
		return nil, nil
	}
	user, err := d.user()
	if err != nil {
		return nil, err
	}
	return d.api.AddChatMessage(ctx, client.NewChatMessage{UID: user.UID, Email: user.Email, Name: shortName(user), Msg: msg})
}

func (d *DashboardController) SubmitFeedback(ctx context.Context, name, message string) (*client.Feedback, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, ErrMessageRequired
	}
	user, err := d.user()
	if err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = user.Name
	}
	return d.api.SubmitFeedback(ctx, client.NewFeedback{UID: user.UID, Email: user.Email, Name: name, Message: message})
}

func (d *DashboardController) UpdateProfile(ctx context.Context, name, email, avatar string) (*client.User, error) {
	return updateProfile(ctx, d.api, d.session, d.render, name, email, avatar)
}
