package view

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"communityhub/pkg/client"
	"communityhub/pkg/logger"
)

const (
	sectionUsers         = "users"
	sectionRequests      = "requests"
	sectionPosts         = "posts"
	sectionConversations = "conversations"
	sectionProfile       = "profile"
)

var ErrCredentialsRequired = errors.New("Please enter email and password")

// AdminController drives the admin view: user management, service
// requests, post moderation and the support inbox.
type AdminController struct {
	api     *client.Client
	session *client.Session
	render  AdminRenderer
	log     zerolog.Logger

	mu       sync.Mutex
	snap     *Snapshot
	openUID  string
	chatHash string
	viewport Viewport
}

// NewAdminController returns ErrLoginRequired without a session and a
// *RedirectError when the session is not an admin.
func NewAdminController(api *client.Client, session *client.Session, render AdminRenderer) (*AdminController, error) {
	user := session.CurrentUser()
	if page := Route(user, PageAdmin); page != PageAdmin {
		if page == PageLogin {
			return nil, ErrLoginRequired
		}
		return nil, &RedirectError{To: page}
	}

	a := &AdminController{
		api:      api,
		session:  session,
		render:   render,
		log:      logger.Component("admin-view"),
		snap:     NewSnapshot(),
		viewport: Viewport{ClientHeight: 20},
	}
	a.render.RenderProfile(profileOf(*user))
	return a, nil
}

// RedirectError tells the caller to open another page instead.
type RedirectError struct {
	To Page
}

func (e *RedirectError) Error() string {
	return "redirect to " + string(e.To)
}

// Run polls until ctx is done.
func (a *AdminController) Run(ctx context.Context) {
	Poll(ctx, a.api.Bus(), a, PollInterval, a.log,
		client.KindUsers, client.KindPosts, client.KindRequests, client.KindChat)
}

func (a *AdminController) OpenUID() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.openUID
}

// Refresh fetches every collection and repaints the sections whose data
// changed since the last paint.
func (a *AdminController) Refresh(ctx context.Context) error {
	users, err := a.api.GetUsers(ctx)
	if err != nil {
		return err
	}
	requests, err := a.api.GetRequests(ctx, "")
	if err != nil {
		return err
	}
	chats, err := a.api.GetChat(ctx, "")
	if err != nil {
		return err
	}
	posts, err := a.api.GetPosts(ctx)
	if err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.snap.Swap(sectionUsers, Serialize(users)) {
		a.render.RenderUsers(users)
	}
	if a.snap.Swap(sectionRequests, Serialize(requests)) {
		a.render.RenderRequests(requests)
	}
	if a.snap.Swap(sectionPosts, Serialize(posts)) {
		items := make([]PostItem, 0, len(posts))
		for _, p := range posts {
			author := p.Email
			if u := findUser(users, p.UID); u != nil && u.Name != "" {
				author = u.Name
			}
			items = append(items, PostItem{Post: p, Author: author})
		}
		a.render.RenderPosts(items)
	}

	convs := GroupConversations(chats, "")
	if !a.snap.Swap(sectionConversations, Serialize(convs)+a.openUID) {
		return nil
	}
	if a.openUID != "" {
		convs = GroupConversations(chats, a.openUID)
	}

	items := make([]ConversationItem, 0, len(convs))
	for _, c := range convs {
		last := NewStream
		if n := len(c.Messages); n > 0 {
			last = clock(c.Messages[n-1].Timestamp)
		}
		items = append(items, ConversationItem{
			UID:      c.UID,
			Name:     ResolveDisplayName(c.UID, c.Messages, users),
			LastSync: last,
			Open:     c.UID == a.openUID,
		})
	}
	a.render.RenderConversations(items)

	if open, ok := findConversation(convs, a.openUID); ok {
		a.loadThread(open.UID, ResolveDisplayName(open.UID, open.Messages, users), open.Messages)
	}
	return nil
}

// Open selects the conversation with uid and shows its pane right away,
// empty until the next refresh fills it.
func (a *AdminController) Open(uid, label string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.openUID = uid
	a.loadThread(uid, label, []client.ChatMessage{})
}

// loadThread repaints the thread pane unless uid and its messages are
// what the pane already shows. a.mu must be held.
func (a *AdminController) loadThread(uid, name string, msgs []client.ChatMessage) {
	hash := uid + Serialize(msgs)
	if hash == a.chatHash {
		return
	}
	a.chatHash = hash

	thread := Thread(msgs)
	lines := make([]ThreadLine, 0, len(thread))
	for _, m := range thread {
		lines = append(lines, ThreadLine{Msg: m.Msg, Time: clock(m.Timestamp), Support: m.FromSupport()})
	}

	a.viewport = a.viewport.Repaint(len(lines))
	pane := ThreadPane{Header: "Chat with " + name, Lines: lines, Viewport: a.viewport}
	if len(lines) == 0 {
		pane.Placeholder = EmptyThread
	}
	a.render.RenderThread(pane)
}

// Scroll moves the thread pane's offset, as a reader scrolling up would.
func (a *AdminController) Scroll(top int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if top < 0 {
		top = 0
	}
	a.viewport.ScrollTop = top
}

func (a *AdminController) Viewport() Viewport {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.viewport
}

// Reply sends msg to the open conversation as support.
func (a *AdminController) Reply(ctx context.Context, msg string) error {
	msg = strings.TrimSpace(msg)
	target := a.OpenUID()
	if msg == "" || target == "" {
		return nil
	}
	admin := a.session.CurrentUser()
	if admin == nil {
		return ErrLoginRequired
	}
	_, err := a.api.AddChatMessage(ctx, client.NewChatMessage{
		UID:       admin.UID,
		Email:     admin.Email,
		Name:      SupportTeam,
		Msg:       msg,
		TargetUID: target,
	})
	return err
}

func (a *AdminController) CreateUser(ctx context.Context, email, password string) (*client.User, error) {
	email, password = strings.TrimSpace(email), strings.TrimSpace(password)
	if email == "" || password == "" {
		return nil, ErrCredentialsRequired
	}
	return a.api.SaveUser(ctx, client.UserUpdate{Email: client.String(email), Password: client.String(password)})
}

func (a *AdminController) SetRole(ctx context.Context, uid, role string) error {
	_, err := a.api.SaveUser(ctx, client.UserUpdate{UID: uid, Role: client.String(role)})
	return err
}

func (a *AdminController) ToggleBan(ctx context.Context, uid string) error {
	_, err := a.api.ToggleUserBan(ctx, uid)
	return err
}

func (a *AdminController) UpdateRequestStatus(ctx context.Context, id, status string) error {
	_, err := a.api.UpdateRequest(ctx, id, status)
	return err
}

func (a *AdminController) DeletePost(ctx context.Context, id string) error {
	return a.api.DeletePost(ctx, id)
}

func (a *AdminController) DeleteChat(ctx context.Context, id string) error {
	return a.api.DeleteChat(ctx, id)
}

// UpdateProfile saves the admin's own name, email and avatar and refreshes
// the stored session.
func (a *AdminController) UpdateProfile(ctx context.Context, name, email, avatar string) (*client.User, error) {
	return updateProfile(ctx, a.api, a.session, a.render, name, email, avatar)
}

func updateProfile(ctx context.Context, api *client.Client, session *client.Session, render interface{ RenderProfile(Profile) }, name, email, avatar string) (*client.User, error) {
	user := session.CurrentUser()
	if user == nil {
		return nil, ErrLoginRequired
	}
	updated, err := api.SaveUser(ctx, client.UserUpdate{
		UID:    user.UID,
		Name:   client.String(name),
		Email:  client.String(email),
		Avatar: client.String(avatar),
	})
	if err != nil {
		return nil, err
	}
	if err := session.SaveSession(updated); err != nil {
		return nil, err
	}
	render.RenderProfile(profileOf(*updated))
	return updated, nil
}

func clock(ms int64) string {
	return time.UnixMilli(ms).Format(clockLayout)
}
