package view

import (
	"bytes"
	"context"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"communityhub/internal/app"
	"communityhub/internal/infrastructure/credential"
	"communityhub/internal/infrastructure/ratelimit"
	"communityhub/internal/infrastructure/store"
	"communityhub/pkg/client"
	"communityhub/pkg/config"
)

type recorder struct {
	mu            sync.Mutex
	profiles      []Profile
	users         [][]client.User
	requests      [][]client.Request
	posts         [][]PostItem
	conversations [][]ConversationItem
	threads       []ThreadPane
	feeds         []Feed
	chats         [][]ChatLine
}

func (r *recorder) RenderProfile(p Profile) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles = append(r.profiles, p)
}

func (r *recorder) RenderUsers(u []client.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users = append(r.users, u)
}

func (r *recorder) RenderRequests(reqs []client.Request) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests = append(r.requests, reqs)
}

func (r *recorder) RenderPosts(p []PostItem) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.posts = append(r.posts, p)
}

func (r *recorder) RenderConversations(c []ConversationItem) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conversations = append(r.conversations, c)
}

func (r *recorder) RenderThread(p ThreadPane) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.threads = append(r.threads, p)
}

func (r *recorder) RenderFeed(f Feed) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.feeds = append(r.feeds, f)
}

func (r *recorder) RenderChat(lines []ChatLine, _ string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.chats = append(r.chats, lines)
}

func newAPI(t *testing.T) *client.Client {
	t.Helper()

	cfg := &config.Config{
		StoreDriver:       config.StoreMemory,
		CredentialDriver:  config.CredentialLocal,
		AuthMode:          config.AuthNone,
		AuthRatePerMinute: 1000,
	}
	creds := credential.NewLocalWithCost(bcrypt.MinCost)
	srv := httptest.NewServer(app.NewServer(app.Deps{
		Config:      cfg,
		Store:       store.NewMemory(),
		Credentials: creds,
		Verifier:    creds,
		AuthLimiter: ratelimit.NewRateLimiter(cfg.AuthRatePerMinute),
	}))
	t.Cleanup(srv.Close)
	return client.New(srv.URL)
}

func signIn(t *testing.T, api *client.Client, email string, admin bool) *client.Session {
	t.Helper()
	ctx := context.Background()
	session := client.NewSession(api, nil)
	user, err := session.Signup(ctx, email, "pw", "", "")
	require.NoError(t, err)
	if admin {
		promoted, err := api.SaveUser(ctx, client.UserUpdate{UID: user.UID, Role: client.String("admin")})
		require.NoError(t, err)
		require.NoError(t, session.SaveSession(promoted))
	}
	return session
}

func TestAdminControllerGuards(t *testing.T) {
	api := newAPI(t)

	_, err := NewAdminController(api, client.NewSession(api, nil), &recorder{})
	assert.ErrorIs(t, err, ErrLoginRequired)

	_, err = NewAdminController(api, signIn(t, api, "m@x.com", false), &recorder{})
	var redirect *RedirectError
	require.ErrorAs(t, err, &redirect)
	assert.Equal(t, PageDashboard, redirect.To)
}

func TestAdminControllerDiffsSections(t *testing.T) {
	ctx := context.Background()
	api := newAPI(t)
	r := &recorder{}
	admin, err := NewAdminController(api, signIn(t, api, "admin@x.com", true), r)
	require.NoError(t, err)
	require.Len(t, r.profiles, 1)
	assert.Equal(t, "admin", r.profiles[0].Role)

	require.NoError(t, admin.Refresh(ctx))
	assert.Len(t, r.users, 1)
	assert.Len(t, r.requests, 1)
	assert.Len(t, r.posts, 1)
	assert.Len(t, r.conversations, 1)
	assert.Empty(t, r.threads)

	require.NoError(t, admin.Refresh(ctx))
	assert.Len(t, r.users, 1)
	assert.Len(t, r.conversations, 1)

	_, err = api.AddPost(ctx, client.NewPost{UID: "u1", Email: "u1@x.com", Content: "hello"})
	require.NoError(t, err)
	require.NoError(t, admin.Refresh(ctx))
	require.Len(t, r.posts, 2)
	assert.Equal(t, "u1@x.com", r.posts[1][0].Author)
	assert.Len(t, r.users, 1)

	require.NoError(t, admin.SetRole(ctx, r.users[0][0].UID, "user"))
	require.NoError(t, admin.Refresh(ctx))
	assert.Len(t, r.users, 2)
}

func TestAdminControllerThread(t *testing.T) {
	ctx := context.Background()
	api := newAPI(t)
	r := &recorder{}
	admin, err := NewAdminController(api, signIn(t, api, "admin@x.com", true), r)
	require.NoError(t, err)

	_, err = api.AddChatMessage(ctx, client.NewChatMessage{UID: "u1", Name: "Una", Msg: "hi"})
	require.NoError(t, err)
	require.NoError(t, admin.Refresh(ctx))
	require.Len(t, r.conversations, 1)
	assert.Equal(t, "Una", r.conversations[0][0].Name)
	assert.False(t, r.conversations[0][0].Open)

	admin.Open("u1", "Una")
	require.Len(t, r.threads, 1)
	assert.Equal(t, EmptyThread, r.threads[0].Placeholder)

	require.NoError(t, admin.Refresh(ctx))
	require.Len(t, r.conversations, 2)
	assert.True(t, r.conversations[1][0].Open)
	require.Len(t, r.threads, 2)
	assert.Equal(t, "Chat with Una", r.threads[1].Header)
	require.Len(t, r.threads[1].Lines, 1)

	// unchanged data repaints nothing, including the thread
	require.NoError(t, admin.Refresh(ctx))
	assert.Len(t, r.conversations, 2)
	assert.Len(t, r.threads, 2)

	require.NoError(t, admin.Reply(ctx, "hello"))
	require.NoError(t, admin.Refresh(ctx))
	require.Len(t, r.threads, 3)
	lines := r.threads[2].Lines
	require.Len(t, lines, 2)
	assert.False(t, lines[0].Support)
	assert.True(t, lines[1].Support)
}

func TestAdminControllerOpensEmptyStream(t *testing.T) {
	ctx := context.Background()
	api := newAPI(t)
	r := &recorder{}
	admin, err := NewAdminController(api, signIn(t, api, "admin@x.com", true), r)
	require.NoError(t, err)

	admin.Open("ghost", "ghost")
	require.NoError(t, admin.Refresh(ctx))

	require.Len(t, r.conversations, 1)
	require.Len(t, r.conversations[0], 1)
	item := r.conversations[0][0]
	assert.Equal(t, "ghost", item.UID)
	assert.Equal(t, NewStream, item.LastSync)
	assert.Equal(t, UnknownOperative, item.Name)
	// the empty thread was already painted by Open
	assert.Len(t, r.threads, 1)
}

func TestAdminControllerCreateUserValidates(t *testing.T) {
	api := newAPI(t)
	admin, err := NewAdminController(api, signIn(t, api, "admin@x.com", true), &recorder{})
	require.NoError(t, err)

	_, err = admin.CreateUser(context.Background(), " ", "pw")
	assert.ErrorIs(t, err, ErrCredentialsRequired)

	created, err := admin.CreateUser(context.Background(), "new@x.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "new@x.com", created.Email)
}

func TestDashboardController(t *testing.T) {
	ctx := context.Background()
	api := newAPI(t)
	r := &recorder{}

	_, err := NewDashboardController(ctx, api, client.NewSession(api, nil), r)
	assert.ErrorIs(t, err, ErrLoginRequired)

	session := signIn(t, api, "me@x.com", false)
	d, err := NewDashboardController(ctx, api, session, r)
	require.NoError(t, err)

	require.NoError(t, d.Refresh(ctx))
	require.Len(t, r.feeds, 1)
	assert.Empty(t, r.feeds[0].Mine)
	assert.Equal(t, EmptyOwnFeed, r.feeds[0].MineEmptyText)
	require.Len(t, r.chats, 1)
	assert.Empty(t, r.chats[0])

	_, err = d.Post(ctx, "mine")
	require.NoError(t, err)
	_, err = api.AddPost(ctx, client.NewPost{UID: "other", Email: "o@x.com", Content: "theirs"})
	require.NoError(t, err)
	_, err = d.SendMessage(ctx, "help")
	require.NoError(t, err)
	_, err = d.RequestService(ctx, "repair", "sink")
	require.NoError(t, err)

	require.NoError(t, d.Refresh(ctx))
	require.Len(t, r.feeds, 2)
	feed := r.feeds[1]
	require.Len(t, feed.Mine, 1)
	assert.Equal(t, "me", feed.Mine[0].Author)
	require.Len(t, feed.Public, 1)
	assert.Equal(t, "o@x.com", feed.Public[0].Author)
	require.Len(t, r.requests, 2)
	assert.Len(t, r.requests[1], 1)
	require.Len(t, r.chats, 2)
	assert.Equal(t, selfSenderLabel, r.chats[1][0].Sender)

	_, err = d.SubmitFeedback(ctx, "", " ")
	assert.ErrorIs(t, err, ErrMessageRequired)

	updated, err := d.UpdateProfile(ctx, "Me Myself", "me@x.com", "")
	require.NoError(t, err)
	assert.Equal(t, "Me Myself", session.CurrentUser().Name)
	assert.Equal(t, "Me Myself", updated.Name)
}

func TestDashboardSyncsStaleSession(t *testing.T) {
	ctx := context.Background()
	api := newAPI(t)
	session := signIn(t, api, "me@x.com", false)
	uid := session.CurrentUser().UID

	_, err := api.SaveUser(ctx, client.UserUpdate{UID: uid, Name: client.String("Renamed")})
	require.NoError(t, err)

	_, err = NewDashboardController(ctx, api, session, &recorder{})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", session.CurrentUser().Name)
}

func TestTextRenderer(t *testing.T) {
	var buf bytes.Buffer
	r := NewTextRenderer(&buf)

	r.RenderThread(ThreadPane{Header: "Chat with Una", Placeholder: EmptyThread})
	r.RenderConversations([]ConversationItem{{UID: "u1", Name: "Una", LastSync: NewStream, Open: true}})
	r.RenderChat(nil, EmptyChat)

	out := buf.String()
	assert.Contains(t, out, "== Chat with Una ==")
	assert.Contains(t, out, EmptyThread)
	assert.Contains(t, out, "* Una  Last sync: New Stream")
	assert.Contains(t, out, EmptyChat)
}
