package usecase

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"communityhub/internal/adapter/repository"
	"communityhub/internal/domain/entity"
	"communityhub/internal/infrastructure/credential"
	"communityhub/internal/infrastructure/store"
	apperrors "communityhub/pkg/errors"
)

type recordingNotifier struct {
	mu    sync.Mutex
	kinds []string
}

func (n *recordingNotifier) Publish(kind string, _ interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.kinds = append(n.kinds, kind)
}

type fixture struct {
	store    *store.Memory
	creds    *credential.Local
	notifier *recordingNotifier
	auth     *AuthUseCase
	users    *UserUseCase
	posts    *PostUseCase
	requests *RequestUseCase
	chat     *ChatUseCase
	feedback *FeedbackUseCase
}

func newFixture(t *testing.T, verify bool) *fixture {
	t.Helper()

	s := store.NewMemory()
	creds := credential.NewLocalWithCost(bcrypt.MinCost)
	n := &recordingNotifier{}

	userRepo := repository.NewUserRepository(s)

	var verifier PasswordVerifier
	if verify {
		verifier = creds
	}

	auth := NewAuthUseCase(userRepo, creds, verifier, n)
	return &fixture{
		store:    s,
		creds:    creds,
		notifier: n,
		auth:     auth,
		users:    NewUserUseCase(userRepo, auth, n),
		posts:    NewPostUseCase(repository.NewPostRepository(s), userRepo, n),
		requests: NewRequestUseCase(repository.NewRequestRepository(s), n),
		chat:     NewChatUseCase(repository.NewChatRepository(s), n),
		feedback: NewFeedbackUseCase(repository.NewFeedbackRepository(s), n),
	}
}

// tick makes nowMillis strictly increase between calls.
func tick(t *testing.T) {
	t.Helper()
	base := time.UnixMilli(1_700_000_000_000)
	var n int64
	var mu sync.Mutex
	prev := now
	now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		n++
		return base.Add(time.Duration(n) * time.Millisecond)
	}
	t.Cleanup(func() { now = prev })
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)

	user, err := f.auth.Register(ctx, RegisterInput{Email: "a@x.com", Password: "pw", Name: "A"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleUser, user.Role)
	assert.False(t, user.IsBanned)
	assert.NotZero(t, user.JoinedAt)
	assert.Equal(t, "", user.Avatar)

	_, err = f.auth.Register(ctx, RegisterInput{Email: "a@x.com", Password: "pw2"})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeConflict))
	assert.Equal(t, "CONFLICT: Email already exists", err.Error())

	all, err := f.users.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)

	_, err := f.auth.Login(ctx, "nobody@x.com", "pw")
	assert.True(t, apperrors.Is(err, apperrors.CodeUnauthorized))

	registered, err := f.auth.Register(ctx, RegisterInput{Email: "a@x.com", Password: "pw"})
	require.NoError(t, err)

	user, err := f.auth.Login(ctx, "a@x.com", "anything")
	require.NoError(t, err)
	assert.Equal(t, registered.UID, user.UID)
}

func TestLoginVerifiesPasswordWhenEnabled(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, true)

	_, err := f.auth.Register(ctx, RegisterInput{Email: "a@x.com", Password: "pw"})
	require.NoError(t, err)

	_, err = f.auth.Login(ctx, "a@x.com", "wrong")
	assert.True(t, apperrors.Is(err, apperrors.CodeUnauthorized))

	_, err = f.auth.Login(ctx, "a@x.com", "pw")
	assert.NoError(t, err)
}

func TestAdminCreateUsesGeneratedUID(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)

	user, err := f.users.Create(ctx, "b@x.com", "pw")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(user.UID, "user_"))

	_, err = f.users.Create(ctx, "b@x.com", "pw")
	assert.True(t, apperrors.Is(err, apperrors.CodeConflict))
}

func TestUserUpdateMergeUpsertAndNotFound(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)

	_, err := f.users.Update(ctx, nil, "ghost", map[string]interface{}{"name": "G"})
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))
	assert.Contains(t, err.Error(), "User not found")

	created, err := f.users.Update(ctx, nil, "u9", map[string]interface{}{"email": "u9@x.com", "name": "Nine"})
	require.NoError(t, err)
	assert.Equal(t, "u9", created.UID)
	assert.Equal(t, entity.RoleUser, created.Role)
	assert.False(t, created.IsBanned)
	assert.NotZero(t, created.JoinedAt)

	patch := map[string]interface{}{"isBanned": true, "uid": "hijack", "password": "x"}
	first, err := f.users.Update(ctx, nil, "u9", patch)
	require.NoError(t, err)
	second, err := f.users.Update(ctx, nil, "u9", patch)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, "u9", second.UID)
	assert.True(t, second.IsBanned)
	assert.Equal(t, "Nine", second.Name)
}

func TestUserUpdateKeepsEmailsUnique(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)

	_, err := f.users.Update(ctx, nil, "u1", map[string]interface{}{"email": "a@x.com"})
	require.NoError(t, err)
	_, err = f.users.Update(ctx, nil, "u2", map[string]interface{}{"email": "b@x.com"})
	require.NoError(t, err)

	_, err = f.users.Update(ctx, nil, "u2", map[string]interface{}{"email": "a@x.com"})
	assert.True(t, apperrors.Is(err, apperrors.CodeConflict))
	_, err = f.users.Update(ctx, nil, "u3", map[string]interface{}{"email": "a@x.com"})
	assert.True(t, apperrors.Is(err, apperrors.CodeConflict))

	same, err := f.users.Update(ctx, nil, "u1", map[string]interface{}{"email": "a@x.com", "name": "A"})
	require.NoError(t, err)
	assert.Equal(t, "A", same.Name)
}

func TestUserUpdateValidatesFields(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)

	_, err := f.users.Update(ctx, nil, "u1", map[string]interface{}{"email": "a@x.com", "role": "root"})
	assert.True(t, apperrors.Is(err, apperrors.CodeBadRequest))

	_, err = f.users.Update(ctx, nil, "u1", map[string]interface{}{"email": "a@x.com", "isBanned": "yes"})
	assert.True(t, apperrors.Is(err, apperrors.CodeBadRequest))
}

func TestUserUpdateAuthorization(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)

	_, err := f.users.Update(ctx, nil, "u1", map[string]interface{}{"email": "a@x.com"})
	require.NoError(t, err)

	self := &Actor{UID: "u1"}
	_, err = f.users.Update(ctx, self, "u1", map[string]interface{}{"name": "Me"})
	assert.NoError(t, err)

	_, err = f.users.Update(ctx, self, "u1", map[string]interface{}{"role": "admin"})
	assert.True(t, apperrors.Is(err, apperrors.CodeForbidden))

	_, err = f.users.Update(ctx, &Actor{UID: "u2"}, "u1", map[string]interface{}{"name": "X"})
	assert.True(t, apperrors.Is(err, apperrors.CodeForbidden))

	updated, err := f.users.Update(ctx, &Actor{UID: "admin", Admin: true}, "u1", map[string]interface{}{"isBanned": true})
	require.NoError(t, err)
	assert.True(t, updated.IsBanned)
}

func TestBannedUserCannotPost(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)

	_, err := f.users.Update(ctx, nil, "u1", map[string]interface{}{"email": "a@x.com", "isBanned": true})
	require.NoError(t, err)

	_, err = f.posts.Create(ctx, nil, CreatePostInput{UID: "u1", Email: "a@x.com", Content: "hello"})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeForbidden))

	posts, err := f.posts.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestPostsAreMostRecentFirst(t *testing.T) {
	ctx := context.Background()
	tick(t)
	f := newFixture(t, false)

	first, err := f.posts.Create(ctx, nil, CreatePostInput{UID: "u1", Email: "a@x.com", Content: "one"})
	require.NoError(t, err)
	second, err := f.posts.Create(ctx, nil, CreatePostInput{UID: "u2", Email: "b@x.com", Content: "two"})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	posts, err := f.posts.List(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, second, posts[0])
	assert.Equal(t, first, posts[1])
}

func TestPostDeleteAuthorization(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)

	post, err := f.posts.Create(ctx, nil, CreatePostInput{UID: "u1", Email: "a@x.com", Content: "mine"})
	require.NoError(t, err)

	err = f.posts.Delete(ctx, &Actor{UID: "u2"}, post.ID)
	assert.True(t, apperrors.Is(err, apperrors.CodeForbidden))

	require.NoError(t, f.posts.Delete(ctx, &Actor{UID: "u1"}, post.ID))
	require.NoError(t, f.posts.Delete(ctx, nil, post.ID))
}

func TestActorBindsAuthorship(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)
	member := &Actor{UID: "u1"}
	admin := &Actor{UID: "admin1", Admin: true}

	_, err := f.posts.Create(ctx, member, CreatePostInput{UID: "u2", Content: "spoof"})
	assert.True(t, apperrors.Is(err, apperrors.CodeForbidden))
	_, err = f.posts.Create(ctx, admin, CreatePostInput{UID: "u2", Content: "on behalf"})
	require.NoError(t, err)

	_, err = f.chat.Send(ctx, member, SendMessageInput{UID: "u1", Msg: "reply", TargetUID: "u2"})
	assert.True(t, apperrors.Is(err, apperrors.CodeForbidden))
	_, err = f.chat.Send(ctx, member, SendMessageInput{UID: "u1", Msg: "help"})
	require.NoError(t, err)

	_, err = f.chat.List(ctx, member, "")
	assert.True(t, apperrors.Is(err, apperrors.CodeForbidden))
	_, err = f.chat.List(ctx, member, "u2")
	assert.True(t, apperrors.Is(err, apperrors.CodeForbidden))
	all, err := f.chat.List(ctx, admin, "")
	require.NoError(t, err)
	assert.Len(t, all, 1)

	_, err = f.requests.List(ctx, member, "")
	assert.True(t, apperrors.Is(err, apperrors.CodeForbidden))
	_, err = f.feedback.Submit(ctx, member, SubmitFeedbackInput{UID: "u2", Message: "spoof"})
	assert.True(t, apperrors.Is(err, apperrors.CodeForbidden))
}

func TestRequests(t *testing.T) {
	ctx := context.Background()
	tick(t)
	f := newFixture(t, false)

	_, err := f.requests.UpdateStatus(ctx, "r1", entity.RequestCompleted)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))
	assert.Equal(t, "NOT_FOUND: Request not found", err.Error())

	a, err := f.requests.Create(ctx, nil, CreateRequestInput{UID: "u1", Type: "repair", Desc: "sink"})
	require.NoError(t, err)
	assert.Equal(t, entity.RequestPending, a.Status)
	b, err := f.requests.Create(ctx, nil, CreateRequestInput{UID: "u2", Type: "move", Desc: "boxes"})
	require.NoError(t, err)
	c, err := f.requests.Create(ctx, nil, CreateRequestInput{UID: "u1", Type: "clean", Desc: "yard"})
	require.NoError(t, err)

	all, err := f.requests.List(ctx, nil, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{c.ID, b.ID, a.ID}, []string{all[0].ID, all[1].ID, all[2].ID})

	mine, err := f.requests.List(ctx, nil, "u1")
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, c.ID, mine[0].ID)

	_, err = f.requests.UpdateStatus(ctx, a.ID, "archived")
	assert.True(t, apperrors.Is(err, apperrors.CodeBadRequest))

	updated, err := f.requests.UpdateStatus(ctx, a.ID, entity.RequestActive)
	require.NoError(t, err)
	assert.Equal(t, entity.RequestActive, updated.Status)
	assert.Equal(t, a.Desc, updated.Desc)
}

func TestChatConversation(t *testing.T) {
	ctx := context.Background()
	tick(t)
	f := newFixture(t, false)

	hi, err := f.chat.Send(ctx, nil, SendMessageInput{UID: "u1", Msg: "hi"})
	require.NoError(t, err)
	assert.Nil(t, hi.TargetUID)

	_, err = f.chat.Send(ctx, nil, SendMessageInput{UID: "u2", Msg: "unrelated"})
	require.NoError(t, err)

	hello, err := f.chat.Send(ctx, nil, SendMessageInput{UID: "admin1", Msg: "hello", TargetUID: "u1"})
	require.NoError(t, err)
	require.NotNil(t, hello.TargetUID)

	conv, err := f.chat.List(ctx, nil, "u1")
	require.NoError(t, err)
	require.Len(t, conv, 2)
	assert.Equal(t, hi.ID, conv[0].ID)
	assert.Equal(t, hello.ID, conv[1].ID)

	all, err := f.chat.List(ctx, nil, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	require.NoError(t, f.chat.Delete(ctx, hi.ID))
	conv, err = f.chat.List(ctx, nil, "u1")
	require.NoError(t, err)
	assert.Len(t, conv, 1)
}

func TestFeedbackIsMostRecentFirstAndNotifies(t *testing.T) {
	ctx := context.Background()
	tick(t)
	f := newFixture(t, false)

	_, err := f.feedback.Submit(ctx, nil, SubmitFeedbackInput{UID: "u1", Message: "first"})
	require.NoError(t, err)
	second, err := f.feedback.Submit(ctx, nil, SubmitFeedbackInput{UID: "u1", Message: "second"})
	require.NoError(t, err)

	items, err := f.feedback.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, second.ID, items[0].ID)
	assert.Equal(t, []string{EventFeedback, EventFeedback}, f.notifier.kinds)
}

func TestNewIDIsUniqueWithinOneTick(t *testing.T) {
	seen := make(map[string]bool, 1000)
	for i := 0; i < 1000; i++ {
		id := newID()
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}
