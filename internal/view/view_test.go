package view

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"communityhub/pkg/client"
)

func strPtr(s string) *string { return &s }

func msg(id, uid, target string, ts int64, text string) client.ChatMessage {
	m := client.ChatMessage{ID: id, UID: uid, Msg: text, Timestamp: ts}
	if target != "" {
		m.TargetUID = strPtr(target)
	}
	return m
}

func TestSnapshotSwap(t *testing.T) {
	s := NewSnapshot()
	assert.True(t, s.Swap("posts", Serialize([]string{})))
	assert.False(t, s.Swap("posts", Serialize([]string{})))
	assert.True(t, s.Swap("posts", Serialize([]string{"a"})))
	assert.Equal(t, `["a"]`, s.Get("posts"))

	s.Reset("posts")
	assert.True(t, s.Swap("posts", Serialize([]string{"a"})))

	assert.True(t, Changed("a", "b"))
	assert.False(t, Changed("a", "a"))
}

func TestGroupConversations(t *testing.T) {
	msgs := []client.ChatMessage{
		msg("1", "u1", "", 1, "hi"),
		msg("2", "u2", "", 2, "yo"),
		msg("3", "admin", "u1", 3, "hello"),
		msg("4", "u1", "", 4, "thanks"),
	}

	convs := GroupConversations(msgs, "")
	require.Len(t, convs, 2)
	assert.Equal(t, "u1", convs[0].UID)
	assert.Len(t, convs[0].Messages, 3)
	assert.Equal(t, "u2", convs[1].UID)

	withOpen := GroupConversations(msgs, "u7")
	require.Len(t, withOpen, 3)
	assert.Equal(t, "u7", withOpen[2].UID)
	assert.Empty(t, withOpen[2].Messages)
	assert.NotNil(t, withOpen[2].Messages)

	assert.Len(t, GroupConversations(msgs, "u1"), 2)
	assert.Empty(t, GroupConversations(nil, ""))
}

func TestResolveDisplayNameCascade(t *testing.T) {
	users := []client.User{{UID: "u1", Name: "Record Name", Email: "record@x.com"}}

	own := msg("1", "u1", "", 1, "hi")
	own.Name = "Msg Name"
	own.Email = "msg@x.com"
	assert.Equal(t, "Msg Name", ResolveDisplayName("u1", []client.ChatMessage{own}, users))

	own.Name = ""
	assert.Equal(t, "Record Name", ResolveDisplayName("u1", []client.ChatMessage{own}, users))

	users[0].Name = ""
	assert.Equal(t, "msg@x.com", ResolveDisplayName("u1", []client.ChatMessage{own}, users))

	own.Email = ""
	assert.Equal(t, "record@x.com", ResolveDisplayName("u1", []client.ChatMessage{own}, users))

	assert.Equal(t, UnknownOperative, ResolveDisplayName("u1", []client.ChatMessage{own}, nil))
	assert.Equal(t, UnknownOperative, ResolveDisplayName("ghost", nil, nil))

	// a support reply never names the participant
	reply := msg("2", "u1", "u1", 2, "x")
	reply.Name = SupportTeam
	assert.Equal(t, UnknownOperative, ResolveDisplayName("u1", []client.ChatMessage{reply}, nil))
}

func TestThreadDropsUntimedAndSorts(t *testing.T) {
	thread := Thread([]client.ChatMessage{
		msg("b", "u1", "", 20, "second"),
		msg("x", "u1", "", 0, "untimed"),
		msg("a", "u1", "", 10, "first"),
	})
	require.Len(t, thread, 2)
	assert.Equal(t, "first", thread[0].Msg)
	assert.Equal(t, "second", thread[1].Msg)
}

func TestViewportRepaint(t *testing.T) {
	bottom := Viewport{ScrollTop: 100, ScrollHeight: 200, ClientHeight: 60}
	assert.True(t, bottom.AtBottom())
	assert.Equal(t, 240, bottom.Repaint(300).ScrollTop)

	edge := Viewport{ScrollTop: 90, ScrollHeight: 200, ClientHeight: 60}
	assert.True(t, edge.AtBottom())

	scrolledUp := Viewport{ScrollTop: 10, ScrollHeight: 200, ClientHeight: 60}
	assert.False(t, scrolledUp.AtBottom())
	assert.Equal(t, 10, scrolledUp.Repaint(300).ScrollTop)

	short := Viewport{ClientHeight: 60}
	assert.Equal(t, 0, short.Repaint(5).ScrollTop)
}

func TestRoute(t *testing.T) {
	admin := &client.User{UID: "a", Role: "admin"}
	member := &client.User{UID: "m", Role: "user"}

	assert.Equal(t, PageLogin, Route(nil, PageAdmin))
	assert.Equal(t, PageLogin, Route(nil, PageDashboard))
	assert.Equal(t, PageDashboard, Route(member, PageAdmin))
	assert.Equal(t, PageAdmin, Route(admin, PageAdmin))
	assert.Equal(t, PageDashboard, Route(admin, PageDashboard))
	assert.Equal(t, PageDashboard, Route(member, PageLogin))
}

func TestChatLinesSenderLabels(t *testing.T) {
	mine := msg("1", "u1", "", 1, "hi")
	reply := msg("2", "admin", "u1", 2, "hello")
	reply.Name = "Somebody"
	stranger := msg("3", "u2", "", 3, "hey")
	stranger.Email = "u2@x.com"

	lines := chatLines([]client.ChatMessage{mine, reply, stranger}, "u1")
	require.Len(t, lines, 3)
	assert.Equal(t, selfSenderLabel, lines[0].Sender)
	assert.True(t, lines[0].Self)
	assert.Equal(t, SupportTeam, lines[1].Sender)
	assert.False(t, lines[1].Self)
	assert.Equal(t, "u2@x.com", lines[2].Sender)
}

func TestPostAuthorCascade(t *testing.T) {
	users := []client.User{{UID: "u1", Name: "Record"}}
	assert.Equal(t, "Post", postAuthor(client.Post{UID: "u1", Name: "Post"}, users))
	assert.Equal(t, "Record", postAuthor(client.Post{UID: "u1", Email: "a@x.com"}, users))
	assert.Equal(t, "a@x.com", postAuthor(client.Post{UID: "u2", Email: "a@x.com"}, users))
	assert.Equal(t, UnknownOperative, postAuthor(client.Post{UID: "u2"}, users))
}

type countingRefresher struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (r *countingRefresher) Refresh(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	return r.err
}

func (r *countingRefresher) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

func TestPollReentersOnEventsAndSurvivesErrors(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	bus := client.NewBus()
	r := &countingRefresher{err: errors.New("store down")}

	done := make(chan struct{})
	go func() {
		Poll(ctx, bus, r, time.Hour, zerolog.Nop(), client.KindPosts)
		close(done)
	}()

	require.Eventually(t, func() bool { return r.count() == 1 }, time.Second, 5*time.Millisecond)

	bus.Emit(client.Event{Kind: client.KindFeedback})
	bus.Emit(client.Event{Kind: client.KindPosts})
	require.Eventually(t, func() bool { return r.count() == 2 }, time.Second, 5*time.Millisecond)

	cancel()
	<-done
	assert.Equal(t, 2, r.count())
}

func TestPollTicks(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r := &countingRefresher{}

	go Poll(ctx, nil, r, 10*time.Millisecond, zerolog.Nop())
	require.Eventually(t, func() bool { return r.count() >= 3 }, time.Second, 5*time.Millisecond)
}
