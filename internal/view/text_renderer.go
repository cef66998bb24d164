package view

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"communityhub/pkg/client"
)

// TextRenderer prints every repainted section to w. It implements both
// AdminRenderer and DashboardRenderer.
type TextRenderer struct {
	mu sync.Mutex
	w  io.Writer
}

func NewTextRenderer(w io.Writer) *TextRenderer {
	return &TextRenderer{w: w}
}

func (r *TextRenderer) section(title string, body func(w io.Writer)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.w, "== %s ==\n", title)
	body(r.w)
	fmt.Fprintln(r.w)
}

func shortUID(uid string) string {
	if len(uid) <= 8 {
		return uid
	}
	return uid[:8] + "..."
}

func (r *TextRenderer) RenderProfile(p Profile) {
	r.section("Profile", func(w io.Writer) {
		fmt.Fprintf(w, "%s (%s)\n", p.DisplayName, p.Role)
		if p.User.Avatar != "" {
			fmt.Fprintf(w, "avatar: %s\n", p.User.Avatar)
		}
	})
}

func (r *TextRenderer) RenderUsers(users []client.User) {
	r.section("Users", func(w io.Writer) {
		for _, u := range users {
			status := "Active"
			if u.IsBanned {
				status = "Inactive"
			}
			role := u.Role
			if role == "" {
				role = "user"
			}
			fmt.Fprintf(w, "%-10s %-30s %-6s %s\n", shortUID(u.UID), u.Email, role, status)
		}
	})
}

func (r *TextRenderer) RenderRequests(requests []client.Request) {
	r.section("Service Requests", func(w io.Writer) {
		for _, req := range requests {
			fmt.Fprintf(w, "[%s] %s: %s (%s)\n", req.Status, req.Type, req.Desc, req.ID)
		}
	})
}

func (r *TextRenderer) RenderPosts(posts []PostItem) {
	r.section("Community Posts", func(w io.Writer) {
		for _, p := range posts {
			fmt.Fprintf(w, "%s: %s (%s)\n", p.Author, p.Post.Content, p.Post.ID)
		}
	})
}

func (r *TextRenderer) RenderConversations(convs []ConversationItem) {
	r.section("Support Messages", func(w io.Writer) {
		for _, c := range convs {
			marker := " "
			if c.Open {
				marker = "*"
			}
			fmt.Fprintf(w, "%s %s  Last sync: %s\n", marker, c.Name, c.LastSync)
		}
	})
}

func (r *TextRenderer) RenderThread(pane ThreadPane) {
	r.section(pane.Header, func(w io.Writer) {
		if len(pane.Lines) == 0 {
			fmt.Fprintln(w, pane.Placeholder)
			return
		}
		lines := pane.Lines
		if vp := pane.Viewport; vp.ClientHeight > 0 {
			end := vp.ScrollTop + vp.ClientHeight
			if end > len(lines) {
				end = len(lines)
			}
			if vp.ScrollTop < end {
				lines = lines[vp.ScrollTop:end]
			}
		}
		for _, l := range lines {
			if l.Support {
				fmt.Fprintf(w, "%60s  %s\n", l.Msg, l.Time)
				continue
			}
			fmt.Fprintf(w, "%s  %s\n", l.Msg, l.Time)
		}
	})
}

func (r *TextRenderer) RenderFeed(feed Feed) {
	write := func(w io.Writer, items []PostItem, empty string) {
		if len(items) == 0 {
			fmt.Fprintln(w, empty)
			return
		}
		for _, p := range items {
			suffix := ""
			if p.Mine {
				suffix = " [You]"
			}
			fmt.Fprintf(w, "%s%s: %s\n", p.Author, suffix, p.Post.Content)
		}
	}
	r.section("Community Feed", func(w io.Writer) {
		write(w, feed.Public, feed.PublicEmptyText)
	})
	r.section("My Posts", func(w io.Writer) {
		write(w, feed.Mine, feed.MineEmptyText)
	})
}

func (r *TextRenderer) RenderChat(lines []ChatLine, placeholder string) {
	r.section("Support Chat", func(w io.Writer) {
		if len(lines) == 0 {
			fmt.Fprintln(w, placeholder)
			return
		}
		for _, l := range lines {
			fmt.Fprintf(w, "%s %s: %s\n", strings.TrimSpace(l.Time), l.Sender, l.Msg)
		}
	})
}
