// Command console is a terminal front end for the community hub API: it
// manages the local session and runs the member dashboard or admin views.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/pflag"

	"communityhub/internal/view"
	"communityhub/pkg/client"
	"communityhub/pkg/logger"
)

const usage = `usage: console [flags] <command> [args]

session:   signup EMAIL PASSWORD | login EMAIL PASSWORD | logout | whoami
views:     dashboard | admin
member:    post CONTENT | request TYPE DESC | chat MSG | feedback MESSAGE
admin:     create-user EMAIL PASSWORD | role UID ROLE | ban UID
           status REQUEST_ID STATUS | reply UID MSG
           delete-post ID | delete-chat ID
`

type options struct {
	api     string
	session string
	name    string
	phone   string
	open    string
	listen  bool
	verbose bool
}

func defaultSessionPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".communityhub-session.json"
	}
	return filepath.Join(dir, "communityhub", "session.json")
}

func main() {
	var opts options
	flags := pflag.NewFlagSet("console", pflag.ExitOnError)
	flags.StringVar(&opts.api, "api", envOr("COMMUNITYHUB_API", "http://localhost:3001"), "API base URL")
	flags.StringVar(&opts.session, "session", defaultSessionPath(), "session file")
	flags.StringVar(&opts.name, "name", "", "display name for signup or feedback")
	flags.StringVar(&opts.phone, "phone", "", "phone number for signup")
	flags.StringVar(&opts.open, "open", "", "conversation to open in the admin view")
	flags.BoolVar(&opts.listen, "listen", true, "refresh early on server push events")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")
	flags.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flags.PrintDefaults()
	}
	_ = flags.Parse(os.Args[1:])

	level := "warn"
	if opts.verbose {
		level = "debug"
	}
	logger.Init(os.Stderr, level, "")

	args := flags.Args()
	if len(args) == 0 {
		flags.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts, args[0], args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func need(args []string, n int, cmd string) error {
	if len(args) < n {
		return fmt.Errorf("%s needs %d argument(s)", cmd, n)
	}
	return nil
}

func run(ctx context.Context, opts options, cmd string, args []string) error {
	storage := client.FileStorage{Path: opts.session}

	// header auth mode identifies the caller by the stored session's uid
	var headers []client.Option
	if user, _ := storage.Load(); user != nil {
		headers = append(headers, client.WithHeader("X-User-ID", user.UID))
	}
	api := client.New(opts.api, headers...)
	session := client.NewSession(api, storage)
	out := view.NewTextRenderer(os.Stdout)

	switch cmd {
	case "signup":
		if err := need(args, 2, cmd); err != nil {
			return err
		}
		user, err := session.Signup(ctx, args[0], args[1], opts.name, opts.phone)
		if err != nil {
			return err
		}
		fmt.Printf("Signed up as %s (%s)\n", user.Email, user.UID)
		return nil

	case "login":
		if err := need(args, 2, cmd); err != nil {
			return err
		}
		user, err := session.Login(ctx, args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Printf("Logged in as %s, opening %s\n", user.Email, view.Route(user, view.PageAdmin))
		return nil

	case "logout":
		return session.Logout()

	case "whoami":
		user := session.CurrentUser()
		if user == nil {
			return view.ErrLoginRequired
		}
		out.RenderProfile(view.Profile{DisplayName: displayName(user), Role: user.Role, User: *user})
		return nil

	case "dashboard":
		d, err := view.NewDashboardController(ctx, api, session, out)
		if err != nil {
			return err
		}
		listen(ctx, api, opts)
		d.Run(ctx)
		return nil

	case "admin":
		a, err := view.NewAdminController(api, session, out)
		var redirect *view.RedirectError
		if errors.As(err, &redirect) {
			fmt.Println("Admin privileges required, opening the dashboard")
			return run(ctx, opts, string(redirect.To), args)
		}
		if err != nil {
			return err
		}
		if opts.open != "" {
			a.Open(opts.open, opts.open)
		}
		listen(ctx, api, opts)
		a.Run(ctx)
		return nil
	}

	if session.CurrentUser() == nil {
		return view.ErrLoginRequired
	}
	if d, ok := memberCommands[cmd]; ok {
		if err := need(args, d.args, cmd); err != nil {
			return err
		}
		dash, err := view.NewDashboardController(ctx, api, session, out)
		if err != nil {
			return err
		}
		wrote, err := d.run(ctx, dash, opts, args)
		if err != nil {
			return err
		}
		if wrote {
			fmt.Println(d.done)
		}
		return nil
	}
	if c, ok := adminCommands[cmd]; ok {
		if err := need(args, c.args, cmd); err != nil {
			return err
		}
		a, err := view.NewAdminController(api, session, out)
		if err != nil {
			return err
		}
		wrote, err := c.run(ctx, a, args)
		if err != nil {
			return err
		}
		if wrote {
			fmt.Println(c.done)
		}
		return nil
	}

	return fmt.Errorf("unknown command %q", cmd)
}

func displayName(u *client.User) string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

// listen bridges the push channel onto the bus for the life of ctx. When
// it fails the view keeps polling.
func listen(ctx context.Context, api *client.Client, opts options) {
	if !opts.listen {
		return
	}
	log := logger.Component("console")
	go func() {
		if err := api.Listen(ctx); err != nil {
			log.Debug().Err(err).Msg("push channel unavailable, polling only")
		}
	}()
}

// Commands report whether they wrote anything; blank input is ignored
// without an error.
type memberCommand struct {
	args int
	done string
	run  func(ctx context.Context, d *view.DashboardController, opts options, args []string) (bool, error)
}

var memberCommands = map[string]memberCommand{
	"post": {1, "Post shared!", func(ctx context.Context, d *view.DashboardController, _ options, args []string) (bool, error) {
		post, err := d.Post(ctx, args[0])
		return post != nil, err
	}},
	"request": {2, "Service request submitted!", func(ctx context.Context, d *view.DashboardController, _ options, args []string) (bool, error) {
		req, err := d.RequestService(ctx, args[0], args[1])
		return req != nil, err
	}},
	"chat": {1, "Message sent.", func(ctx context.Context, d *view.DashboardController, _ options, args []string) (bool, error) {
		msg, err := d.SendMessage(ctx, args[0])
		return msg != nil, err
	}},
	"feedback": {1, "Thank you for your feedback!", func(ctx context.Context, d *view.DashboardController, opts options, args []string) (bool, error) {
		fb, err := d.SubmitFeedback(ctx, opts.name, args[0])
		return fb != nil, err
	}},
}

type adminCommand struct {
	args int
	done string
	run  func(ctx context.Context, a *view.AdminController, args []string) (bool, error)
}

var adminCommands = map[string]adminCommand{
	"create-user": {2, "User created!", func(ctx context.Context, a *view.AdminController, args []string) (bool, error) {
		user, err := a.CreateUser(ctx, args[0], args[1])
		return user != nil, err
	}},
	"role": {2, "User role updated!", func(ctx context.Context, a *view.AdminController, args []string) (bool, error) {
		return true, a.SetRole(ctx, args[0], args[1])
	}},
	"ban": {1, "User status updated!", func(ctx context.Context, a *view.AdminController, args []string) (bool, error) {
		return true, a.ToggleBan(ctx, args[0])
	}},
	"status": {2, "Status updated!", func(ctx context.Context, a *view.AdminController, args []string) (bool, error) {
		return true, a.UpdateRequestStatus(ctx, args[0], args[1])
	}},
	"reply": {2, "Reply sent.", func(ctx context.Context, a *view.AdminController, args []string) (bool, error) {
		if strings.TrimSpace(args[1]) == "" {
			return false, nil
		}
		a.Open(args[0], args[0])
		return true, a.Reply(ctx, args[1])
	}},
	"delete-post": {1, "Deleted!", func(ctx context.Context, a *view.AdminController, args []string) (bool, error) {
		return true, a.DeletePost(ctx, args[0])
	}},
	"delete-chat": {1, "Deleted!", func(ctx context.Context, a *view.AdminController, args []string) (bool, error) {
		return true, a.DeleteChat(ctx, args[0])
	}},
}
