// Command habitctl is a CLI client for the habit-tracking service.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/habitloop/client-go/dateutil"
	"github.com/habitloop/client-go/errs"
	"github.com/habitloop/client-go/habit"
	"github.com/habitloop/client-go/schema"
	"github.com/habitloop/client-go/transport"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

// ---- env config ----

func getEnv(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return v
}

// ---- utils ----

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func fail(err error) {
	var verr *schema.ValidationError
	if errors.As(err, &verr) {
		fmt.Fprintln(os.Stderr, "invalid input:")
		for field, msg := range verr.Fields {
			fmt.Fprintf(os.Stderr, "  %s: %s\n", field, msg)
		}
		os.Exit(1)
	}
	if errors.Is(err, errs.ErrUnauthorized) {
		fmt.Fprintln(os.Stderr, "session expired, run: habitctl login")
		os.Exit(1)
	}
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

func usage() {
	fmt.Fprintf(os.Stderr, `habitctl
Usage:
  habitctl [-v] <cmd> [args]

Environment (.env supported):
  HABIT_BASE_URL   service base URL (default http://localhost:8000/api)
  HABIT_TIMEOUT    request timeout (default 10s)

Commands:
  version
  register  -email <e> -username <u> -password <p> -confirm <p> [-first f] [-last l]
  login     -email <e> -password <p>                (persists refresh token)
  logout
  whoami
  profile   [-first f] [-last l] [-timezone tz]
  list
  add       -name <n> [-desc d] [-freq daily|weekly|custom]
  edit      -id <n> [-name n] [-desc d] [-freq f] [-active true|false]
  rm        -id <n>
  done      -id <n> [-notes s]
  undo      -id <n>
  log       -id <n> [-from YYYY-MM-DD] [-to YYYY-MM-DD]
  today
  stats
`)
	os.Exit(2)
}

// newClient builds the API client and restores the session from the stored
// refresh token when one exists.
func newClient(ctx context.Context, verbose bool) *habit.Client {
	_ = godotenv.Load()

	logger := zap.NewNop()
	if verbose {
		logger, _ = zap.NewDevelopment()
	}

	cli, err := habit.New(transport.Config{
		BaseURL: getEnv("HABIT_BASE_URL", "http://localhost:8000/api"),
		Timeout: getDuration("HABIT_TIMEOUT", 10*time.Second),
		Storage: transport.NewFileStorage(transport.DefaultStoragePath()),
		Logger:  logger,
	})
	if err != nil {
		fail(err)
	}

	// Access tokens never outlive the process; a stored refresh token is the
	// only way back into a session.
	if _, ok := cli.RefreshAccessToken(ctx); ok && verbose {
		info := cli.Session()
		logger.Info("session restored", zap.Time("expires", info.ExpiresAt))
	}
	return cli
}

// main dispatches subcommands against the configured service.
func main() {
	verbose := flag.Bool("v", false, "verbose logging")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
	}
	cmd := flag.Arg(0)
	args := flag.Args()[1:]

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if cmd == "version" {
		fmt.Printf("habitctl %s (%s)\n", version, buildDate)
		return
	}

	cli := newClient(ctx, *verbose)

	switch cmd {

	case "register":
		fs := flag.NewFlagSet("register", flag.ExitOnError)
		email := fs.String("email", "", "email")
		username := fs.String("username", "", "username")
		password := fs.String("password", "", "password")
		confirm := fs.String("confirm", "", "password confirmation")
		first := fs.String("first", "", "first name")
		last := fs.String("last", "", "last name")
		_ = fs.Parse(args)

		resp, err := cli.Auth.Register(ctx, schema.Registration{
			Email:           *email,
			Username:        *username,
			Password:        *password,
			PasswordConfirm: *confirm,
			FirstName:       *first,
			LastName:        *last,
		})
		if err != nil {
			fail(err)
		}
		fmt.Printf("registered %s (#%d)\n", resp.User.Username, resp.User.ID)

	case "login":
		fs := flag.NewFlagSet("login", flag.ExitOnError)
		email := fs.String("email", "", "email")
		password := fs.String("password", "", "password")
		_ = fs.Parse(args)

		resp, err := cli.Auth.Login(ctx, schema.LoginCredentials{Email: *email, Password: *password})
		if err != nil {
			fail(err)
		}
		fmt.Printf("logged in as %s\n", resp.User.Username)

	case "logout":
		if err := cli.Auth.Logout(); err != nil {
			fail(err)
		}
		fmt.Println("logged out")

	case "whoami":
		user, err := cli.Auth.CurrentUser(ctx)
		if err != nil {
			fail(err)
		}
		printJSON(user)

	case "profile":
		fs := flag.NewFlagSet("profile", flag.ExitOnError)
		first := fs.String("first", "", "first name")
		last := fs.String("last", "", "last name")
		tz := fs.String("timezone", "", "IANA timezone")
		_ = fs.Parse(args)

		var patch schema.ProfileUpdate
		if *first != "" {
			patch.FirstName = first
		}
		if *last != "" {
			patch.LastName = last
		}
		if *tz != "" {
			patch.Timezone = tz
		}
		user, err := cli.Auth.UpdateProfile(ctx, patch)
		if err != nil {
			fail(err)
		}
		printJSON(user)

	case "list":
		habits, err := cli.Habits.Habits(ctx)
		if err != nil {
			fail(err)
		}
		for _, h := range habits {
			mark := " "
			if h.IsCompletedToday {
				mark = "x"
			}
			fmt.Printf("[%s] #%-4d %-30s %-7s streak=%d best=%d rate=%.0f%%\n",
				mark, h.ID, h.Name, h.Frequency, h.CurrentStreak, h.BestStreak, h.CompletionRate)
		}

	case "add":
		fs := flag.NewFlagSet("add", flag.ExitOnError)
		name := fs.String("name", "", "habit name")
		desc := fs.String("desc", "", "description")
		freq := fs.String("freq", "", "daily|weekly|custom")
		_ = fs.Parse(args)

		created, err := cli.Habits.CreateHabit(ctx, schema.HabitCreate{
			Name:        *name,
			Description: *desc,
			Frequency:   *freq,
		})
		if err != nil {
			fail(err)
		}
		fmt.Printf("added #%d %s\n", created.ID, created.Name)

	case "edit":
		fs := flag.NewFlagSet("edit", flag.ExitOnError)
		id := fs.Int64("id", 0, "habit id")
		name := fs.String("name", "", "habit name")
		desc := fs.String("desc", "", "description")
		freq := fs.String("freq", "", "daily|weekly|custom")
		active := fs.String("active", "", "true|false")
		_ = fs.Parse(args)

		var patch schema.HabitUpdate
		if *name != "" {
			patch.Name = name
		}
		if *desc != "" {
			patch.Description = desc
		}
		if *freq != "" {
			patch.Frequency = freq
		}
		if *active != "" {
			v := *active == "true"
			patch.IsActive = &v
		}
		updated, err := cli.Habits.UpdateHabit(ctx, *id, patch)
		if err != nil {
			fail(err)
		}
		printJSON(updated)

	case "rm":
		fs := flag.NewFlagSet("rm", flag.ExitOnError)
		id := fs.Int64("id", 0, "habit id")
		_ = fs.Parse(args)

		if err := cli.Habits.DeleteHabit(ctx, *id); err != nil {
			fail(err)
		}
		fmt.Printf("deleted #%d\n", *id)

	case "done":
		fs := flag.NewFlagSet("done", flag.ExitOnError)
		id := fs.Int64("id", 0, "habit id")
		notes := fs.String("notes", "", "notes")
		_ = fs.Parse(args)

		completion, err := cli.Habits.MarkComplete(ctx, *id, *notes)
		if err != nil {
			fail(err)
		}
		fmt.Printf("#%d done for %s\n", *id, completion.Date)

	case "undo":
		fs := flag.NewFlagSet("undo", flag.ExitOnError)
		id := fs.Int64("id", 0, "habit id")
		_ = fs.Parse(args)

		completion, err := cli.Habits.MarkIncomplete(ctx, *id)
		if err != nil {
			fail(err)
		}
		fmt.Printf("#%d not done for %s\n", *id, completion.Date)

	case "log":
		fs := flag.NewFlagSet("log", flag.ExitOnError)
		id := fs.Int64("id", 0, "habit id")
		from := fs.String("from", "", "start date (YYYY-MM-DD)")
		to := fs.String("to", "", "end date (YYYY-MM-DD)")
		_ = fs.Parse(args)

		completions, err := cli.Habits.Completions(ctx, *id, *from, *to)
		if err != nil {
			fail(err)
		}
		for _, c := range completions {
			mark := " "
			if c.Completed {
				mark = "x"
			}
			when := c.Date
			if day, err := dateutil.Parse(c.Date); err == nil {
				when = dateutil.Relative(day)
			}
			fmt.Printf("[%s] %-12s %s\n", mark, when, c.Notes)
		}

	case "today":
		habits, err := cli.Habits.TodayHabits(ctx)
		if err != nil {
			fail(err)
		}
		for _, h := range habits {
			mark := " "
			if h.IsCompletedToday {
				mark = "x"
			}
			fmt.Printf("[%s] #%-4d %s\n", mark, h.ID, h.Name)
		}

	case "stats":
		stats, err := cli.Habits.Stats(ctx)
		if err != nil {
			fail(err)
		}
		fmt.Printf("habits: %d (%d active)\n", stats.TotalHabits, stats.ActiveHabits)
		fmt.Printf("today:  %d/%d (%.0f%%)\n", stats.CompletedToday, stats.TotalToday, stats.CompletionPercentage)
		fmt.Printf("longest streak: %d\n", stats.LongestStreak)

	default:
		usage()
	}
}
