package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"github.com/gtuverse/clubdeck/internal/config"
	"github.com/gtuverse/clubdeck/internal/core"
	"github.com/gtuverse/clubdeck/internal/directory"
	"github.com/gtuverse/clubdeck/internal/domain"
	"github.com/gtuverse/clubdeck/internal/session"
)

const usage = `usage: clubctl <command> [args]

commands:
  register <username> <email> <password>
  login <username> <password>
  logout
  rooms                 list all rooms
  users                 list all users
  mine                  list rooms you are in
  show <room-id>        show a room and its roster
  create <name>         create a room (does not join)
  join <room-id>
  leave <room-id>
  chat <room-id>        join-less local chat session, /quit to exit
`

type app struct {
	cfg   *config.Config
	store *session.Store
	dir   *directory.Client
}

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	baseURL := pflag.String("base-url", "", "directory base URL (overrides config)")
	logLevel := pflag.String("log-level", "", "log level (overrides config)")
	pflag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if *baseURL != "" {
		cfg.BaseURL = *baseURL
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	a := &app{
		cfg:   cfg,
		store: session.NewStore(cfg.TokenPath),
	}
	a.dir = directory.NewClient(cfg.BaseURL, cfg.Timeout, a.store)

	args := pflag.Args()
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	if err := a.run(context.Background(), args[0], args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func (a *app) run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "register":
		if len(args) != 3 {
			return errors.New("register needs <username> <email> <password>")
		}
		if err := a.dir.Register(ctx, args[0], args[1], args[2]); err != nil {
			return err
		}
		fmt.Println("registered, now log in")
		return nil

	case "login":
		if len(args) != 2 {
			return errors.New("login needs <username> <password>")
		}
		res, err := a.dir.Login(ctx, args[0], args[1])
		if err != nil {
			return err
		}
		if err := a.store.Save(&session.Session{Token: res.Token, User: res.User}); err != nil {
			return err
		}
		fmt.Printf("logged in as %s (id %d)\n", res.User.Username, res.User.ID)
		return nil

	case "logout":
		return a.store.Clear()

	case "rooms":
		listing := core.NewListing(a.dir)
		printRooms(listing.ListAll(ctx))
		return nil

	case "users":
		users, err := a.dir.ListUsers(ctx)
		if err != nil {
			return err
		}
		for _, u := range users {
			fmt.Printf("%d %s\n", u.ID, u.Username)
		}
		return nil

	case "mine":
		user, err := a.identity()
		if err != nil {
			return err
		}
		rooms, err := a.dir.RoomsForUser(ctx, user.ID)
		if err != nil {
			return err
		}
		printRooms(rooms)
		return nil

	case "show":
		id, err := roomArg(args)
		if err != nil {
			return err
		}
		engine := core.NewEngine(a.dir)
		if err := engine.LoadRoom(ctx, id); err != nil {
			if core.IsNotFound(err) {
				return fmt.Errorf("room %d does not exist", id)
			}
			return err
		}
		room, roster := engine.Snapshot()
		fmt.Printf("#%d %s (%d/%d)\n", room.ID, room.Name, room.Size, room.Capacity)
		for _, m := range roster {
			fmt.Printf("  - %s\n", m.Username)
		}
		return nil

	case "create":
		if len(args) != 1 {
			return errors.New("create needs <name>")
		}
		engine := core.NewEngine(a.dir)
		id, err := engine.Create(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Printf("created room %d\n", id)
		return nil

	case "join":
		return a.membership(ctx, args, true)

	case "leave":
		return a.membership(ctx, args, false)

	case "chat":
		return a.chat(ctx, args)

	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func (a *app) membership(ctx context.Context, args []string, join bool) error {
	id, err := roomArg(args)
	if err != nil {
		return err
	}
	user, err := a.identity()
	if err != nil {
		return err
	}
	engine := core.NewEngine(a.dir)
	if err := engine.LoadRoom(ctx, id); err != nil {
		return err
	}
	if join {
		if err := engine.Join(ctx, id, user); err != nil {
			return err
		}
		fmt.Printf("joined room %d\n", id)
	} else {
		if err := engine.Leave(ctx, id, user); err != nil {
			return err
		}
		fmt.Printf("left room %d\n", id)
	}
	return nil
}

// chat runs the session-local transcript loop. Messages are echoed
// locally only; the directory has no chat transport.
func (a *app) chat(ctx context.Context, args []string) error {
	id, err := roomArg(args)
	if err != nil {
		return err
	}
	user, err := a.identity()
	if err != nil {
		return err
	}
	engine := core.NewEngine(a.dir)
	if err := engine.LoadRoom(ctx, id); err != nil {
		return err
	}
	room, _ := engine.Snapshot()
	fmt.Printf("chatting in #%d %s as %s, /quit to exit\n", room.ID, room.Name, user.Username)

	transcript := core.NewTranscript()
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "/quit" {
			break
		}
		if msg, ok := transcript.Append(user.Username, line); ok {
			fmt.Printf("[%d] %s: %s\n", msg.Seq, msg.Author, msg.Body)
		}
	}
	transcript.Reset()
	return scanner.Err()
}

func (a *app) identity() (*domain.User, error) {
	sess, err := a.store.Load()
	if err != nil {
		return nil, fmt.Errorf("log in first: %w", err)
	}
	return session.Identity(sess)
}

func roomArg(args []string) (domain.RoomID, error) {
	if len(args) != 1 {
		return 0, errors.New("expected a single <room-id> argument")
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("invalid room id %q", args[0])
	}
	return domain.RoomID(id), nil
}

func printRooms(rooms []domain.Room) {
	if len(rooms) == 0 {
		fmt.Println("no rooms")
		return
	}
	for _, r := range rooms {
		fmt.Printf("#%d %s (%d/%d)\n", r.ID, r.Name, r.Size, r.Capacity)
	}
}
