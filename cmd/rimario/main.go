// Command rimario is a CLI client for the Spanish rhyme finder: provider
// lookups plus favorites and notes, stored remotely when a backend is
// configured and locally otherwise.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/avillega/rimario/internal/facade"
	"github.com/avillega/rimario/internal/kv"
	"github.com/avillega/rimario/internal/model"
	"github.com/avillega/rimario/internal/remote"
	"github.com/avillega/rimario/internal/rhyme"
	"github.com/avillega/rimario/internal/store"
	"github.com/avillega/rimario/internal/store/local"
)

// ---- config/token store ----

type tokenFile struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func cfgDir() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "rimario")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "rimario")
}

func tokenPath() string { return filepath.Join(cfgDir(), "token.json") }

func saveToken(tok string, exp time.Time) error {
	_ = os.MkdirAll(cfgDir(), 0o700)
	f, err := os.Create(tokenPath())
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(tokenFile{AccessToken: tok, ExpiresAt: exp})
}

func loadToken() (string, error) {
	b, err := os.ReadFile(tokenPath())
	if err != nil {
		return "", err
	}
	var tf tokenFile
	if err := json.Unmarshal(b, &tf); err != nil {
		return "", err
	}
	if tf.AccessToken == "" || time.Now().After(tf.ExpiresAt) {
		return "", errors.New("no valid token (login required)")
	}
	return tf.AccessToken, nil
}

func clearToken() { _ = os.Remove(tokenPath()) }

// ---- utils ----

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}

func usage() {
	fmt.Fprintf(os.Stderr, `rimario CLI
Usage:
  rimario [-addr URL] [-proxy URL] [-v] <cmd> [args]

Commands:
  version
  register   -e <email> -p <password> -u <username>
  login      -e <email> -p <password>              (saves token)
  logout
  whoami
  search     -w <word> [-max N] [-min SCORE]
  near       -w <word> [-max N] [-min SCORE]
  syn        -w <word> [-max N] [-min SCORE]
  syl        -pattern <syllable pattern> [-max N]
  info       -w <word>
  fav-list
  fav-add    -w <word>
  fav-rm     -w <word>
  note-list  [-favs]
  note-get   -id <id>
  note-add   -title <t> [-content <c>]
  note-edit  -id <id> [-title <t>] [-content <c>]
  note-fav   -id <id>                              (toggle)
  note-rm    -id <id>
`)
	os.Exit(2)
}

// app holds everything a subcommand may need.
type app struct {
	rhymes    *rhyme.Client
	auth      *facade.Auth
	favorites *facade.Favorites
	notes     *facade.Notes
	backend   *remote.Client // nil in local-only mode
}

var (
	version   = "dev"
	buildDate = "unknown"
)

// main dispatches subcommands over the facades.
func main() {
	// global flags
	addr := flag.String("addr", os.Getenv("RIMARIO_ADDR"), "backend base URL (empty = local-only)")
	proxy := flag.String("proxy", "", "proxy prefix for rhyme provider requests")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
	}
	cmd := flag.Arg(0)
	args := flag.Args()[1:]

	logger := zap.NewNop()
	if *verbose {
		logger, _ = zap.NewDevelopment()
	}
	defer func() { _ = logger.Sync() }()

	_ = os.MkdirAll(cfgDir(), 0o700)
	db, err := kv.OpenSQLite(filepath.Join(cfgDir(), "data.db"))
	if err != nil {
		fail(err)
	}
	defer db.Close()

	var backend *remote.Client
	if *addr != "" {
		backend = remote.New(*addr, remote.WithLogger(logger))
		if tok, err := loadToken(); err == nil {
			backend.RestoreSession(tok)
		}
	}

	var (
		remoteAuth facade.RemoteAuth
		remoteFavs store.Favorites
		remoteNts  store.Notes
	)
	if backend != nil {
		remoteAuth = backend
		remoteFavs = backend.Favorites()
		remoteNts = backend.Notes()
	}

	rhymeOpts := []rhyme.Option{rhyme.WithLogger(logger)}
	if *proxy != "" {
		rhymeOpts = append(rhymeOpts, rhyme.WithProxy(*proxy))
	}

	a := &app{
		rhymes:    rhyme.New(rhymeOpts...),
		auth:      facade.NewAuth(remoteAuth, local.NewSessions(db), local.NewUsers(db), logger),
		favorites: facade.NewFavorites(remoteFavs, local.NewFavorites(db), logger),
		notes:     facade.NewNotes(remoteNts, local.NewNotes(db), logger),
		backend:   backend,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	switch cmd {

	case "version":
		fmt.Printf("rimario %s (%s)\n", version, buildDate)

	case "register":
		fs := flag.NewFlagSet("register", flag.ExitOnError)
		e := fs.String("e", "", "email")
		p := fs.String("p", "", "password")
		u := fs.String("u", "", "username")
		_ = fs.Parse(args)
		if *e == "" || *p == "" || *u == "" {
			fmt.Fprintln(os.Stderr, "need -e, -p and -u")
			os.Exit(1)
		}
		user, err := a.auth.Register(ctx, *e, *p, *u)
		if err != nil {
			fail(err)
		}
		a.persistSession()
		printJSON(user)

	case "login":
		fs := flag.NewFlagSet("login", flag.ExitOnError)
		e := fs.String("e", "", "email")
		p := fs.String("p", "", "password")
		_ = fs.Parse(args)
		if *e == "" || *p == "" {
			fmt.Fprintln(os.Stderr, "need -e and -p")
			os.Exit(1)
		}
		user, err := a.auth.Login(ctx, *e, *p)
		if err != nil {
			fail(err)
		}
		a.persistSession()
		printJSON(user)

	case "logout":
		if err := a.auth.Logout(ctx); err != nil {
			fail(err)
		}
		clearToken()
		fmt.Println("ok")

	case "whoami":
		user, err := a.auth.CurrentUser(ctx)
		if err != nil {
			fail(err)
		}
		if user == nil {
			fmt.Println("not logged in")
			return
		}
		printJSON(user)

	case "search", "near", "syn":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		w := fs.String("w", "", "word")
		f := filterFlags(fs)
		_ = fs.Parse(args)
		if *w == "" {
			fmt.Fprintln(os.Stderr, "need -w")
			os.Exit(1)
		}
		var (
			rhymes []model.Rhyme
			err    error
		)
		switch cmd {
		case "search":
			rhymes, err = a.rhymes.SearchRhymes(ctx, *w, *f)
		case "near":
			rhymes, err = a.rhymes.SearchNearRhymes(ctx, *w, *f)
		case "syn":
			rhymes, err = a.rhymes.SearchSynonymRhymes(ctx, *w, *f)
		}
		if err != nil {
			fail(err)
		}
		printJSON(rhymes)

	case "syl":
		fs := flag.NewFlagSet("syl", flag.ExitOnError)
		pattern := fs.String("pattern", "", "syllable pattern, one rune per syllable")
		f := filterFlags(fs)
		_ = fs.Parse(args)
		if *pattern == "" {
			fmt.Fprintln(os.Stderr, "need -pattern")
			os.Exit(1)
		}
		rhymes, err := a.rhymes.SearchBySyllables(ctx, *pattern, *f)
		if err != nil {
			fail(err)
		}
		printJSON(rhymes)

	case "info":
		fs := flag.NewFlagSet("info", flag.ExitOnError)
		w := fs.String("w", "", "word")
		_ = fs.Parse(args)
		if *w == "" {
			fmt.Fprintln(os.Stderr, "need -w")
			os.Exit(1)
		}
		info, err := a.rhymes.WordInfo(ctx, *w)
		if err != nil {
			fail(err)
		}
		printJSON(info)

	case "fav-list":
		favs, err := a.favorites.List(ctx)
		if err != nil {
			fail(err)
		}
		printJSON(favs)

	case "fav-add":
		fs := flag.NewFlagSet("fav-add", flag.ExitOnError)
		w := fs.String("w", "", "word")
		_ = fs.Parse(args)
		if *w == "" {
			fmt.Fprintln(os.Stderr, "need -w")
			os.Exit(1)
		}
		saved, err := a.favorites.IsFavorite(ctx, *w)
		if err != nil {
			fail(err)
		}
		if saved {
			fmt.Println("already a favorite")
			return
		}
		rhymes, err := a.rhymes.SearchRhymes(ctx, *w, model.DefaultFilters())
		if err != nil {
			fail(err)
		}
		if err := a.favorites.Add(ctx, *w, rhymes); err != nil {
			fail(err)
		}
		fmt.Println("ok")

	case "fav-rm":
		fs := flag.NewFlagSet("fav-rm", flag.ExitOnError)
		w := fs.String("w", "", "word")
		_ = fs.Parse(args)
		if *w == "" {
			fmt.Fprintln(os.Stderr, "need -w")
			os.Exit(1)
		}
		if err := a.favorites.RemoveByWord(ctx, *w); err != nil {
			fail(err)
		}
		fmt.Println("ok")

	case "note-list":
		fs := flag.NewFlagSet("note-list", flag.ExitOnError)
		favsOnly := fs.Bool("favs", false, "favorite notes only")
		_ = fs.Parse(args)
		var (
			notes []model.Note
			err   error
		)
		if *favsOnly {
			notes, err = a.notes.ListFavorites(ctx)
		} else {
			notes, err = a.notes.List(ctx)
		}
		if err != nil {
			fail(err)
		}
		printJSON(notes)

	case "note-get":
		id := noteID(args, "note-get")
		note, err := a.notes.Get(ctx, id)
		if err != nil {
			fail(err)
		}
		if note == nil {
			fmt.Println("not found")
			os.Exit(1)
		}
		printJSON(note)

	case "note-add":
		fs := flag.NewFlagSet("note-add", flag.ExitOnError)
		title := fs.String("title", "", "title")
		content := fs.String("content", "", "content")
		_ = fs.Parse(args)
		note, err := a.notes.Save(ctx, model.NoteInput{Title: *title, Content: *content})
		if err != nil {
			fail(err)
		}
		printJSON(note)

	case "note-edit":
		fs := flag.NewFlagSet("note-edit", flag.ExitOnError)
		id := fs.String("id", "", "note id")
		title := fs.String("title", "", "new title")
		content := fs.String("content", "", "new content")
		_ = fs.Parse(args)
		if *id == "" {
			fmt.Fprintln(os.Stderr, "need -id")
			os.Exit(1)
		}
		var upd model.NoteUpdate
		fs.Visit(func(f *flag.Flag) {
			switch f.Name {
			case "title":
				upd.Title = title
			case "content":
				upd.Content = content
			}
		})
		note, err := a.notes.Update(ctx, *id, upd)
		if err != nil {
			fail(err)
		}
		printJSON(note)

	case "note-fav":
		id := noteID(args, "note-fav")
		note, err := a.notes.ToggleFavorite(ctx, id)
		if err != nil {
			fail(err)
		}
		printJSON(note)

	case "note-rm":
		id := noteID(args, "note-rm")
		if err := a.notes.Delete(ctx, id); err != nil {
			fail(err)
		}
		fmt.Println("ok")

	default:
		usage()
	}
}

// persistSession writes the backend token to disk after register/login.
func (a *app) persistSession() {
	if a.backend == nil {
		return
	}
	if tok, exp := a.backend.Token(); tok != "" {
		if err := saveToken(tok, exp); err != nil {
			fmt.Fprintln(os.Stderr, "warning: could not persist token:", err)
		}
	}
}

func filterFlags(fs *flag.FlagSet) *model.SearchFilters {
	def := model.DefaultFilters()
	f := &model.SearchFilters{}
	fs.IntVar(&f.MaxResults, "max", def.MaxResults, "max results")
	fs.IntVar(&f.MinScore, "min", def.MinScore, "min provider score")
	fs.BoolVar(&f.IncludeSyllables, "syllables", def.IncludeSyllables, "include per-word syllable counts")
	return f
}

func noteID(args []string, name string) string {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	id := fs.String("id", "", "note id")
	_ = fs.Parse(args)
	if *id == "" {
		fmt.Fprintln(os.Stderr, "need -id")
		os.Exit(1)
	}
	return *id
}
