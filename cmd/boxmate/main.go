// boxmate is a chess engine exposing the line-oriented command protocol of
// pkg/engine/command over stdin/stdout.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/seekerror/logw"
	"gopkg.in/yaml.v3"

	"github.com/corvidae/boxmate/pkg/board"
	"github.com/corvidae/boxmate/pkg/board/fen"
	"github.com/corvidae/boxmate/pkg/book"
	"github.com/corvidae/boxmate/pkg/endgame"
	"github.com/corvidae/boxmate/pkg/engine"
	"github.com/corvidae/boxmate/pkg/engine/command"
	"github.com/corvidae/boxmate/pkg/eval"
	"github.com/corvidae/boxmate/pkg/gamestore"
)

var (
	depth     = flag.Uint("depth", 0, "Search depth limit (0: no limit)")
	hash      = flag.Uint("hash", 32, "Transposition table size in MB (0: smallest table, one entry per side)")
	randomize = flag.Bool("randomize", false, "Shuffle root move order once per search")
	seed      = flag.Int64("seed", 0, "Zobrist and randomization seed")
	bookPath  = flag.String("book", "", "Opening book file (binary tree format)")
	egdbDir   = flag.String("egdb", "", "Endgame tablebase directory")
	genePath  = flag.String("gene", "", "Heuristic gene file (key=value text)")
	config    = flag.String("config", "", "Optional YAML file overriding these flags")
	session   = flag.String("session", "", "Session id to persist/resume via -store")
	store     = flag.String("store", "", "Badger directory for session persistence (requires -session)")
)

func init() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `usage: boxmate [options]

boxmate is a chess engine driven by a line-oriented command protocol on
stdin/stdout: new, status, legal, test, move, think, undo, history, exit.
Options:
`)
		flag.PrintDefaults()
	}
}

// fileConfig mirrors the flags an operator may instead supply as YAML,
// analogous to how morlock's cmd binaries pick a UCI/console protocol off
// the command line -- here it's ambient startup configuration, not a
// protocol choice, and never changes command semantics.
type fileConfig struct {
	Depth     *uint   `yaml:"depth"`
	Hash      *uint   `yaml:"hash"`
	Randomize *bool   `yaml:"randomize"`
	Seed      *int64  `yaml:"seed"`
	Book      *string `yaml:"book"`
	Egdb      *string `yaml:"egdb"`
	Gene      *string `yaml:"gene"`
}

func main() {
	flag.Parse()
	ctx := context.Background()

	if *config != "" {
		applyFileConfig(ctx, *config)
	}

	opts := []engine.Option{
		engine.WithSeed(*seed),
		engine.WithOptions(engine.Options{Depth: *depth, Hash: *hash, Randomize: *randomize}),
	}

	if *bookPath != "" {
		bk, err := book.LoadFile(*bookPath)
		if err != nil {
			logw.Exitf(ctx, "Loading book %q failed: %v", *bookPath, err)
		}
		opts = append(opts, engine.WithBook(bk))
	}
	if *egdbDir != "" {
		tables, err := loadEndgameTables(*egdbDir)
		if err != nil {
			logw.Exitf(ctx, "Loading endgame tables in %q failed: %v", *egdbDir, err)
		}
		opts = append(opts, engine.WithEndgame(tables...))
	}
	if *genePath != "" {
		g, err := loadGene(*genePath)
		if err != nil {
			logw.Exitf(ctx, "Loading gene %q failed: %v", *genePath, err)
		}
		opts = append(opts, engine.WithGene(g))
	}

	e := engine.New(ctx, opts...)

	gs := resumeSession(ctx, e)
	if gs != nil {
		defer gs.Close()
	}

	in := engine.ReadStdinLines(ctx)
	driver, out := command.NewDriver(ctx, e, in)
	go engine.WriteStdoutLines(ctx, out)

	<-driver.Closed()

	if gs != nil {
		persistSession(ctx, gs, e)
	}
}

func applyFileConfig(ctx context.Context, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		logw.Exitf(ctx, "Reading config %q failed: %v", path, err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		logw.Exitf(ctx, "Parsing config %q failed: %v", path, err)
	}

	if fc.Depth != nil {
		*depth = *fc.Depth
	}
	if fc.Hash != nil {
		*hash = *fc.Hash
	}
	if fc.Randomize != nil {
		*randomize = *fc.Randomize
	}
	if fc.Seed != nil {
		*seed = *fc.Seed
	}
	if fc.Book != nil {
		*bookPath = *fc.Book
	}
	if fc.Egdb != nil {
		*egdbDir = *fc.Egdb
	}
	if fc.Gene != nil {
		*genePath = *fc.Gene
	}
}

// loadEndgameTables loads every supported lone-extra-piece tablebase file
// present in dir; a missing file for a given kind is not an error, since an
// operator may only ship a subset.
func loadEndgameTables(dir string) ([]*endgame.Table, error) {
	var tables []*endgame.Table
	for _, k := range []board.Kind{board.Queen, board.Rook, board.Bishop, board.Knight} {
		t, err := endgame.LoadDir(dir, k)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("boxmate: %w", err)
		}
		tables = append(tables, t)
	}
	return tables, nil
}

func loadGene(path string) (*eval.Gene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return eval.Load(f)
}

// resumeSession opens the session store (if -store is set) and replays any
// previously saved moves onto e, returning the opened store so main can
// persist back to it on exit. It returns nil if session persistence isn't
// configured.
func resumeSession(ctx context.Context, e *engine.Engine) *gamestore.Store {
	if *store == "" || *session == "" {
		return nil
	}

	gs, err := gamestore.Open(*store)
	if err != nil {
		logw.Exitf(ctx, "Opening session store %q failed: %v", *store, err)
	}

	saved, ok, err := gs.Load(*session)
	if err != nil {
		logw.Exitf(ctx, "Loading session %q failed: %v", *session, err)
	}
	if !ok {
		return gs
	}

	if saved.StartFEN != "" {
		if err := e.Reset(ctx, saved.StartFEN); err != nil {
			logw.Exitf(ctx, "Resuming session %q: bad starting position: %v", *session, err)
		}
	}
	tokens := make([]string, len(saved.Moves))
	for i, m := range saved.Moves {
		tokens[i] = m.String()
	}
	if len(tokens) > 0 {
		if _, err := e.Move(ctx, tokens...); err != nil {
			logw.Exitf(ctx, "Resuming session %q: %v", *session, err)
		}
	}
	logw.Infof(ctx, "Resumed session %q: %v moves", *session, len(saved.Moves))
	return gs
}

func persistSession(ctx context.Context, gs *gamestore.Store, e *engine.Engine) {
	b := e.Board()
	hist := b.MoveHistory()
	startFEN, edited := b.InitialFEN()
	if !edited {
		startFEN = fen.Initial
	}
	if err := gs.Save(*session, gamestore.SavedGame{StartFEN: startFEN, Moves: hist}); err != nil {
		logw.Errorf(ctx, "Persisting session %q: %v", *session, err)
		return
	}
	logw.Infof(ctx, "Persisted session %q: %v moves", *session, len(hist))
}
