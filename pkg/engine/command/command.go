// Package command implements the line-oriented control protocol external
// UIs drive the engine with: one command in, one response line out, per
// spec's exact verb set and uppercase error tokens. It mirrors the shape of
// the teacher's console driver (an AsyncCloser-backed goroutine reading an
// input chan and writing an output chan) adapted to a fixed protocol
// instead of free-form debug commands.
package command

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/util/iox"

	"github.com/corvidae/boxmate/pkg/board/fen"
	"github.com/corvidae/boxmate/pkg/engine"
)

// ProtocolName identifies this protocol to a host binary that supports
// more than one.
const ProtocolName = "boxmate"

// Driver runs the command loop against one Engine.
type Driver struct {
	iox.AsyncCloser

	e   *engine.Engine
	out chan<- string
}

// NewDriver starts the command loop reading from in and returns the
// driver plus its output channel. The driver closes out once in is
// exhausted or an "exit" command is processed.
func NewDriver(ctx context.Context, e *engine.Engine, in <-chan string) (*Driver, <-chan string) {
	out := make(chan string, 16)
	d := &Driver{
		AsyncCloser: iox.NewAsyncCloser(),
		e:           e,
		out:         out,
	}
	go d.process(ctx, in)
	return d, out
}

func (d *Driver) process(ctx context.Context, in <-chan string) {
	defer d.Close()
	defer close(d.out)

	for {
		select {
		case line, ok := <-in:
			if !ok {
				logw.Infof(ctx, "command: input closed")
				return
			}
			if d.dispatch(ctx, line) {
				return
			}

		case <-d.Closed():
			return
		}
	}
}

// dispatch handles one line and reports whether the session should end.
func (d *Driver) dispatch(ctx context.Context, line string) (exit bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		d.reply("CANNOT_PARSE")
		return false
	}

	verb, args := strings.ToLower(fields[0]), fields[1:]
	switch verb {
	case "new":
		d.cmdNew(ctx, args)
	case "status":
		d.cmdStatus(ctx, args)
	case "legal":
		d.cmdLegal(ctx, args)
	case "test":
		d.cmdTest(ctx, args)
	case "move":
		d.cmdMove(ctx, args)
	case "think":
		d.cmdThink(ctx, args)
	case "undo":
		d.cmdUndo(ctx, args)
	case "history":
		d.cmdHistory(ctx, args)
	case "exit":
		d.reply("OK")
		return true
	default:
		d.reply("UNKNOWN_COMMAND")
	}
	return false
}

func (d *Driver) reply(format string, args ...any) {
	d.out <- fmt.Sprintf(format, args...)
}

func (d *Driver) cmdNew(ctx context.Context, args []string) {
	if len(args) != 0 {
		d.reply("BAD_ARGS")
		return
	}
	if err := d.e.Reset(ctx, fen.Initial); err != nil {
		d.reply("CANNOT_PARSE")
		return
	}
	d.reply("OK")
}

func (d *Driver) cmdStatus(ctx context.Context, args []string) {
	if len(args) != 0 {
		d.reply("BAD_ARGS")
		return
	}
	d.reply("%v %v", d.e.Result(), d.e.FEN())
}

// parseFormat parses the optional trailing "pgn"/"alg" format argument,
// defaulting to alg, and reports false on any other token.
func parseFormat(args []string) (pgn bool, ok bool) {
	if len(args) == 0 {
		return false, true
	}
	switch strings.ToLower(args[0]) {
	case "alg":
		return false, true
	case "pgn":
		return true, true
	default:
		return false, false
	}
}

func (d *Driver) cmdLegal(ctx context.Context, args []string) {
	if len(args) > 1 {
		d.reply("BAD_ARGS")
		return
	}
	pgn, ok := parseFormat(args)
	if !ok {
		d.reply("BAD_FORMAT")
		return
	}
	moves, err := d.e.LegalMoves(pgn)
	if err != nil {
		d.reply("CANNOT_PARSE")
		return
	}
	d.reply("OK %d %v", len(moves), strings.Join(moves, " "))
}

func (d *Driver) cmdTest(ctx context.Context, args []string) {
	if len(args) != 1 {
		d.reply("BAD_ARGS")
		return
	}
	alg, pgn, ok := d.e.Test(args[0])
	if !ok {
		d.reply("ILLEGAL")
		return
	}
	d.reply("OK %v %v", alg, pgn)
}

func (d *Driver) cmdMove(ctx context.Context, args []string) {
	if len(args) == 0 {
		d.reply("BAD_ARGS")
		return
	}
	n, err := d.e.Move(ctx, args...)
	if err != nil {
		d.reply("BAD_MOVE %v", args[n])
		return
	}
	d.reply("OK %d", n)
}

func (d *Driver) cmdThink(ctx context.Context, args []string) {
	if len(args) != 1 {
		d.reply("BAD_ARGS")
		return
	}
	ms, err := strconv.Atoi(args[0])
	if err != nil || ms <= 0 {
		d.reply("BAD_THINK_TIME")
		return
	}

	alg, pgn, err := d.e.Think(ctx, time.Duration(ms)*time.Millisecond, nil)
	switch {
	case err == nil:
		d.reply("OK %v %v", alg, pgn)
	case err == engine.ErrGameOver:
		d.reply("GAME_OVER")
	default:
		logw.Errorf(ctx, "think failed: %v", err)
		d.reply("THINK_ERROR")
	}
}

func (d *Driver) cmdUndo(ctx context.Context, args []string) {
	if len(args) != 1 {
		d.reply("BAD_ARGS")
		return
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		d.reply("BAD_FORMAT")
		return
	}
	if err := d.e.Undo(ctx, n); err != nil {
		d.reply("BAD_NUM_TURNS")
		return
	}
	d.reply("OK")
}

func (d *Driver) cmdHistory(ctx context.Context, args []string) {
	if len(args) > 1 {
		d.reply("BAD_ARGS")
		return
	}
	pgn, ok := parseFormat(args)
	if !ok {
		d.reply("BAD_FORMAT")
		return
	}
	moves, err := d.e.History(pgn)
	if err != nil {
		d.reply("CANNOT_PARSE")
		return
	}
	d.reply("OK %d %v", len(moves), strings.Join(moves, " "))
}
