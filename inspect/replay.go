package inspect

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"fnflow/footnotes"
	"fnflow/history"
	"fnflow/history/journal"
	"fnflow/state"
)

// Result describes outcome of history replay.
type Result struct {
	Changes  []history.Change
	Accepted int
	Rejected int
	Registry *footnotes.Registry
	Log      *history.Log
}

// readChanges decodes history from either SQLite journal or binary change
// stream without applying anything.
func readChanges(fname string, log *zap.Logger) ([]history.Change, error) {
	ok, err := journal.IsJournal(fname)
	if err != nil {
		return nil, fmt.Errorf("unable to access history '%s': %w", fname, err)
	}
	if ok {
		j, err := journal.Open(fname, log)
		if err != nil {
			return nil, err
		}
		defer j.Close()
		return j.Load(nil)
	}

	f, err := os.Open(fname)
	if err != nil {
		return nil, fmt.Errorf("unable to open history '%s': %w", fname, err)
	}
	defer f.Close()
	return history.ReadAll(f, nil, log)
}

// ReplayHistory rebuilds footnotes registry from recorded changes. Every
// identity mentioned by the records gets a container in a fresh identity
// table first, so mapping could be restored the way document load does it.
func ReplayHistory(changes []history.Change, env *state.LocalEnv) (*Result, error) {
	table := footnotes.NewIdentityTable()
	factory := env.ContainerFactory()
	for _, c := range changes {
		if add, ok := c.(history.AddFootnote); ok {
			if _, known := table.Get(add.ID); !known {
				table.Add(factory(add.ID))
			}
		}
	}

	res := &Result{Log: history.NewLog(env.Log)}
	res.Registry = footnotes.NewRegistry(table, factory, nil, env.Cfg.Layout.IDScheme, env.Log)

	var errs error
	for i, c := range changes {
		if err := c.Apply(res.Registry); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("change %d: %w", i, err))
			res.Rejected++
			continue
		}
		res.Changes = append(res.Changes, c)
		res.Log.Add(c)
		res.Accepted++
	}
	return res, errs
}

// Replay loads recorded history, replays it and optionally writes it back in
// another format.
func Replay(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("replay")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no history file has been specified")
	}
	if cmd.Args().Len() > 1 {
		log.Warn("Mailformed command line, too many sources", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}
	env.Overwrite = cmd.Bool("overwrite")

	changes, rerr := readChanges(src, log)
	if rerr != nil {
		// malformed records are not fatal
		log.Warn("History has problems", zap.String("file", src), zap.Error(rerr))
	}

	res, aerr := ReplayHistory(changes, env)
	if aerr != nil {
		log.Warn("Some changes could not be applied", zap.Error(aerr))
	}
	rejected := res.Rejected + len(multierr.Errors(rerr))

	if n := cmd.Int("undo"); n > 0 {
		for range n {
			ok, err := res.Log.Undo(res.Registry)
			if err != nil {
				return fmt.Errorf("unable to undo: %w", err)
			}
			if !ok {
				log.Warn("Nothing left to undo")
				break
			}
		}
	}

	w := cmd.Root().Writer
	fmt.Fprintf(w, "%s: %d accepted, %d rejected, %s\n", src, res.Accepted, rejected, res.Registry)
	dumpChanges(w, res.Log.Changes())
	if cmd.Bool("ids") {
		for _, id := range res.Registry.IDs() {
			fmt.Fprintf(w, "  id: %s\n", id)
		}
	}

	if dst := cmd.String("out"); len(dst) > 0 {
		if err := saveHistory(dst, res.Log.Changes(), env); err != nil {
			return err
		}
		log.Info("History written", zap.String("file", dst), zap.Int("changes", len(res.Log.Changes())))
	}
	env.Rpt.Store("replay/source", src)
	return nil
}

func dumpChanges(w io.Writer, changes []history.Change) {
	for i, c := range changes {
		fmt.Fprintf(w, "  %03d %d/%d %s\n", i, c.Class(), c.Kind(), c)
	}
}
