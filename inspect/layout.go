// Package inspect implements command line actions of the debug tool.
package inspect

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"fnflow/document"
	"fnflow/history"
	"fnflow/history/journal"
	"fnflow/state"
)

// Layout loads document description, lays out footnotes, runs editing script
// and reports resulting state.
func Layout(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("layout")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no document description has been specified")
	}
	if cmd.Args().Len() > 1 {
		log.Warn("Mailformed command line, too many sources", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}
	env.Overwrite = cmd.Bool("overwrite")

	desc, err := document.ReadDescription(src)
	if err != nil {
		return err
	}
	if len(desc.Title) == 0 {
		desc.Title = strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	}

	doc := document.New(desc, env)
	log.Info("Document laid out", zap.String("title", doc.Title), zap.Int("pages", doc.PageCount()),
		zap.Int("footnotes", doc.Controller().Registry().Len()))

	if err := doc.Apply(desc.Script); err != nil {
		return fmt.Errorf("unable to run editing script: %w", err)
	}

	dump := doc.String()
	fmt.Fprint(cmd.Root().Writer, dump)
	if text, ok := doc.Controller().GetSelectedText(false); ok && doc.Controller().IsSelectionUse() {
		fmt.Fprintf(cmd.Root().Writer, "Selected text: %q\n", text)
	}
	env.Rpt.StoreData("layout/state.txt", []byte(dump))

	if dst := cmd.String("history"); len(dst) > 0 {
		if err := saveHistory(dst, doc.History().Changes(), env); err != nil {
			return err
		}
		log.Info("History saved", zap.String("file", dst), zap.Int("changes", len(doc.History().Changes())))
	}

	if !cmd.IsSet("png") {
		return nil
	}
	pages := cmd.IntSlice("page")
	if len(pages) == 0 {
		for abs := range doc.PageCount() {
			if !doc.Controller().IsEmptyPage(abs) {
				pages = append(pages, abs)
			}
		}
	}
	return renderPages(doc, pages, cmd.String("png"), env)
}

func renderPages(doc *document.Document, pages []int, dir string, env *state.LocalEnv) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("unable to create output directory '%s': %w", dir, err)
	}
	for _, abs := range pages {
		if abs < 0 || abs >= doc.PageCount() {
			env.Log.Warn("Page out of document, skipping", zap.Int("page", abs))
			continue
		}
		name, err := doc.OutputName(abs, &env.Cfg.Document)
		if err != nil {
			return err
		}
		fname := filepath.Join(dir, name)
		if err := checkDestination(fname, env); err != nil {
			return err
		}
		data, err := doc.RenderPNG(abs, env.Cfg.Document.Scale)
		if err != nil {
			return err
		}
		if err := os.WriteFile(fname, data, 0o644); err != nil {
			return fmt.Errorf("unable to write page image: %w", err)
		}
		env.Rpt.Store(filepath.ToSlash(filepath.Join("pages", name)), fname)
		env.Log.Debug("Page rendered", zap.Int("page", abs), zap.String("file", fname))
	}
	return nil
}

func checkDestination(fname string, env *state.LocalEnv) error {
	if _, err := os.Stat(fname); err == nil && !env.Overwrite {
		return fmt.Errorf("output file already exists: %s", fname)
	}
	return nil
}

// isJournalName reports whether file name asks for SQLite journal rather
// than binary change stream.
func isJournalName(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".db", ".sqlite", ".sqlite3":
		return true
	}
	return false
}

func saveHistory(fname string, changes []history.Change, env *state.LocalEnv) error {
	if isJournalName(fname) {
		j, err := journal.Open(fname, env.Log)
		if err != nil {
			return err
		}
		defer j.Close()
		return j.Replace(changes)
	}

	if err := checkDestination(fname, env); err != nil {
		return err
	}
	out, err := os.Create(fname)
	if err != nil {
		return fmt.Errorf("unable to create history file '%s': %w", fname, err)
	}
	defer out.Close()
	return history.WriteAll(out, changes)
}
