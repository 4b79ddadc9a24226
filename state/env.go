// Package state defines shared program state.
package state

import (
	"context"
	"time"

	"go.uber.org/zap"

	"fnflow/config"
	"fnflow/flow"
	"fnflow/flow/plain"
	"fnflow/footnotes"
	"fnflow/history"
)

type envKey struct{}

// LocalEnv keeps everything program needs in a single place.
type LocalEnv struct {
	Cfg *config.Config
	Rpt *config.Report
	Log *zap.Logger

	// used by layout and replay subcommands
	Overwrite bool

	start         time.Time
	restoreStdLog func()
}

func EnvFromContext(ctx context.Context) *LocalEnv {
	if env, ok := ctx.Value(envKey{}).(*LocalEnv); ok {
		return env
	}
	// this should never happen
	panic("localenv not found in context")
}

func ContextWithEnv(ctx context.Context) context.Context {
	return context.WithValue(ctx, envKey{}, newLocalEnv())
}

func (e *LocalEnv) Uptime() time.Duration {
	return time.Since(e.start)
}

func (e *LocalEnv) RedirectStdLog() {
	if e.Log == nil {
		return
	}
	e.restoreStdLog = zap.RedirectStdLog(e.Log)
}

func (e *LocalEnv) RestoreStdLog() {
	if e.Log != nil {
		_ = e.Log.Sync()
	}
	if e.restoreStdLog != nil {
		e.restoreStdLog()
	}
}

// ContainerFactory returns factory making plain text footnotes with metrics
// from document configuration.
func (e *LocalEnv) ContainerFactory() footnotes.Factory {
	opts := e.containerOptions()
	return func(id string) flow.Container {
		return plain.New(id, "", opts...)
	}
}

// NewSeparator returns footnote separator when configuration asks for one.
func (e *LocalEnv) NewSeparator() flow.Container {
	if e.Cfg == nil || !e.Cfg.Document.Separator {
		return nil
	}
	return plain.NewSeparator("separator", e.containerOptions()...)
}

func (e *LocalEnv) containerOptions() []plain.Option {
	if e.Cfg == nil {
		return nil
	}
	return []plain.Option{
		plain.WithLineHeight(e.Cfg.Document.LineHeight),
		plain.WithCharWidth(e.Cfg.Document.CharWidth),
	}
}

// NewController creates footnotes controller for doc with fresh registry
// sharing identity table and history.
func (e *LocalEnv) NewController(doc footnotes.Document, table *footnotes.IdentityTable, hist *history.Log) *footnotes.Controller {
	cfg := config.LayoutConfig{}
	if e.Cfg != nil {
		cfg = e.Cfg.Layout
	}
	reg := footnotes.NewRegistry(table, e.ContainerFactory(), hist, cfg.IDScheme, e.Log)
	ctrl := footnotes.New(doc, reg, &cfg, e.Log)
	if sep := e.NewSeparator(); sep != nil {
		ctrl.Init(sep)
	}
	return ctrl
}
