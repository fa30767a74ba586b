package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/oolestudio/tamashi/internal/presentation/tui"
	"github.com/oolestudio/tamashi/pkg/catalog"
	"github.com/oolestudio/tamashi/pkg/domain"
	"github.com/oolestudio/tamashi/pkg/session"
)

// DefaultSessionID keys the progress of local play.
const DefaultSessionID = "local"

// PlayOptions configures Play.
type PlayOptions struct {
	SessionID   string
	TutorialID  string
	StartStepID string
	// Restart ignores saved progress.
	Restart bool
	// Plain forces the line-based player even on a terminal.
	Plain bool

	In  io.Reader
	Out io.Writer
}

// Play runs a tutorial in the terminal. Progress is saved in the session
// store after every command, so an interrupted run resumes where it stopped.
func Play(ctx context.Context, app *App, opts PlayOptions) error {
	if opts.SessionID == "" {
		opts.SessionID = DefaultSessionID
	}
	if opts.TutorialID == "" {
		opts.TutorialID = catalog.HomePlaylistsID
	}
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}

	sess, err := app.Sessions.Open(ctx, opts.SessionID)
	if err != nil {
		return err
	}
	if err := prepare(ctx, app, sess, opts); err != nil {
		return err
	}

	ctrl := &sessionController{ctx: ctx, sess: sess, logger: app.Logger}

	width, interactive := terminal(opts.In, opts.Out)
	if opts.Plain || !interactive {
		return tui.RunLine(opts.In, opts.Out, ctrl)
	}

	tui.PrintBanner(opts.Out)
	views := sess.Watch(ctx, 16)
	return tui.Run(ctrl, views, tui.NewRenderer(width),
		tea.WithContext(ctx),
		tea.WithInput(opts.In),
		tea.WithOutput(opts.Out),
	)
}

// prepare resumes saved progress when it belongs to the requested tutorial
// and is still showing. Anything else starts the tutorial over.
func prepare(ctx context.Context, app *App, sess *session.Session, opts PlayOptions) error {
	state := sess.Store().State()
	switch {
	case state == nil || opts.Restart || state.TutorialID != opts.TutorialID || opts.StartStepID != "":
		t, err := app.Catalog.Get(ctx, opts.TutorialID)
		if err != nil {
			return err
		}
		start := opts.StartStepID
		if start == "" {
			start = t.StartStepID
		}
		_, err = sess.Load(ctx, t.ID, t.Steps, start)
		return err
	case !sess.View().Visible:
		_, err := sess.Reset(ctx)
		return err
	default:
		app.Logger.Info("resuming tutorial", "session_id", sess.ID, "tutorial_id", state.TutorialID, "step_id", state.CurrentStepID)
		return nil
	}
}

// sessionController drives a session from the terminal players, which have
// no error channel of their own.
type sessionController struct {
	ctx    context.Context
	sess   *session.Session
	logger *slog.Logger
}

func (c *sessionController) Advance() { c.run("advance", c.sess.Advance) }
func (c *sessionController) Dismiss() { c.run("dismiss", c.sess.Dismiss) }
func (c *sessionController) Reset()   { c.run("reset", c.sess.Reset) }

func (c *sessionController) View() domain.View { return c.sess.View() }

func (c *sessionController) run(name string, op func(context.Context) (domain.View, error)) {
	if _, err := op(c.ctx); err != nil {
		c.logger.Error(fmt.Sprintf("%s failed", name), "session_id", c.sess.ID, "error", err)
	}
}

// terminal reports whether both ends are a TTY, and the output width.
func terminal(in io.Reader, out io.Writer) (int, bool) {
	fin, ok := in.(*os.File)
	if !ok || !term.IsTerminal(int(fin.Fd())) {
		return 0, false
	}
	fout, ok := out.(*os.File)
	if !ok || !term.IsTerminal(int(fout.Fd())) {
		return 0, false
	}
	width, _, err := term.GetSize(int(fout.Fd()))
	if err != nil || width <= 0 {
		width = 80
	}
	return width, true
}
