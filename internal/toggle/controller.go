package toggle

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/jmylchreest/gdmswitch/internal/apply"
	"github.com/jmylchreest/gdmswitch/internal/gdmconf"
	"github.com/jmylchreest/gdmswitch/internal/journal"
	"github.com/jmylchreest/gdmswitch/internal/notify"
	"github.com/jmylchreest/gdmswitch/internal/session"
)

// Applier persists a rewritten document and activates it.
type Applier interface {
	Apply(ctx context.Context, doc gdmconf.Document, path string) error
}

// Recorder stores toggle attempts.
type Recorder interface {
	Record(e journal.Event) error
}

// Options configures a Controller. Prober and Applier are required.
type Options struct {
	Prober     session.Prober
	Applier    Applier
	ConfigPath string
	Load       func(path string) (gdmconf.Document, error)
	Notifier   notify.Notifier
	Recorder   Recorder
	Logger     *slog.Logger

	// OnStateChange is called synchronously on every transition.
	OnStateChange func(State)
}

// Controller runs toggles one at a time.
type Controller struct {
	prober     session.Prober
	applier    Applier
	configPath string
	load       func(string) (gdmconf.Document, error)
	notifier   notify.Notifier
	recorder   Recorder
	logger     *slog.Logger
	onState    func(State)

	running sync.Mutex // held for the whole toggle run

	stateMu sync.RWMutex
	state   State
}

// NewController creates a Controller.
func NewController(opts Options) *Controller {
	c := &Controller{
		prober:     opts.Prober,
		applier:    opts.Applier,
		configPath: opts.ConfigPath,
		load:       opts.Load,
		notifier:   opts.Notifier,
		recorder:   opts.Recorder,
		logger:     opts.Logger,
		onState:    opts.OnStateChange,
	}
	if c.configPath == "" {
		c.configPath = gdmconf.DefaultPath
	}
	if c.load == nil {
		c.load = gdmconf.Load
	}
	if c.notifier == nil {
		c.notifier = notify.Nop{}
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// State returns the state of the run in progress, or StateIdle.
func (c *Controller) State() State {
	c.stateMu.RLock()
	defer c.stateMu.RUnlock()
	return c.state
}

func (c *Controller) setState(s State) {
	c.stateMu.Lock()
	c.state = s
	c.stateMu.Unlock()

	c.logger.Debug("toggle state", "state", s.String())
	if c.onState != nil {
		c.onState(s)
	}
}

// Status describes the current session and what a toggle would switch to.
type Status struct {
	Current        session.Type `json:"current" yaml:"current"`
	SessionID      string       `json:"session_id,omitempty" yaml:"session_id,omitempty"`
	SwitchTarget   session.Type `json:"switch_target" yaml:"switch_target"`
	SwitchLabel    string       `json:"switch_label" yaml:"switch_label"`
	Available      bool         `json:"available" yaml:"available"`
	Pending        session.Type `json:"pending" yaml:"pending"` // type selected by the config for next login
	ConfigPath     string       `json:"config_path" yaml:"config_path"`
	ConfigModified time.Time    `json:"config_modified,omitzero" yaml:"config_modified,omitempty"`
	ProbeError     string       `json:"probe_error,omitempty" yaml:"probe_error,omitempty"`
	ConfigError    string       `json:"config_error,omitempty" yaml:"config_error,omitempty"`
}

// SwitchLabel returns the menu label for switching to target.
func SwitchLabel(target session.Type) string {
	return "Switch to " + target.String()
}

// Status probes the session and inspects the config without side effects.
// Failures are reported in the returned Status, never as an error.
func (c *Controller) Status(ctx context.Context) Status {
	snap, err := c.prober.Probe(ctx)
	target := snap.Type.Opposite()

	st := Status{
		Current:      snap.Type,
		SessionID:    snap.SessionID,
		SwitchTarget: target,
		SwitchLabel:  SwitchLabel(target),
		Available:    target != session.TypeUndefined,
		Pending:      session.TypeUndefined,
		ConfigPath:   c.configPath,
	}
	if err != nil {
		st.ProbeError = err.Error()
	}

	doc, err := c.load(c.configPath)
	if err != nil {
		st.ConfigError = err.Error()
		return st
	}
	st.Pending = gdmconf.Pending(doc)
	if info, err := os.Stat(c.configPath); err == nil {
		st.ConfigModified = info.ModTime()
	}
	return st
}

// Plan is the outcome of probing and rewriting, before anything is applied.
type Plan struct {
	Snapshot  session.Snapshot
	Target    session.Type
	Original  gdmconf.Document
	Rewritten gdmconf.Document
}

// Changed reports whether applying the plan would modify the file.
func (p Plan) Changed() bool {
	return !p.Original.Equal(p.Rewritten)
}

// Plan runs the probe and rewrite steps only. No file is written; a
// successful dry run settles in StateDone.
func (c *Controller) Plan(ctx context.Context) (Plan, error) {
	if !c.running.TryLock() {
		return Plan{}, ErrToggleInFlight
	}
	defer c.running.Unlock()
	defer c.setState(StateIdle)

	plan, state, err := c.plan(ctx)
	if err == nil {
		state = StateDone
	}
	c.setState(state)
	c.record(plan, state, err, true)
	return plan, err
}

// Result describes a completed toggle.
type Result struct {
	Plan
	State State
}

// ToggleSession switches GDM to the opposite of the current session type.
// On a probe or rewrite failure nothing is written. Retrying is left to the caller.
func (c *Controller) ToggleSession(ctx context.Context) (Result, error) {
	if !c.running.TryLock() {
		return Result{}, ErrToggleInFlight
	}
	defer c.running.Unlock()
	defer c.setState(StateIdle)

	plan, state, err := c.plan(ctx)
	if err != nil {
		c.setState(state)
		c.record(plan, state, err, false)
		c.reportFailure(ctx, plan.Target, err)
		return Result{Plan: plan, State: state}, err
	}

	c.announce(ctx, plan.Target)

	c.setState(StateApplying)
	if err := c.applier.Apply(ctx, plan.Rewritten, c.configPath); err != nil {
		cerr := &ControllerError{State: StateApplyFailed, Err: err}
		c.setState(StateApplyFailed)
		c.record(plan, StateApplyFailed, cerr, false)
		c.reportFailure(ctx, plan.Target, err)
		return Result{Plan: plan, State: StateApplyFailed}, cerr
	}

	c.setState(StateDone)
	c.record(plan, StateDone, nil, false)
	c.logger.Info("session toggle applied", "from", plan.Snapshot.Type, "to", plan.Target, "path", c.configPath)
	return Result{Plan: plan, State: StateDone}, nil
}

// plan walks Probing → Probed → Rewriting and returns the state to settle
// in: StateProbed on success, or the matching failure state.
func (c *Controller) plan(ctx context.Context) (Plan, State, error) {
	c.setState(StateProbing)

	snap, err := c.prober.Probe(ctx)
	plan := Plan{Snapshot: snap, Target: snap.Type.Opposite()}
	if err != nil {
		return plan, StateProbeFailed, &ControllerError{State: StateProbeFailed, Err: err}
	}
	if snap.Type == session.TypeUndefined {
		return plan, StateProbeFailed, &ControllerError{State: StateProbeFailed, Err: ErrToggleUnavailable}
	}
	c.setState(StateProbed)

	c.setState(StateRewriting)
	doc, err := c.load(c.configPath)
	if err != nil {
		return plan, StateRewriteFailed, &ControllerError{State: StateRewriteFailed, Err: err}
	}
	plan.Original = doc

	rewritten, err := gdmconf.Rewrite(doc, plan.Target)
	if err != nil {
		return plan, StateRewriteFailed, &ControllerError{State: StateRewriteFailed, Err: err}
	}
	plan.Rewritten = rewritten
	return plan, StateProbed, nil
}

// announce tells the user the switch is starting; the restart usually ends
// the session, so this is the last chance. Failures are only logged.
func (c *Controller) announce(ctx context.Context, target session.Type) {
	msg := notify.Message{
		Summary: "Switching to " + target.String(),
		Body:    "GDM will offer " + target.String() + " at the next login. The display manager is restarting.",
		Icon:    "preferences-desktop-display",
		Urgency: notify.UrgencyNormal,
	}
	if err := c.notifier.Notify(ctx, msg); err != nil {
		c.logger.Warn("failed to send notification", "error", err)
	}
}

// reportFailure tells the user a toggle they started did not happen.
// Host UIs usually discard stderr, so the log alone is not enough.
func (c *Controller) reportFailure(ctx context.Context, target session.Type, err error) {
	summary := "Session switch failed"
	if target != session.TypeUndefined {
		summary = "Switch to " + target.String() + " failed"
	}

	body := err.Error()
	var ae *apply.ApplyError
	if errors.As(err, &ae) && ae.Written() {
		body = "The config was written but the display manager was not restarted. " +
			"Log out or restart it to apply.\n" + body
	}

	msg := notify.Message{
		Summary: summary,
		Body:    body,
		Icon:    "dialog-error",
		Urgency: notify.UrgencyCritical,
	}
	if nerr := c.notifier.Notify(ctx, msg); nerr != nil {
		c.logger.Warn("failed to send notification", "error", nerr)
	}
}

func (c *Controller) record(plan Plan, state State, err error, dryRun bool) {
	if c.recorder == nil {
		return
	}
	e, idErr := journal.NewEvent(plan.Snapshot.Type, plan.Target)
	if idErr != nil {
		c.logger.Warn("failed to create journal event", "error", idErr)
		return
	}
	e.SessionID = plan.Snapshot.SessionID
	e.State = state.String()
	e.DryRun = dryRun
	if err != nil {
		e.Error = err.Error()
	}
	if err := c.recorder.Record(e); err != nil {
		c.logger.Warn("failed to record toggle", "error", err)
	}
}
