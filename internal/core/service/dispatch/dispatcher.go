package dispatch

import (
	"context"
	"log/slog"
	"time"

	"github.com/bornholm/go-x/slogx"
	"github.com/bornholm/montage/internal/core/model"
	"github.com/bornholm/montage/internal/core/port"
	"github.com/bornholm/montage/internal/metrics"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/xid"
)

const DefaultLockName = "deadline-dispatcher"

// FailureHook is called for every per-task failure.
type FailureHook func(ctx context.Context, task model.Task, err *StageError)

type DispatcherOptions struct {
	Horizon       time.Duration
	MentionFormat string
	Locker        port.Locker
	LockName      string
	LockTTL       time.Duration
	MarkTimeout   time.Duration
	Clock         func() time.Time
	FailureHook   FailureHook
}

type DispatcherOptionFunc func(opts *DispatcherOptions)

func WithHorizon(horizon time.Duration) DispatcherOptionFunc {
	return func(opts *DispatcherOptions) {
		opts.Horizon = horizon
	}
}

func WithMentionFormat(format string) DispatcherOptionFunc {
	return func(opts *DispatcherOptions) {
		opts.MentionFormat = format
	}
}

// WithLocker serializes the invocations sharing the given lock name.
func WithLocker(locker port.Locker, name string, ttl time.Duration) DispatcherOptionFunc {
	return func(opts *DispatcherOptions) {
		opts.Locker = locker
		opts.LockName = name
		opts.LockTTL = ttl
	}
}

func WithMarkTimeout(timeout time.Duration) DispatcherOptionFunc {
	return func(opts *DispatcherOptions) {
		opts.MarkTimeout = timeout
	}
}

func WithClock(clock func() time.Time) DispatcherOptionFunc {
	return func(opts *DispatcherOptions) {
		opts.Clock = clock
	}
}

func WithFailureHook(hook FailureHook) DispatcherOptionFunc {
	return func(opts *DispatcherOptions) {
		opts.FailureHook = hook
	}
}

func NewDispatcherOptions(funcs ...DispatcherOptionFunc) *DispatcherOptions {
	opts := &DispatcherOptions{
		Horizon:       DefaultHorizon,
		MentionFormat: DefaultMentionFormat,
		LockName:      DefaultLockName,
		LockTTL:       10 * time.Minute,
		MarkTimeout:   10 * time.Second,
		Clock:         time.Now,
	}
	for _, fn := range funcs {
		fn(opts)
	}
	return opts
}

type RunOptions struct {
	// Progress is called after each processed candidate.
	Progress func(done int, total int)
}

type RunOptionFunc func(opts *RunOptions)

func WithProgress(fn func(done int, total int)) RunOptionFunc {
	return func(opts *RunOptions) {
		opts.Progress = fn
	}
}

func NewRunOptions(funcs ...RunOptionFunc) *RunOptions {
	opts := &RunOptions{}
	for _, fn := range funcs {
		fn(opts)
	}
	return opts
}

// Dispatcher notifies the assignees of the tasks approaching their due date.
type Dispatcher struct {
	candidates port.CandidateStore
	ledger     port.NotificationLedger
	resolver   *Resolver
	formatter  *Formatter
	deliverer  port.Deliverer

	horizon     time.Duration
	locker      port.Locker
	lockName    string
	lockTTL     time.Duration
	markTimeout time.Duration
	clock       func() time.Time
	failureHook FailureHook
}

// Run executes one invocation: a single candidate query, then for each
// candidate resolve, format, deliver and mark, sequentially.
//
// Only the configuration, lock and query errors are returned: per-task
// failures are logged and counted in the result. When the context is
// canceled between two tasks, the partial result is returned along with the
// context error. With a locker, the run is bounded by the lock lease.
func (d *Dispatcher) Run(ctx context.Context, funcs ...RunOptionFunc) (*Result, error) {
	opts := NewRunOptions(funcs...)

	result := &Result{
		DispatchID: xid.New().String(),
		StartedAt:  d.clock(),
	}

	ctx = slogx.WithAttrs(ctx, slog.String("dispatchID", result.DispatchID))

	if d.deliverer == nil {
		metrics.DispatchRuns.With(prometheus.Labels{metrics.LabelOutcome: metrics.OutcomeFailed}).Inc()
		return nil, errors.WithStack(port.ErrMissingDestination)
	}

	if d.locker != nil {
		release, err := d.locker.Acquire(ctx, d.lockName, d.lockTTL)
		if err != nil {
			if errors.Is(err, port.ErrLocked) {
				metrics.DispatchRuns.With(prometheus.Labels{metrics.LabelOutcome: metrics.OutcomeLocked}).Inc()
				slog.WarnContext(ctx, "dispatcher lock already held", slog.String("lock", d.lockName))
			} else {
				metrics.DispatchRuns.With(prometheus.Labels{metrics.LabelOutcome: metrics.OutcomeFailed}).Inc()
			}

			return nil, errors.Wrapf(err, "could not acquire lock '%s'", d.lockName)
		}

		defer func() {
			releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.markTimeout)
			defer cancel()

			if err := release(releaseCtx); err != nil {
				slog.ErrorContext(ctx, "could not release dispatcher lock", slog.Any("error", errors.WithStack(err)))
			}
		}()

		// The run, including its last ledger write, must end before the lease
		// expires
		budget := d.lockTTL - d.markTimeout
		if budget <= 0 {
			budget = d.lockTTL
		}

		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, budget)
		defer cancel()
	}

	window := NewWindow(result.StartedAt, d.horizon)

	slog.DebugContext(ctx, "querying candidates", slog.Time("from", window.From), slog.Time("to", window.To))

	tasks, err := d.candidates.QueryCandidates(ctx, window.Query())
	if err != nil {
		metrics.DispatchRuns.With(prometheus.Labels{metrics.LabelOutcome: metrics.OutcomeFailed}).Inc()
		return nil, errors.Wrap(err, "could not query candidates")
	}

	result.Candidates = len(tasks)
	metrics.DispatchCandidates.Set(float64(len(tasks)))

	if result.Empty() {
		result.FinishedAt = d.clock()
		metrics.DispatchRuns.With(prometheus.Labels{metrics.LabelOutcome: metrics.OutcomeEmpty}).Inc()
		slog.InfoContext(ctx, "no tasks to notify")
		return result, nil
	}

	for i, task := range tasks {
		if err := ctx.Err(); err != nil {
			result.Failed += len(tasks) - i
			result.FinishedAt = d.clock()
			metrics.DispatchRuns.With(prometheus.Labels{metrics.LabelOutcome: metrics.OutcomeFailed}).Inc()
			return result, errors.Wrapf(err, "dispatch interrupted after %d of %d task(s)", i, len(tasks))
		}

		taskCtx := slogx.WithAttrs(ctx, slog.String("taskID", string(task.ID)))

		if stageErr := d.process(taskCtx, task, result.StartedAt); stageErr != nil {
			result.Failed++
			d.fail(taskCtx, task, stageErr)
		} else {
			result.Notified++
		}

		if opts.Progress != nil {
			opts.Progress(i+1, len(tasks))
		}
	}

	result.FinishedAt = d.clock()
	metrics.DispatchRuns.With(prometheus.Labels{metrics.LabelOutcome: metrics.OutcomeNotified}).Inc()

	slog.InfoContext(ctx, "dispatch done",
		slog.Int("candidates", result.Candidates),
		slog.Int("notified", result.Notified),
		slog.Int("failed", result.Failed),
		slog.Duration("duration", result.FinishedAt.Sub(result.StartedAt)),
	)

	return result, nil
}

// process handles a single candidate. The task is either delivered then
// marked, or left as found.
func (d *Dispatcher) process(ctx context.Context, task model.Task, now time.Time) *StageError {
	handles, err := d.resolver.Resolve(ctx, task.Assignees)
	if err != nil {
		metrics.DispatchNotifications.With(prometheus.Labels{metrics.LabelStatus: metrics.NotificationResolveFailed}).Inc()
		return &StageError{TaskID: task.ID, Stage: StageResolving, Err: err}
	}

	payload := d.formatter.Format(task, handles, now)

	if err := d.deliverer.Deliver(ctx, payload); err != nil {
		metrics.DispatchNotifications.With(prometheus.Labels{metrics.LabelStatus: metrics.NotificationDeliveryFailed}).Inc()
		return &StageError{TaskID: task.ID, Stage: StageDelivering, Err: err}
	}

	// The notification is out: the ledger write must survive the invocation
	// cancellation.
	markCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.markTimeout)
	defer cancel()

	if err := d.ledger.MarkNotified(markCtx, task.ID); err != nil {
		metrics.DispatchNotifications.With(prometheus.Labels{metrics.LabelStatus: metrics.NotificationLedgerFailed}).Inc()
		return &StageError{TaskID: task.ID, Stage: StageMarking, Err: err}
	}

	metrics.DispatchNotifications.With(prometheus.Labels{metrics.LabelStatus: metrics.NotificationDelivered}).Inc()

	slog.DebugContext(ctx, "task notified", slog.String("recipients", payload.Recipients))

	return nil
}

func (d *Dispatcher) fail(ctx context.Context, task model.Task, err *StageError) {
	ctx = slogx.WithAttrs(ctx, slog.String("stage", string(err.Stage)))

	switch err.Stage {
	case StageMarking:
		slog.ErrorContext(ctx, "task delivered but not marked as notified, it may be notified again", slogx.Error(err.Err))
	default:
		slog.ErrorContext(ctx, "could not notify task, skipping", slogx.Error(err.Err))
	}

	if d.failureHook != nil {
		d.failureHook(ctx, task, err)
	}
}

func NewDispatcher(candidates port.CandidateStore, ledger port.NotificationLedger, directory port.RecipientDirectory, formatter *Formatter, deliverer port.Deliverer, funcs ...DispatcherOptionFunc) *Dispatcher {
	opts := NewDispatcherOptions(funcs...)

	return &Dispatcher{
		candidates:  candidates,
		ledger:      ledger,
		resolver:    NewResolver(directory, opts.MentionFormat),
		formatter:   formatter,
		deliverer:   deliverer,
		horizon:     opts.Horizon,
		locker:      opts.Locker,
		lockName:    opts.LockName,
		lockTTL:     opts.LockTTL,
		markTimeout: opts.MarkTimeout,
		clock:       opts.Clock,
		failureHook: opts.FailureHook,
	}
}
