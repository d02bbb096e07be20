// Package upgrade coordinates the taxonomy upgrade: schema check,
// change detection, operator review, transactional migration and
// post-migration maintenance. Each invocation is one linear pass; the
// review callback is its only suspension point.
package upgrade

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/quotidian-org/seedtaxa/internal/io/database"
	"github.com/quotidian-org/seedtaxa/internal/io/detect"
	"github.com/quotidian-org/seedtaxa/internal/io/resolve"
	"github.com/quotidian-org/seedtaxa/pkg/config"
	"github.com/quotidian-org/seedtaxa/pkg/db"
	"github.com/quotidian-org/seedtaxa/pkg/lifecycle"
)

// phase tracks where a reconciliation pass is in its fixed sequence.
type phase int

const (
	phaseSchemaCheck phase = iota
	phaseDetect
	phaseReview
	phaseMigrate
	phaseFinalize
	phaseDone
	phaseFailed
)

func (p phase) String() string {
	switch p {
	case phaseSchemaCheck:
		return "schema check"
	case phaseDetect:
		return "detect"
	case phaseReview:
		return "review"
	case phaseMigrate:
		return "migrate"
	case phaseFinalize:
		return "finalize"
	case phaseDone:
		return "done"
	default:
		return "failed"
	}
}

// run carries the state of one reconciliation pass. The pass owns its
// candidate session and summary; every step asserts the phase it
// expects before touching that state, so a step cannot run out of
// order or observe a stage that has not happened.
type run struct {
	phase   phase
	session *database.Session
	summary *lifecycle.UpgradeSummary
	report  *lifecycle.Report
	log     *slog.Logger
}

func (r *run) enter(p phase) error {
	if r.phase != p {
		return phaseError(p, r.phase)
	}
	return nil
}

func (r *run) fail(err error) error {
	r.phase = phaseFailed
	r.report.Outcome = lifecycle.OutcomeFailed
	r.report.Cause = err.Error()
	return err
}

type upgrader struct {
	operator   db.Operator
	cfg        *config.Config
	checker    lifecycle.SchemaChecker
	maintainer lifecycle.Maintainer
}

// New wires the upgrade coordinator. The operator must already be
// connected to the current database.
func New(
	op db.Operator,
	cfg *config.Config,
	checker lifecycle.SchemaChecker,
	maintainer lifecycle.Maintainer,
) lifecycle.Upgrader {
	return &upgrader{
		operator:   op,
		cfg:        cfg,
		checker:    checker,
		maintainer: maintainer,
	}
}

func (u *upgrader) Upgrade(
	ctx context.Context,
	candidatePath string,
	review lifecycle.ReviewFunc,
) (*lifecycle.Report, error) {
	r := &run{
		phase:  phaseSchemaCheck,
		report: &lifecycle.Report{RunID: uuid.NewString()},
	}
	r.log = slog.With("run", r.report.RunID, "candidate", candidatePath)
	defer func() {
		if r.session != nil {
			_ = r.session.Close(ctx)
		}
	}()

	if err := u.checkSchema(ctx, r, candidatePath); err != nil {
		return r.report, r.fail(err)
	}
	if err := u.detectChanges(ctx, r, candidatePath); err != nil {
		return r.report, r.fail(err)
	}
	proceed, err := u.reviewSummary(r, review)
	if err != nil {
		return r.report, r.fail(err)
	}
	if !proceed {
		return r.report, nil
	}
	if err = u.runMigration(ctx, r); err != nil {
		return r.report, r.fail(err)
	}
	return r.report, u.finalize(ctx, r)
}

func (u *upgrader) checkSchema(
	ctx context.Context, r *run, candidatePath string,
) error {
	if err := r.enter(phaseSchemaCheck); err != nil {
		return err
	}
	r.log.Info("Checking candidate schema compatibility")
	err := u.checker.Check(ctx, u.cfg.Database.Path, candidatePath)
	if err != nil {
		return err
	}
	r.phase = phaseDetect
	return nil
}

func (u *upgrader) detectChanges(
	ctx context.Context, r *run, candidatePath string,
) error {
	if err := r.enter(phaseDetect); err != nil {
		return err
	}
	session, err := database.NewSession(ctx, u.operator, candidatePath)
	if err != nil {
		return err
	}
	r.session = session

	r.log.Info("Detecting taxonomy changes")
	candResolver := resolve.New(
		session.Conn(), u.cfg, resolve.OptSchema(database.AttachedSchema),
	)
	r.summary, err = detect.New(session.Conn(), candResolver).Detect(ctx)
	if err != nil {
		return err
	}
	r.report.Reassigned = len(r.summary.Replacements)
	r.report.Invalid = len(r.summary.Invalid)
	r.phase = phaseReview
	return nil
}

func (u *upgrader) reviewSummary(
	r *run, review lifecycle.ReviewFunc,
) (bool, error) {
	if err := r.enter(phaseReview); err != nil {
		return false, err
	}
	// The operator reviews the summary before any transaction opens,
	// so the database stays unlocked however long the review takes.
	if review != nil && review(r.summary) == lifecycle.Abort {
		r.log.Info("Upgrade aborted during review")
		r.phase = phaseDone
		r.report.Outcome = lifecycle.OutcomeAborted
		r.report.Reassigned = 0
		r.report.Invalid = 0
		return false, nil
	}
	r.phase = phaseMigrate
	return true, nil
}

func (u *upgrader) runMigration(ctx context.Context, r *run) error {
	if err := r.enter(phaseMigrate); err != nil {
		return err
	}
	r.log.Info("Migrating to the candidate taxonomy")
	err := u.migrate(ctx, r.session, r.summary.Replacements)
	if err != nil {
		return err
	}
	r.phase = phaseFinalize
	return nil
}

func (u *upgrader) finalize(ctx context.Context, r *run) error {
	if err := r.enter(phaseFinalize); err != nil {
		return r.fail(err)
	}
	// The candidate must be detached before maintenance: VACUUM
	// refuses to run while another database is attached.
	if err := r.session.Close(ctx); err != nil {
		return r.fail(err)
	}
	r.log.Info("Running post-migration maintenance")
	if err := u.maintainer.Maintain(ctx); err != nil {
		// The migration is committed; maintenance failures are
		// surfaced without undoing it.
		r.phase = phaseDone
		r.report.Outcome = lifecycle.OutcomeSucceeded
		r.report.Cause = err.Error()
		return err
	}
	r.phase = phaseDone
	if r.summary.IsEmpty() {
		r.report.Outcome = lifecycle.OutcomeNoChanges
	} else {
		r.report.Outcome = lifecycle.OutcomeSucceeded
	}
	r.log.Info("Upgrade finished", "outcome", r.report.Outcome.String())
	return nil
}
