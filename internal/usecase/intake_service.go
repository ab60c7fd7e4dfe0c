package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/match-intake/internal/domain/application"
	"github.com/riskibarqy/match-intake/internal/domain/formation"
	"github.com/riskibarqy/match-intake/internal/domain/roster"
	idgen "github.com/riskibarqy/match-intake/internal/platform/id"
	"github.com/riskibarqy/match-intake/internal/platform/logging"
	"github.com/riskibarqy/match-intake/internal/platform/resilience"
	"go.opentelemetry.io/otel/attribute"
)

// EditDraftInput carries the fields to change on the open slot. Nil fields
// are left untouched.
type EditDraftInput struct {
	Name   *string
	Role   *string
	Number *string
}

// RosterState is the roster screen of one draft.
type RosterState struct {
	IntakeID  string
	Formation formation.ID
	Counts    roster.Counts
	Shortfall int
	Positions []roster.Position
	Bench     [roster.BenchSize]roster.Slot
	Entries   []roster.RosterEntry
	Session   roster.SessionState
	Draft     roster.PlayerRecord
	CanCommit bool
	IsUpdate  bool
	CanDelete bool
	Saved     bool
}

// Review is the summary shown before submission.
type Review struct {
	Application application.Application
	Plan        application.Plan
	Counts      roster.Counts
	Positions   []roster.Position
	Payload     application.SubmissionPayload
}

// workspace is the live roster of one draft. Its mutex serializes every
// operation on the draft, including the repository read-modify-write.
type workspace struct {
	mu      sync.Mutex
	engine  *roster.Engine
	session *roster.Session
}

type IntakeService struct {
	repo      application.Repository
	submitter application.Submitter
	idGen     idgen.Generator
	validator *validator.Validate
	logger    *logging.Logger
	draftTTL  time.Duration
	now       func() time.Time

	mu         sync.Mutex
	workspaces map[string]*workspace
	submits    resilience.Group[application.Application]
}

func NewIntakeService(
	repo application.Repository,
	submitter application.Submitter,
	idGen idgen.Generator,
	draftTTL time.Duration,
	logger *logging.Logger,
) *IntakeService {
	if logger == nil {
		logger = logging.Default()
	}

	return &IntakeService{
		repo:       repo,
		submitter:  submitter,
		idGen:      idGen,
		validator:  newMatchValidator(),
		logger:     logger.Named("intake"),
		draftTTL:   draftTTL,
		now:        time.Now,
		workspaces: make(map[string]*workspace),
	}
}

func (s *IntakeService) CreateDraft(ctx context.Context) (application.Application, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IntakeService.CreateDraft")
	defer span.End()

	if _, err := s.PurgeExpired(ctx); err != nil {
		s.logger.WarnContext(ctx, "purge expired drafts failed", "error", err)
	}

	id, err := s.idGen.NewID()
	if err != nil {
		return application.Application{}, fmt.Errorf("generate intake id: %w", err)
	}

	now := s.now().UTC()
	app := application.Application{
		ID:        id,
		Status:    application.StatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Upsert(ctx, app); err != nil {
		return application.Application{}, fmt.Errorf("save intake draft: %w", err)
	}

	s.mu.Lock()
	s.workspaces[id] = newWorkspace(roster.NewDefaultEngine())
	s.mu.Unlock()

	span.SetAttributes(attribute.String("intake.id", id))
	s.logger.InfoContext(ctx, "intake draft created", "intake_id", id)
	return app, nil
}

func (s *IntakeService) GetDraft(ctx context.Context, intakeID string) (application.Application, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IntakeService.GetDraft")
	defer span.End()

	var out application.Application
	err := s.withDraft(ctx, intakeID, func(app *application.Application, _ *workspace) (bool, error) {
		out = *app
		return false, nil
	})
	return out, err
}

func (s *IntakeService) UpdateMatchInfo(ctx context.Context, intakeID string, info application.MatchInfo) (application.Application, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IntakeService.UpdateMatchInfo")
	defer span.End()

	info = info.Normalize()
	if err := s.validateMatch(ctx, info); err != nil {
		return application.Application{}, err
	}

	var out application.Application
	err := s.withDraft(ctx, intakeID, func(app *application.Application, _ *workspace) (bool, error) {
		if err := ensureEditable(app); err != nil {
			return false, err
		}
		app.Match = info
		out = *app
		return true, nil
	})
	return out, err
}

// SetFormation switches the formation. Starting slots are cleared and any
// open slot is discarded; the bench is kept.
func (s *IntakeService) SetFormation(ctx context.Context, intakeID, rawFormation string) (RosterState, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IntakeService.SetFormation")
	defer span.End()

	id, err := formation.Parse(rawFormation)
	if err != nil {
		return RosterState{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	return s.mutateRoster(ctx, intakeID, func(ws *workspace) error {
		ws.session.Cancel()
		return ws.engine.SetFormation(id)
	})
}

func (s *IntakeService) OpenSlot(ctx context.Context, intakeID string, ref roster.SlotRef) (RosterState, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IntakeService.OpenSlot")
	defer span.End()

	if !ref.InRange() {
		return RosterState{}, fmt.Errorf("%w: slot %s/%d does not exist", ErrInvalidInput, ref.Section, ref.Index)
	}

	return s.rosterOp(ctx, intakeID, false, func(ws *workspace) error {
		ws.session.Open(ref)
		return nil
	})
}

func (s *IntakeService) EditDraft(ctx context.Context, intakeID string, input EditDraftInput) (RosterState, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IntakeService.EditDraft")
	defer span.End()

	return s.rosterOp(ctx, intakeID, false, func(ws *workspace) error {
		if !ws.session.Active() {
			return fmt.Errorf("edit draft: %w", roster.ErrNoActiveSession)
		}
		if input.Name != nil {
			ws.session.SetName(*input.Name)
		}
		if input.Role != nil {
			ws.session.SetRole(*input.Role)
		}
		if input.Number != nil {
			ws.session.SetNumber(*input.Number)
		}
		return nil
	})
}

func (s *IntakeService) CommitSlot(ctx context.Context, intakeID string) (RosterState, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IntakeService.CommitSlot")
	defer span.End()

	return s.mutateRoster(ctx, intakeID, func(ws *workspace) error {
		if err := ws.session.Commit(); err != nil {
			return fmt.Errorf("commit slot: %w", err)
		}
		return nil
	})
}

func (s *IntakeService) CancelEdit(ctx context.Context, intakeID string) (RosterState, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IntakeService.CancelEdit")
	defer span.End()

	return s.rosterOp(ctx, intakeID, false, func(ws *workspace) error {
		ws.session.Cancel()
		return nil
	})
}

// DeleteSlot clears the slot that is open in the edit session.
func (s *IntakeService) DeleteSlot(ctx context.Context, intakeID string) (RosterState, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IntakeService.DeleteSlot")
	defer span.End()

	return s.mutateRoster(ctx, intakeID, func(ws *workspace) error {
		if err := ws.session.Delete(); err != nil {
			return fmt.Errorf("delete slot: %w", err)
		}
		return nil
	})
}

// DeleteRosterEntry clears a slot picked from the flattened roster list. An
// edit session open on the same slot is discarded.
func (s *IntakeService) DeleteRosterEntry(ctx context.Context, intakeID string, ref roster.SlotRef) (RosterState, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IntakeService.DeleteRosterEntry")
	defer span.End()

	if !ref.InRange() {
		return RosterState{}, fmt.Errorf("%w: slot %s/%d does not exist", ErrInvalidInput, ref.Section, ref.Index)
	}

	return s.mutateRoster(ctx, intakeID, func(ws *workspace) error {
		if !ws.engine.Slot(ref).Occupied {
			return fmt.Errorf("delete roster entry: %w", roster.ErrSlotEmpty)
		}
		if open, ok := ws.session.State().Ref(); ok && open == ref {
			ws.session.Cancel()
		}
		ws.engine.Clear(ref)
		return nil
	})
}

// RosterView returns the roster screen. A non-empty search narrows Entries
// by player name.
func (s *IntakeService) RosterView(ctx context.Context, intakeID, search string) (RosterState, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IntakeService.RosterView")
	defer span.End()

	var out RosterState
	err := s.withDraft(ctx, intakeID, func(app *application.Application, ws *workspace) (bool, error) {
		out = buildRosterState(app, ws, search)
		return false, nil
	})
	return out, err
}

// SaveRoster finalizes the roster and attaches it to the draft.
func (s *IntakeService) SaveRoster(ctx context.Context, intakeID string) (roster.Payload, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IntakeService.SaveRoster")
	defer span.End()

	var out roster.Payload
	err := s.withDraft(ctx, intakeID, func(app *application.Application, ws *workspace) (bool, error) {
		if err := ensureEditable(app); err != nil {
			return false, err
		}
		finalized, err := ws.engine.Finalize()
		if err != nil {
			return false, fmt.Errorf("finalize roster: %w", err)
		}
		payload := finalized.Payload()
		app.Roster = &payload
		out = payload
		return true, nil
	})
	if err != nil {
		return roster.Payload{}, err
	}

	s.logger.InfoContext(ctx, "roster saved",
		"intake_id", intakeID,
		"formation", out.Formation,
		"starting", len(out.Players),
		"bench", len(out.Substitutes),
	)
	return out, nil
}

func (s *IntakeService) Review(ctx context.Context, intakeID string) (Review, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IntakeService.Review")
	defer span.End()

	var out Review
	err := s.withDraft(ctx, intakeID, func(app *application.Application, ws *workspace) (bool, error) {
		if !app.Match.CanProceed() {
			return false, fmt.Errorf("review: %w", application.ErrIncompleteMatch)
		}
		if app.Roster == nil {
			return false, fmt.Errorf("review: %w", application.ErrRosterNotSaved)
		}
		plan, err := application.LookupPlan(app.Match.Plan)
		if err != nil {
			return false, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}

		view := roster.Project(ws.engine.State())
		out = Review{
			Application: *app,
			Plan:        plan,
			Counts:      view.Counts(),
			Positions:   view.RenderablePositions(),
			Payload:     app.SubmissionPayload(),
		}
		return false, nil
	})
	return out, err
}

// Submit hands the draft to the analysis backend. Concurrent submits of the
// same draft share one upstream call: callers that join an in-flight submit
// get its result, which was checked against the first caller's consent. The
// shared call is detached from caller cancellation.
func (s *IntakeService) Submit(ctx context.Context, intakeID string, consent application.Consent) (application.Application, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IntakeService.Submit")
	defer span.End()

	intakeID = strings.TrimSpace(intakeID)
	sharedCtx := context.WithoutCancel(ctx)
	out, err, shared := s.submits.Do(intakeID, func() (application.Application, error) {
		return s.submit(sharedCtx, intakeID, consent)
	})
	span.SetAttributes(attribute.Bool("intake.submit.shared", shared))
	return out, err
}

func (s *IntakeService) submit(ctx context.Context, intakeID string, consent application.Consent) (application.Application, error) {
	var out application.Application
	err := s.withDraft(ctx, intakeID, func(app *application.Application, _ *workspace) (bool, error) {
		if err := app.ReadyForSubmit(consent); err != nil {
			if errors.Is(err, application.ErrAlreadySubmitted) {
				return false, fmt.Errorf("%w: %w", ErrConflict, err)
			}
			return false, fmt.Errorf("submit: %w", err)
		}
		if err := s.validateMatch(ctx, app.Match); err != nil {
			return false, err
		}

		if err := s.submitter.Submit(ctx, app.SubmissionPayload()); err != nil {
			return false, fmt.Errorf("%w: submit application: %w", ErrDependencyUnavailable, err)
		}

		app.Status = application.StatusSubmitted
		app.SubmittedAt = s.now().UTC()
		out = *app
		return true, nil
	})
	if err != nil {
		return application.Application{}, err
	}

	s.logger.InfoContext(ctx, "intake submitted",
		"intake_id", out.ID,
		"plan", string(out.Match.Plan),
		"formation", out.Roster.Formation,
	)
	return out, nil
}

// Reset discards the draft and its roster.
func (s *IntakeService) Reset(ctx context.Context, intakeID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.IntakeService.Reset")
	defer span.End()

	intakeID = strings.TrimSpace(intakeID)
	if intakeID == "" {
		return fmt.Errorf("%w: intake id is required", ErrInvalidInput)
	}

	ws := s.workspaceFor(intakeID)
	ws.mu.Lock()
	defer ws.mu.Unlock()

	_, exists, err := s.repo.GetByID(ctx, intakeID)
	if err != nil {
		return fmt.Errorf("get intake draft: %w", err)
	}
	s.dropWorkspace(intakeID)
	if !exists {
		return fmt.Errorf("%w: intake id=%s", ErrNotFound, intakeID)
	}
	if err := s.repo.Delete(ctx, intakeID); err != nil {
		return fmt.Errorf("delete intake draft: %w", err)
	}

	s.logger.InfoContext(ctx, "intake draft reset", "intake_id", intakeID)
	return nil
}

// PurgeExpired deletes drafts not touched within the draft TTL. Submitted
// applications expire the same way.
func (s *IntakeService) PurgeExpired(ctx context.Context) (int, error) {
	if s.draftTTL <= 0 {
		return 0, nil
	}

	cutoff := s.now().UTC().Add(-s.draftTTL)
	ids, err := s.repo.ListUpdatedBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("list expired drafts: %w", err)
	}

	purged := 0
	for _, id := range ids {
		deleted, err := s.purgeDraft(ctx, id, cutoff)
		if err != nil {
			return purged, fmt.Errorf("purge draft %s: %w", id, err)
		}
		if deleted {
			purged++
		}
	}

	if purged > 0 {
		s.logger.InfoContext(ctx, "expired intake drafts purged", "count", purged)
	}
	return purged, nil
}

// purgeDraft deletes the draft if it is still expired once its workspace is
// locked. The workspace is only dropped together with the draft.
func (s *IntakeService) purgeDraft(ctx context.Context, id string, cutoff time.Time) (bool, error) {
	ws := s.workspaceFor(id)
	ws.mu.Lock()
	defer ws.mu.Unlock()

	app, exists, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	if !exists {
		s.dropWorkspace(id)
		return false, nil
	}
	if !app.UpdatedAt.Before(cutoff) {
		return false, nil
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return false, err
	}
	s.dropWorkspace(id)
	return true, nil
}

// mutateRoster runs a roster change and drops any saved roster, which must be
// saved again before submission.
func (s *IntakeService) mutateRoster(ctx context.Context, intakeID string, fn func(ws *workspace) error) (RosterState, error) {
	return s.rosterOp(ctx, intakeID, true, fn)
}

func (s *IntakeService) rosterOp(ctx context.Context, intakeID string, mutates bool, fn func(ws *workspace) error) (RosterState, error) {
	var out RosterState
	err := s.withDraft(ctx, intakeID, func(app *application.Application, ws *workspace) (bool, error) {
		if err := ensureEditable(app); err != nil {
			return false, err
		}
		if err := fn(ws); err != nil {
			return false, err
		}
		if mutates {
			app.Roster = nil
		}
		out = buildRosterState(app, ws, "")
		// Every roster action counts as activity for the draft TTL.
		return true, nil
	})
	return out, err
}

// withDraft locks the draft's workspace, loads the draft and runs fn. When fn
// reports a change the draft is stored with a fresh UpdatedAt.
func (s *IntakeService) withDraft(
	ctx context.Context,
	intakeID string,
	fn func(app *application.Application, ws *workspace) (bool, error),
) error {
	intakeID = strings.TrimSpace(intakeID)
	if intakeID == "" {
		return fmt.Errorf("%w: intake id is required", ErrInvalidInput)
	}

	ws := s.workspaceFor(intakeID)
	ws.mu.Lock()
	defer ws.mu.Unlock()

	app, exists, err := s.repo.GetByID(ctx, intakeID)
	if err != nil {
		return fmt.Errorf("get intake draft: %w", err)
	}
	if !exists {
		s.dropWorkspace(intakeID)
		return fmt.Errorf("%w: intake id=%s", ErrNotFound, intakeID)
	}

	if ws.engine == nil {
		if err := ws.restore(app.Roster); err != nil {
			return fmt.Errorf("restore roster for intake=%s: %w", intakeID, err)
		}
	}

	changed, err := fn(&app, ws)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}

	app.UpdatedAt = s.now().UTC()
	if err := s.repo.Upsert(ctx, app); err != nil {
		return fmt.Errorf("save intake draft: %w", err)
	}
	return nil
}

func (s *IntakeService) workspaceFor(intakeID string) *workspace {
	s.mu.Lock()
	defer s.mu.Unlock()

	ws, ok := s.workspaces[intakeID]
	if !ok {
		ws = &workspace{}
		s.workspaces[intakeID] = ws
	}
	return ws
}

func (s *IntakeService) dropWorkspace(intakeID string) {
	s.mu.Lock()
	delete(s.workspaces, intakeID)
	s.mu.Unlock()
}

func (s *IntakeService) validateMatch(ctx context.Context, info application.MatchInfo) error {
	if err := s.validator.StructCtx(ctx, info); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidInput, describeValidation(err))
	}
	if _, err := application.LookupPlan(info.Plan); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return nil
}

func newWorkspace(engine *roster.Engine) *workspace {
	return &workspace{engine: engine, session: roster.NewSession(engine)}
}

// restore rebuilds the live roster from the saved payload, or starts an empty
// default roster when nothing was saved.
func (w *workspace) restore(saved *roster.Payload) error {
	engine := roster.NewDefaultEngine()
	if saved != nil {
		var err error
		engine, err = roster.NewEngine(saved.Snapshot())
		if err != nil {
			return err
		}
	}
	w.engine = engine
	w.session = roster.NewSession(engine)
	return nil
}

func ensureEditable(app *application.Application) error {
	if app.Status == application.StatusSubmitted {
		return fmt.Errorf("%w: %w", ErrConflict, application.ErrAlreadySubmitted)
	}
	return nil
}

func buildRosterState(app *application.Application, ws *workspace, search string) RosterState {
	state := ws.engine.State()
	view := roster.Project(state)
	return RosterState{
		IntakeID:  app.ID,
		Formation: view.Formation(),
		Counts:    view.Counts(),
		Shortfall: view.Shortfall(),
		Positions: view.RenderablePositions(),
		Bench:     state.Bench,
		Entries:   view.Search(search),
		Session:   ws.session.State(),
		Draft:     ws.session.Draft(),
		CanCommit: ws.session.CanCommit(),
		IsUpdate:  ws.session.IsUpdate(),
		CanDelete: ws.session.CanDelete(),
		Saved:     app.Roster != nil,
	}
}
