package httpapi

import (
	"time"

	"github.com/riskibarqy/match-intake/internal/domain/application"
	"github.com/riskibarqy/match-intake/internal/domain/formation"
	"github.com/riskibarqy/match-intake/internal/domain/roster"
	"github.com/riskibarqy/match-intake/internal/usecase"
)

type setFormationRequest struct {
	Formation string `json:"formation" validate:"required"`
}

type openSlotRequest struct {
	Section string `json:"section" validate:"required,oneof=starting bench"`
	Index   *int   `json:"index" validate:"required,min=0"`
}

type editSlotRequest struct {
	Name     *string `json:"name" validate:"omitempty,max=100"`
	Position *string `json:"position" validate:"omitempty,max=20"`
	Number   *string `json:"number" validate:"omitempty,max=10"`
}

type submitRequest struct {
	PaymentConfirmed      bool `json:"payment_confirmed"`
	RefundPolicyConfirmed bool `json:"refund_policy_confirmed"`
	DisclaimerAgreed      bool `json:"disclaimer_agreed"`
}

type planDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	PriceKRW    int64  `json:"price_krw"`
}

type slotSpecDTO struct {
	Index int     `json:"index"`
	Label string  `json:"label"`
	Row   float64 `json:"row"`
	Col   float64 `json:"col"`
}

type formationDTO struct {
	ID    string        `json:"id"`
	Slots []slotSpecDTO `json:"slots"`
}

type playerDTO struct {
	Name     string `json:"name"`
	Position string `json:"position"`
	Number   string `json:"number"`
}

type rosterPayloadDTO struct {
	Formation   string      `json:"formation"`
	Players     []playerDTO `json:"players"`
	Substitutes []playerDTO `json:"substitutes"`
}

type intakeDTO struct {
	ID          string                `json:"id"`
	Status      string                `json:"status"`
	Match       application.MatchInfo `json:"match"`
	CanProceed  bool                  `json:"can_proceed"`
	Roster      *rosterPayloadDTO     `json:"roster,omitempty"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
	SubmittedAt *time.Time            `json:"submitted_at,omitempty"`
}

type countsDTO struct {
	StartingFilled   int `json:"starting_filled"`
	StartingRequired int `json:"starting_required"`
	BenchFilled      int `json:"bench_filled"`
	BenchCapacity    int `json:"bench_capacity"`
	Total            int `json:"total"`
	TotalCapacity    int `json:"total_capacity"`
}

type positionDTO struct {
	Index  int        `json:"index"`
	Label  string     `json:"label"`
	Row    float64    `json:"row"`
	Col    float64    `json:"col"`
	Player *playerDTO `json:"player,omitempty"`
}

type benchSlotDTO struct {
	Index  int        `json:"index"`
	Player *playerDTO `json:"player,omitempty"`
}

type rosterEntryDTO struct {
	Section string    `json:"section"`
	Index   int       `json:"index"`
	Player  playerDTO `json:"player"`
}

type sessionDTO struct {
	Mode      string     `json:"mode"`
	Section   string     `json:"section,omitempty"`
	Index     *int       `json:"index,omitempty"`
	Draft     *playerDTO `json:"draft,omitempty"`
	CanCommit bool       `json:"can_commit"`
	IsUpdate  bool       `json:"is_update"`
	CanDelete bool       `json:"can_delete"`
}

type rosterDTO struct {
	IntakeID  string           `json:"intake_id"`
	Formation string           `json:"formation"`
	Counts    countsDTO        `json:"counts"`
	Shortfall int              `json:"shortfall"`
	Saved     bool             `json:"saved"`
	Positions []positionDTO    `json:"positions"`
	Bench     []benchSlotDTO   `json:"bench"`
	Entries   []rosterEntryDTO `json:"entries"`
	Session   sessionDTO       `json:"session"`
}

type reviewDTO struct {
	Intake    intakeDTO                     `json:"intake"`
	Plan      planDTO                       `json:"plan"`
	Counts    countsDTO                     `json:"counts"`
	Positions []positionDTO                 `json:"positions"`
	Payload   application.SubmissionPayload `json:"payload"`
}

func planToDTO(p application.Plan) planDTO {
	return planDTO{ID: string(p.ID), Name: p.Name, Description: p.Description, PriceKRW: p.PriceKRW}
}

func formationToDTO(id formation.ID, layout []formation.SlotSpec) formationDTO {
	slots := make([]slotSpecDTO, 0, len(layout))
	for _, spec := range layout {
		slots = append(slots, slotSpecDTO{Index: spec.Index, Label: spec.Label, Row: spec.Row, Col: spec.Col})
	}
	return formationDTO{ID: string(id), Slots: slots}
}

func playerToDTO(p roster.PlayerRecord) playerDTO {
	return playerDTO{Name: p.Name, Position: p.Role, Number: p.Number}
}

func playersToDTO(items []roster.PlayerRecord) []playerDTO {
	out := make([]playerDTO, 0, len(items))
	for _, p := range items {
		out = append(out, playerToDTO(p))
	}
	return out
}

func intakeToDTO(app application.Application) intakeDTO {
	out := intakeDTO{
		ID:         app.ID,
		Status:     string(app.Status),
		Match:      app.Match,
		CanProceed: app.Match.CanProceed(),
		CreatedAt:  app.CreatedAt,
		UpdatedAt:  app.UpdatedAt,
	}
	if app.Roster != nil {
		out.Roster = &rosterPayloadDTO{
			Formation:   app.Roster.Formation,
			Players:     playersToDTO(app.Roster.Players),
			Substitutes: playersToDTO(app.Roster.Substitutes),
		}
	}
	if !app.SubmittedAt.IsZero() {
		submittedAt := app.SubmittedAt
		out.SubmittedAt = &submittedAt
	}
	return out
}

func countsToDTO(c roster.Counts) countsDTO {
	return countsDTO{
		StartingFilled:   c.StartingFilled,
		StartingRequired: roster.StartingSize,
		BenchFilled:      c.BenchFilled,
		BenchCapacity:    roster.BenchSize,
		Total:            c.Total(),
		TotalCapacity:    roster.MaxRoster,
	}
}

func positionsToDTO(items []roster.Position) []positionDTO {
	out := make([]positionDTO, 0, len(items))
	for _, pos := range items {
		item := positionDTO{Index: pos.Spec.Index, Label: pos.Spec.Label, Row: pos.Spec.Row, Col: pos.Spec.Col}
		if pos.Occupied {
			player := playerToDTO(pos.Player)
			item.Player = &player
		}
		out = append(out, item)
	}
	return out
}

func rosterToDTO(state usecase.RosterState) rosterDTO {
	bench := make([]benchSlotDTO, 0, len(state.Bench))
	for i, slot := range state.Bench {
		item := benchSlotDTO{Index: i}
		if slot.Occupied {
			player := playerToDTO(slot.Player)
			item.Player = &player
		}
		bench = append(bench, item)
	}

	entries := make([]rosterEntryDTO, 0, len(state.Entries))
	for _, entry := range state.Entries {
		entries = append(entries, rosterEntryDTO{
			Section: string(entry.Ref.Section),
			Index:   entry.Ref.Index,
			Player:  playerToDTO(entry.Player),
		})
	}

	session := sessionDTO{
		Mode:      string(state.Session.Mode),
		CanCommit: state.CanCommit,
		IsUpdate:  state.IsUpdate,
		CanDelete: state.CanDelete,
	}
	if ref, ok := state.Session.Ref(); ok {
		index := ref.Index
		draft := playerToDTO(state.Draft)
		session.Section = string(ref.Section)
		session.Index = &index
		session.Draft = &draft
	}

	return rosterDTO{
		IntakeID:  state.IntakeID,
		Formation: string(state.Formation),
		Counts:    countsToDTO(state.Counts),
		Shortfall: state.Shortfall,
		Saved:     state.Saved,
		Positions: positionsToDTO(state.Positions),
		Bench:     bench,
		Entries:   entries,
		Session:   session,
	}
}

func reviewToDTO(r usecase.Review) reviewDTO {
	return reviewDTO{
		Intake:    intakeToDTO(r.Application),
		Plan:      planToDTO(r.Plan),
		Counts:    countsToDTO(r.Counts),
		Positions: positionsToDTO(r.Positions),
		Payload:   r.Payload,
	}
}
