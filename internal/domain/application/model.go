package application

import (
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/match-intake/internal/domain/roster"
)

var (
	ErrUnknownPlan      = errors.New("unknown plan")
	ErrIncompleteMatch  = errors.New("match information is incomplete")
	ErrRosterNotSaved   = errors.New("roster has not been saved")
	ErrConsentMissing   = errors.New("required confirmations are missing")
	ErrAlreadySubmitted = errors.New("application already submitted")
)

// PlanID identifies an analysis product.
type PlanID string

const (
	PlanTeamData       PlanID = "TEAM_DATA"
	PlanTeamIntegrated PlanID = "TEAM_INTEGRATED"
)

// Plan is one orderable analysis product. PriceKRW is in won.
type Plan struct {
	ID          PlanID
	Name        string
	Description string
	PriceKRW    int64
}

var plans = []Plan{
	{ID: PlanTeamData, Name: "팀 데이터 리포트", Description: "사진/데이터 없이 경기 분석", PriceKRW: 30000},
	{ID: PlanTeamIntegrated, Name: "팀 통합 리포트", Description: "경기영상의 실명 선수 경기 통합분석", PriceKRW: 60000},
}

func Plans() []Plan {
	return append([]Plan(nil), plans...)
}

func LookupPlan(id PlanID) (Plan, error) {
	for _, p := range plans {
		if p.ID == id {
			return p, nil
		}
	}
	return Plan{}, errors.Wrapf(ErrUnknownPlan, "plan=%q", string(id))
}

type Status string

const (
	StatusDraft     Status = "draft"
	StatusSubmitted Status = "submitted"
)

// MatchInfo is the first step of the intake form.
type MatchInfo struct {
	Plan                  PlanID `json:"plan" yaml:"plan" validate:"required,oneof=TEAM_DATA TEAM_INTEGRATED"`
	MatchDate             string `json:"match_date" yaml:"match_date" validate:"required,datetime=2006-01-02"`
	KickoffTime           string `json:"kickoff_time" yaml:"kickoff_time" validate:"required,datetime=15:04"`
	Location              string `json:"location" yaml:"location" validate:"required,max=200"`
	HomeTeam              string `json:"home_team" yaml:"home_team" validate:"required,max=100"`
	AwayTeam              string `json:"away_team" yaml:"away_team" validate:"required,max=100"`
	RepresentativeName    string `json:"representative_name" yaml:"representative_name" validate:"omitempty,max=100"`
	RepresentativeContact string `json:"representative_contact" yaml:"representative_contact" validate:"omitempty,max=50"`
	VideoURL1             string `json:"video_url_1" yaml:"video_url_1" validate:"required,url"`
	VideoURL2             string `json:"video_url_2" yaml:"video_url_2" validate:"omitempty,url"`
}

// Normalize trims every field.
func (m MatchInfo) Normalize() MatchInfo {
	m.Plan = PlanID(strings.TrimSpace(string(m.Plan)))
	m.MatchDate = strings.TrimSpace(m.MatchDate)
	m.KickoffTime = strings.TrimSpace(m.KickoffTime)
	m.Location = strings.TrimSpace(m.Location)
	m.HomeTeam = strings.TrimSpace(m.HomeTeam)
	m.AwayTeam = strings.TrimSpace(m.AwayTeam)
	m.RepresentativeName = strings.TrimSpace(m.RepresentativeName)
	m.RepresentativeContact = strings.TrimSpace(m.RepresentativeContact)
	m.VideoURL1 = strings.TrimSpace(m.VideoURL1)
	m.VideoURL2 = strings.TrimSpace(m.VideoURL2)
	return m
}

// CanProceed reports whether every field required to leave the first step is
// filled in. Format checks are left to Validator.
func (m MatchInfo) CanProceed() bool {
	m = m.Normalize()
	return m.Plan != "" && m.MatchDate != "" && m.KickoffTime != "" &&
		m.Location != "" && m.HomeTeam != "" && m.AwayTeam != "" && m.VideoURL1 != ""
}

// Consent holds the confirmations required on the review step.
type Consent struct {
	PaymentConfirmed      bool `json:"payment_confirmed"`
	RefundPolicyConfirmed bool `json:"refund_policy_confirmed"`
	DisclaimerAgreed      bool `json:"disclaimer_agreed"`
}

func (c Consent) Complete() bool {
	return c.PaymentConfirmed && c.RefundPolicyConfirmed && c.DisclaimerAgreed
}

// Application is one analysis order being assembled.
type Application struct {
	ID          string
	Match       MatchInfo
	Roster      *roster.Payload
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
	SubmittedAt time.Time
}

// ReadyForSubmit checks everything the review step requires.
func (a Application) ReadyForSubmit(consent Consent) error {
	if a.Status == StatusSubmitted {
		return errors.Wrapf(ErrAlreadySubmitted, "application=%s", a.ID)
	}
	if !a.Match.CanProceed() {
		return ErrIncompleteMatch
	}
	if _, err := LookupPlan(a.Match.Plan); err != nil {
		return err
	}
	if a.Roster == nil {
		return ErrRosterNotSaved
	}
	if !consent.Complete() {
		return ErrConsentMissing
	}
	return nil
}

// SubmissionPayload is the JSON document accepted by the analysis backend.
type SubmissionPayload struct {
	Plan        string                `json:"plan"`
	MatchDate   string                `json:"match_date"`
	KickoffTime string                `json:"kickoff_time"`
	Location    string                `json:"location"`
	HomeTeam    string                `json:"home_team"`
	AwayTeam    string                `json:"away_team"`
	VideoURL1   string                `json:"video_url_1"`
	VideoURL2   string                `json:"video_url_2"`
	Formation   string                `json:"formation"`
	Players     []roster.PlayerRecord `json:"players"`
	Substitutes []roster.PlayerRecord `json:"substitutes"`
}

func (a Application) SubmissionPayload() SubmissionPayload {
	out := SubmissionPayload{
		Plan:        string(a.Match.Plan),
		MatchDate:   a.Match.MatchDate,
		KickoffTime: a.Match.KickoffTime,
		Location:    a.Match.Location,
		HomeTeam:    a.Match.HomeTeam,
		AwayTeam:    a.Match.AwayTeam,
		VideoURL1:   a.Match.VideoURL1,
		VideoURL2:   a.Match.VideoURL2,
		Players:     []roster.PlayerRecord{},
		Substitutes: []roster.PlayerRecord{},
	}
	if a.Roster != nil {
		out.Formation = a.Roster.Formation
		out.Players = append(out.Players, a.Roster.Players...)
		out.Substitutes = append(out.Substitutes, a.Roster.Substitutes...)
	}
	return out
}
