package httpapi

import (
	"fmt"
	"net/http"

	"github.com/riskibarqy/match-intake/internal/domain/application"
	"github.com/riskibarqy/match-intake/internal/domain/formation"
	"github.com/riskibarqy/match-intake/internal/usecase"
)

func (h *Handler) ListPlans(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPlans")
	defer span.End()

	plans := application.Plans()
	out := make([]planDTO, 0, len(plans))
	for _, p := range plans {
		out = append(out, planToDTO(p))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) ListFormations(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListFormations")
	defer span.End()

	ids := formation.All()
	out := make([]formationDTO, 0, len(ids))
	for _, id := range ids {
		out = append(out, formationToDTO(id, formation.MustLayoutOf(id)))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) GetFormation(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetFormation")
	defer span.End()

	id, err := formation.Parse(r.PathValue("formationID"))
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: formation %q", usecase.ErrNotFound, r.PathValue("formationID")))
		return
	}
	writeSuccess(ctx, w, http.StatusOK, formationToDTO(id, formation.MustLayoutOf(id)))
}
