package httpapi

import (
	"net/http"

	"github.com/riskibarqy/match-intake/internal/domain/application"
)

func (h *Handler) CreateIntake(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateIntake")
	defer span.End()

	app, err := h.intakeService.CreateDraft(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "create intake failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, intakeToDTO(app))
}

func (h *Handler) GetIntake(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetIntake")
	defer span.End()

	app, err := h.intakeService.GetDraft(ctx, r.PathValue("intakeID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, intakeToDTO(app))
}

func (h *Handler) ResetIntake(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ResetIntake")
	defer span.End()

	intakeID := r.PathValue("intakeID")
	if err := h.intakeService.Reset(ctx, intakeID); err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"id": intakeID, "status": "deleted"})
}

func (h *Handler) UpdateMatchInfo(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateMatchInfo")
	defer span.End()

	var req application.MatchInfo
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	app, err := h.intakeService.UpdateMatchInfo(ctx, r.PathValue("intakeID"), req)
	if err != nil {
		h.logger.WarnContext(ctx, "update match info failed", "intake_id", r.PathValue("intakeID"), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, intakeToDTO(app))
}

func (h *Handler) ReviewIntake(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ReviewIntake")
	defer span.End()

	review, err := h.intakeService.Review(ctx, r.PathValue("intakeID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, reviewToDTO(review))
}

func (h *Handler) SubmitIntake(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitIntake")
	defer span.End()

	var req submitRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	app, err := h.intakeService.Submit(ctx, r.PathValue("intakeID"), application.Consent{
		PaymentConfirmed:      req.PaymentConfirmed,
		RefundPolicyConfirmed: req.RefundPolicyConfirmed,
		DisclaimerAgreed:      req.DisclaimerAgreed,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "submit intake failed", "intake_id", r.PathValue("intakeID"), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, intakeToDTO(app))
}
