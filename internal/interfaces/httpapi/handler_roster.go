package httpapi

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/riskibarqy/match-intake/internal/domain/roster"
	"github.com/riskibarqy/match-intake/internal/usecase"
)

func (h *Handler) GetRoster(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetRoster")
	defer span.End()

	state, err := h.intakeService.RosterView(ctx, r.PathValue("intakeID"), r.URL.Query().Get("q"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, rosterToDTO(state))
}

func (h *Handler) SetFormation(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SetFormation")
	defer span.End()

	var req setFormationRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	state, err := h.intakeService.SetFormation(ctx, r.PathValue("intakeID"), req.Formation)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, rosterToDTO(state))
}

func (h *Handler) OpenSlot(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.OpenSlot")
	defer span.End()

	var req openSlotRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	section, _ := roster.ParseSection(req.Section)
	state, err := h.intakeService.OpenSlot(ctx, r.PathValue("intakeID"), roster.SlotRef{Section: section, Index: *req.Index})
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, rosterToDTO(state))
}

func (h *Handler) EditSlot(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.EditSlot")
	defer span.End()

	var req editSlotRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	state, err := h.intakeService.EditDraft(ctx, r.PathValue("intakeID"), usecase.EditDraftInput{
		Name:   req.Name,
		Role:   req.Position,
		Number: req.Number,
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, rosterToDTO(state))
}

func (h *Handler) CommitSlot(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CommitSlot")
	defer span.End()

	state, err := h.intakeService.CommitSlot(ctx, r.PathValue("intakeID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, rosterToDTO(state))
}

func (h *Handler) CancelSlot(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CancelSlot")
	defer span.End()

	state, err := h.intakeService.CancelEdit(ctx, r.PathValue("intakeID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, rosterToDTO(state))
}

func (h *Handler) DeleteSlot(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteSlot")
	defer span.End()

	state, err := h.intakeService.DeleteSlot(ctx, r.PathValue("intakeID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, rosterToDTO(state))
}

func (h *Handler) DeleteRosterEntry(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteRosterEntry")
	defer span.End()

	section, ok := roster.ParseSection(r.PathValue("section"))
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: unknown roster section %q", usecase.ErrInvalidInput, r.PathValue("section")))
		return
	}
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid slot index %q", usecase.ErrInvalidInput, r.PathValue("index")))
		return
	}

	state, err := h.intakeService.DeleteRosterEntry(ctx, r.PathValue("intakeID"), roster.SlotRef{Section: section, Index: index})
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, rosterToDTO(state))
}

func (h *Handler) FinalizeRoster(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.FinalizeRoster")
	defer span.End()

	payload, err := h.intakeService.SaveRoster(ctx, r.PathValue("intakeID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, rosterPayloadDTO{
		Formation:   payload.Formation,
		Players:     playersToDTO(payload.Players),
		Substitutes: playersToDTO(payload.Substitutes),
	})
}
