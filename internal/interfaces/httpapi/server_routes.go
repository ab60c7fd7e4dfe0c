package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerCatalogRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/plans", handler.ListPlans)
	mux.HandleFunc("GET /v1/formations", handler.ListFormations)
	mux.HandleFunc("GET /v1/formations/{formationID}", handler.GetFormation)
}

func registerIntakeRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/intakes", handler.CreateIntake)
	mux.HandleFunc("GET /v1/intakes/{intakeID}", handler.GetIntake)
	mux.HandleFunc("DELETE /v1/intakes/{intakeID}", handler.ResetIntake)
	mux.HandleFunc("PUT /v1/intakes/{intakeID}/match", handler.UpdateMatchInfo)
	mux.HandleFunc("GET /v1/intakes/{intakeID}/review", handler.ReviewIntake)
	mux.HandleFunc("POST /v1/intakes/{intakeID}/submit", handler.SubmitIntake)
}

func registerRosterRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/intakes/{intakeID}/roster", handler.GetRoster)
	mux.HandleFunc("PUT /v1/intakes/{intakeID}/roster/formation", handler.SetFormation)
	mux.HandleFunc("POST /v1/intakes/{intakeID}/roster/session", handler.OpenSlot)
	mux.HandleFunc("PATCH /v1/intakes/{intakeID}/roster/session", handler.EditSlot)
	mux.HandleFunc("DELETE /v1/intakes/{intakeID}/roster/session", handler.CancelSlot)
	mux.HandleFunc("POST /v1/intakes/{intakeID}/roster/session/commit", handler.CommitSlot)
	mux.HandleFunc("POST /v1/intakes/{intakeID}/roster/session/delete", handler.DeleteSlot)
	mux.HandleFunc("DELETE /v1/intakes/{intakeID}/roster/entries/{section}/{index}", handler.DeleteRosterEntry)
	mux.HandleFunc("POST /v1/intakes/{intakeID}/roster/finalize", handler.FinalizeRoster)
}
