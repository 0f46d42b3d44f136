package web

import (
	"net/http"

	"stockbilling/internal/app"
	"stockbilling/internal/core"
)

// getOrganization handles GET /api/organization.
func (h *Handler) getOrganization(w http.ResponseWriter, r *http.Request) {
	org, err := h.svc.GetOrganization(r.Context(), orgID(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, org)
}

// updateOrganization handles PUT /api/organization — replaces the display
// profile and bank list printed on generated documents.
func (h *Handler) updateOrganization(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name      string             `json:"name"`
		Address   string             `json:"address"`
		Phone     string             `json:"phone"`
		Mobile    string             `json:"mobile"`
		Email     string             `json:"email"`
		GSTNumber string             `json:"gst_number"`
		PAN       string             `json:"pan"`
		Banks     []core.BankAccount `json:"banks"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Name == "" {
		writeError(w, r, "name is required", "VALIDATION_ERROR", http.StatusBadRequest)
		return
	}

	org, err := h.svc.UpdateOrganization(r.Context(), orgID(r), app.OrganizationRequest{
		Name:      req.Name,
		Address:   req.Address,
		Phone:     req.Phone,
		Mobile:    req.Mobile,
		Email:     req.Email,
		GSTNumber: req.GSTNumber,
		PAN:       req.PAN,
		Banks:     req.Banks,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, org)
}
