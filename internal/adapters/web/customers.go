package web

import (
	"fmt"
	"net/http"
	"strconv"

	"stockbilling/internal/app"
	"stockbilling/internal/core"
)

// customerRequest is the JSON body for customer create/update.
type customerRequest struct {
	Name        string       `json:"name"`
	CompanyName string       `json:"company_name"`
	GSTNumber   string       `json:"gst_number"`
	Email       string       `json:"email"`
	Phone       string       `json:"phone"`
	Address     core.Address `json:"address"`
}

func (req customerRequest) toApp() app.CustomerRequest {
	return app.CustomerRequest{
		Name:        req.Name,
		CompanyName: req.CompanyName,
		GSTNumber:   req.GSTNumber,
		Email:       req.Email,
		Phone:       req.Phone,
		Address:     req.Address,
	}
}

// listCustomers handles GET /api/customers?search=.
func (h *Handler) listCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.svc.ListCustomers(r.Context(), orgID(r), r.URL.Query().Get("search"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, customers)
}

// getCustomer handles GET /api/customers/{id}.
func (h *Handler) getCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, "invalid customer id", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	customer, err := h.svc.GetCustomer(r.Context(), orgID(r), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, customer)
}

// createCustomer handles POST /api/customers.
func (h *Handler) createCustomer(w http.ResponseWriter, r *http.Request) {
	var req customerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Name == "" {
		writeError(w, r, "name is required", "VALIDATION_ERROR", http.StatusBadRequest)
		return
	}
	customer, err := h.svc.CreateCustomer(r.Context(), orgID(r), req.toApp())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, customer)
}

// updateCustomer handles PUT /api/customers/{id}.
func (h *Handler) updateCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, "invalid customer id", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	var req customerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	customer, err := h.svc.UpdateCustomer(r.Context(), orgID(r), id, req.toApp())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, customer)
}

// deleteCustomer handles DELETE /api/customers/{id}.
func (h *Handler) deleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, "invalid customer id", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	if err := h.svc.DeleteCustomer(r.Context(), orgID(r), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// customerInvoices handles GET /api/customers/{id}/invoices.
func (h *Handler) customerInvoices(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, "invalid customer id", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	invoices, err := h.svc.ListCustomerInvoices(r.Context(), orgID(r), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, invoices)
}

// customerLedger handles GET /api/customers/{id}/ledger?start_date=&end_date=.
func (h *Handler) customerLedger(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, "invalid customer id", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	from, err := dateQuery(r, "start_date")
	if err != nil {
		writeError(w, r, err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	to, err := dateQuery(r, "end_date")
	if err != nil {
		writeError(w, r, err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	ledger, err := h.svc.GetCustomerLedger(r.Context(), orgID(r), id, from, to)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	type response struct {
		Customer     *core.Customer     `json:"customer"`
		Transactions []core.Invoice     `json:"transactions"`
		Summary      core.LedgerSummary `json:"summary"`
	}
	writeJSON(w, response{
		Customer:     ledger.Customer,
		Transactions: ledger.Transactions,
		Summary:      ledger.Summary,
	})
}

// downloadLedger handles GET /api/customers/{id}/ledger/download — streams
// the rendered ledger statement PDF.
func (h *Handler) downloadLedger(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, "invalid customer id", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	from, err := dateQuery(r, "start_date")
	if err != nil {
		writeError(w, r, err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	to, err := dateQuery(r, "end_date")
	if err != nil {
		writeError(w, r, err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	doc, err := h.svc.DownloadLedgerPDF(r.Context(), orgID(r), id, from, to)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writePDF(w, doc)
}

// writePDF streams a rendered document as an attachment download.
func writePDF(w http.ResponseWriter, doc *app.DocumentResult) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(doc.Data)))
	_, _ = w.Write(doc.Data)
}
