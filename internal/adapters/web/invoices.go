package web

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"stockbilling/internal/core"
)

// invoiceItemRequest is one cart line in the invoice creation body. All
// financial fields beyond these inputs are derived server-side; client-sent
// totals are ignored.
type invoiceItemRequest struct {
	ProductID      int              `json:"product_id"`
	Name           string           `json:"name"`
	RollNo         string           `json:"roll_no"`
	Quantity       decimal.Decimal  `json:"quantity"`
	Weight         decimal.Decimal  `json:"weight"`
	Rate           decimal.Decimal  `json:"rate"`
	TaxableValue   *decimal.Decimal `json:"taxable_value,omitempty"`
	SGSTPercentage *decimal.Decimal `json:"sgst_percentage,omitempty"`
	CGSTPercentage *decimal.Decimal `json:"cgst_percentage,omitempty"`
}

type createInvoiceRequest struct {
	CustomerID    int                  `json:"customer_id"`
	InvoiceDate   time.Time            `json:"invoice_date"`
	DueDate       time.Time            `json:"due_date"`
	PaymentTerms  int                  `json:"payment_terms"`
	VehicleNo     string               `json:"vehicle_no"`
	TransportName string               `json:"transport_name"`
	LRNo          string               `json:"lr_no"`
	LRDate        *time.Time           `json:"lr_date"`
	EwayBillNo    string               `json:"eway_bill_no"`
	EwayBillDate  *time.Time           `json:"eway_bill_date"`
	PONo          string               `json:"po_no"`
	PODate        *time.Time           `json:"po_date"`
	ChallanNo     string               `json:"challan_no"`
	ChallanDate   *time.Time           `json:"challan_date"`
	PaymentMethod string               `json:"payment_method"`
	Items         []invoiceItemRequest `json:"items"`
}

// listInvoices handles GET /api/invoices.
func (h *Handler) listInvoices(w http.ResponseWriter, r *http.Request) {
	invoices, err := h.svc.ListInvoices(r.Context(), orgID(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, invoices)
}

// getInvoice handles GET /api/invoices/{id}.
func (h *Handler) getInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, "invalid invoice id", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	invoice, err := h.svc.GetInvoice(r.Context(), orgID(r), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, invoice)
}

// createInvoice handles POST /api/invoices.
func (h *Handler) createInvoice(w http.ResponseWriter, r *http.Request) {
	var req createInvoiceRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.CustomerID <= 0 {
		writeError(w, r, "customer_id is required", "VALIDATION_ERROR", http.StatusBadRequest)
		return
	}

	items := make([]core.ItemInput, len(req.Items))
	for i, item := range req.Items {
		items[i] = core.ItemInput{
			ProductID:      item.ProductID,
			Name:           item.Name,
			RollNo:         item.RollNo,
			Quantity:       item.Quantity,
			Weight:         item.Weight,
			Rate:           item.Rate,
			TaxableValue:   item.TaxableValue,
			SGSTPercentage: item.SGSTPercentage,
			CGSTPercentage: item.CGSTPercentage,
		}
	}

	invoice, err := h.svc.CreateInvoice(r.Context(), orgID(r), core.CreateInvoiceInput{
		CustomerID:    req.CustomerID,
		InvoiceDate:   req.InvoiceDate,
		DueDate:       req.DueDate,
		PaymentTerms:  req.PaymentTerms,
		VehicleNo:     req.VehicleNo,
		TransportName: req.TransportName,
		LRNo:          req.LRNo,
		LRDate:        req.LRDate,
		EwayBillNo:    req.EwayBillNo,
		EwayBillDate:  req.EwayBillDate,
		PONo:          req.PONo,
		PODate:        req.PODate,
		ChallanNo:     req.ChallanNo,
		ChallanDate:   req.ChallanDate,
		PaymentMethod: req.PaymentMethod,
		Items:         items,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, invoice)
}

// updateInvoiceStatus handles PATCH /api/invoices/{id}.
func (h *Handler) updateInvoiceStatus(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, "invalid invoice id", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	var req struct {
		Status core.InvoiceStatus `json:"status"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	invoice, err := h.svc.UpdateInvoiceStatus(r.Context(), orgID(r), id, req.Status)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, invoice)
}

// downloadInvoice handles GET /api/invoices/{id}/download — streams the
// rendered tax invoice PDF.
func (h *Handler) downloadInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, "invalid invoice id", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	doc, err := h.svc.DownloadInvoicePDF(r.Context(), orgID(r), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writePDF(w, doc)
}

// dashboardStats handles GET /api/stats.
func (h *Handler) dashboardStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.GetDashboardStats(r.Context(), orgID(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, stats)
}
