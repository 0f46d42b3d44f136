package web

import (
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"stockbilling/internal/app"
)

// productRequest is the JSON body for product create/update.
type productRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	GSM         decimal.Decimal `json:"gsm"`
	RollNo      string          `json:"roll_no"`
	ReelNo      string          `json:"reel_no"`
	Diameter    decimal.Decimal `json:"diameter"`
	Weight      decimal.Decimal `json:"weight"`
	Quantity    decimal.Decimal `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Unit        string          `json:"unit"`
	Category    string          `json:"category"`
}

func (req productRequest) toApp() app.ProductRequest {
	return app.ProductRequest{
		Name:        req.Name,
		Description: req.Description,
		GSM:         req.GSM,
		RollNo:      req.RollNo,
		ReelNo:      req.ReelNo,
		Diameter:    req.Diameter,
		Weight:      req.Weight,
		Quantity:    req.Quantity,
		Price:       req.Price,
		Unit:        req.Unit,
		Category:    req.Category,
	}
}

// listProducts handles GET /api/products?search=&category=.
func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.svc.ListProducts(r.Context(), orgID(r), r.URL.Query().Get("search"), r.URL.Query().Get("category"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, products)
}

// searchProducts handles GET /api/products/search?q=&limit= — the typeahead
// behind the invoice creation cart.
func (h *Handler) searchProducts(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	products, err := h.svc.SearchProducts(r.Context(), orgID(r), r.URL.Query().Get("q"), limit)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, products)
}

// getProduct handles GET /api/products/{id}.
func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, "invalid product id", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	product, err := h.svc.GetProduct(r.Context(), orgID(r), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, product)
}

// createProduct handles POST /api/products.
func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Name == "" {
		writeError(w, r, "name is required", "VALIDATION_ERROR", http.StatusBadRequest)
		return
	}
	product, err := h.svc.CreateProduct(r.Context(), orgID(r), req.toApp())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, product)
}

// updateProduct handles PUT /api/products/{id}.
func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, "invalid product id", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	var req productRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	product, err := h.svc.UpdateProduct(r.Context(), orgID(r), id, req.toApp())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, product)
}

// deleteProduct handles DELETE /api/products/{id}.
func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, "invalid product id", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	if err := h.svc.DeleteProduct(r.Context(), orgID(r), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// productSales handles GET /api/products/{id}/sales-history.
func (h *Handler) productSales(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, "invalid product id", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	sales, err := h.svc.GetProductSales(r.Context(), orgID(r), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, sales)
}
