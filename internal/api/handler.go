package api

import (
	"encoding/json"
	"net/http"

	"github.com/pasjesplank/plank/internal/model"
	"github.com/pasjesplank/plank/internal/render"
	"github.com/pasjesplank/plank/internal/validator"
)

// Handler serves the REST API for the card collection.
type Handler struct {
	app *AppContext
}

// NewHandler creates a new API handler.
func NewHandler(app *AppContext) *Handler {
	return &Handler{app: app}
}

// RegisterRoutes sets up all API routes on the given mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /favicon.svg", h.GetFavicon)
	mux.HandleFunc("GET /sw.js", h.GetServiceWorker)

	mux.HandleFunc("GET /api/v1/categories", h.ListCategories)
	mux.HandleFunc("GET /api/v1/render", h.RenderGrid)

	// Card routes
	mux.HandleFunc("GET /api/v1/cards", h.ListCards)
	mux.HandleFunc("POST /api/v1/cards", h.CreateCard)
	mux.HandleFunc("GET /api/v1/cards/{id}", h.GetCard)
	mux.HandleFunc("DELETE /api/v1/cards/{id}", h.DeleteCard)
	mux.HandleFunc("PATCH /api/v1/cards/{id}/category", h.UpdateCategory)
	mux.HandleFunc("PATCH /api/v1/cards/{id}/color", h.UpdateColor)
	mux.HandleFunc("GET /api/v1/cards/{id}/barcode.svg", h.GetBarcode)

	if h.app.Metrics != nil {
		mux.Handle("GET /metrics", h.app.Metrics.Handler())
	}

	// Static files (frontend)
	mux.Handle("/", h.StaticHandler())
}

// --- Category Handlers ---

// CategoryResponse is a category with the number of cards in it.
type CategoryResponse struct {
	model.CategoryInfo
	Count int `json:"count"`
}

// ListCategories returns every category in display order.
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	cards, err := h.app.Cards.List(r.Context())
	if err != nil {
		Error(w, err)
		return
	}

	counts := make(map[model.Category]int)
	for _, c := range cards {
		counts[c.Category]++
	}

	resp := make([]CategoryResponse, 0, len(model.Categories))
	for _, info := range model.Categories {
		resp = append(resp, CategoryResponse{CategoryInfo: info, Count: counts[info.Key]})
	}
	JSON(w, http.StatusOK, map[string]any{"categories": resp})
}

// --- Card Handlers ---

// CardResponse is the JSON representation of a card.
type CardResponse struct {
	model.Card
	CategoryLabel string `json:"categoryLabel"`
	ColorName     string `json:"colorName"`
}

func toCardResponse(c model.Card) CardResponse {
	return CardResponse{
		Card:          c,
		CategoryLabel: c.Category.Label(),
		ColorName:     model.ColorName(c.Color),
	}
}

type listCardsQuery struct {
	Category string `validate:"omitempty,filter"`
}

// ListCards returns all cards, optionally limited to one category.
func (h *Handler) ListCards(w http.ResponseWriter, r *http.Request) {
	q := listCardsQuery{Category: r.URL.Query().Get("category")}
	if err := validator.Struct(q); err != nil {
		Error(w, err)
		return
	}

	cards, err := h.app.Cards.List(r.Context())
	if err != nil {
		Error(w, err)
		return
	}

	resp := make([]CardResponse, 0, len(cards))
	for _, c := range cards {
		if q.Category != "" && q.Category != model.FilterAll && string(c.Category) != q.Category {
			continue
		}
		resp = append(resp, toCardResponse(c))
	}
	JSON(w, http.StatusOK, map[string]any{"cards": resp})
}

// CreateCardRequest is the JSON body for creating a card.
// Color and category may be omitted and fall back to their defaults.
type CreateCardRequest struct {
	StoreName     string `json:"storeName"`
	BarcodeNumber string `json:"barcodeNumber"`
	Color         string `json:"color,omitempty"`
	Category      string `json:"category,omitempty"`
}

// CreateCard adds a card to the collection.
func (h *Handler) CreateCard(w http.ResponseWriter, r *http.Request) {
	var req CreateCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid JSON body")
		return
	}

	card, err := h.app.Cards.Add(r.Context(), model.Draft{
		StoreName:     req.StoreName,
		BarcodeNumber: req.BarcodeNumber,
		Color:         req.Color,
		Category:      model.Category(req.Category),
	})
	if err != nil {
		Error(w, err)
		return
	}

	JSON(w, http.StatusCreated, toCardResponse(card))
}

// GetCard returns a single card.
func (h *Handler) GetCard(w http.ResponseWriter, r *http.Request) {
	card, err := h.app.Cards.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		Error(w, err)
		return
	}
	JSON(w, http.StatusOK, toCardResponse(card))
}

// DeleteCard removes a card. Deleting an unknown id succeeds.
func (h *Handler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	if err := h.app.Cards.Remove(r.Context(), r.PathValue("id")); err != nil {
		Error(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UpdateCategoryRequest is the JSON body for moving a card.
type UpdateCategoryRequest struct {
	Category string `json:"category" validate:"required,category"`
}

// UpdateCategory moves a card to another category.
func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	var req UpdateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid JSON body")
		return
	}
	if err := validator.Struct(req); err != nil {
		Error(w, err)
		return
	}

	cardID := r.PathValue("id")
	h.updateCard(w, r, cardID, func() error {
		return h.app.Cards.UpdateCategory(r.Context(), cardID, model.Category(req.Category))
	})
}

// UpdateColorRequest is the JSON body for recoloring a card.
// Color is a palette hex value or palette name.
type UpdateColorRequest struct {
	Color string `json:"color" validate:"required,palette_color"`
}

// UpdateColor changes a card's color.
func (h *Handler) UpdateColor(w http.ResponseWriter, r *http.Request) {
	var req UpdateColorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid JSON body")
		return
	}
	if err := validator.Struct(req); err != nil {
		Error(w, err)
		return
	}

	cardID := r.PathValue("id")
	h.updateCard(w, r, cardID, func() error {
		return h.app.Cards.UpdateColor(r.Context(), cardID, req.Color)
	})
}

// updateCard runs update on an existing card and responds with the result.
// The store treats unknown ids as a no-op; the API reports them as 404.
func (h *Handler) updateCard(w http.ResponseWriter, r *http.Request, cardID string, update func() error) {
	if _, err := h.app.Cards.Get(r.Context(), cardID); err != nil {
		Error(w, err)
		return
	}
	if err := update(); err != nil {
		Error(w, err)
		return
	}
	card, err := h.app.Cards.Get(r.Context(), cardID)
	if err != nil {
		Error(w, err)
		return
	}
	JSON(w, http.StatusOK, toCardResponse(card))
}

// GetBarcode serves the card's barcode as SVG.
func (h *Handler) GetBarcode(w http.ResponseWriter, r *http.Request) {
	card, err := h.app.Cards.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		Error(w, err)
		return
	}

	result := h.app.Barcodes.Render(card.BarcodeNumber)
	if result.IsBlank() {
		JSON(w, http.StatusUnprocessableEntity, map[string]string{
			"error":  "barcode cannot be encoded",
			"number": card.BarcodeNumber,
		})
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("X-Barcode-Format", string(result.Symbology))
	w.Write([]byte(result.SVG))
}

// --- Render Handlers ---

type renderQuery struct {
	Filter string `validate:"filter"`
}

// RenderGrid returns the card grid as an HTML fragment.
func (h *Handler) RenderGrid(w http.ResponseWriter, r *http.Request) {
	q := renderQuery{Filter: r.URL.Query().Get("filter")}
	if q.Filter == "" {
		q.Filter = model.FilterAll
	}
	if err := validator.Struct(q); err != nil {
		Error(w, err)
		return
	}

	cards, err := h.app.Cards.List(r.Context())
	if err != nil {
		Error(w, err)
		return
	}

	plan := render.Build(cards, q.Filter)
	grid, err := render.HTML(plan)
	if err != nil {
		Error(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("X-Render-State", plan.State.String())
	w.Write([]byte(grid))
}

// GetServiceWorker serves the offline cache worker.
func (h *Handler) GetServiceWorker(w http.ResponseWriter, r *http.Request) {
	script, err := h.app.Manifest.ServiceWorker()
	if err != nil {
		Error(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/javascript")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Service-Worker-Allowed", "/")
	w.Write(script)
}
