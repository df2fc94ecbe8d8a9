package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/pasjesplank/plank/internal/barcode"
	"github.com/pasjesplank/plank/internal/config"
	"github.com/pasjesplank/plank/internal/medium"
	"github.com/pasjesplank/plank/internal/metrics"
	"github.com/pasjesplank/plank/internal/model"
	"github.com/pasjesplank/plank/internal/offline"
	"github.com/pasjesplank/plank/internal/session"
	"github.com/pasjesplank/plank/internal/store"
)

// sequentialIDs hands out predictable card ids.
type sequentialIDs struct {
	mu sync.Mutex
	n  int
}

func (s *sequentialIDs) NewID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return fmt.Sprintf("card-%d", s.n)
}

// newTestApp wires an app over an in-memory medium.
func newTestApp(t *testing.T) *AppContext {
	t.Helper()

	home := t.TempDir()
	reg := metrics.New()
	return &AppContext{
		Paths:    config.NewPaths(home, ""),
		Config:   model.DefaultConfig(),
		Cards:    store.NewCardStore(medium.NewMemory(), store.WithIDSource(&sequentialIDs{}), store.WithMetrics(reg)),
		Barcodes: barcode.NewRenderer(barcode.DefaultOptions()),
		Metrics:  reg,
		Session:  session.DefaultOptions(),
		Manifest: offline.DefaultManifest(),
		Slot:     model.DefaultSlot,
	}
}

func seedCard(t *testing.T, app *AppContext, name string, category model.Category) model.Card {
	t.Helper()
	card, err := app.Cards.Add(context.Background(), model.Draft{
		StoreName:     name,
		BarcodeNumber: "8710398503961",
		Category:      category,
	})
	if err != nil {
		t.Fatalf("Failed to seed card: %v", err)
	}
	return card
}

// testAPI provides a complete test environment for API handler tests.
type testAPI struct {
	app *AppContext
	mux *http.ServeMux
}

func setupTestAPI(t *testing.T) *testAPI {
	t.Helper()

	app := newTestApp(t)
	mux := http.NewServeMux()
	NewHandler(app).RegisterRoutes(mux)

	return &testAPI{app: app, mux: mux}
}

func (api *testAPI) request(method, path string, body any) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	switch b := body.(type) {
	case nil:
		reqBody = &bytes.Buffer{}
	case string:
		reqBody = bytes.NewBufferString(b)
	default:
		data, _ := json.Marshal(b)
		reqBody = bytes.NewBuffer(data)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	api.mux.ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, target any) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(target); err != nil {
		t.Fatalf("Failed to decode response: %v\nBody: %s", err, w.Body.String())
	}
}

// cardBody mirrors CardResponse for decoding. CardResponse itself embeds
// model.Card, whose UnmarshalJSON would swallow the extra fields.
type cardBody struct {
	ID            string `json:"id"`
	StoreName     string `json:"storeName"`
	BarcodeNumber string `json:"barcodeNumber"`
	Color         string `json:"color"`
	Category      string `json:"category"`
	CategoryLabel string `json:"categoryLabel"`
	ColorName     string `json:"colorName"`
}

func TestHandler_ListCards_Empty(t *testing.T) {
	api := setupTestAPI(t)

	w := api.request("GET", "/api/v1/cards", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Status = %d, want 200", w.Code)
	}

	var resp struct {
		Cards []cardBody `json:"cards"`
	}
	decodeJSON(t, w, &resp)
	if resp.Cards == nil || len(resp.Cards) != 0 {
		t.Errorf("Expected empty array, got %v", resp.Cards)
	}
}

func TestHandler_CreateCard(t *testing.T) {
	api := setupTestAPI(t)

	w := api.request("POST", "/api/v1/cards", map[string]string{
		"storeName":     "  Albert Heijn ",
		"barcodeNumber": "8710398503961",
		"color":         "groen",
		"category":      "supermarkt",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("Status = %d, want 201. Body: %s", w.Code, w.Body.String())
	}

	var card cardBody
	decodeJSON(t, w, &card)
	if card.ID != "card-1" {
		t.Errorf("ID = %q", card.ID)
	}
	if card.StoreName != "Albert Heijn" {
		t.Errorf("StoreName = %q, want trimmed", card.StoreName)
	}
	if card.Color != "#43B97F" || card.ColorName != "groen" {
		t.Errorf("Color = %q (%q)", card.Color, card.ColorName)
	}
	if card.CategoryLabel != "Supermarkt" {
		t.Errorf("CategoryLabel = %q", card.CategoryLabel)
	}
}

func TestHandler_CreateCard_Defaults(t *testing.T) {
	api := setupTestAPI(t)

	w := api.request("POST", "/api/v1/cards", map[string]string{
		"storeName":     "Hema",
		"barcodeNumber": "123",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("Status = %d. Body: %s", w.Code, w.Body.String())
	}

	var card cardBody
	decodeJSON(t, w, &card)
	if card.Color != model.DefaultColor {
		t.Errorf("Color = %q, want default", card.Color)
	}
	if card.Category != string(model.FallbackCategory) {
		t.Errorf("Category = %q, want fallback", card.Category)
	}
}

func TestHandler_CreateCard_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body any
	}{
		{"missing store name", map[string]string{"barcodeNumber": "123"}},
		{"blank barcode", map[string]string{"storeName": "Hema", "barcodeNumber": "   "}},
		{"unknown color", map[string]string{"storeName": "Hema", "barcodeNumber": "1", "color": "#000000"}},
		{"unknown category", map[string]string{"storeName": "Hema", "barcodeNumber": "1", "category": "tuin"}},
		{"invalid JSON", "{not json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := setupTestAPI(t)
			w := api.request("POST", "/api/v1/cards", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("Status = %d, want 400. Body: %s", w.Code, w.Body.String())
			}

			cards, _ := api.app.Cards.List(context.Background())
			if len(cards) != 0 {
				t.Errorf("Expected no cards stored, got %d", len(cards))
			}
		})
	}
}

func TestHandler_ListCards_CategoryFilter(t *testing.T) {
	api := setupTestAPI(t)
	seedCard(t, api.app, "Jumbo", model.CategorySupermarket)
	seedCard(t, api.app, "Zara", model.CategoryClothing)
	seedCard(t, api.app, "Lidl", model.CategorySupermarket)

	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{"Jumbo", "Zara", "Lidl"}},
		{"?category=all", []string{"Jumbo", "Zara", "Lidl"}},
		{"?category=supermarkt", []string{"Jumbo", "Lidl"}},
		{"?category=wonen", nil},
	}

	for _, tt := range tests {
		w := api.request("GET", "/api/v1/cards"+tt.query, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("%s: status = %d", tt.query, w.Code)
		}
		var resp struct {
			Cards []cardBody `json:"cards"`
		}
		decodeJSON(t, w, &resp)

		var names []string
		for _, c := range resp.Cards {
			names = append(names, c.StoreName)
		}
		if strings.Join(names, ",") != strings.Join(tt.want, ",") {
			t.Errorf("%q: got %v, want %v", tt.query, names, tt.want)
		}
	}

	if w := api.request("GET", "/api/v1/cards?category=tuin", nil); w.Code != http.StatusBadRequest {
		t.Errorf("Unknown category filter: status = %d, want 400", w.Code)
	}
}

func TestHandler_GetCard(t *testing.T) {
	api := setupTestAPI(t)
	card := seedCard(t, api.app, "Etos", model.CategoryDrugstore)

	w := api.request("GET", "/api/v1/cards/"+card.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Status = %d", w.Code)
	}
	var got cardBody
	decodeJSON(t, w, &got)
	if got.StoreName != "Etos" {
		t.Errorf("StoreName = %q", got.StoreName)
	}

	if w := api.request("GET", "/api/v1/cards/nope", nil); w.Code != http.StatusNotFound {
		t.Errorf("Missing card: status = %d, want 404", w.Code)
	}
}

func TestHandler_DeleteCard_Idempotent(t *testing.T) {
	api := setupTestAPI(t)
	card := seedCard(t, api.app, "Blokker", model.CategoryHome)

	for i := 0; i < 2; i++ {
		w := api.request("DELETE", "/api/v1/cards/"+card.ID, nil)
		if w.Code != http.StatusNoContent {
			t.Errorf("Delete #%d: status = %d, want 204", i+1, w.Code)
		}
	}

	cards, _ := api.app.Cards.List(context.Background())
	if len(cards) != 0 {
		t.Errorf("Expected card to be deleted, got %d cards", len(cards))
	}
}

func TestHandler_UpdateCategory(t *testing.T) {
	api := setupTestAPI(t)
	card := seedCard(t, api.app, "Zeeman", model.CategoryOther)

	w := api.request("PATCH", "/api/v1/cards/"+card.ID+"/category", map[string]string{"category": "kleding"})
	if w.Code != http.StatusOK {
		t.Fatalf("Status = %d. Body: %s", w.Code, w.Body.String())
	}
	var got cardBody
	decodeJSON(t, w, &got)
	if got.Category != "kleding" || got.CategoryLabel != "Kleding" {
		t.Errorf("Category = %q (%q)", got.Category, got.CategoryLabel)
	}

	if w := api.request("PATCH", "/api/v1/cards/"+card.ID+"/category", map[string]string{"category": "all"}); w.Code != http.StatusBadRequest {
		t.Errorf("Moving to all: status = %d, want 400", w.Code)
	}
	if w := api.request("PATCH", "/api/v1/cards/nope/category", map[string]string{"category": "wonen"}); w.Code != http.StatusNotFound {
		t.Errorf("Missing card: status = %d, want 404", w.Code)
	}
}

func TestHandler_UpdateColor(t *testing.T) {
	api := setupTestAPI(t)
	card := seedCard(t, api.app, "Gamma", model.CategoryHome)

	w := api.request("PATCH", "/api/v1/cards/"+card.ID+"/color", map[string]string{"color": "oranje"})
	if w.Code != http.StatusOK {
		t.Fatalf("Status = %d. Body: %s", w.Code, w.Body.String())
	}
	var got cardBody
	decodeJSON(t, w, &got)
	if got.Color != "#FF7B54" {
		t.Errorf("Color = %q", got.Color)
	}

	if w := api.request("PATCH", "/api/v1/cards/"+card.ID+"/color", map[string]string{"color": "#123456"}); w.Code != http.StatusBadRequest {
		t.Errorf("Off-palette color: status = %d, want 400", w.Code)
	}
}

func TestHandler_ListCategories(t *testing.T) {
	api := setupTestAPI(t)
	seedCard(t, api.app, "Jumbo", model.CategorySupermarket)
	seedCard(t, api.app, "Lidl", model.CategorySupermarket)

	w := api.request("GET", "/api/v1/categories", nil)
	var resp struct {
		Categories []struct {
			Key   string `json:"key"`
			Label string `json:"label"`
			Count int    `json:"count"`
		} `json:"categories"`
	}
	decodeJSON(t, w, &resp)

	if len(resp.Categories) != len(model.Categories) {
		t.Fatalf("Got %d categories", len(resp.Categories))
	}
	if resp.Categories[0].Key != "supermarkt" || resp.Categories[0].Count != 2 {
		t.Errorf("First category = %+v", resp.Categories[0])
	}
	if resp.Categories[4].Key != "overig" || resp.Categories[4].Count != 0 {
		t.Errorf("Last category = %+v", resp.Categories[4])
	}
}

func TestHandler_RenderGrid(t *testing.T) {
	api := setupTestAPI(t)

	w := api.request("GET", "/api/v1/render", nil)
	if w.Header().Get("X-Render-State") != "empty" {
		t.Errorf("Empty collection: state = %q", w.Header().Get("X-Render-State"))
	}

	seedCard(t, api.app, "<script>alert(1)</script>", model.CategorySupermarket)

	w = api.request("GET", "/api/v1/render?filter=kleding", nil)
	if w.Header().Get("X-Render-State") != "no_matches" {
		t.Errorf("Filtered out: state = %q", w.Header().Get("X-Render-State"))
	}

	w = api.request("GET", "/api/v1/render?filter=all", nil)
	if !strings.HasPrefix(w.Header().Get("Content-Type"), "text/html") {
		t.Errorf("Content-Type = %q", w.Header().Get("Content-Type"))
	}
	body := w.Body.String()
	if strings.Contains(body, "<script>") {
		t.Error("Store name rendered as markup")
	}
	if !strings.Contains(body, "&lt;script&gt;") {
		t.Error("Expected escaped store name in grid")
	}

	if w := api.request("GET", "/api/v1/render?filter=tuin", nil); w.Code != http.StatusBadRequest {
		t.Errorf("Unknown filter: status = %d, want 400", w.Code)
	}
}

func TestHandler_GetBarcode(t *testing.T) {
	api := setupTestAPI(t)
	card := seedCard(t, api.app, "Kruidvat", model.CategoryDrugstore)

	w := api.request("GET", "/api/v1/cards/"+card.ID+"/barcode.svg", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Status = %d", w.Code)
	}
	if w.Header().Get("Content-Type") != "image/svg+xml" {
		t.Errorf("Content-Type = %q", w.Header().Get("Content-Type"))
	}
	if w.Header().Get("X-Barcode-Format") != string(barcode.EAN13) {
		t.Errorf("Format = %q", w.Header().Get("X-Barcode-Format"))
	}
	if !strings.HasPrefix(w.Body.String(), "<svg") {
		t.Errorf("Body is not SVG: %.40s", w.Body.String())
	}
}

func TestHandler_GetBarcode_Unencodable(t *testing.T) {
	api := setupTestAPI(t)
	card, err := api.app.Cards.Add(context.Background(), model.Draft{StoreName: "Bieb", BarcodeNumber: "pas €12"})
	if err != nil {
		t.Fatal(err)
	}

	w := api.request("GET", "/api/v1/cards/"+card.ID+"/barcode.svg", nil)
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("Status = %d, want 422", w.Code)
	}
}

func TestHandler_ServiceWorker(t *testing.T) {
	api := setupTestAPI(t)

	w := api.request("GET", "/sw.js", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), offline.DefaultManifest().CacheName()) {
		t.Error("Service worker does not name the cache bucket")
	}
	if w.Header().Get("Service-Worker-Allowed") != "/" {
		t.Error("Expected Service-Worker-Allowed header")
	}
}

func TestHandler_Favicon(t *testing.T) {
	api := setupTestAPI(t)

	w := api.request("GET", "/favicon.svg", nil)
	if !strings.Contains(w.Body.String(), model.DefaultColor) {
		t.Errorf("Generated favicon missing app color: %s", w.Body.String())
	}

	custom := `<svg id="custom"/>`
	if err := os.WriteFile(filepath.Join(api.app.Paths.Home(), config.FaviconFile), []byte(custom), 0644); err != nil {
		t.Fatal(err)
	}
	w = api.request("GET", "/favicon.svg", nil)
	if w.Body.String() != custom {
		t.Errorf("Expected custom favicon, got %s", w.Body.String())
	}
}

func TestHandler_Metrics(t *testing.T) {
	api := setupTestAPI(t)
	seedCard(t, api.app, "Jumbo", model.CategorySupermarket)

	w := api.request("GET", "/metrics", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `plank_card_mutations_total{op="add"} 1`) {
		t.Errorf("Mutation counter missing from metrics output")
	}
}

func TestGenerateFaviconSVG_Escapes(t *testing.T) {
	svg := GenerateFaviconSVG("", "<")
	if strings.Contains(svg, "><</text>") {
		t.Error("Letter not escaped")
	}
	if !strings.Contains(svg, model.DefaultColor) {
		t.Error("Expected default background")
	}
}
