package api

import (
	"fmt"
	"html"
	"net/http"
	"os"

	"github.com/pasjesplank/plank/internal/model"
)

// GenerateFaviconSVG draws a small card in the given color with a letter on it.
func GenerateFaviconSVG(background, letter string) string {
	if background == "" {
		background = model.DefaultColor
	}
	if letter == "" {
		letter = "P"
	}

	return fmt.Sprintf(
		`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 32 32">`+
			`<rect x="2" y="6" width="28" height="20" rx="4" fill="%s"/>`+
			`<rect x="2" y="10" width="28" height="3" fill="white" fill-opacity="0.35"/>`+
			`<text x="50%%" y="21" text-anchor="middle" fill="white" font-family="system-ui, -apple-system, sans-serif" font-weight="700" font-size="11">%s</text>`+
			`</svg>`,
		html.EscapeString(background), html.EscapeString(letter),
	)
}

// GetFavicon serves the favicon, checking for a custom file first.
func (h *Handler) GetFavicon(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "public, max-age=3600")

	if h.app.Paths != nil {
		if data, err := os.ReadFile(h.app.Paths.FaviconPath()); err == nil {
			w.Write(data)
			return
		}
	}

	w.Write([]byte(GenerateFaviconSVG(model.DefaultColor, "P")))
}
