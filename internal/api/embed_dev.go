//go:build dev

package api

import (
	"net/http"
	"os"
)

// DevAssetsEnvVar points the dev build at a frontend directory on disk.
const DevAssetsEnvVar = "PLANK_DEV_ASSETS"

// StaticHandler serves the frontend straight from disk, so edits show up on
// reload without rebuilding.
func (h *Handler) StaticHandler() http.Handler {
	dir := os.Getenv(DevAssetsEnvVar)
	if dir == "" {
		dir = "internal/api/dist"
	}
	return staticHandler(http.FileServer(http.Dir(dir)))
}
