// Package offline describes the assets the app needs without a network and
// generates the service worker that caches them.
package offline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"text/template"
)

// CachePrefix prefixes every cache bucket name.
const CachePrefix = "pasjesplank-v"

// Collaborator bundles loaded from the CDN.
const (
	BarcodeBundle = "https://cdn.jsdelivr.net/npm/jsbarcode@3/dist/JsBarcode.all.min.js"
	ScannerBundle = "https://cdn.jsdelivr.net/npm/@ericblade/quagga2/dist/quagga.min.js"
)

// Manifest lists the cached assets under one cache version.
type Manifest struct {
	Version int
	Assets  []string
}

// DefaultManifest returns the app shell plus collaborator bundles.
func DefaultManifest() Manifest {
	return Manifest{
		Version: 4,
		Assets: []string{
			"./",
			"./index.html",
			"./styles.css",
			"./app.js",
			"./manifest.json",
			"./pasjesplank_logo.svg",
			BarcodeBundle,
			ScannerBundle,
		},
	}
}

// CacheName is the bucket this manifest populates.
func (m Manifest) CacheName() string {
	return fmt.Sprintf("%s%d", CachePrefix, m.Version)
}

var swTemplate = template.Must(template.New("sw").Parse(`const CACHE_NAME = {{.CacheName}};
const ASSETS = {{.Assets}};

self.addEventListener('install', (event) => {
  event.waitUntil(
    caches.open(CACHE_NAME).then((cache) => cache.addAll(ASSETS))
  );
  self.skipWaiting();
});

self.addEventListener('activate', (event) => {
  event.waitUntil(
    caches.keys().then((keys) =>
      Promise.all(keys.filter((k) => k !== CACHE_NAME).map((k) => caches.delete(k)))
    )
  );
  self.clients.claim();
});

self.addEventListener('fetch', (event) => {
  event.respondWith(
    caches.match(event.request).then((cached) => cached || fetch(event.request))
  );
});
`))

// ServiceWorker renders sw.js. Install pre-caches every asset, activate
// drops every other bucket, and fetch serves cache-first.
func (m Manifest) ServiceWorker() ([]byte, error) {
	name, err := json.Marshal(m.CacheName())
	if err != nil {
		return nil, err
	}
	assets := m.Assets
	if assets == nil {
		assets = []string{}
	}
	list, err := json.MarshalIndent(assets, "", "  ")
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	err = swTemplate.Execute(&buf, struct {
		CacheName string
		Assets    string
	}{string(name), string(list)})
	if err != nil {
		return nil, fmt.Errorf("failed to render service worker: %w", err)
	}
	return buf.Bytes(), nil
}
