// Package site serves the embedded build checker page.
package site

import (
	"context"
	"net/http"
)

// Register attaches the checker page at / and its assets under /assets/.
// Other unmatched paths still 404.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}

	files := http.FileServer(FS())
	mux.Handle("GET /{$}", files)
	mux.Handle("GET /assets/", files)
}
