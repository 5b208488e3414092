package mid

import (
	"context"
	"net/http"
	"slices"

	"github.com/enset/powledger/foundation/web"
)

// Cors sets the response headers needed for Cross-Origin Resource Sharing.
// Only the origins in the list are echoed back, a "*" in the list allows any
// origin. The ledger API only takes GET and POST requests.
func Cors(origins []string) web.Middleware {

	// This is the actual middleware function to be executed.
	m := func(handler web.Handler) web.Handler {

		// Create the handler that will be attached in the middleware chain.
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			origin := r.Header.Get("Origin")

			switch {
			case slices.Contains(origins, "*"):
				w.Header().Set("Access-Control-Allow-Origin", "*")

			case origin != "" && slices.Contains(origins, origin):
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
			}

			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Origin, Accept, Content-Type, Content-Length")
			w.Header().Set("Access-Control-Max-Age", "86400")

			// Call the next handler.
			return handler(ctx, w, r)
		}

		return h
	}

	return m
}

// OriginAllowed reports whether a request from the origin can use the API.
// Requests without an origin don't come from a browser and are allowed.
func OriginAllowed(origins []string, origin string) bool {
	if origin == "" {
		return true
	}

	return slices.Contains(origins, "*") || slices.Contains(origins, origin)
}
