package app

import (
	"net/http"

	"go.uber.org/zap"
)

// Config holds runtime wiring options for building the app.
type Config struct {
	Home          string       // local state directory, e.g. $HOME/.hushpost
	HomeserverURL string       // homeserver base URL, e.g. http://127.0.0.1:8080
	HTTP          *http.Client // optional; defaults to a timeout-bounded client
	Logger        *zap.Logger  // optional; defaults to zap.NewNop()
}
