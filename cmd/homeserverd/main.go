// Command homeserverd runs a single-process, in-memory homeserver for
// local development: every party's namespace lives in one map, objects are
// stored on PUT, fetched on GET, and directory paths (trailing slash)
// list their contents newline-delimited. Nothing is persisted.
package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"hushpost/internal/domain"
	"hushpost/internal/homeserver"
)

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	flag.Parse()

	logger, _ := zap.NewProduction()
	defer func() { _ = logger.Sync() }()

	mem := homeserver.NewMemory()

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		owner, path, ok := splitOwnerPath(r.URL.Path)
		if !ok {
			http.Error(w, "want /<owner-hex>/<path>", http.StatusBadRequest)
			return
		}

		switch {
		case r.Method == http.MethodPut:
			body, err := io.ReadAll(r.Body)
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			if err := mem.Put(r.Context(), owner, path, body); err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			logger.Info("stored object",
				zap.String("owner", owner.Hex()),
				zap.String("path", path),
				zap.Int("bytes", len(body)))
			w.WriteHeader(http.StatusOK)

		case r.Method == http.MethodGet && strings.HasSuffix(path, "/"):
			paths, err := mem.List(r.Context(), owner, path)
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			for _, p := range paths {
				io.WriteString(w, p+"\n")
			}

		case r.Method == http.MethodGet:
			body, err := mem.Get(r.Context(), owner, path)
			if err != nil {
				http.Error(w, "not found", http.StatusNotFound)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			w.Write(body)

		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})

	srv := &http.Server{Addr: *addr, Handler: mux}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("homeserver listening", zap.String("addr", *addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("serve", zap.Error(err))
	}
}

// splitOwnerPath parses "/<owner-hex>/pub/..." into its parts.
func splitOwnerPath(urlPath string) (domain.Ed25519Public, string, bool) {
	trimmed := strings.TrimPrefix(urlPath, "/")
	i := strings.Index(trimmed, "/")
	if i <= 0 {
		return domain.Ed25519Public{}, "", false
	}
	owner, err := domain.ParsePublicKey(trimmed[:i])
	if err != nil {
		return domain.Ed25519Public{}, "", false
	}
	return owner, trimmed[i:], true
}
