package bot

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

func healthMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/", "/health", "/healthz":
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.WriteHeader(http.StatusOK)
			fmt.Fprint(w, "OK")
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	return mux
}

// RunHealth serves the liveness probe the hosting platform polls. Blocks;
// run it on its own goroutine.
func RunHealth(port int, log *zap.SugaredLogger) error {
	addr := fmt.Sprintf(":%d", port)
	log.Infow("health server listening", "addr", addr)
	return http.ListenAndServe(addr, healthMux())
}
