package api

import (
	"net/http"
	"path"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

type RouterConfig struct {
	PublicDir      string
	AllowedOrigins []string
}

func NewRouter(apiHandler *APIHandler, cfg RouterConfig, log *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestLogger(log))
	r.Use(middleware.Recoverer)

	if len(cfg.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.AllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", requestIDHeader},
			ExposedHeaders: []string{requestIDHeader},
			MaxAge:         300,
		}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Post("/check-symptoms", apiHandler.handle(msgInternalError, apiHandler.CheckSymptoms))
		r.Post("/add-prescription", apiHandler.handle(msgDatabaseError, apiHandler.AddPrescription))
		r.Get("/health", apiHandler.Health)
	})

	static := staticFiles(cfg.PublicDir)
	r.Get("/", static.ServeHTTP)
	r.Get("/*", static.ServeHTTP)

	return r
}

// staticFiles serves files under dir verbatim. Directories are only served
// when they hold an index.html; there are no directory listings.
func staticFiles(dir string) http.Handler {
	root := http.Dir(dir)
	fileServer := http.FileServer(root)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := path.Clean("/" + r.URL.Path)

		f, err := root.Open(name)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		stat, err := f.Stat()
		f.Close()
		if err != nil {
			http.NotFound(w, r)
			return
		}

		if stat.IsDir() {
			index, err := root.Open(path.Join(name, "index.html"))
			if err != nil {
				http.NotFound(w, r)
				return
			}
			index.Close()
		}

		fileServer.ServeHTTP(w, r)
	})
}
