package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	appmiddleware "github.com/huy1235588/Vaultrs/internal/server/middleware"
)

// Handlers объединяет все обработчики сервера для настройки роутера.
type Handlers struct {
	Auth     *AuthHandler
	Vault    *VaultHandler
	Field    *FieldHandler
	Entry    *EntryHandler
	Image    *ImageHandler
	Relation *RelationHandler
}

// NewRouter настраивает и возвращает роутер chi со всеми маршрутами API.
func NewRouter(h Handlers, jwtSecret string) *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)

	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("pong\n"))
	})

	r.Route("/api", func(r chi.Router) {
		// Публичные маршруты (регистрация, вход)
		r.Post("/register", h.Auth.Register)
		r.Post("/login", h.Auth.Login)

		// Приватные маршруты (требуют аутентификации)
		r.Group(func(r chi.Router) {
			r.Use(appmiddleware.Authenticator(jwtSecret))

			r.Route("/vaults", func(r chi.Router) {
				r.Get("/", h.Vault.List)
				r.Post("/", h.Vault.Create)
				r.Route("/{vaultID}", func(r chi.Router) {
					r.Get("/", h.Vault.Get)
					r.Patch("/", h.Vault.Update)
					r.Delete("/", h.Vault.Delete)

					r.Get("/fields", h.Field.List)
					r.Put("/fields/order", h.Field.Reorder)

					r.Get("/entries", h.Entry.List)
					r.Get("/entries/search", h.Entry.Search)

					r.Get("/relation-entries", h.Relation.PickerSearch)
				})
			})

			r.Route("/fields", func(r chi.Router) {
				r.Post("/", h.Field.Create)
				r.Route("/{fieldID}", func(r chi.Router) {
					r.Get("/", h.Field.Get)
					r.Patch("/", h.Field.Update)
					r.Delete("/", h.Field.Delete)
				})
			})

			r.Route("/entries", func(r chi.Router) {
				r.Post("/", h.Entry.Create)
				r.Route("/{entryID}", func(r chi.Router) {
					r.Get("/", h.Entry.Get)
					r.Patch("/", h.Entry.Update)
					r.Delete("/", h.Entry.Delete)

					r.Post("/cover", h.Image.UploadCover)
					r.Delete("/cover", h.Image.RemoveCover)
					r.Put("/cover/url", h.Image.SetCoverURL)
					r.Get("/thumbnail", h.Image.Thumbnail)
				})
			})

			r.Post("/relations/resolve", h.Relation.Resolve)
		})
	})
	return r
}
