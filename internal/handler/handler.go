package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"helpconnect/internal/config"
	"helpconnect/internal/middleware"
	"helpconnect/internal/service"
)

// HealthChecker reports whether the backing store is reachable.
type HealthChecker interface {
	HealthCheck() error
}

type Handlers struct {
	AuthService        service.AuthService
	HelpRequestService service.HelpRequestService
	MessageService     service.MessageService
	StatsService       service.StatsService
	Health             HealthChecker
	Cfg                *config.Config
	Now                func() time.Time
}

func NewHandlers(services *service.Service, health HealthChecker, cfg *config.Config) *Handlers {
	return &Handlers{
		AuthService:        services.Auth,
		HelpRequestService: services.HelpRequest,
		MessageService:     services.Message,
		StatsService:       services.Stats,
		Health:             health,
		Cfg:                cfg,
		Now:                time.Now,
	}
}

func (h *Handlers) protect(next http.HandlerFunc) http.Handler {
	return middleware.AuthMiddleware(h.AuthService)(next)
}

// Router registers every route on a single router so method mismatches
// reach MethodNotAllowedHandler. Routes that act on behalf of a user go
// through the auth middleware.
func (h *Handlers) Router() *mux.Router {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, "not found", http.StatusNotFound)
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, "method not allowed", http.StatusMethodNotAllowed)
	})

	r.HandleFunc("/health", h.HealthHandler).Methods(http.MethodGet)
	r.HandleFunc("/stats", h.StatsHandler).Methods(http.MethodGet)

	r.HandleFunc("/api/auth/register", h.Register).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/login", h.Login).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/logout", h.Logout).Methods(http.MethodPost)
	r.Handle("/api/me", h.protect(h.GetCurrentUser)).Methods(http.MethodGet)
	r.Handle("/api/me/password", h.protect(h.ChangePassword)).Methods(http.MethodPut)

	r.HandleFunc("/api/help", h.ListHelpRequests).Methods(http.MethodGet)
	r.Handle("/api/help", h.protect(h.CreateHelpRequest)).Methods(http.MethodPost)
	r.HandleFunc("/api/help/recent", h.ListRecent).Methods(http.MethodGet)
	r.HandleFunc("/api/help/{id:[0-9]+}", h.GetHelpRequest).Methods(http.MethodGet)
	r.Handle("/api/help/{id:[0-9]+}/messages", h.protect(h.ListThread)).Methods(http.MethodGet)
	r.HandleFunc("/api/help/{id:[0-9]+}/attachments", h.ListAttachments).Methods(http.MethodGet)
	r.Handle("/api/help/{id:[0-9]+}/attachments", h.protect(h.AddAttachment)).Methods(http.MethodPost)

	r.Handle("/api/messages", h.protect(h.SendMessage)).Methods(http.MethodPost)
	r.Handle("/api/messages/{id:[0-9]+}/read", h.protect(h.MarkRead)).Methods(http.MethodPost)

	return r
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id, err == nil && id > 0
}

func decodeJSON(r *http.Request, dst interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}
