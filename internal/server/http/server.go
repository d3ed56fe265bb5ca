// Package httpserver exposes the taskdeck REST API.
package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/eklimov/taskdeck/internal/model"
	"github.com/eklimov/taskdeck/internal/repository"
	"github.com/eklimov/taskdeck/internal/service"
	"github.com/eklimov/taskdeck/internal/token"
)

// Server wires services into HTTP handlers.
type Server struct {
	log    *zap.Logger
	tokens *token.Service

	auth       service.AuthService
	checklists service.ChecklistService
	tasks      service.TaskService

	// repositories backing the guards
	users         repository.UserRepository
	checklistRepo repository.ChecklistRepository
	taskRepo      repository.TaskRepository

	secureCookies bool
}

// Deps collects everything the server needs.
type Deps struct {
	Log    *zap.Logger
	Tokens *token.Service

	Auth       service.AuthService
	Checklists service.ChecklistService
	Tasks      service.TaskService

	Users         repository.UserRepository
	ChecklistRepo repository.ChecklistRepository
	TaskRepo      repository.TaskRepository

	SecureCookies bool
}

// New constructs the HTTP server.
func New(d Deps) *Server {
	return &Server{
		log:           d.Log,
		tokens:        d.Tokens,
		auth:          d.Auth,
		checklists:    d.Checklists,
		tasks:         d.Tasks,
		users:         d.Users,
		checklistRepo: d.ChecklistRepo,
		taskRepo:      d.TaskRepo,
		secureCookies: d.SecureCookies,
	}
}

// Router builds the request pipeline: recover and logging wrap everything,
// then the auth guard, then role/ownership guards, then handlers.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(Recover(s.log), Logging(s.log))

	api := r.PathPrefix("/api").Subrouter()

	// public
	api.HandleFunc("/auth/register", s.handleRegister).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)

	// authenticated
	priv := api.NewRoute().Subrouter()
	priv.Use(s.RequireAuth)
	priv.HandleFunc("/auth/me", s.handleMe).Methods(http.MethodGet)
	priv.HandleFunc("/auth/logout", s.handleLogout).Methods(http.MethodGet)
	priv.HandleFunc("/auth/updatedetails", s.handleUpdateDetails).Methods(http.MethodPut)
	priv.HandleFunc("/auth/updatepassword", s.handleUpdatePassword).Methods(http.MethodPut)

	priv.HandleFunc("/checklists", s.handleListChecklists).Methods(http.MethodGet)
	priv.HandleFunc("/checklists", s.handleCreateChecklist).Methods(http.MethodPost)

	// checklist-scoped task operations; the service performs the checklist
	// ownership check so absent and foreign checklists look identical
	priv.HandleFunc("/checklists/{checklistId}/tasks", s.handleListTasks).Methods(http.MethodGet)
	priv.HandleFunc("/checklists/{checklistId}/tasks", s.handleCreateTask).Methods(http.MethodPost)
	priv.HandleFunc("/checklists/{checklistId}/tasks/reorder", s.handleReorderTasks).Methods(http.MethodPut)

	// ownership-guarded single-checklist operations
	clOwned := api.NewRoute().Subrouter()
	clOwned.Use(s.RequireAuth, s.RequireOwner(s.loadChecklist))
	clOwned.HandleFunc("/checklists/{id}", s.handleGetChecklist).Methods(http.MethodGet)
	clOwned.HandleFunc("/checklists/{id}", s.handleUpdateChecklist).Methods(http.MethodPut)
	clOwned.HandleFunc("/checklists/{id}", s.handleDeleteChecklist).Methods(http.MethodDelete)

	// ownership-guarded single-task operations
	taskOwned := api.NewRoute().Subrouter()
	taskOwned.Use(s.RequireAuth, s.RequireOwner(s.loadTask))
	taskOwned.HandleFunc("/tasks/{id}", s.handleUpdateTask).Methods(http.MethodPut)
	taskOwned.HandleFunc("/tasks/{id}", s.handleDeleteTask).Methods(http.MethodDelete)
	taskOwned.HandleFunc("/tasks/{id}/toggle", s.handleToggleTask).Methods(http.MethodPut)

	// admin surface
	admin := api.NewRoute().Subrouter()
	admin.Use(s.RequireAuth, s.RequireRoles(model.RoleAdmin))
	admin.HandleFunc("/admin/users", s.handleListUsers).Methods(http.MethodGet)

	return r
}

func (s *Server) loadChecklist(ctx context.Context, id uuid.UUID) (model.Owned, error) {
	return s.checklistRepo.GetByID(ctx, id)
}

func (s *Server) loadTask(ctx context.Context, id uuid.UUID) (model.Owned, error) {
	return s.taskRepo.GetByID(ctx, id)
}

// setTokenCookie mirrors the token into an HttpOnly cookie for browser clients.
func (s *Server) setTokenCookie(w http.ResponseWriter, tok string) {
	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookie,
		Value:    tok,
		Path:     "/",
		Expires:  time.Now().Add(s.tokens.TTL()),
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteStrictMode,
	})
}

func (s *Server) clearTokenCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteStrictMode,
	})
}
