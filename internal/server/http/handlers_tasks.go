package httpserver

import (
	"net/http"

	"github.com/gofrs/uuid/v5"
	"github.com/gorilla/mux"

	"github.com/eklimov/taskdeck/internal/errs"
	"github.com/eklimov/taskdeck/internal/model"
	"github.com/eklimov/taskdeck/internal/service"
)

func taskFromCtx(r *http.Request) (*model.Task, bool) {
	res, ok := ResourceFromCtx(r.Context())
	if !ok {
		return nil, false
	}
	t, ok := res.(*model.Task)
	return t, ok
}

func checklistIDVar(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.FromString(mux.Vars(r)["checklistId"])
	if err != nil {
		return uuid.Nil, errs.ErrValidation
	}
	return id, nil
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	u, ok := UserFromCtx(r.Context())
	if !ok {
		s.respondError(w, r, errs.ErrUnauthorized)
		return
	}
	clID, err := checklistIDVar(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	tasks, err := s.tasks.List(r.Context(), u, clID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	respondList(w, http.StatusOK, tasks, len(tasks))
}

type taskCreateReq struct {
	Title string `json:"title"`
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	u, ok := UserFromCtx(r.Context())
	if !ok {
		s.respondError(w, r, errs.ErrUnauthorized)
		return
	}
	clID, err := checklistIDVar(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	var req taskCreateReq
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	t, err := s.tasks.Create(r.Context(), u, clID, req.Title)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondData(w, http.StatusCreated, t)
}

type reorderReq struct {
	Tasks []model.PositionUpdate `json:"tasks"`
}

func (s *Server) handleReorderTasks(w http.ResponseWriter, r *http.Request) {
	u, ok := UserFromCtx(r.Context())
	if !ok {
		s.respondError(w, r, errs.ErrUnauthorized)
		return
	}
	clID, err := checklistIDVar(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	var req reorderReq
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	if err := s.tasks.Reorder(r.Context(), u, clID, req.Tasks); err != nil {
		s.respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, struct{}{})
}

type taskUpdateReq struct {
	Title     *string `json:"title"`
	Completed *bool   `json:"completed"`
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	t, ok := taskFromCtx(r)
	if !ok {
		s.respondError(w, r, errs.ErrNotFound)
		return
	}
	var req taskUpdateReq
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	upd, err := s.tasks.Update(r.Context(), t, service.TaskPatch{Title: req.Title, Completed: req.Completed})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, upd)
}

func (s *Server) handleToggleTask(w http.ResponseWriter, r *http.Request) {
	t, ok := taskFromCtx(r)
	if !ok {
		s.respondError(w, r, errs.ErrNotFound)
		return
	}
	upd, err := s.tasks.Toggle(r.Context(), t)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, upd)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	t, ok := taskFromCtx(r)
	if !ok {
		s.respondError(w, r, errs.ErrNotFound)
		return
	}
	if err := s.tasks.Delete(r.Context(), t); err != nil {
		s.respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, struct{}{})
}
