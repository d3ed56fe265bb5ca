package httpserver

import (
	"net/http"

	"github.com/eklimov/taskdeck/internal/errs"
	"github.com/eklimov/taskdeck/internal/model"
)

type checklistReq struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// checklistFromCtx returns the checklist cached by the ownership guard.
func checklistFromCtx(r *http.Request) (*model.Checklist, bool) {
	res, ok := ResourceFromCtx(r.Context())
	if !ok {
		return nil, false
	}
	c, ok := res.(*model.Checklist)
	return c, ok
}

func (s *Server) handleListChecklists(w http.ResponseWriter, r *http.Request) {
	u, ok := UserFromCtx(r.Context())
	if !ok {
		s.respondError(w, r, errs.ErrUnauthorized)
		return
	}
	list, err := s.checklists.List(r.Context(), u.ID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondList(w, http.StatusOK, list, len(list))
}

func (s *Server) handleCreateChecklist(w http.ResponseWriter, r *http.Request) {
	u, ok := UserFromCtx(r.Context())
	if !ok {
		s.respondError(w, r, errs.ErrUnauthorized)
		return
	}
	var req checklistReq
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	c, err := s.checklists.Create(r.Context(), u.ID, req.Title, req.Description)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondData(w, http.StatusCreated, c)
}

// checklistWithTasks is the read shape for a single checklist.
type checklistWithTasks struct {
	*model.Checklist
	Tasks []model.Task `json:"tasks"`
}

func (s *Server) handleGetChecklist(w http.ResponseWriter, r *http.Request) {
	c, ok := checklistFromCtx(r)
	if !ok {
		s.respondError(w, r, errs.ErrNotFound)
		return
	}
	tasks, err := s.checklists.Tasks(r.Context(), c)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	respondData(w, http.StatusOK, checklistWithTasks{Checklist: c, Tasks: tasks})
}

func (s *Server) handleUpdateChecklist(w http.ResponseWriter, r *http.Request) {
	c, ok := checklistFromCtx(r)
	if !ok {
		s.respondError(w, r, errs.ErrNotFound)
		return
	}
	var req checklistReq
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	upd, err := s.checklists.Update(r.Context(), c, req.Title, req.Description)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, upd)
}

func (s *Server) handleDeleteChecklist(w http.ResponseWriter, r *http.Request) {
	c, ok := checklistFromCtx(r)
	if !ok {
		s.respondError(w, r, errs.ErrNotFound)
		return
	}
	if err := s.checklists.Delete(r.Context(), c); err != nil {
		s.respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, struct{}{})
}
