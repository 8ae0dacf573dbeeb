package internal

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"mediio-admin/internal/section"
	"mediio-admin/internal/store"
	"mediio-admin/pkg/workbook"
)

type sectionKey struct{}

// withSection resolves {section} and stores it in the request context.
func (s *Server) withSection(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sec, ok := s.Dashboard.Section(chi.URLParam(r, "section"))
		if !ok {
			http.Error(w, "unknown section", http.StatusNotFound)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sectionKey{}, sec)))
	})
}

func sectionFrom(r *http.Request) section.Section {
	return r.Context().Value(sectionKey{}).(section.Section)
}

type sectionView struct {
	Name    string               `json:"name"`
	Title   string               `json:"title"`
	Query   string               `json:"query"`
	State   section.State        `json:"state"`
	Columns []section.ColumnInfo `json:"columns"`
	Rows    []section.Row        `json:"rows"`
}

// getDashboard renders all four sections in fixed order. A q parameter is
// applied to every section.
func (s *Server) getDashboard(w http.ResponseWriter, r *http.Request) {
	params := parseListParams(r)
	views := make([]sectionView, 0, 4)
	for _, sec := range s.Dashboard.Sections() {
		if params.hasQuery {
			sec.SetQuery(params.q)
		}
		views = append(views, sectionView{
			Name:    sec.Name(),
			Title:   sec.Title(),
			Query:   sec.Query(),
			State:   sec.State(),
			Columns: sec.Columns(),
			Rows:    sec.Rows(),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"sections": views})
}

// listRows returns the filtered table rows of one section.
func (s *Server) listRows(w http.ResponseWriter, r *http.Request) {
	sec := sectionFrom(r)
	params := parseListParams(r)
	if params.hasQuery {
		sec.SetQuery(params.q)
	}
	params.q = sec.Query()

	rows := sec.Rows()
	sendListResponse(w, page(rows, params), len(rows), params)
}

func (s *Server) getRecord(w http.ResponseWriter, r *http.Request) {
	rec, ok := sectionFrom(r).Record(chi.URLParam(r, "id"))
	if !ok {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) getForm(w http.ResponseWriter, r *http.Request) {
	sec := sectionFrom(r)
	writeJSON(w, http.StatusOK, map[string]any{
		"fields": sec.Fields(),
		"form":   sec.Form(),
	})
}

// openForm opens the add form, or the edit form when an id is given.
func (s *Server) openForm(w http.ResponseWriter, r *http.Request) {
	sec := sectionFrom(r)
	var in struct {
		ID string `json:"id"`
	}
	if err := decodeOptional(r, &in); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	var err error
	if in.ID == "" {
		err = sec.OpenAdd()
	} else {
		err = sec.OpenEdit(in.ID)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sec.Form())
}

// patchForm sets form fields from a {"key": "value"} object.
func (s *Server) patchForm(w http.ResponseWriter, r *http.Request) {
	sec := sectionFrom(r)
	var in map[string]string
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	known := make(map[string]bool)
	for _, f := range sec.Fields() {
		known[f.Key] = true
	}
	for key := range in {
		if !known[key] {
			http.Error(w, "unknown field: "+key, http.StatusBadRequest)
			return
		}
	}
	// apply in form order so results do not depend on map iteration
	for _, f := range sec.Fields() {
		v, ok := in[f.Key]
		if !ok {
			continue
		}
		if err := sec.SetField(f.Key, v); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, sec.Form())
}

func (s *Server) saveForm(w http.ResponseWriter, r *http.Request) {
	sec := sectionFrom(r)
	res, err := sec.Save(r.Context())
	switch {
	case err == nil:
		status := http.StatusOK
		if res.Created {
			status = http.StatusCreated
		}
		writeJSON(w, status, res)
	case errors.Is(err, section.ErrValidation):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":  "VALIDATION_FAILED",
			"errors": res.Errors,
		})
	case errors.Is(err, store.ErrPersist):
		writeJSON(w, http.StatusOK, map[string]any{
			"id":      res.ID,
			"created": res.Created,
			"warning": err.Error(),
		})
	default:
		s.writeError(w, r, err)
	}
}

func (s *Server) cancelForm(w http.ResponseWriter, r *http.Request) {
	sec := sectionFrom(r)
	sec.Cancel()
	writeJSON(w, http.StatusOK, sec.Form())
}

func (s *Server) requestDelete(w http.ResponseWriter, r *http.Request) {
	p, err := sectionFrom(r).RequestDelete(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) getDeletePrompt(w http.ResponseWriter, r *http.Request) {
	p, ok := sectionFrom(r).Pending()
	if !ok {
		http.Error(w, "no delete pending", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) confirmDelete(w http.ResponseWriter, r *http.Request) {
	err := sectionFrom(r).ConfirmDelete(r.Context())
	switch {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, store.ErrPersist):
		writeJSON(w, http.StatusOK, map[string]any{"warning": err.Error()})
	default:
		s.writeError(w, r, err)
	}
}

func (s *Server) cancelDelete(w http.ResponseWriter, r *http.Request) {
	sectionFrom(r).CancelDelete()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) exportWorkbook(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="mediio.xlsx"`)
	if err := workbook.Export(w, s.Dashboard.Sections()); err != nil {
		LoggerFromContext(r.Context()).WithError(err).Error("export failed")
	}
}

// writeError maps section errors to HTTP status codes.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, section.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, section.ErrInvalidState):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, section.ErrUnknownField):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		LoggerFromContext(r.Context()).WithError(err).Error("request failed")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// decodeOptional decodes a JSON body if there is one.
func decodeOptional(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
