package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/iota-uz/agentlists/modules/lists/presentation/mappers"
	"github.com/iota-uz/agentlists/modules/lists/services"
	"github.com/iota-uz/agentlists/pkg/application"
)

const (
	listsInternalCode  = "LISTS_INTERNAL"
	listsInvalidIDCode = "LISTS_INVALID_ID"

	// multipartSlack covers boundaries and part headers around the file.
	multipartSlack = 64 << 10
)

type ListAPIOptions struct {
	MaxUploadSize   int64
	MaxUploadMemory int64
}

type ListAPIController struct {
	app      application.Application
	lists    *services.ListService
	opts     ListAPIOptions
	basePath string
}

func NewListAPIController(app application.Application, opts ListAPIOptions) application.Controller {
	if opts.MaxUploadSize <= 0 {
		opts.MaxUploadSize = 1000000
	}
	if opts.MaxUploadMemory <= 0 {
		opts.MaxUploadMemory = 1 << 20
	}
	return &ListAPIController{
		app:      app,
		lists:    app.Service(services.ListService{}).(*services.ListService),
		opts:     opts,
		basePath: "/api/lists",
	}
}

func (c *ListAPIController) Key() string {
	return c.basePath
}

func (c *ListAPIController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("", c.List).Methods(http.MethodGet)
	router.HandleFunc("/upload", c.Upload).Methods(http.MethodPost)
	router.HandleFunc("/agent/{agentId}", c.ByAgent).Methods(http.MethodGet)
	router.HandleFunc("/{listId}", c.Get).Methods(http.MethodGet)
	router.HandleFunc("/{listId}/reassign", c.Reassign).Methods(http.MethodPut)
	router.HandleFunc("/{listId}", c.Delete).Methods(http.MethodDelete)
}

func (c *ListAPIController) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, c.opts.MaxUploadSize+multipartSlack)
	if err := r.ParseMultipartForm(c.opts.MaxUploadMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.writeTooLarge(w, r)
			return
		}
		writeAPIError(w, r, http.StatusBadRequest, "LISTS_INVALID_FORM", "expected a multipart form with a file field")
		return
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeAPIError(w, r, http.StatusBadRequest, "LISTS_FILE_REQUIRED", "no file uploaded")
		return
	}
	defer file.Close()
	if header.Size > c.opts.MaxUploadSize {
		c.writeTooLarge(w, r)
		return
	}

	res, err := c.lists.Upload(r.Context(), header.Filename, file)
	if err != nil {
		writeServiceError(w, r, err, listsInternalCode)
		return
	}
	writeJSON(w, http.StatusCreated, mappers.UploadResultToViewModel(res))
}

func (c *ListAPIController) writeTooLarge(w http.ResponseWriter, r *http.Request) {
	writeAPIError(w, r, http.StatusRequestEntityTooLarge, "LISTS_FILE_TOO_LARGE", "file exceeds the upload size limit")
}

func (c *ListAPIController) List(w http.ResponseWriter, r *http.Request) {
	lists, err := c.lists.FindAll(r.Context())
	if err != nil {
		writeServiceError(w, r, err, listsInternalCode)
		return
	}
	writeJSON(w, http.StatusOK, mappers.ListsToViewModels(lists))
}

func (c *ListAPIController) ByAgent(w http.ResponseWriter, r *http.Request) {
	agentID, ok := pathUUID(w, r, "agentId", listsInvalidIDCode)
	if !ok {
		return
	}
	lists, err := c.lists.FindByAgent(r.Context(), agentID)
	if err != nil {
		writeServiceError(w, r, err, listsInternalCode)
		return
	}
	writeJSON(w, http.StatusOK, mappers.ListsToViewModels(lists))
}

func (c *ListAPIController) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "listId", listsInvalidIDCode)
	if !ok {
		return
	}
	list, err := c.lists.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, listsInternalCode)
		return
	}
	writeJSON(w, http.StatusOK, mappers.ListToViewModel(list))
}

type reassignRequest struct {
	AgentID string `json:"agent_id"`
}

func (c *ListAPIController) Reassign(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "listId", listsInvalidIDCode)
	if !ok {
		return
	}
	var body reassignRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeAPIError(w, r, http.StatusBadRequest, "LISTS_INVALID_JSON", "invalid json")
		return
	}
	agentID, err := uuid.Parse(body.AgentID)
	if err != nil {
		writeAPIError(w, r, http.StatusBadRequest, listsInvalidIDCode, "invalid agent_id")
		return
	}

	moved, err := c.lists.Reassign(r.Context(), id, agentID)
	if err != nil {
		writeServiceError(w, r, err, listsInternalCode)
		return
	}
	writeJSON(w, http.StatusOK, mappers.ListToViewModel(moved))
}

func (c *ListAPIController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "listId", listsInvalidIDCode)
	if !ok {
		return
	}
	if _, err := c.lists.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err, listsInternalCode)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "List deleted successfully"})
}
