package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/iota-uz/agentlists/modules/lists/domain/aggregates/agent"
	"github.com/iota-uz/agentlists/modules/lists/presentation/mappers"
	"github.com/iota-uz/agentlists/modules/lists/services"
	"github.com/iota-uz/agentlists/pkg/application"
)

const (
	agentsInternalCode  = "AGENTS_INTERNAL"
	agentsInvalidIDCode = "AGENTS_INVALID_ID"
)

type AgentAPIController struct {
	app      application.Application
	agents   *services.AgentService
	basePath string
}

func NewAgentAPIController(app application.Application) application.Controller {
	return &AgentAPIController{
		app:      app,
		agents:   app.Service(services.AgentService{}).(*services.AgentService),
		basePath: "/api/agents",
	}
}

func (c *AgentAPIController) Key() string {
	return c.basePath
}

func (c *AgentAPIController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("", c.List).Methods(http.MethodGet)
	router.HandleFunc("", c.Create).Methods(http.MethodPost)
	router.HandleFunc("/{id}", c.Get).Methods(http.MethodGet)
	router.HandleFunc("/{id}", c.Update).Methods(http.MethodPut)
	router.HandleFunc("/{id}", c.Delete).Methods(http.MethodDelete)
}

func (c *AgentAPIController) List(w http.ResponseWriter, r *http.Request) {
	agents, err := c.agents.GetAll(r.Context())
	if err != nil {
		writeServiceError(w, r, err, agentsInternalCode)
		return
	}
	writeJSON(w, http.StatusOK, mappers.AgentsToViewModels(agents))
}

func (c *AgentAPIController) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", agentsInvalidIDCode)
	if !ok {
		return
	}
	a, err := c.agents.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, agentsInternalCode)
		return
	}
	writeJSON(w, http.StatusOK, mappers.AgentToViewModel(a))
}

func (c *AgentAPIController) Create(w http.ResponseWriter, r *http.Request) {
	var dto agent.CreateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeAPIError(w, r, http.StatusBadRequest, "AGENTS_INVALID_JSON", "invalid json")
		return
	}
	created, err := c.agents.Create(r.Context(), &dto)
	if err != nil {
		writeServiceError(w, r, err, agentsInternalCode)
		return
	}
	writeJSON(w, http.StatusCreated, mappers.AgentToViewModel(created))
}

func (c *AgentAPIController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", agentsInvalidIDCode)
	if !ok {
		return
	}
	var dto agent.UpdateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeAPIError(w, r, http.StatusBadRequest, "AGENTS_INVALID_JSON", "invalid json")
		return
	}
	updated, err := c.agents.Update(r.Context(), id, &dto)
	if err != nil {
		writeServiceError(w, r, err, agentsInternalCode)
		return
	}
	writeJSON(w, http.StatusOK, mappers.AgentToViewModel(updated))
}

func (c *AgentAPIController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", agentsInvalidIDCode)
	if !ok {
		return
	}
	if err := c.agents.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err, agentsInternalCode)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Agent deleted successfully"})
}
