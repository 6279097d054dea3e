package httpx

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/Lampx83/AI-Portal-sub002/internal/store"
	"github.com/Lampx83/AI-Portal-sub002/pkg/auth"
)

// Thin CRUD over the portal's relational rows: chat sessions, publications,
// and the external-agent registry.

type PortalAPI struct{ DB *store.Postgres }

type sessionResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
}

func (p *PortalAPI) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	s, err := p.DB.CreateSession(r.Context(), auth.UserID(r.Context()), req.Title)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, sessionResponse{ID: s.ID, Title: s.Title, CreatedAt: s.CreatedAt})
}

func (p *PortalAPI) ListSessions(w http.ResponseWriter, r *http.Request) {
	ss, err := p.DB.ListSessions(r.Context(), auth.UserID(r.Context()), 100, 0)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	resp := make([]sessionResponse, 0, len(ss))
	for _, s := range ss {
		resp = append(resp, sessionResponse{ID: s.ID, Title: s.Title, CreatedAt: s.CreatedAt})
	}
	writeJSON(w, resp)
}

func (p *PortalAPI) GetSession(w http.ResponseWriter, r *http.Request) {
	s, err := p.DB.GetSession(r.Context(), r.PathValue("id"), auth.UserID(r.Context()))
	if err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	writeJSON(w, sessionResponse{ID: s.ID, Title: s.Title, CreatedAt: s.CreatedAt})
}

func (p *PortalAPI) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := p.DB.DeleteSession(r.Context(), r.PathValue("id"), auth.UserID(r.Context())); err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type publicationResponse struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Venue string `json:"venue"`
	Year  int    `json:"year"`
	DOI   string `json:"doi"`
}

func (p *PortalAPI) CreatePublication(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title string `json:"title"`
		Venue string `json:"venue"`
		Year  int    `json:"year"`
		DOI   string `json:"doi"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Title == "" {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	pub, err := p.DB.CreatePublication(r.Context(), auth.UserID(r.Context()), req.Title, req.Venue, req.DOI, req.Year)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, publicationResponse{ID: pub.ID, Title: pub.Title, Venue: pub.Venue, Year: pub.Year, DOI: pub.DOI})
}

func (p *PortalAPI) ListPublications(w http.ResponseWriter, r *http.Request) {
	pubs, err := p.DB.ListPublications(r.Context(), auth.UserID(r.Context()), 100, 0)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	resp := make([]publicationResponse, 0, len(pubs))
	for _, pub := range pubs {
		resp = append(resp, publicationResponse{ID: pub.ID, Title: pub.Title, Venue: pub.Venue, Year: pub.Year, DOI: pub.DOI})
	}
	writeJSON(w, resp)
}

func (p *PortalAPI) GetPublication(w http.ResponseWriter, r *http.Request) {
	pub, err := p.DB.GetPublication(r.Context(), r.PathValue("id"))
	if err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	writeJSON(w, publicationResponse{ID: pub.ID, Title: pub.Title, Venue: pub.Venue, Year: pub.Year, DOI: pub.DOI})
}

type agentResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Endpoint    string `json:"endpoint"`
	Description string `json:"description"`
}

func (p *PortalAPI) RegisterAgent(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string `json:"name"`
		Endpoint    string `json:"endpoint"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" || req.Endpoint == "" {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	a, err := p.DB.RegisterAgent(r.Context(), req.Name, req.Endpoint, req.Description)
	if err != nil {
		http.Error(w, "agent name already registered", http.StatusConflict)
		return
	}
	writeJSON(w, agentResponse{ID: a.ID, Name: a.Name, Endpoint: a.Endpoint, Description: a.Description})
}

func (p *PortalAPI) ListAgents(w http.ResponseWriter, r *http.Request) {
	agents, err := p.DB.ListAgents(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	resp := make([]agentResponse, 0, len(agents))
	for _, a := range agents {
		resp = append(resp, agentResponse{ID: a.ID, Name: a.Name, Endpoint: a.Endpoint, Description: a.Description})
	}
	writeJSON(w, resp)
}

func (p *PortalAPI) GetAgent(w http.ResponseWriter, r *http.Request) {
	a, err := p.DB.GetAgent(r.Context(), r.PathValue("id"))
	if err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	writeJSON(w, agentResponse{ID: a.ID, Name: a.Name, Endpoint: a.Endpoint, Description: a.Description})
}

func (p *PortalAPI) DeleteAgent(w http.ResponseWriter, r *http.Request) {
	if err := p.DB.DeleteAgent(r.Context(), r.PathValue("id")); err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
