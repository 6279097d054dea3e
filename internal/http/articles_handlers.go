package httpx

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Lampx83/AI-Portal-sub002/internal/store"
	"github.com/Lampx83/AI-Portal-sub002/pkg/auth"
)

type ArticlesAPI struct{ DB *store.Postgres }

// maxArticleBody bounds a saved article body (8 MiB)
const maxArticleBody = 8 << 20

type createArticleReq struct {
	Title    string `json:"title"`
	Abstract string `json:"abstract"`
}

type articleResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Abstract  string    `json:"abstract"`
	Version   int64     `json:"version"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type shareReq struct {
	TTLHours int `json:"ttlHours"` // 0 = never expires
}

type shareResponse struct {
	Token     string     `json:"token"`
	ArticleID string     `json:"articleId"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// Create handles new article creation for the authenticated user.
func (a *ArticlesAPI) Create(w http.ResponseWriter, r *http.Request) {
	var req createArticleReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Title == "" {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	uid := auth.UserID(r.Context())
	art, err := a.DB.CreateArticle(r.Context(), req.Title, req.Abstract, uid)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, articleResponse{
		ID: art.ID, Title: art.Title, Abstract: art.Abstract, Version: art.Version, UpdatedAt: art.UpdatedAt,
	})
}

// List returns up to 100 of the caller's articles
func (a *ArticlesAPI) List(w http.ResponseWriter, r *http.Request) {
	uid := auth.UserID(r.Context())
	arts, err := a.DB.ListArticles(r.Context(), uid, 100, 0)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := make([]articleResponse, 0, len(arts))
	for _, art := range arts {
		resp = append(resp, articleResponse{
			ID: art.ID, Title: art.Title, Abstract: art.Abstract, Version: art.Version, UpdatedAt: art.UpdatedAt,
		})
	}
	writeJSON(w, resp)
}

// Get streams an article's raw body and version header.
func (a *ArticlesAPI) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		http.Error(w, "id required", http.StatusBadRequest)
		return
	}

	art, err := a.DB.GetArticle(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("X-Article-Version", fmt.Sprintf("%d", art.Version))
	_, _ = w.Write(art.Body)
}

// Update replaces an article's raw body for the owning caller.
func (a *ArticlesAPI) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		http.Error(w, "id required", http.StatusBadRequest)
		return
	}

	uid := auth.UserID(r.Context())
	art, err := a.DB.GetArticle(r.Context(), id)
	if err != nil || art.CreatedBy != uid {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxArticleBody))
	if err != nil {
		http.Error(w, "body too large", http.StatusRequestEntityTooLarge)
		return
	}

	if err := a.DB.SaveArticle(r.Context(), id, body); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type collaboratorReq struct {
	Email string `json:"email"`
}

// AddCollaborator grants another researcher's email edit access to an
// article the caller owns.
func (a *ArticlesAPI) AddCollaborator(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		http.Error(w, "id required", http.StatusBadRequest)
		return
	}

	var req collaboratorReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || !strings.Contains(req.Email, "@") {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	uid := auth.UserID(r.Context())
	art, err := a.DB.GetArticle(r.Context(), id)
	if err != nil || art.CreatedBy != uid {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	if err := a.DB.AddCollaborator(r.Context(), id, req.Email); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Share issues a share token for an article the caller owns.
func (a *ArticlesAPI) Share(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		http.Error(w, "id required", http.StatusBadRequest)
		return
	}

	uid := auth.UserID(r.Context())
	art, err := a.DB.GetArticle(r.Context(), id)
	if err != nil || art.CreatedBy != uid {
		// Owner-only; not-found and not-owner look the same
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	var req shareReq
	_ = json.NewDecoder(r.Body).Decode(&req)

	s, err := a.DB.CreateShare(r.Context(), id, uid, time.Duration(req.TTLHours)*time.Hour)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, shareResponse{Token: s.Token, ArticleID: s.ArticleID, ExpiresAt: s.ExpiresAt})
}
