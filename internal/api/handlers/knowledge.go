package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/spartanmed/medchat/internal/api"
	"github.com/spartanmed/medchat/internal/domain"
	"github.com/spartanmed/medchat/internal/service"
)

// KnowledgeSearcher ranks store items against a free-text query.
type KnowledgeSearcher interface {
	Search(query string, limit int) []domain.ScoredMatch
}

// KnowledgeStore is the read surface for browsing the static store.
type KnowledgeStore interface {
	All() []*domain.KnowledgeItem
	ByID(id string) (*domain.KnowledgeItem, error)
	ByCategory(category string) []*domain.KnowledgeItem
	ByTag(tag string) []*domain.KnowledgeItem
}

type KnowledgeHandler struct {
	searcher KnowledgeSearcher
	store    KnowledgeStore
}

func NewKnowledgeHandler(searcher KnowledgeSearcher, store KnowledgeStore) *KnowledgeHandler {
	return &KnowledgeHandler{searcher: searcher, store: store}
}

type SearchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit,omitempty"`
}

type SearchResultResponse struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Category string `json:"category"`
	Phase    string `json:"phase"`
	Score    int    `json:"score"`
	Summary  string `json:"summary"`
}

type KnowledgeItemSummary struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Category string   `json:"category"`
	Phase    string   `json:"phase"`
	Tags     []string `json:"tags,omitempty"`
}

type KnowledgeItemResponse struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Content     string   `json:"content"`
	Category    string   `json:"category"`
	Subcategory string   `json:"subcategory,omitempty"`
	Phase       string   `json:"phase"`
	Tags        []string `json:"tags,omitempty"`
	Priority    int      `json:"priority"`
	Reference   string   `json:"reference,omitempty"`
	LastUpdated string   `json:"last_updated,omitempty"`
}

func itemToResponse(item *domain.KnowledgeItem) *KnowledgeItemResponse {
	resp := &KnowledgeItemResponse{
		ID:          item.ID,
		Title:       item.Title,
		Content:     item.Content,
		Category:    item.Category,
		Subcategory: item.Subcategory,
		Phase:       string(item.Phase),
		Tags:        item.Tags,
		Priority:    item.Priority,
		Reference:   item.Reference,
	}
	if !item.LastUpdated.IsZero() {
		resp.LastUpdated = item.LastUpdated.UTC().Format("2006-01-02")
	}
	return resp
}

func (h *KnowledgeHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Query == "" {
		api.Error(w, http.StatusBadRequest, "query is required")
		return
	}

	limit := req.Limit
	if limit <= 0 {
		limit = service.DefaultSearchLimit
	}

	matches := h.searcher.Search(req.Query, limit)

	results := make([]SearchResultResponse, len(matches))
	for i, match := range matches {
		results[i] = SearchResultResponse{
			ID:       match.Item.ID,
			Title:    match.Item.Title,
			Category: match.Item.Category,
			Phase:    string(match.Item.Phase),
			Score:    match.Score,
			Summary:  service.ExtractSummary(match.Item.Content),
		}
	}

	api.Success(w, http.StatusOK, results)
}

func (h *KnowledgeHandler) List(w http.ResponseWriter, r *http.Request) {
	var items []*domain.KnowledgeItem

	category := r.URL.Query().Get("category")
	tag := r.URL.Query().Get("tag")
	switch {
	case category != "":
		items = h.store.ByCategory(category)
	case tag != "":
		items = h.store.ByTag(tag)
	default:
		items = h.store.All()
	}

	summaries := make([]KnowledgeItemSummary, len(items))
	for i, item := range items {
		summaries[i] = KnowledgeItemSummary{
			ID:       item.ID,
			Title:    item.Title,
			Category: item.Category,
			Phase:    string(item.Phase),
			Tags:     item.Tags,
		}
	}

	api.Success(w, http.StatusOK, summaries)
}

func (h *KnowledgeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		api.Error(w, http.StatusBadRequest, "id is required")
		return
	}

	item, err := h.store.ByID(id)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, itemToResponse(item))
}
