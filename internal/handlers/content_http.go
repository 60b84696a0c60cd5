package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"cms-admin/internal/middleware"
	"cms-admin/internal/models"
	"cms-admin/internal/repository"
	"cms-admin/internal/utils"

	"github.com/go-chi/chi/v5"
)

// ContentHTTP covers the editorial side of the back office: static pages,
// blog posts and post categories.
type ContentHTTP struct {
	pages      repository.PageRepository
	posts      repository.PostRepository
	categories repository.CategoryRepository
}

func NewContentHTTP(pages repository.PageRepository, posts repository.PostRepository, categories repository.CategoryRepository) *ContentHTTP {
	return &ContentHTTP{pages: pages, posts: posts, categories: categories}
}

func writeContentErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrPageNotFound),
		errors.Is(err, repository.ErrPostNotFound),
		errors.Is(err, repository.ErrCategoryNotFound):
		utils.Error(w, http.StatusNotFound, "not found")
	case errors.Is(err, repository.ErrDuplicateSlug):
		utils.Error(w, http.StatusConflict, "slug already in use")
	default:
		utils.Error(w, http.StatusInternalServerError, err.Error())
	}
}

// -----------------------------------------------------------------------------
// Pages
// -----------------------------------------------------------------------------

func (h *ContentHTTP) ListPages() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		qv := r.URL.Query()
		limit := utils.QueryInt(qv, "limit", 50)
		offset := utils.QueryInt(qv, "offset", 0)

		items, total, err := h.pages.List(r.Context(), qv.Get("q"), qv.Get("status"), limit, offset)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, err.Error())
			return
		}
		if items == nil {
			items = []models.Page{}
		}
		utils.JSON(w, http.StatusOK, map[string]any{"items": items, "total": total})
	}
}

func (h *ContentHTTP) GetPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := h.pages.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeContentErr(w, err)
			return
		}
		utils.JSON(w, http.StatusOK, p)
	}
}

type pageDTO struct {
	Title  string `json:"title"`
	Slug   string `json:"slug"`
	Body   string `json:"body"`
	Status string `json:"status"`
}

func (in *pageDTO) validate() string {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return "title is required"
	}
	if in.Slug == "" {
		in.Slug = utils.Slugify(in.Title)
	} else {
		in.Slug = utils.Slugify(in.Slug)
	}
	if in.Status == "" {
		in.Status = models.ContentDraft
	}
	if !models.ValidContentStatus(in.Status) {
		return "invalid status"
	}
	return ""
}

func (h *ContentHTTP) CreatePage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in pageDTO
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid json")
			return
		}
		if msg := in.validate(); msg != "" {
			utils.Error(w, http.StatusBadRequest, msg)
			return
		}

		uid, _ := utils.GetString(r.Context(), middleware.CtxUserID)
		p := &models.Page{Title: in.Title, Slug: in.Slug, Body: in.Body, Status: in.Status, CreatedBy: uid}
		if err := h.pages.Create(r.Context(), p); err != nil {
			writeContentErr(w, err)
			return
		}
		utils.JSON(w, http.StatusCreated, p)
	}
}

func (h *ContentHTTP) UpdatePage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in pageDTO
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid json")
			return
		}
		if msg := in.validate(); msg != "" {
			utils.Error(w, http.StatusBadRequest, msg)
			return
		}

		p := &models.Page{ID: chi.URLParam(r, "id"), Title: in.Title, Slug: in.Slug, Body: in.Body, Status: in.Status}
		if err := h.pages.Update(r.Context(), p); err != nil {
			writeContentErr(w, err)
			return
		}
		utils.JSON(w, http.StatusOK, p)
	}
}

func (h *ContentHTTP) DeletePage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.pages.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			writeContentErr(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// -----------------------------------------------------------------------------
// Posts
// -----------------------------------------------------------------------------

func (h *ContentHTTP) ListPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		qv := r.URL.Query()
		limit := utils.QueryInt(qv, "limit", 50)
		offset := utils.QueryInt(qv, "offset", 0)

		items, total, err := h.posts.List(r.Context(), qv.Get("q"), qv.Get("status"), qv.Get("category"), limit, offset)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, err.Error())
			return
		}
		if items == nil {
			items = []models.Post{}
		}
		utils.JSON(w, http.StatusOK, map[string]any{"items": items, "total": total})
	}
}

func (h *ContentHTTP) GetPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := h.posts.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeContentErr(w, err)
			return
		}
		utils.JSON(w, http.StatusOK, p)
	}
}

type postDTO struct {
	Title      string `json:"title"`
	Slug       string `json:"slug"`
	Excerpt    string `json:"excerpt"`
	Body       string `json:"body"`
	CategoryID string `json:"categoryId"`
	Status     string `json:"status"`
}

func (in *postDTO) validate() string {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return "title is required"
	}
	if in.Slug == "" {
		in.Slug = utils.Slugify(in.Title)
	} else {
		in.Slug = utils.Slugify(in.Slug)
	}
	if in.Status == "" {
		in.Status = models.ContentDraft
	}
	if !models.ValidContentStatus(in.Status) {
		return "invalid status"
	}
	return ""
}

func (h *ContentHTTP) CreatePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in postDTO
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid json")
			return
		}
		if msg := in.validate(); msg != "" {
			utils.Error(w, http.StatusBadRequest, msg)
			return
		}

		uid, _ := utils.GetString(r.Context(), middleware.CtxUserID)
		p := &models.Post{
			Title: in.Title, Slug: in.Slug, Excerpt: in.Excerpt, Body: in.Body,
			CategoryID: in.CategoryID, Status: in.Status, CreatedBy: uid,
		}
		if err := h.posts.Create(r.Context(), p); err != nil {
			writeContentErr(w, err)
			return
		}
		utils.JSON(w, http.StatusCreated, p)
	}
}

func (h *ContentHTTP) UpdatePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in postDTO
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid json")
			return
		}
		if msg := in.validate(); msg != "" {
			utils.Error(w, http.StatusBadRequest, msg)
			return
		}

		p := &models.Post{
			ID: chi.URLParam(r, "id"), Title: in.Title, Slug: in.Slug,
			Excerpt: in.Excerpt, Body: in.Body, CategoryID: in.CategoryID, Status: in.Status,
		}
		if err := h.posts.Update(r.Context(), p); err != nil {
			writeContentErr(w, err)
			return
		}
		utils.JSON(w, http.StatusOK, p)
	}
}

func (h *ContentHTTP) DeletePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.posts.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			writeContentErr(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// -----------------------------------------------------------------------------
// Categories
// -----------------------------------------------------------------------------

func (h *ContentHTTP) ListCategories() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := h.categories.List(r.Context())
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, err.Error())
			return
		}
		if items == nil {
			items = []models.Category{}
		}
		utils.JSON(w, http.StatusOK, map[string]any{"items": items})
	}
}

func (h *ContentHTTP) CreateCategory() http.HandlerFunc {
	type inDTO struct {
		Name        string `json:"name"`
		Slug        string `json:"slug"`
		Description string `json:"description"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var in inDTO
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid json")
			return
		}
		in.Name = strings.TrimSpace(in.Name)
		if in.Name == "" {
			utils.Error(w, http.StatusBadRequest, "name is required")
			return
		}
		if in.Slug == "" {
			in.Slug = utils.Slugify(in.Name)
		} else {
			in.Slug = utils.Slugify(in.Slug)
		}

		c := &models.Category{Name: in.Name, Slug: in.Slug, Description: strings.TrimSpace(in.Description)}
		if err := h.categories.Create(r.Context(), c); err != nil {
			writeContentErr(w, err)
			return
		}
		utils.JSON(w, http.StatusCreated, c)
	}
}

func (h *ContentHTTP) DeleteCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.categories.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			writeContentErr(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
