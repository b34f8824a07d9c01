package categories

import (
	"context"
	"net/http"

	"github.com/gamestore/store-admin/app/api"
	"github.com/gamestore/store-admin/app/loading"
	"github.com/gamestore/store-admin/models"
)

type CategoryResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func toResponse(c *models.Category) CategoryResponse {
	return CategoryResponse{ID: c.ID, Name: c.Name}
}

type CategoryProvider interface {
	ListCategories(ctx context.Context, params loading.Params) (*loading.Result[models.Category], error)
	GetCategory(ctx context.Context, id uint) (*models.Category, error)
	SaveCategory(ctx context.Context, category *models.Category) error
	DeleteCategory(ctx context.Context, category *models.Category) error
}

type CategoryHandler struct {
	repo CategoryProvider
}

func NewCategoryHandler(r CategoryProvider) *CategoryHandler {
	return &CategoryHandler{repo: r}
}

func (h *CategoryHandler) HandleGetAll(w http.ResponseWriter, r *http.Request) {
	res, err := h.repo.ListCategories(r.Context(), api.ListParams(r))
	if err != nil {
		api.Failed(w, err, "failed to fetch categories")
		return
	}

	response := make([]CategoryResponse, len(res.Records))
	for i := range res.Records {
		response[i] = toResponse(&res.Records[i])
	}
	api.List(w, "categories", response, res.Pagination)
}

func (h *CategoryHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	category, ok := api.Find(w, r, "category", h.repo.GetCategory)
	if !ok {
		return
	}
	api.JSON(w, http.StatusOK, map[string]interface{}{"category": toResponse(category)})
}

func (h *CategoryHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	h.save(w, r, &models.Category{})
}

func (h *CategoryHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	category, ok := api.Find(w, r, "category", h.repo.GetCategory)
	if !ok {
		return
	}
	h.save(w, r, category)
}

func (h *CategoryHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	category, ok := api.Find(w, r, "category", h.repo.GetCategory)
	if !ok {
		return
	}
	if err := h.repo.DeleteCategory(r.Context(), category); err != nil {
		api.Failed(w, err, "Failed to delete category")
		return
	}
	api.NoContent(w)
}

func (h *CategoryHandler) save(w http.ResponseWriter, r *http.Request, category *models.Category) {
	attrs, ok := api.Attributes(w, r, "category", "name")
	if !ok {
		return
	}
	if err := models.Assign(category, attrs); err != nil {
		api.Failed(w, err, "Failed to save category")
		return
	}
	if err := h.repo.SaveCategory(r.Context(), category); err != nil {
		api.Failed(w, err, "Failed to save category")
		return
	}
	api.JSON(w, http.StatusOK, map[string]interface{}{"category": toResponse(category)})
}
