package licenses

import (
	"context"
	"net/http"

	"github.com/gamestore/store-admin/app/api"
	"github.com/gamestore/store-admin/app/loading"
	"github.com/gamestore/store-admin/models"
)

type LicenseResponse struct {
	ID       uint                   `json:"id"`
	Key      string                 `json:"key"`
	GameID   uint                   `json:"game_id"`
	Status   models.LicenseStatus   `json:"status"`
	Platform models.LicensePlatform `json:"platform"`
}

func toResponse(l *models.License) LicenseResponse {
	return LicenseResponse{ID: l.ID, Key: l.Key, GameID: l.GameID, Status: l.Status, Platform: l.Platform}
}

type LicenseProvider interface {
	ListLicenses(ctx context.Context, params loading.Params) (*loading.Result[models.License], error)
	GetLicense(ctx context.Context, id uint) (*models.License, error)
	SaveLicense(ctx context.Context, license *models.License) error
	DeleteLicense(ctx context.Context, license *models.License) error
}

type LicenseHandler struct {
	repo LicenseProvider
}

func NewLicenseHandler(r LicenseProvider) *LicenseHandler {
	return &LicenseHandler{repo: r}
}

func (h *LicenseHandler) HandleGetAll(w http.ResponseWriter, r *http.Request) {
	res, err := h.repo.ListLicenses(r.Context(), api.ListParams(r))
	if err != nil {
		api.Failed(w, err, "failed to fetch licenses")
		return
	}

	response := make([]LicenseResponse, len(res.Records))
	for i := range res.Records {
		response[i] = toResponse(&res.Records[i])
	}
	api.List(w, "licenses", response, res.Pagination)
}

func (h *LicenseHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	license, ok := api.Find(w, r, "license", h.repo.GetLicense)
	if !ok {
		return
	}
	api.JSON(w, http.StatusOK, map[string]interface{}{"license": toResponse(license)})
}

func (h *LicenseHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	h.save(w, r, &models.License{})
}

func (h *LicenseHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	license, ok := api.Find(w, r, "license", h.repo.GetLicense)
	if !ok {
		return
	}
	h.save(w, r, license)
}

func (h *LicenseHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	license, ok := api.Find(w, r, "license", h.repo.GetLicense)
	if !ok {
		return
	}
	if err := h.repo.DeleteLicense(r.Context(), license); err != nil {
		api.Failed(w, err, "Failed to delete license")
		return
	}
	api.NoContent(w)
}

func (h *LicenseHandler) save(w http.ResponseWriter, r *http.Request, license *models.License) {
	attrs, ok := api.Attributes(w, r, "license", "key", "game_id", "status", "platform")
	if !ok {
		return
	}
	if err := models.Assign(license, attrs); err != nil {
		api.Failed(w, err, "Failed to save license")
		return
	}
	if err := h.repo.SaveLicense(r.Context(), license); err != nil {
		api.Failed(w, err, "Failed to save license")
		return
	}
	api.JSON(w, http.StatusOK, map[string]interface{}{"license": toResponse(license)})
}
