package systemrequirements

import (
	"context"
	"net/http"

	"github.com/gamestore/store-admin/app/api"
	"github.com/gamestore/store-admin/app/loading"
	"github.com/gamestore/store-admin/models"
)

type SystemRequirementResponse struct {
	ID                uint   `json:"id"`
	Name              string `json:"name"`
	OperationalSystem string `json:"operational_system"`
	Storage           string `json:"storage"`
	Processor         string `json:"processor"`
	Memory            string `json:"memory"`
	VideoBoard        string `json:"video_board"`
}

func toResponse(s *models.SystemRequirement) SystemRequirementResponse {
	return SystemRequirementResponse{
		ID:                s.ID,
		Name:              s.Name,
		OperationalSystem: s.OperationalSystem,
		Storage:           s.Storage,
		Processor:         s.Processor,
		Memory:            s.Memory,
		VideoBoard:        s.VideoBoard,
	}
}

type SystemRequirementProvider interface {
	ListSystemRequirements(ctx context.Context, params loading.Params) (*loading.Result[models.SystemRequirement], error)
	GetSystemRequirement(ctx context.Context, id uint) (*models.SystemRequirement, error)
	SaveSystemRequirement(ctx context.Context, req *models.SystemRequirement) error
	DeleteSystemRequirement(ctx context.Context, req *models.SystemRequirement) error
}

type SystemRequirementHandler struct {
	repo SystemRequirementProvider
}

func NewSystemRequirementHandler(r SystemRequirementProvider) *SystemRequirementHandler {
	return &SystemRequirementHandler{repo: r}
}

var permitted = []string{"name", "operational_system", "storage", "processor", "memory", "video_board"}

const resource = "system requirement"

func (h *SystemRequirementHandler) HandleGetAll(w http.ResponseWriter, r *http.Request) {
	res, err := h.repo.ListSystemRequirements(r.Context(), api.ListParams(r))
	if err != nil {
		api.Failed(w, err, "failed to fetch system requirements")
		return
	}

	response := make([]SystemRequirementResponse, len(res.Records))
	for i := range res.Records {
		response[i] = toResponse(&res.Records[i])
	}
	api.List(w, "system_requirements", response, res.Pagination)
}

func (h *SystemRequirementHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	req, ok := api.Find(w, r, resource, h.repo.GetSystemRequirement)
	if !ok {
		return
	}
	api.JSON(w, http.StatusOK, map[string]interface{}{"system_requirement": toResponse(req)})
}

func (h *SystemRequirementHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	h.save(w, r, &models.SystemRequirement{})
}

func (h *SystemRequirementHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	req, ok := api.Find(w, r, resource, h.repo.GetSystemRequirement)
	if !ok {
		return
	}
	h.save(w, r, req)
}

func (h *SystemRequirementHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	req, ok := api.Find(w, r, resource, h.repo.GetSystemRequirement)
	if !ok {
		return
	}
	if err := h.repo.DeleteSystemRequirement(r.Context(), req); err != nil {
		api.Failed(w, err, "Failed to delete system requirement")
		return
	}
	api.NoContent(w)
}

func (h *SystemRequirementHandler) save(w http.ResponseWriter, r *http.Request, req *models.SystemRequirement) {
	attrs, ok := api.Attributes(w, r, "system_requirement", permitted...)
	if !ok {
		return
	}
	if err := models.Assign(req, attrs); err != nil {
		api.Failed(w, err, "Failed to save system requirement")
		return
	}
	if err := h.repo.SaveSystemRequirement(r.Context(), req); err != nil {
		api.Failed(w, err, "Failed to save system requirement")
		return
	}
	api.JSON(w, http.StatusOK, map[string]interface{}{"system_requirement": toResponse(req)})
}
