package coupons

import (
	"context"
	"net/http"
	"time"

	"github.com/gamestore/store-admin/app/api"
	"github.com/gamestore/store-admin/app/loading"
	"github.com/gamestore/store-admin/models"
	"github.com/shopspring/decimal"
)

type CouponResponse struct {
	ID            uint                `json:"id"`
	Code          string              `json:"code"`
	Status        models.CouponStatus `json:"status"`
	DiscountValue decimal.Decimal     `json:"discount_value"`
	DueDate       time.Time           `json:"due_date"`
}

func toResponse(c *models.Coupon) CouponResponse {
	return CouponResponse{
		ID:            c.ID,
		Code:          c.Code,
		Status:        c.Status,
		DiscountValue: c.DiscountValue,
		DueDate:       c.DueDate,
	}
}

type CouponProvider interface {
	ListCoupons(ctx context.Context, params loading.Params) (*loading.Result[models.Coupon], error)
	GetCoupon(ctx context.Context, id uint) (*models.Coupon, error)
	SaveCoupon(ctx context.Context, coupon *models.Coupon) error
	DeleteCoupon(ctx context.Context, coupon *models.Coupon) error
}

type CouponHandler struct {
	repo CouponProvider
}

func NewCouponHandler(r CouponProvider) *CouponHandler {
	return &CouponHandler{repo: r}
}

var permitted = []string{"code", "status", "discount_value", "due_date"}

func (h *CouponHandler) HandleGetAll(w http.ResponseWriter, r *http.Request) {
	res, err := h.repo.ListCoupons(r.Context(), api.ListParams(r))
	if err != nil {
		api.Failed(w, err, "failed to fetch coupons")
		return
	}

	response := make([]CouponResponse, len(res.Records))
	for i := range res.Records {
		response[i] = toResponse(&res.Records[i])
	}
	api.List(w, "coupons", response, res.Pagination)
}

func (h *CouponHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	coupon, ok := api.Find(w, r, "coupon", h.repo.GetCoupon)
	if !ok {
		return
	}
	api.JSON(w, http.StatusOK, map[string]interface{}{"coupon": toResponse(coupon)})
}

func (h *CouponHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	h.save(w, r, &models.Coupon{})
}

func (h *CouponHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	coupon, ok := api.Find(w, r, "coupon", h.repo.GetCoupon)
	if !ok {
		return
	}
	h.save(w, r, coupon)
}

func (h *CouponHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	coupon, ok := api.Find(w, r, "coupon", h.repo.GetCoupon)
	if !ok {
		return
	}
	if err := h.repo.DeleteCoupon(r.Context(), coupon); err != nil {
		api.Failed(w, err, "Failed to delete coupon")
		return
	}
	api.NoContent(w)
}

func (h *CouponHandler) save(w http.ResponseWriter, r *http.Request, coupon *models.Coupon) {
	attrs, ok := api.Attributes(w, r, "coupon", permitted...)
	if !ok {
		return
	}
	if err := models.Assign(coupon, attrs); err != nil {
		api.Failed(w, err, "Failed to save coupon")
		return
	}
	if err := h.repo.SaveCoupon(r.Context(), coupon); err != nil {
		api.Failed(w, err, "Failed to save coupon")
		return
	}
	api.JSON(w, http.StatusOK, map[string]interface{}{"coupon": toResponse(coupon)})
}
