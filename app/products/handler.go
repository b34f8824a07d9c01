package products

import (
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gamestore/store-admin/app/api"
	"github.com/gamestore/store-admin/app/loading"
	"github.com/gamestore/store-admin/app/saving"
	"github.com/gamestore/store-admin/app/storage"
	"github.com/gamestore/store-admin/models"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"go.uber.org/zap"
)

type ProductProvider interface {
	ListProducts(ctx context.Context, params loading.Params) (*loading.Result[models.Product], error)
	GetProduct(ctx context.Context, id uint) (*models.Product, error)
	DeleteProduct(ctx context.Context, product *models.Product) error
}

type ProductSaver interface {
	Save(ctx context.Context, attrs saving.Attributes, existing *models.Product) (*models.Product, error)
}

type ImageStore interface {
	Save(filename string, src io.Reader) (string, error)
	Delete(key string) error
	URL(key string) string
}

type ProductHandler struct {
	repo   ProductProvider
	saver  ProductSaver
	images ImageStore
}

func NewProductHandler(r ProductProvider, s ProductSaver, images ImageStore) *ProductHandler {
	return &ProductHandler{repo: r, saver: s, images: images}
}

var productAttributes = []string{"name", "description", "price", "status", saving.ProductableKey, saving.CategoryIDsKey}

// imageKeys are the multipart fields an uploaded image is read from.
var imageKeys = []string{"product[image]", "image"}

// toResponse renders the product with its category names and the public
// fields of its productable.
func (h *ProductHandler) toResponse(p *models.Product) map[string]interface{} {
	out := map[string]interface{}{}
	if p.Productable != nil {
		for k, v := range p.Productable.PublicFields() {
			out[k] = v
		}
	}

	var imageURL interface{}
	if p.Image != "" {
		imageURL = h.images.URL(p.Image)
	}
	out["id"] = p.ID
	out["name"] = p.Name
	out["description"] = p.Description
	out["price"] = p.Price
	out["status"] = p.Status
	out["categories"] = p.CategoryNames()
	out["image_url"] = imageURL
	out["productable"] = p.ProductableType
	return out
}

func (h *ProductHandler) HandleGetAll(w http.ResponseWriter, r *http.Request) {
	res, err := h.repo.ListProducts(r.Context(), api.ListParams(r))
	if err != nil {
		api.Failed(w, err, "failed to fetch products")
		return
	}

	products := make([]map[string]interface{}, len(res.Records))
	for i := range res.Records {
		products[i] = h.toResponse(&res.Records[i])
	}
	api.List(w, "products", products, res.Pagination)
}

func (h *ProductHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	product, ok := api.Find(w, r, "product", h.repo.GetProduct)
	if !ok {
		return
	}
	api.JSON(w, http.StatusOK, map[string]interface{}{"product": h.toResponse(product)})
}

func (h *ProductHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	h.save(w, r, nil)
}

func (h *ProductHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	product, ok := api.Find(w, r, "product", h.repo.GetProduct)
	if !ok {
		return
	}
	h.save(w, r, product)
}

func (h *ProductHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	product, ok := api.Find(w, r, "product", h.repo.GetProduct)
	if !ok {
		return
	}
	if err := h.repo.DeleteProduct(r.Context(), product); err != nil {
		api.Failed(w, err, "Failed to delete product")
		return
	}
	h.removeImage(product.Image)
	api.NoContent(w)
}

func (h *ProductHandler) save(w http.ResponseWriter, r *http.Request, existing *models.Product) {
	body, err := api.DecodeBody(r)
	if err != nil {
		api.Error(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	attrs := saving.Attributes{Product: api.Permit(body, "product", productAttributes...)}
	tag := cast.ToString(attrs.Product[saving.ProductableKey])
	if existing != nil && existing.ProductableType != "" {
		tag = existing.ProductableType
	}
	if kind, ok := models.LookupProductable(tag); ok {
		attrs.Productable = api.Permit(body, "product", kind.Attributes...)
	}

	var oldImage, newImage string
	if existing != nil {
		oldImage = existing.Image
	}
	if file := uploadedImage(r); file != nil {
		key, err := h.storeImage(file)
		if errors.Is(err, storage.ErrUnsupportedImage) {
			api.Invalid(w, models.FieldErrors{"image": {"must be a JPEG, PNG, GIF or WebP image"}})
			return
		}
		if err != nil {
			api.Failed(w, err, "Failed to store image")
			return
		}
		newImage = key
		attrs.Product["image"] = key
	}

	product, err := h.saver.Save(r.Context(), attrs, existing)
	if err != nil {
		h.removeImage(newImage)
		api.Failed(w, err, "Failed to save product")
		return
	}
	if newImage != "" && oldImage != newImage {
		h.removeImage(oldImage)
	}
	api.JSON(w, http.StatusOK, map[string]interface{}{"product": h.toResponse(product)})
}

func uploadedImage(r *http.Request) *multipart.FileHeader {
	if r.MultipartForm == nil {
		return nil
	}
	for _, key := range imageKeys {
		if files := r.MultipartForm.File[key]; len(files) > 0 {
			return files[0]
		}
	}
	return nil
}

func (h *ProductHandler) storeImage(file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()
	return h.images.Save(strings.TrimSpace(file.Filename), src)
}

func (h *ProductHandler) removeImage(key string) {
	if key == "" {
		return
	}
	if err := h.images.Delete(key); err != nil {
		zap.L().Warn("remove product image", zap.String("key", key), zap.Error(err))
	}
}
