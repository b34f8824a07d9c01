// Package server wires repositories, services and handlers into the
// HTTP route table.
package server

import (
	"net/http"

	"github.com/gamestore/store-admin/app/api"
	"github.com/gamestore/store-admin/app/auth"
	"github.com/gamestore/store-admin/app/categories"
	"github.com/gamestore/store-admin/app/coupons"
	"github.com/gamestore/store-admin/app/home"
	"github.com/gamestore/store-admin/app/licenses"
	"github.com/gamestore/store-admin/app/products"
	"github.com/gamestore/store-admin/app/saving"
	"github.com/gamestore/store-admin/app/storage"
	"github.com/gamestore/store-admin/app/systemrequirements"
	"github.com/gamestore/store-admin/config"
	"github.com/gamestore/store-admin/models"
	"gorm.io/gorm"
)

type resourceHandler interface {
	HandleGetAll(w http.ResponseWriter, r *http.Request)
	HandleGet(w http.ResponseWriter, r *http.Request)
	HandleCreate(w http.ResponseWriter, r *http.Request)
	HandleUpdate(w http.ResponseWriter, r *http.Request)
	HandleDelete(w http.ResponseWriter, r *http.Request)
}

// NewRouter returns the application handler.
func NewRouter(db *gorm.DB, cfg *config.Config, images *storage.Local) http.Handler {
	users := models.NewUsersRepository(db)
	tokens := auth.NewTokens(cfg.Auth)
	guard := auth.NewAuthenticator(tokens, users).RequireAdmin

	mux := http.NewServeMux()

	userHandler := auth.NewUserHandler(users, tokens)
	mux.HandleFunc("POST /auth/v1/user", userHandler.HandleSignUp)
	mux.HandleFunc("PATCH /auth/v1/user", userHandler.HandleUpdate)
	mux.HandleFunc("PUT /auth/v1/user", userHandler.HandleUpdate)
	mux.HandleFunc("DELETE /auth/v1/user", userHandler.HandleDelete)
	mux.HandleFunc("POST /auth/v1/user/sign_in", userHandler.HandleSignIn)
	mux.HandleFunc("DELETE /auth/v1/user/sign_out", userHandler.HandleSignOut)

	mux.Handle("GET /admin/v1/home", guard(http.HandlerFunc(home.HandleIndex)))

	paging := cfg.Pagination
	mount(mux, guard, "/admin/v1/categories",
		categories.NewCategoryHandler(models.NewCategoriesRepository(db, paging)))
	mount(mux, guard, "/admin/v1/coupons",
		coupons.NewCouponHandler(models.NewCouponsRepository(db, paging)))
	mount(mux, guard, "/admin/v1/licenses",
		licenses.NewLicenseHandler(models.NewLicensesRepository(db, paging)))
	mount(mux, guard, "/admin/v1/system_requirements",
		systemrequirements.NewSystemRequirementHandler(models.NewSystemRequirementsRepository(db, paging)))
	mount(mux, guard, "/admin/v1/products",
		products.NewProductHandler(models.NewProductsRepository(db, paging), saving.NewService(db), images))

	mux.Handle("GET "+storage.URLPrefix, images.Handler())

	return api.Recover(api.LogRequests(mux))
}

// mount registers the CRUD routes of a resource behind guard. PUT is an
// alias of PATCH.
func mount(mux *http.ServeMux, guard func(http.Handler) http.Handler, prefix string, h resourceHandler) {
	item := prefix + "/{id}"
	mux.Handle("GET "+prefix, guard(http.HandlerFunc(h.HandleGetAll)))
	mux.Handle("POST "+prefix, guard(http.HandlerFunc(h.HandleCreate)))
	mux.Handle("GET "+item, guard(http.HandlerFunc(h.HandleGet)))
	mux.Handle("PATCH "+item, guard(http.HandlerFunc(h.HandleUpdate)))
	mux.Handle("PUT "+item, guard(http.HandlerFunc(h.HandleUpdate)))
	mux.Handle("DELETE "+item, guard(http.HandlerFunc(h.HandleDelete)))
}
