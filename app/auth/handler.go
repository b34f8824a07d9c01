package auth

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gamestore/store-admin/app/api"
	"github.com/gamestore/store-admin/models"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Session headers returned on sign-up and sign-in.
const (
	HeaderAccessToken = "access-token"
	HeaderClient      = "client"
	HeaderUID         = "uid"
	HeaderExpiry      = "expiry"
	HeaderTokenType   = "token-type"
)

type UserResponse struct {
	ID      uint               `json:"id"`
	UID     string             `json:"uid"`
	Name    string             `json:"name"`
	Email   string             `json:"email"`
	Profile models.UserProfile `json:"profile"`
}

func toUserResponse(u *models.User) UserResponse {
	return UserResponse{ID: u.ID, UID: u.Email, Name: u.Name, Email: u.Email, Profile: u.Profile}
}

type UserProvider interface {
	SessionProvider
	SaveUser(ctx context.Context, user *models.User) error
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	DeleteUser(ctx context.Context, user *models.User) error
	CreateSession(ctx context.Context, session *models.UserSession) error
	DeleteSession(ctx context.Context, client string) error
}

type UserHandler struct {
	users  UserProvider
	tokens *Tokens
	auth   *Authenticator
}

func NewUserHandler(users UserProvider, tokens *Tokens) *UserHandler {
	return &UserHandler{users: users, tokens: tokens, auth: NewAuthenticator(tokens, users)}
}

var userAttributes = []string{"name", "email", "password", "password_confirmation"}

func (h *UserHandler) HandleSignUp(w http.ResponseWriter, r *http.Request) {
	body, err := api.DecodeBody(r)
	if err != nil {
		api.Error(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	user := &models.User{Profile: models.ProfileClient}
	if !h.assignAndSave(w, r, user, api.Permit(body, "user", userAttributes...)) {
		return
	}
	if err := h.startSession(r.Context(), w, user); err != nil {
		zap.L().Error("start session", zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "Failed to start session")
		return
	}
	api.JSON(w, http.StatusOK, map[string]interface{}{"status": "success", "data": toUserResponse(user)})
}

func (h *UserHandler) HandleSignIn(w http.ResponseWriter, r *http.Request) {
	body, err := api.DecodeBody(r)
	if err != nil {
		api.Error(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	attrs := api.Permit(body, "user", "email", "password")
	email, _ := attrs["email"].(string)
	password, _ := attrs["password"].(string)

	user, err := h.users.Authenticate(r.Context(), email, password)
	if err != nil {
		if !errors.Is(err, models.ErrInvalidCredentials) {
			zap.L().Error("authenticate", zap.Error(err))
		}
		api.JSON(w, http.StatusUnauthorized, map[string]interface{}{
			"success": false,
			"errors":  []string{"Invalid login credentials. Please try again."},
		})
		return
	}

	if err := h.startSession(r.Context(), w, user); err != nil {
		zap.L().Error("start session", zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "Failed to start session")
		return
	}
	api.JSON(w, http.StatusOK, map[string]interface{}{"data": toUserResponse(user)})
}

func (h *UserHandler) HandleSignOut(w http.ResponseWriter, r *http.Request) {
	id, err := h.auth.Identify(r)
	if err != nil {
		api.JSON(w, http.StatusNotFound, map[string]interface{}{
			"success": false,
			"errors":  []string{"User was not found or was not logged in."},
		})
		return
	}
	if err := h.users.DeleteSession(r.Context(), id.Client); err != nil {
		zap.L().Error("delete session", zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "Failed to sign out")
		return
	}
	api.JSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

func (h *UserHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := h.auth.Identify(r)
	if err != nil {
		api.JSON(w, http.StatusNotFound, map[string]interface{}{
			"status": "error",
			"errors": []string{"User not found."},
		})
		return
	}
	body, err := api.DecodeBody(r)
	if err != nil {
		api.Error(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if !h.assignAndSave(w, r, id.User, api.Permit(body, "user", userAttributes...)) {
		return
	}
	api.JSON(w, http.StatusOK, map[string]interface{}{"status": "success", "data": toUserResponse(id.User)})
}

func (h *UserHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := h.auth.Identify(r)
	if err != nil {
		api.JSON(w, http.StatusNotFound, map[string]interface{}{
			"status": "error",
			"errors": []string{"Unable to locate account for destruction."},
		})
		return
	}
	if err := h.users.DeleteUser(r.Context(), id.User); err != nil {
		zap.L().Error("delete user", zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "Failed to delete account")
		return
	}
	api.JSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Account with UID '" + id.User.Email + "' has been destroyed.",
	})
}

// assignAndSave applies attrs to user and stores it, writing the error
// response itself. It reports whether the user was saved.
func (h *UserHandler) assignAndSave(w http.ResponseWriter, r *http.Request, user *models.User, attrs map[string]interface{}) bool {
	err := models.Assign(user, attrs)
	if err == nil {
		err = h.users.SaveUser(r.Context(), user)
	}
	if err == nil {
		return true
	}

	var verr *models.ValidationError
	if errors.As(err, &verr) {
		api.JSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"status": "error",
			"errors": verr.Fields,
		})
		return false
	}
	zap.L().Error("save user", zap.Error(err))
	api.Error(w, http.StatusInternalServerError, "Failed to save user")
	return false
}

func (h *UserHandler) startSession(ctx context.Context, w http.ResponseWriter, user *models.User) error {
	session := &models.UserSession{
		UserID:    user.ID,
		Client:    uuid.NewString(),
		ExpiresAt: time.Now().Add(h.tokens.TTL()),
	}
	if err := h.users.CreateSession(ctx, session); err != nil {
		return err
	}
	token, err := h.tokens.Issue(user.ID, user.Email, session.Client, session.ExpiresAt)
	if err != nil {
		return err
	}

	header := w.Header()
	header.Set(HeaderAccessToken, token)
	header.Set(HeaderClient, session.Client)
	header.Set(HeaderUID, user.Email)
	header.Set(HeaderExpiry, strconv.FormatInt(session.ExpiresAt.Unix(), 10))
	header.Set(HeaderTokenType, "Bearer")
	header.Set("Authorization", "Bearer "+token)
	return nil
}
