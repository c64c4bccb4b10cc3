package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"talentpool/internal/app"
	"talentpool/internal/common"
	"talentpool/internal/http/middleware"
	"talentpool/internal/http/response"
)

type AuthHandler struct {
	auth *app.AuthService
}

func NewAuthHandler(auth *app.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	session, err := h.auth.Register(c.Request.Context(), app.Credentials{Username: req.Username, Email: req.Email, Password: req.Password})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, tokenResponse{Token: session.Token})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	session, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, tokenResponse{Token: session.Token})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	token, ok := middleware.TokenFromContext(c)
	if !ok {
		response.Error(c, common.NewError(common.CodeUnauthorized, "missing token", nil))
		return
	}
	if err := h.auth.Logout(c.Request.Context(), token); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
