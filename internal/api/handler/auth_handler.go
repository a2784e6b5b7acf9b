package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/d60-Lab/compliment-api/internal/api/middleware"
	"github.com/d60-Lab/compliment-api/pkg/response"
)

const stateCookie = "oauth_state"

// Login 获取第三方登录地址
// @Summary 获取 OAuth 登录地址
// @Tags 认证
// @Produce json
// @Success 200 {object} response.Response{data=map[string]string}
// @Router /api/v1/auth/login [get]
func (h *Handler) Login(c *gin.Context) {
	state := uuid.New().String()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(stateCookie, state, 600, "/", "", h.secureCookies, true)
	response.Success(c, gin.H{"url": h.authService.LoginURL(state)})
}

// Callback OAuth 回调，换取 bearer token
// @Summary OAuth 回调
// @Tags 认证
// @Produce json
// @Param code query string true "授权码"
// @Param state query string true "登录时下发的 state"
// @Success 200 {object} response.Response{data=service.LoginResult}
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /api/v1/auth/callback [get]
func (h *Handler) Callback(c *gin.Context) {
	state, err := c.Cookie(stateCookie)
	if err != nil || state == "" || state != c.Query("state") {
		response.BadRequest(c, "invalid oauth state")
		return
	}
	c.SetCookie(stateCookie, "", -1, "/", "", h.secureCookies, true)

	res, err := h.authService.Callback(c.Request.Context(), c.Query("code"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, res)
}

// Me 当前登录用户
// @Summary 当前用户
// @Tags 认证
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=model.User}
// @Failure 401 {object} response.Response
// @Router /api/v1/auth/me [get]
func (h *Handler) Me(c *gin.Context) {
	u, err := h.authService.Me(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, u)
}
