package handler

import (
	"errors"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/d60-Lab/compliment-api/internal/service"
	"github.com/d60-Lab/compliment-api/pkg/response"
)

// Handler 聚合各业务 handler 依赖
type Handler struct {
	authService       service.AuthService
	receiverService   service.ReceiverService
	complimentService service.ComplimentService
	secureCookies     bool
}

func NewHandler(auth service.AuthService, receivers service.ReceiverService, compliments service.ComplimentService, secureCookies bool) *Handler {
	return &Handler{
		authService:       auth,
		receiverService:   receivers,
		complimentService: compliments,
		secureCookies:     secureCookies,
	}
}

var registerOnce sync.Once

// RegisterValidators 注册自定义校验 tag（notblank）
func RegisterValidators() {
	registerOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			_ = v.RegisterValidation("notblank", validators.NotBlank)
		}
	})
}

// writeError 业务错误映射为 HTTP 状态码
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrReceiverNotFound),
		errors.Is(err, service.ErrComplimentNotFound),
		errors.Is(err, service.ErrNoCompliments),
		errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, rootMessage(err))
	case errors.Is(err, service.ErrForbidden):
		response.Forbidden(c, rootMessage(err))
	case errors.Is(err, service.ErrOAuthExchange):
		response.Unauthorized(c, service.ErrOAuthExchange.Error())
	default:
		response.InternalError(c, err)
	}
}

func rootMessage(err error) string {
	msg := err.Error()
	if i := strings.LastIndex(msg, ": "); i >= 0 {
		return msg[i+2:]
	}
	return msg
}
