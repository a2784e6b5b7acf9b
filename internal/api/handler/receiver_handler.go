package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/compliment-api/internal/api/middleware"
	"github.com/d60-Lab/compliment-api/pkg/response"
)

type receiverRequest struct {
	Name string `json:"name" binding:"required,notblank,max=255"`
}

// ListReceivers 当前用户的接收者列表
// @Summary 接收者列表
// @Tags 接收者
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Success 200 {object} response.Response{data=map[string]interface{}}
// @Router /api/v1/receivers [get]
func (h *Handler) ListReceivers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	list, err := h.receiverService.List(c.Request.Context(), middleware.UserID(c), page, pageSize)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, gin.H{"page": page, "page_size": pageSize, "list": list})
}

// CreateReceiver 新建接收者
// @Summary 新建接收者
// @Tags 接收者
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body receiverRequest true "接收者信息"
// @Success 201 {object} response.Response{data=model.Receiver}
// @Failure 400 {object} response.Response
// @Router /api/v1/receivers [post]
func (h *Handler) CreateReceiver(c *gin.Context) {
	var req receiverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	rc, err := h.receiverService.Create(c.Request.Context(), middleware.UserID(c), req.Name)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Created(c, rc)
}

// GetReceiver 查询接收者
// @Summary 查询接收者
// @Tags 接收者
// @Produce json
// @Security BearerAuth
// @Param receiver_id path string true "接收者ID"
// @Success 200 {object} response.Response{data=model.Receiver}
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/receivers/{receiver_id} [get]
func (h *Handler) GetReceiver(c *gin.Context) {
	rc, err := h.receiverService.Get(c.Request.Context(), middleware.UserID(c), c.Param("receiver_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, rc)
}

// UpdateReceiver 重命名接收者
// @Summary 重命名接收者
// @Tags 接收者
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param receiver_id path string true "接收者ID"
// @Param request body receiverRequest true "接收者信息"
// @Success 200 {object} response.Response{data=model.Receiver}
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/receivers/{receiver_id} [put]
func (h *Handler) UpdateReceiver(c *gin.Context) {
	var req receiverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	rc, err := h.receiverService.Rename(c.Request.Context(), middleware.UserID(c), c.Param("receiver_id"), req.Name)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, rc)
}

// DeleteReceiver 删除接收者（连同其赞美）
// @Summary 删除接收者
// @Tags 接收者
// @Security BearerAuth
// @Param receiver_id path string true "接收者ID"
// @Success 204
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/receivers/{receiver_id} [delete]
func (h *Handler) DeleteReceiver(c *gin.Context) {
	if err := h.receiverService.Delete(c.Request.Context(), middleware.UserID(c), c.Param("receiver_id")); err != nil {
		writeError(c, err)
		return
	}
	response.NoContent(c)
}
