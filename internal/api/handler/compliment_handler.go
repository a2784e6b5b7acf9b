package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/compliment-api/internal/api/middleware"
	"github.com/d60-Lab/compliment-api/pkg/response"
)

type complimentRequest struct {
	Text string `json:"text" binding:"required,notblank,max=255"`
}

// ListCompliments 接收者的全部赞美（最久未展示在前）
// @Summary 赞美列表
// @Tags 赞美
// @Produce json
// @Security BearerAuth
// @Param receiver_id path string true "接收者ID"
// @Success 200 {object} response.Response{data=[]model.Compliment}
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/receivers/{receiver_id}/compliments [get]
func (h *Handler) ListCompliments(c *gin.Context) {
	list, err := h.complimentService.List(c.Request.Context(), middleware.UserID(c), c.Param("receiver_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, list)
}

// CreateCompliment 新增赞美
// @Summary 新增赞美
// @Tags 赞美
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param receiver_id path string true "接收者ID"
// @Param request body complimentRequest true "赞美内容"
// @Success 201 {object} response.Response{data=model.Compliment}
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/receivers/{receiver_id}/compliments [post]
func (h *Handler) CreateCompliment(c *gin.Context) {
	var req complimentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	cm, err := h.complimentService.Create(c.Request.Context(), middleware.UserID(c), c.Param("receiver_id"), req.Text)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Created(c, cm)
}

// GetCompliment 查询单条赞美
// @Summary 查询赞美
// @Tags 赞美
// @Produce json
// @Security BearerAuth
// @Param receiver_id path string true "接收者ID"
// @Param compliment_id path string true "赞美ID"
// @Success 200 {object} response.Response{data=model.Compliment}
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/receivers/{receiver_id}/compliments/{compliment_id} [get]
func (h *Handler) GetCompliment(c *gin.Context) {
	cm, err := h.complimentService.Get(c.Request.Context(), middleware.UserID(c), c.Param("receiver_id"), c.Param("compliment_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, cm)
}

// UpdateCompliment 修改赞美内容
// @Summary 修改赞美
// @Tags 赞美
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param receiver_id path string true "接收者ID"
// @Param compliment_id path string true "赞美ID"
// @Param request body complimentRequest true "赞美内容"
// @Success 200 {object} response.Response{data=model.Compliment}
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/receivers/{receiver_id}/compliments/{compliment_id} [put]
func (h *Handler) UpdateCompliment(c *gin.Context) {
	var req complimentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	cm, err := h.complimentService.Update(c.Request.Context(), middleware.UserID(c), c.Param("receiver_id"), c.Param("compliment_id"), req.Text)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, cm)
}

// DeleteCompliment 删除赞美
// @Summary 删除赞美
// @Tags 赞美
// @Security BearerAuth
// @Param receiver_id path string true "接收者ID"
// @Param compliment_id path string true "赞美ID"
// @Success 204
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/receivers/{receiver_id}/compliments/{compliment_id} [delete]
func (h *Handler) DeleteCompliment(c *gin.Context) {
	err := h.complimentService.Delete(c.Request.Context(), middleware.UserID(c), c.Param("receiver_id"), c.Param("compliment_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.NoContent(c)
}

// RandomCompliment 随机取一条赞美（越久没展示越容易选中）
// @Summary 随机赞美
// @Tags 赞美
// @Produce json
// @Security BearerAuth
// @Param receiver_id path string true "接收者ID"
// @Success 200 {object} response.Response{data=model.Compliment}
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/receivers/{receiver_id}/compliments/random [get]
func (h *Handler) RandomCompliment(c *gin.Context) {
	cm, err := h.complimentService.Random(c.Request.Context(), middleware.UserID(c), c.Param("receiver_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, cm)
}

// RandomCompliments 不重复地随机取多条赞美
// @Summary 随机赞美（批量）
// @Description count 缺省、非法或 <=0 时返回全部；超过总数时返回全部
// @Tags 赞美
// @Produce json
// @Security BearerAuth
// @Param receiver_id path string true "接收者ID"
// @Param count query int false "数量"
// @Success 200 {object} response.Response{data=[]model.Compliment}
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/receivers/{receiver_id}/compliments/random/batch [get]
func (h *Handler) RandomCompliments(c *gin.Context) {
	count, err := strconv.Atoi(c.Query("count"))
	if err != nil {
		count = 0
	}
	list, err := h.complimentService.RandomBatch(c.Request.Context(), middleware.UserID(c), c.Param("receiver_id"), count)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, list)
}
