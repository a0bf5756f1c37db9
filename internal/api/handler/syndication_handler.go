package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/usman-fahimullah/canopy-syndication/internal/model"
	"github.com/usman-fahimullah/canopy-syndication/internal/service"
	"github.com/usman-fahimullah/canopy-syndication/pkg/response"
)

// Handler 同步相关 HTTP 入口
type Handler struct {
	svc       service.SyndicationService
	processor *service.Processor
}

func New(svc service.SyndicationService, processor *service.Processor) *Handler {
	return &Handler{svc: svc, processor: processor}
}

type enqueueRequest struct {
	JobID     string   `json:"job_id" binding:"required"`
	Platforms []string `json:"platforms" binding:"required,min=1"`
	Action    string   `json:"action" binding:"required,oneof=post update remove"`
}

// Enqueue 入列同步任务
// @Summary 为职位入列同步任务（每个平台一条）
// @Tags 同步
// @Accept json
// @Produce json
// @Param request body enqueueRequest true "入列信息"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /api/v1/syndication/enqueue [post]
func (h *Handler) Enqueue(c *gin.Context) {
	var req enqueueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	platforms := make([]model.Platform, len(req.Platforms))
	for i, p := range req.Platforms {
		platforms[i] = model.Platform(p)
	}
	count, err := h.svc.Enqueue(c.Request.Context(), req.JobID, platforms, model.Action(req.Action))
	if err != nil {
		if errors.Is(err, service.ErrEmptyJobID) || errors.Is(err, service.ErrNoPlatforms) || errors.Is(err, service.ErrUnknownAction) {
			response.BadRequest(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Success(c, gin.H{"count": count})
}

type processRequest struct {
	BatchSize int `json:"batch_size"`
}

// Process 触发一次批处理
// @Summary 处理一批 pending 同步任务
// @Tags 同步
// @Accept json
// @Produce json
// @Param request body processRequest false "批大小，默认 20"
// @Success 200 {object} response.Response{data=service.Stats}
// @Failure 500 {object} response.Response
// @Router /api/v1/syndication/process [post]
func (h *Handler) Process(c *gin.Context) {
	var req processRequest
	_ = c.ShouldBindJSON(&req)
	stats, err := h.processor.ProcessPending(c.Request.Context(), req.BatchSize)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, stats)
}

// JobStatus 查询职位同步状态
// @Summary 查询某职位的同步日志与各平台最新状态
// @Tags 同步
// @Param job_id path string true "职位ID"
// @Success 200 {object} response.Response{data=service.StatusReport}
// @Failure 500 {object} response.Response
// @Router /api/v1/jobs/{job_id}/syndication [get]
func (h *Handler) JobStatus(c *gin.Context) {
	report, err := h.svc.Status(c.Request.Context(), c.Param("job_id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, report)
}

// Retry 重试失败任务
// @Summary 将 failed 任务重置为 pending
// @Tags 同步
// @Param id path string true "日志ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /api/v1/syndication/{id}/retry [post]
func (h *Handler) Retry(c *gin.Context) {
	log, err := h.svc.Retry(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if log == nil {
		response.NotFound(c, "log not found or not failed")
		return
	}
	response.Success(c, log)
}
