package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"

	"pumpselect/pkg/logger"
	"pumpselect/service"
)

type Handler struct {
	svc *service.Service
}

func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) ImportCatalog(c *gin.Context) {
	var req importCatalogRequest
	if err := c.ShouldBind(&req); err != nil {
		logger.Logger.Errorf("获取上传的样本文件失败: %v", err)
		c.JSON(http.StatusBadRequest, fail(errBadRequest, err.Error()))
		return
	}

	file, err := req.File.Open()
	if err != nil {
		logger.Logger.Errorf("无法打开文件: %v", err)
		c.JSON(http.StatusInternalServerError, fail(errInternalServer, err.Error()))
		return
	}
	defer file.Close()

	result, err := h.svc.ImportCatalog(file, req.Cover)
	if err != nil {
		c.JSON(http.StatusInternalServerError, fail(errInternalServer, err.Error()))
		return
	}
	c.JSON(http.StatusOK, success(result))

	logger.Logger.Infof("导入 %s 成功！", req.File.Filename)
}

func (h *Handler) GetPumpList(c *gin.Context) {
	pumps, err := h.svc.GetAllPumps()
	if err != nil {
		c.JSON(http.StatusInternalServerError, fail(errInternalServer, err.Error()))
		return
	}
	c.JSON(http.StatusOK, success(pumps))
}

func (h *Handler) GetPump(c *gin.Context) {
	var uri pumpCodeUri
	if err := c.ShouldBindUri(&uri); err != nil {
		logger.Logger.Errorf("路径参数有误: %v", err)
		c.JSON(http.StatusBadRequest, fail(errBadRequest, err.Error()))
		return
	}

	pump, err := h.svc.GetPumpByCode(uri.Code)
	if errors.Is(err, service.ErrPumpNotFound) {
		c.JSON(http.StatusNotFound, fail(errNotFound, err.Error()))
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, fail(errInternalServer, err.Error()))
		return
	}
	c.JSON(http.StatusOK, success(pump))
}

func (h *Handler) Evaluate(c *gin.Context) {
	var req evaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Logger.Errorf("评估请求参数有误: %v", err)
		c.JSON(http.StatusBadRequest, fail(errBadRequest, err.Error()))
		return
	}

	pump, err := h.svc.GetPumpByCode(req.PumpCode)
	if errors.Is(err, service.ErrPumpNotFound) {
		c.JSON(http.StatusNotFound, fail(errNotFound, err.Error()))
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, fail(errInternalServer, err.Error()))
		return
	}

	c.JSON(http.StatusOK, success(h.svc.EvaluatePump(pump, req.Flow, req.Head)))
}

func (h *Handler) SelectBest(c *gin.Context) {
	var req selectBestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Logger.Errorf("选型请求参数有误: %v", err)
		c.JSON(http.StatusBadRequest, fail(errBadRequest, err.Error()))
		return
	}

	results, err := h.svc.FindBestPumps(req.Flow, req.Head, service.SelectionConstraints{
		PumpType: req.PumpType,
		Modality: service.Modality(req.Modality),
		Limit:    req.Limit,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, fail(errInternalServer, err.Error()))
		return
	}
	c.JSON(http.StatusOK, success(results))
}

func (h *Handler) ProximitySearch(c *gin.Context) {
	flow := cast.ToFloat64(c.Query("flow"))
	head := cast.ToFloat64(c.Query("head"))
	if flow <= 0 || head <= 0 {
		c.JSON(http.StatusBadRequest, fail(errBadRequest, "flow 和 head 必须为正数"))
		return
	}
	limit := cast.ToInt(c.DefaultQuery("limit", "10"))

	matches, err := h.svc.ProximitySearch(flow, head, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, fail(errInternalServer, err.Error()))
		return
	}
	c.JSON(http.StatusOK, success(matches))
}

func (h *Handler) GetPerformance(c *gin.Context) {
	var uri pumpCodeUri
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, fail(errBadRequest, err.Error()))
		return
	}

	flow := cast.ToFloat64(c.Query("flow"))
	if flow <= 0 {
		c.JSON(http.StatusBadRequest, fail(errBadRequest, "flow 必须为正数"))
		return
	}
	allowExcessiveTrim := cast.ToBool(c.DefaultQuery("allowExcessiveTrim", "false"))

	est, err := h.svc.PerformanceAtFlow(uri.Code, flow, allowExcessiveTrim)
	if errors.Is(err, service.ErrPumpNotFound) {
		c.JSON(http.StatusNotFound, fail(errNotFound, err.Error()))
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, fail(errInternalServer, err.Error()))
		return
	}
	c.JSON(http.StatusOK, success(est))
}
