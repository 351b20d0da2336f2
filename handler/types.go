package handler

import "mime/multipart"

type errcode int

const (
	errBadRequest errcode = 10001 + iota
	errInternalServer
	errNotFound
)

func (e errcode) String() string {
	switch e {
	case errBadRequest:
		return "请求内容有误"
	case errInternalServer:
		return "服务处理错误"
	case errNotFound:
		return "资源不存在"
	default:
		return "未知错误"
	}
}

type apiResponse struct {
	Code    errcode `json:"code"`
	Message string  `json:"message"`
	Data    any     `json:"data,omitempty"`
}

func success(data any) apiResponse {
	return apiResponse{
		Code:    0,
		Message: "success",
		Data:    data,
	}
}

func fail(code errcode, message string) apiResponse {
	return apiResponse{
		Code:    code,
		Message: message,
	}
}

type importCatalogRequest struct {
	File  *multipart.FileHeader `form:"file" binding:"required"`
	Cover bool                  `form:"cover"`
}

type pumpCodeUri struct {
	Code string `uri:"code" binding:"required"`
}

// 工况点：流量 m³/h，扬程 m
type dutyPoint struct {
	Flow float64 `json:"flow" binding:"required,gt=0"`
	Head float64 `json:"head" binding:"required,gt=0"`
}

type evaluateRequest struct {
	PumpCode string `json:"pumpCode" binding:"required"`
	dutyPoint
}

type selectBestRequest struct {
	dutyPoint
	PumpType string `json:"pumpType"`
	Modality string `json:"modality"`
	Limit    int    `json:"limit"`
}
