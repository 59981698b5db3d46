package transport

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KunN-21/Bus-ticket/internal/entity"
	"github.com/KunN-21/Bus-ticket/internal/service"
	"github.com/KunN-21/Bus-ticket/internal/transport/middleware"
)

type CancellationHandler struct {
	cancellationService service.CancellationService
}

func NewCancellationHandler(cancellationService service.CancellationService) *CancellationHandler {
	return &CancellationHandler{cancellationService: cancellationService}
}

func (h *CancellationHandler) CreateRequest(c *gin.Context) {
	var req service.CreateCancellationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	customerID := c.GetString(middleware.CustomerIDKey)

	request, err := h.cancellationService.CreateRequest(c.Request.Context(), customerID, &req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, SuccessResponse{
		Success: true,
		Message: "cancellation request submitted",
		Data:    request,
	})
}

func (h *CancellationHandler) MyRequests(c *gin.Context) {
	customerID := c.GetString(middleware.CustomerIDKey)

	requests, err := h.cancellationService.RequestsByCustomer(c.Request.Context(), customerID)
	if err != nil {
		writeError(c, err)
		return
	}
	if requests == nil {
		requests = []*entity.CancellationRequest{}
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Message: "cancellation requests retrieved",
		Data:    requests,
		Meta:    map[string]interface{}{"total": len(requests)},
	})
}

func (h *CancellationHandler) PendingRequests(c *gin.Context) {
	requests, err := h.cancellationService.PendingRequests(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	if requests == nil {
		requests = []*entity.CancellationRequest{}
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Message: "pending cancellation requests retrieved",
		Data:    requests,
		Meta:    map[string]interface{}{"total": len(requests)},
	})
}

func (h *CancellationHandler) ResolveRequest(c *gin.Context) {
	var req service.ResolveCancellationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	staffID := c.GetString(middleware.StaffIDKey)

	request, err := h.cancellationService.Resolve(c.Request.Context(), c.Param("code"), &req, staffID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Message: "cancellation request " + string(request.Status),
		Data:    request,
	})
}
