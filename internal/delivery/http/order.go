package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"freightdesk/internal/models"
	"freightdesk/internal/service"
)

type stopRequest struct {
	Sequence    int             `json:"sequence" binding:"required,gt=0"`
	Latitude    *float64        `json:"latitude" binding:"required,gte=-90,lte=90"`
	Longitude   *float64        `json:"longitude" binding:"required,gte=-180,lte=180"`
	PlannedTime *time.Time      `json:"plannedTime"`
	Address     string          `json:"address" binding:"required"`
	StopType    models.StopType `json:"stopType" binding:"omitempty,oneof=PICKUP DELIVERY"`
	City        string          `json:"city"`
	State       string          `json:"state"`
}

type createOrderRequest struct {
	CustomerID    uint               `json:"customerId" binding:"required"`
	Reference     string             `json:"reference"`
	Status        models.OrderStatus `json:"status" binding:"omitempty,oneof=DRAFT QUOTED CONFIRMED"`
	Notes         string             `json:"notes"`
	RouteGeometry models.Polyline    `json:"routeGeometry"`
	EquipmentType string             `json:"equipmentType"`
	Commodity     string             `json:"commodity"`
	WeightLbs     *float64           `json:"weightLbs" binding:"omitempty,gt=0"`
	Miles         *float64           `json:"miles" binding:"omitempty,gt=0"`
	Rate          *float64           `json:"rate" binding:"omitempty,gt=0"`
	Flags         models.Flags       `json:"flags"`
	Stops         []stopRequest      `json:"stops" binding:"required,min=1,dive"`
}

type createOrderResponse struct {
	ID uint `json:"id"`
}

type updateStopsRequest struct {
	Stops []stopRequest `json:"stops" binding:"required,min=1,dive"`
}

type updateRateRequest struct {
	Rate *float64 `json:"rate" binding:"required,gt=0"`
}

// CreateOrder
// @Summary CreateOrder
// @Description Creates an order together with its stops in one transaction
// @Tags orders
// @ID create-order
// @Accept json
// @Produce json
// @Param input body createOrderRequest true "order payload"
// @Success 201 {object} createOrderResponse
// @Failure 400,404 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /api/orders [post]
func (h *Handler) CreateOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		newErrorResponse(c, http.StatusBadRequest, bindError(err))
		return
	}
	if dup, seq := duplicateSequence(req.Stops); dup {
		newErrorResponse(c, http.StatusBadRequest, fmt.Sprintf("duplicate stop sequence %d", seq))
		return
	}

	id, err := h.orders.CreateOrder(c.Request.Context(), service.CreateOrderInput{
		CustomerID:    req.CustomerID,
		Reference:     req.Reference,
		Status:        req.Status,
		Notes:         req.Notes,
		RouteGeometry: req.RouteGeometry,
		EquipmentType: req.EquipmentType,
		Commodity:     req.Commodity,
		WeightLbs:     req.WeightLbs,
		Miles:         req.Miles,
		Rate:          req.Rate,
		Flags:         req.Flags,
		Stops:         toStopInputs(req.Stops),
	})
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			newErrorResponse(c, http.StatusNotFound, "customer not found")
			return
		}
		newErrorResponse(c, http.StatusInternalServerError, "failed to create order")
		return
	}

	c.JSON(http.StatusCreated, createOrderResponse{ID: id})
}

// ListOrders
// @Summary ListOrders
// @Description Lists orders with pagination, free-text search and sorting
// @Tags orders
// @ID list-orders
// @Produce json
// @Param query query string false "matches reference and customer name; an integer also matches the order id"
// @Param page query int false "page number" default(1)
// @Param limit query int false "page size" default(10)
// @Param sort query string false "newest | oldest | shortest | longest" default(newest)
// @Success 200 {object} dto.OrderPage
// @Failure 400 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /api/orders [get]
func (h *Handler) ListOrders(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		newErrorResponse(c, http.StatusBadRequest, "invalid page")
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 {
		newErrorResponse(c, http.StatusBadRequest, "invalid limit")
		return
	}

	result, err := h.orders.ListOrders(c.Request.Context(), service.ListQuery{
		Query: strings.TrimSpace(c.Query("query")),
		Page:  page,
		Limit: limit,
		Sort:  c.Query("sort"),
	})
	if err != nil {
		newErrorResponse(c, http.StatusInternalServerError, "failed to list orders")
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetOrderCounts
// @Summary GetOrderCounts
// @Description Returns the total order count and total delivery-stop count
// @Tags orders
// @ID get-order-counts
// @Produce json
// @Success 200 {object} dto.OrderCounts
// @Failure 500 {object} errorResponse
// @Router /api/orders/counts [get]
func (h *Handler) GetOrderCounts(c *gin.Context) {
	counts, err := h.orders.GetOrderCounts(c.Request.Context())
	if err != nil {
		newErrorResponse(c, http.StatusInternalServerError, "failed to get order counts")
		return
	}
	c.JSON(http.StatusOK, counts)
}

// GetOrderByID
// @Summary GetOrderByID
// @Description Returns the order detail view with stops sorted by sequence
// @Tags orders
// @ID get-order-by-id
// @Produce json
// @Param id path int true "order id"
// @Success 200 {object} dto.OrderDetail
// @Failure 400,404 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /api/orders/{id} [get]
func (h *Handler) GetOrderByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	order, err := h.orders.GetOrderByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			newErrorResponse(c, http.StatusNotFound, "order not found")
			return
		}
		newErrorResponse(c, http.StatusInternalServerError, "failed to fetch order")
		return
	}

	c.JSON(http.StatusOK, order)
}

// UpdateStops
// @Summary UpdateStops
// @Description Replaces the order's entire stop set and recomputes its route geometry
// @Tags orders
// @ID update-stops
// @Accept json
// @Produce json
// @Param id path int true "order id"
// @Param input body updateStopsRequest true "replacement stop set"
// @Success 200 {object} statusResponse
// @Failure 400,404 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /api/orders/{id}/stops [post]
func (h *Handler) UpdateStops(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req updateStopsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		newErrorResponse(c, http.StatusBadRequest, bindError(err))
		return
	}
	if dup, seq := duplicateSequence(req.Stops); dup {
		newErrorResponse(c, http.StatusBadRequest, fmt.Sprintf("duplicate stop sequence %d", seq))
		return
	}

	if err := h.orders.UpdateStops(c.Request.Context(), id, toStopInputs(req.Stops)); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			newErrorResponse(c, http.StatusNotFound, "order not found")
			return
		}
		newErrorResponse(c, http.StatusInternalServerError, "failed to update stops")
		return
	}

	c.JSON(http.StatusOK, statusResponse{Status: "ok"})
}

// UpdateOrderRate
// @Summary UpdateOrderRate
// @Description Updates only the order's rate field
// @Tags orders
// @ID update-order-rate
// @Accept json
// @Produce json
// @Param id path int true "order id"
// @Param input body updateRateRequest true "new rate"
// @Success 200 {object} statusResponse
// @Failure 400,404 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /api/orders/{id}/rate [patch]
func (h *Handler) UpdateOrderRate(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req updateRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		newErrorResponse(c, http.StatusBadRequest, bindError(err))
		return
	}

	if err := h.orders.UpdateOrderRate(c.Request.Context(), id, *req.Rate); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			newErrorResponse(c, http.StatusNotFound, "order not found")
			return
		}
		newErrorResponse(c, http.StatusInternalServerError, "failed to update rate")
		return
	}

	c.JSON(http.StatusOK, statusResponse{Status: "ok"})
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		newErrorResponse(c, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return uint(id), true
}

// duplicateSequence rejects stop sets reusing a sequence value before
// anything reaches the store.
func duplicateSequence(stops []stopRequest) (bool, int) {
	seen := make(map[int]struct{}, len(stops))
	for _, st := range stops {
		if _, ok := seen[st.Sequence]; ok {
			return true, st.Sequence
		}
		seen[st.Sequence] = struct{}{}
	}
	return false, 0
}

func toStopInputs(stops []stopRequest) []service.StopInput {
	out := make([]service.StopInput, len(stops))
	for i, st := range stops {
		out[i] = service.StopInput{
			Sequence:    st.Sequence,
			Latitude:    *st.Latitude,
			Longitude:   *st.Longitude,
			PlannedTime: st.PlannedTime,
			Address:     st.Address,
			City:        st.City,
			State:       st.State,
			StopType:    st.StopType,
		}
	}
	return out
}

func bindError(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return humanizeValidationErrors(verrs)
	}
	return err.Error()
}

func humanizeValidationErrors(errs validator.ValidationErrors) string {
	var b strings.Builder
	for _, fe := range errs {
		if fe.Param() != "" {
			fmt.Fprintf(&b, "%s: %s=%s; ", fe.Namespace(), fe.Tag(), fe.Param())
		} else {
			fmt.Fprintf(&b, "%s: %s; ", fe.Namespace(), fe.Tag())
		}
	}
	s := b.String()
	if len(s) > 2 {
		s = s[:len(s)-2]
	}
	return s
}
