package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"freightdesk/internal/service"
)

// SearchCustomers
// @Summary SearchCustomers
// @Description Case-insensitive customer search by name or email, first 10 matches
// @Tags customers
// @ID search-customers
// @Produce json
// @Param query query string true "search text"
// @Success 200 {array} models.Customer
// @Failure 400 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /api/customers [get]
func (h *Handler) SearchCustomers(c *gin.Context) {
	query := strings.TrimSpace(c.Query("query"))
	if query == "" {
		newErrorResponse(c, http.StatusBadRequest, "search query is required")
		return
	}

	customers, err := h.customers.SearchCustomers(c.Request.Context(), query)
	if err != nil {
		newErrorResponse(c, http.StatusInternalServerError, "failed to search customers")
		return
	}

	c.JSON(http.StatusOK, customers)
}

// GetCustomerByID
// @Summary GetCustomerByID
// @Description Returns customer contact info and order metrics
// @Tags customers
// @ID get-customer-by-id
// @Produce json
// @Param id path int true "customer id"
// @Success 200 {object} dto.CustomerDetail
// @Failure 400,404 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /api/customers/{id} [get]
func (h *Handler) GetCustomerByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	customer, err := h.customers.GetCustomerByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			newErrorResponse(c, http.StatusNotFound, "customer not found")
			return
		}
		newErrorResponse(c, http.StatusInternalServerError, "failed to fetch customer")
		return
	}

	c.JSON(http.StatusOK, customer)
}
