package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	customerapp "github.com/crmcore/backend/internal/application/customer"
)

// CustomerHandler handles customer-related API endpoints
type CustomerHandler struct {
	BaseHandler
	customerService *customerapp.CustomerService
	creditService   *customerapp.CreditTransactionService
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(
	customerService *customerapp.CustomerService,
	creditService *customerapp.CreditTransactionService,
) *CustomerHandler {
	return &CustomerHandler{
		customerService: customerService,
		creditService:   creditService,
	}
}

// Create godoc
// @ID           createCustomer
// @Summary      Create a new customer
// @Description  Create a new customer with an optional starting credit balance
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        request body customerapp.CreateCustomerRequest true "Customer creation request"
// @Success      201 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Router       /customers [post]
func (h *CustomerHandler) Create(c *gin.Context) {
	var req customerapp.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	customer, err := h.customerService.CreateCustomer(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, customer)
}

// GetByID godoc
// @ID           getCustomerById
// @Summary      Get customer by ID
// @Description  Retrieve a customer by its ID
// @Tags         customers
// @Produce      json
// @Param        id path string true "Customer ID" format(uuid)
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Router       /customers/{id} [get]
func (h *CustomerHandler) GetByID(c *gin.Context) {
	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid customer ID format")
		return
	}

	customer, err := h.customerService.GetCustomer(c.Request.Context(), customerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, customer)
}

// List godoc
// @ID           listCustomers
// @Summary      List customers
// @Description  Retrieve a paginated list of customers with optional filtering
// @Tags         customers
// @Produce      json
// @Param        search query string false "Search term (name, email, phone)"
// @Param        email query string false "Filter by email"
// @Param        has_credit query bool false "Filter by positive credit balance"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(10) maximum(100)
// @Param        order_by query string false "Order by field" default(created_at)
// @Param        order_dir query string false "Order direction" Enums(asc, desc) default(desc)
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Router       /customers [get]
func (h *CustomerHandler) List(c *gin.Context) {
	var filter customerapp.CustomerListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.customerService.ListCustomers(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Update godoc
// @ID           updateCustomer
// @Summary      Update a customer
// @Description  Replace a customer's details
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        id path string true "Customer ID" format(uuid)
// @Param        request body customerapp.UpdateCustomerRequest true "Customer update request"
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Router       /customers/{id} [put]
func (h *CustomerHandler) Update(c *gin.Context) {
	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid customer ID format")
		return
	}

	var req customerapp.UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	customer, err := h.customerService.UpdateCustomer(c.Request.Context(), customerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, customer)
}

// Delete godoc
// @ID           deleteCustomer
// @Summary      Delete a customer
// @Description  Remove a customer and publish a deletion event
// @Tags         customers
// @Param        id path string true "Customer ID" format(uuid)
// @Success      204
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Router       /customers/{id} [delete]
func (h *CustomerHandler) Delete(c *gin.Context) {
	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid customer ID format")
		return
	}

	if err := h.customerService.DeleteCustomer(c.Request.Context(), customerID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// AddCredit godoc
// @ID           addCustomerCredit
// @Summary      Add credit to a customer
// @Description  Add to (or with a negative amount deduct from) a customer's credit balance
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        id path string true "Customer ID" format(uuid)
// @Param        request body customerapp.AddCreditRequest true "Credit change request"
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Router       /customers/{id}/credit [post]
func (h *CustomerHandler) AddCredit(c *gin.Context) {
	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid customer ID format")
		return
	}

	var req customerapp.AddCreditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.creditService.AddCredit(c.Request.Context(), customerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// ListCreditTransactions godoc
// @ID           listCustomerCreditTransactions
// @Summary      List a customer's credit transactions
// @Description  Retrieve the credit transaction history for a customer, newest first
// @Tags         customers
// @Produce      json
// @Param        id path string true "Customer ID" format(uuid)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(10) maximum(100)
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Router       /customers/{id}/credit/transactions [get]
func (h *CustomerHandler) ListCreditTransactions(c *gin.Context) {
	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid customer ID format")
		return
	}

	var filter customerapp.CreditTransactionListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.creditService.ListByCustomer(c.Request.Context(), customerID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// GetCreditSummary godoc
// @ID           getCustomerCreditSummary
// @Summary      Get a customer's credit summary
// @Description  Retrieve the net credit movement and current balance for a customer
// @Tags         customers
// @Produce      json
// @Param        id path string true "Customer ID" format(uuid)
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Router       /customers/{id}/credit/summary [get]
func (h *CustomerHandler) GetCreditSummary(c *gin.Context) {
	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid customer ID format")
		return
	}

	summary, err := h.creditService.GetCreditSummary(c.Request.Context(), customerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, summary)
}

// RegisterRoutes registers customer routes on the given router group
func (h *CustomerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	customers := rg.Group("/customers")
	{
		customers.POST("", h.Create)
		customers.GET("", h.List)
		customers.GET("/:id", h.GetByID)
		customers.PUT("/:id", h.Update)
		customers.DELETE("/:id", h.Delete)
		customers.POST("/:id/credit", h.AddCredit)
		customers.GET("/:id/credit/transactions", h.ListCreditTransactions)
		customers.GET("/:id/credit/summary", h.GetCreditSummary)
	}
}
