package api

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"hestia/config"
	"hestia/internal/billing"
	"hestia/internal/database"
	"hestia/internal/expenses"
	"hestia/internal/fees"
	"hestia/internal/metrics"
	"hestia/internal/models"
	"hestia/internal/render"
	"hestia/internal/telegram"
)

// BillingRunner queues a billing run for a statement date
type BillingRunner interface {
	RunNow(date time.Time) (int, error)
}

type Handler struct {
	db              *database.Database
	billing         *billing.Service
	runner          BillingRunner
	company         *config.CompanyStore
	telegramService *telegram.Service
	logger          *logrus.Logger
}

type ExpenseRequest struct {
	Type        expenses.Type   `json:"expense_type"`
	Amount      decimal.Decimal `json:"amount"`
	Date        string          `json:"date_incurred" binding:"required"`
	Description string          `json:"description"`
}

type LeaseholderRequest struct {
	PropertyID  int64                     `json:"property_id" binding:"required"`
	Kind        models.LeaseholderKind    `json:"kind" binding:"required,oneof=individual company"`
	FirstName   string                    `json:"first_name"`
	LastName    string                    `json:"last_name"`
	CompanyName string                    `json:"company_name"`
	TaxID       string                    `json:"tax_id"`
	Contact     models.ContactInformation `json:"contact"`
	MoveInDate  string                    `json:"move_in_date" binding:"required"`
	Lease       models.Lease              `json:"lease"`
}

func NewHandler(db *database.Database, billingService *billing.Service, runner BillingRunner, company *config.CompanyStore, telegramService *telegram.Service, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}

	if telegramService == nil {
		telegramService = telegram.NewService(logger)
	}

	return &Handler{
		db:              db,
		billing:         billingService,
		runner:          runner,
		company:         company,
		telegramService: telegramService,
		logger:          logger,
	}
}

// paramID reads a numeric path parameter, answering 400 when it is not one
func (h *Handler) paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid %s", name)})
		return 0, false
	}
	return id, true
}

// fail maps an error to a status code, logging the ones that are our fault
func (h *Handler) fail(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, database.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, fees.ErrMalformedFeeStructure), errors.Is(err, fees.ErrRateOutOfRange):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logger.WithError(err).Error(message)
		c.JSON(http.StatusInternalServerError, gin.H{"error": message})
	}
}

// Properties

func (h *Handler) ListProperties(c *gin.Context) {
	properties, err := h.db.ListProperties()
	if err != nil {
		h.fail(c, err, "Failed to get properties")
		return
	}
	c.JSON(http.StatusOK, properties)
}

func (h *Handler) CreateProperty(c *gin.Context) {
	var property models.Property
	if err := c.ShouldBindJSON(&property); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if property.PropertyTax.IsNegative() || property.BusinessInsurance.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Property costs cannot be negative"})
		return
	}

	id, err := h.db.AddProperty(property)
	if err != nil {
		h.fail(c, err, "Failed to create property")
		return
	}
	property.ID = id
	c.JSON(http.StatusCreated, property)
}

func (h *Handler) GetProperty(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	property, err := h.db.GetProperty(id)
	if err != nil {
		h.fail(c, err, "Failed to get property")
		return
	}
	c.JSON(http.StatusOK, property)
}

func (h *Handler) UpdateProperty(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	var property models.Property
	if err := c.ShouldBindJSON(&property); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if property.PropertyTax.IsNegative() || property.BusinessInsurance.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Property costs cannot be negative"})
		return
	}

	property.ID = id
	if err := h.db.UpdateProperty(property); err != nil {
		h.fail(c, err, "Failed to update property")
		return
	}
	c.JSON(http.StatusOK, property)
}

// Expenses

func (h *Handler) ListExpenses(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	if _, err := h.db.GetProperty(id); err != nil {
		h.fail(c, err, "Failed to get property")
		return
	}

	var list []expenses.Expense
	var err error
	if since := c.Query("since"); since != "" {
		cutoff, perr := expenses.ParseDate(since)
		if perr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "since must be YYYY-MM-DD"})
			return
		}
		list, err = h.db.GetCurrentExpenses(id, cutoff)
	} else {
		list, err = h.db.GetExpenses(id)
	}
	if err != nil {
		h.fail(c, err, "Failed to get expenses")
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) CreateExpense(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	var request ExpenseRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	date, err := expenses.ParseDate(request.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date_incurred must be YYYY-MM-DD"})
		return
	}
	if _, err := h.db.GetProperty(id); err != nil {
		h.fail(c, err, "Failed to get property")
		return
	}

	expense := expenses.New(id, request.Type, request.Amount, date, request.Description)
	expense.ID, err = h.db.AddExpense(expense)
	if err != nil {
		h.fail(c, err, "Failed to create expense")
		return
	}
	c.JSON(http.StatusCreated, expense)
}

func (h *Handler) ExportExpenses(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	property, err := h.db.GetProperty(id)
	if err != nil {
		h.fail(c, err, "Failed to get property")
		return
	}
	list, err := h.db.GetExpenses(id)
	if err != nil {
		h.fail(c, err, "Failed to get expenses")
		return
	}

	data, err := render.ExpensesXLSX(property, list)
	if err != nil {
		metrics.IncStatementExport("xlsx", metrics.ResultError)
		h.fail(c, err, "Failed to export expenses")
		return
	}
	metrics.IncStatementExport("xlsx", metrics.ResultSuccess)

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="expenses_%d.xlsx"`, id))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

func (h *Handler) DeleteExpense(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	if err := h.db.DeleteExpense(id); err != nil {
		h.fail(c, err, "Failed to delete expense")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) ListExpenseTypes(c *gin.Context) {
	types := expenses.AllTypes()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.String()
	}
	c.JSON(http.StatusOK, names)
}

// Leaseholders

func (h *Handler) ListLeaseholders(c *gin.Context) {
	var list []models.Leaseholder
	var err error
	if raw := c.Query("property_id"); raw != "" {
		propertyID, perr := strconv.ParseInt(raw, 10, 64)
		if perr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid property_id"})
			return
		}
		list, err = h.db.ListLeaseholdersByProperty(propertyID)
	} else {
		list, err = h.db.ListLeaseholders()
	}
	if err != nil {
		h.fail(c, err, "Failed to get leaseholders")
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) CreateLeaseholder(c *gin.Context) {
	var request LeaseholderRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	moveIn, err := expenses.ParseDate(request.MoveInDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "move_in_date must be YYYY-MM-DD"})
		return
	}
	if request.Kind == models.LeaseholderCompany && request.CompanyName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "company_name is required"})
		return
	}
	if request.Kind == models.LeaseholderIndividual && (request.FirstName == "" || request.LastName == "") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "first_name and last_name are required"})
		return
	}
	if request.Lease.Fees == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lease is required"})
		return
	}
	if _, err := h.db.GetProperty(request.PropertyID); err != nil {
		h.fail(c, err, "Failed to get property")
		return
	}

	leaseholder := models.Leaseholder{
		PropertyID:  request.PropertyID,
		Kind:        request.Kind,
		FirstName:   request.FirstName,
		LastName:    request.LastName,
		CompanyName: request.CompanyName,
		TaxID:       request.TaxID,
		Contact:     request.Contact,
		MoveInDate:  moveIn,
		Lease:       request.Lease,
	}
	id, err := h.db.AddLeaseholder(leaseholder)
	if err != nil {
		h.fail(c, err, "Failed to create leaseholder")
		return
	}

	created, err := h.db.GetLeaseholder(id)
	if err != nil {
		h.fail(c, err, "Failed to get leaseholder")
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) GetLeaseholder(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	leaseholder, err := h.db.GetLeaseholder(id)
	if err != nil {
		h.fail(c, err, "Failed to get leaseholder")
		return
	}
	c.JSON(http.StatusOK, leaseholder)
}

// ReplaceLease swaps the leaseholder's lease for a new one. Lease terms are
// never edited in place.
func (h *Handler) ReplaceLease(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	var lease models.Lease
	if err := c.ShouldBindJSON(&lease); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if lease.Fees == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lease terms are required"})
		return
	}

	if _, err := h.db.ReplaceLease(id, lease); err != nil {
		h.fail(c, err, "Failed to replace lease")
		return
	}

	leaseholder, err := h.db.GetLeaseholder(id)
	if err != nil {
		h.fail(c, err, "Failed to get leaseholder")
		return
	}
	c.JSON(http.StatusOK, leaseholder)
}
