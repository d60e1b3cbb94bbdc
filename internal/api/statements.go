package api

import (
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"hestia/internal/expenses"
	"hestia/internal/fees"
	"hestia/internal/queue"
	"hestia/internal/scheduler"
	"hestia/internal/statements"
)

type StatementRequest struct {
	Date string `json:"date"`
}

type PaymentRequest struct {
	AmountPaid decimal.Decimal `json:"amount_paid"`
}

// LineView is a statement line as the frontend shows it
type LineView struct {
	Caption string          `json:"caption"`
	Display string          `json:"display"`
	Amount  decimal.Decimal `json:"amount"`
}

// StatementView is the JSON form of a computed statement
type StatementView struct {
	Date          string          `json:"date"`
	PeriodStart   string          `json:"period_start"`
	LeaseholderID int64           `json:"leaseholder_id"`
	Leaseholder   string          `json:"leaseholder"`
	FeeStructure  fees.Terms      `json:"fee_structure"`
	ExpenseTotals expenses.Totals `json:"expense_totals"`
	Total         decimal.Decimal `json:"total"`
	Lines         []LineView      `json:"lines"`
}

func newStatementView(st *statements.Statement) StatementView {
	lines := st.Lines()
	views := make([]LineView, len(lines))
	for i, l := range lines {
		views[i] = LineView{Caption: l.Caption(), Display: l.Display(), Amount: l.Amount}
	}
	leaseholder := st.Leaseholder()
	return StatementView{
		Date:          st.Date().Format(expenses.DateLayout),
		PeriodStart:   statements.PeriodStart(st.Date()).Format(expenses.DateLayout),
		LeaseholderID: leaseholder.ID,
		Leaseholder:   leaseholder.DisplayName(),
		FeeStructure:  fees.TermsOf(st.FeeStructure()),
		ExpenseTotals: st.Totals(),
		Total:         st.Total(),
		Lines:         views,
	}
}

// bindOptionalJSON binds a body that may be left out entirely
func bindOptionalJSON(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindJSON(obj); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// statementDate parses an optional YYYY-MM-DD value, defaulting to today
func statementDate(raw string) (time.Time, error) {
	if raw == "" {
		return scheduler.StatementDate(time.Now()), nil
	}
	return expenses.ParseDate(raw)
}

func (h *Handler) ListStatements(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	if _, err := h.db.GetLeaseholder(id); err != nil {
		h.fail(c, err, "Failed to get leaseholder")
		return
	}
	records, err := h.db.ListStatements(id)
	if err != nil {
		h.fail(c, err, "Failed to get statements")
		return
	}
	c.JSON(http.StatusOK, records)
}

func (h *Handler) PreviewStatement(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	date, err := statementDate(c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}

	st, err := h.billing.Preview(c.Request.Context(), id, date)
	if err != nil {
		h.fail(c, err, "Failed to compute statement")
		return
	}
	c.JSON(http.StatusOK, newStatementView(st))
}

func (h *Handler) GenerateStatement(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	var request StatementRequest
	if err := bindOptionalJSON(c, &request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	date, err := statementDate(request.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}

	result, err := h.billing.GenerateStatement(c.Request.Context(), id, date)
	if err != nil {
		h.fail(c, err, "Failed to generate statement")
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"record":    result.Record,
		"statement": newStatementView(result.Statement),
	})
}

func (h *Handler) GetStatement(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	rec, err := h.db.GetStatement(id)
	if err != nil {
		h.fail(c, err, "Failed to get statement")
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *Handler) DownloadStatement(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	rec, err := h.db.GetStatement(id)
	if err != nil {
		h.fail(c, err, "Failed to get statement")
		return
	}
	if _, err := os.Stat(rec.DocumentPath); err != nil {
		h.logger.WithError(err).WithField("statement_id", id).Warn("Statement document is missing")
		c.JSON(http.StatusNotFound, gin.H{"error": "Statement document not found"})
		return
	}
	c.FileAttachment(rec.DocumentPath, filepath.Base(rec.DocumentPath))
}

func (h *Handler) RecordPayment(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	var request PaymentRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if request.AmountPaid.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount_paid cannot be negative"})
		return
	}

	if err := h.db.UpdateStatementPayment(id, request.AmountPaid); err != nil {
		h.fail(c, err, "Failed to record payment")
		return
	}
	rec, err := h.db.GetStatement(id)
	if err != nil {
		h.fail(c, err, "Failed to get statement")
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *Handler) DeleteStatement(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	rec, err := h.db.DeleteStatement(id)
	if err != nil {
		h.fail(c, err, "Failed to delete statement")
		return
	}
	if err := h.billing.RemoveDocument(rec); err != nil {
		h.logger.WithError(err).WithField("statement_id", id).Warn("Failed to remove statement document")
	}
	c.Status(http.StatusNoContent)
}

// StartBillingRun queues a statement for every active lease
func (h *Handler) StartBillingRun(c *gin.Context) {
	var request StatementRequest
	if err := bindOptionalJSON(c, &request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	date, err := statementDate(request.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}

	queued, err := h.runner.RunNow(date)
	if err != nil {
		if errors.Is(err, queue.ErrQueueFull) || errors.Is(err, queue.ErrQueueClosed) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Billing queue is busy, try again later"})
			return
		}
		h.fail(c, err, "Failed to start billing run")
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"date":   date.Format(expenses.DateLayout),
		"queued": queued,
	})
}
