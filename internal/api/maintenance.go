package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"hestia/internal/expenses"
	"hestia/internal/models"
)

type MaintenanceRequestBody struct {
	LeaseholderID int64         `json:"leaseholder_id" binding:"required"`
	RequestDate   string        `json:"request_date"`
	Kind          expenses.Type `json:"kind"`
	Description   string        `json:"description"`
}

type MaintenanceStatusRequest struct {
	Status         string `json:"status" binding:"required"`
	CompletionDate string `json:"completion_date"`
}

func (h *Handler) ListMaintenanceRequests(c *gin.Context) {
	var leaseholderID int64
	if raw := c.Query("leaseholder_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid leaseholder_id"})
			return
		}
		leaseholderID = id
	}

	requests, err := h.db.ListMaintenanceRequests(leaseholderID)
	if err != nil {
		h.fail(c, err, "Failed to get maintenance requests")
		return
	}
	c.JSON(http.StatusOK, requests)
}

func (h *Handler) CreateMaintenanceRequest(c *gin.Context) {
	var body MaintenanceRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if body.Kind.Main != expenses.Maintenance {
		c.JSON(http.StatusBadRequest, gin.H{"error": "kind must be a Maintenance expense type"})
		return
	}
	date, err := statementDate(body.RequestDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request_date must be YYYY-MM-DD"})
		return
	}
	if _, err := h.db.GetLeaseholder(body.LeaseholderID); err != nil {
		h.fail(c, err, "Failed to get leaseholder")
		return
	}

	request := models.MaintenanceRequest{
		LeaseholderID: body.LeaseholderID,
		RequestDate:   date,
		Kind:          body.Kind,
		Description:   body.Description,
		Status:        models.RequestReceived,
	}
	request.ID, err = h.db.AddMaintenanceRequest(request)
	if err != nil {
		h.fail(c, err, "Failed to create maintenance request")
		return
	}
	c.JSON(http.StatusCreated, request)
}

func (h *Handler) UpdateMaintenanceStatus(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	var body MaintenanceStatusRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	status, valid := models.ParseRequestStatus(body.Status)
	if !valid {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown status"})
		return
	}

	var completed *time.Time
	if status == models.RequestCompleted {
		date, err := statementDate(body.CompletionDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "completion_date must be YYYY-MM-DD"})
			return
		}
		completed = &date
	}

	if err := h.db.UpdateMaintenanceStatus(id, status, completed); err != nil {
		h.fail(c, err, "Failed to update maintenance request")
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "status": status})
}
