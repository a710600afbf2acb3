package server

import (
	"errors"
	"net/http"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	documentdomain "github.com/smallbiznis/withholding/internal/document/domain"
	withholdingdomain "github.com/smallbiznis/withholding/internal/withholding/domain"
	"go.uber.org/zap"
)

type documentEventRequest struct {
	Kind     string                   `json:"kind" binding:"required"`
	RecordID string                   `json:"record_id" binding:"required"`
	Trigger  string                   `json:"trigger" binding:"required"`
	Changed  documentdomain.ChangeSet `json:"changed"`
}

// EvaluateDocumentEvent accepts one host save notification and runs every
// active setting of the owning organization against it.
func (s *Server) EvaluateDocumentEvent(c *gin.Context) {
	var req documentEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "detail": err.Error()})
		return
	}

	recordID, err := snowflake.ParseString(req.RecordID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_record_id"})
		return
	}

	kind := documentdomain.Kind(req.Kind)
	switch kind {
	case documentdomain.KindOrder, documentdomain.KindOrderLine:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_kind"})
		return
	}

	trigger := withholdingdomain.EventTrigger(req.Trigger)
	switch trigger {
	case withholdingdomain.TriggerAfterNew, withholdingdomain.TriggerAfterChange:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_trigger"})
		return
	}

	outcomes, err := s.withholdingSvc.EvaluateDocument(c.Request.Context(), withholdingdomain.DocumentEvent{
		Kind:     kind,
		RecordID: recordID,
		Trigger:  trigger,
		Changed:  req.Changed,
	})
	if err != nil {
		if errors.Is(err, withholdingdomain.ErrDocumentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "document_not_found"})
			return
		}
		s.log.Error("evaluate document event", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"outcomes": outcomes})
}

// ListOrderWithholdings returns the generated withholding records of one
// order, oldest first.
func (s *Server) ListOrderWithholdings(c *gin.Context) {
	orderID, err := snowflake.ParseString(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_order_id"})
		return
	}

	records, err := s.withholdingSvc.ListByOrder(c.Request.Context(), orderID)
	if err != nil {
		s.log.Error("list order withholdings", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"withholdings": records})
}
