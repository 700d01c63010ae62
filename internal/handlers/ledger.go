package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/campaigndeck/campaigndeck-backend/internal/logger"
	"github.com/campaigndeck/campaigndeck-backend/internal/services"
	"github.com/campaigndeck/campaigndeck-backend/internal/types"
)

type LedgerHandler struct {
	log           *logger.Logger
	ledgerService services.LedgerService
}

func NewLedgerHandler(log *logger.Logger, ledgerService services.LedgerService) *LedgerHandler {
	return &LedgerHandler{
		log:           log.With("handler", "LedgerHandler"),
		ledgerService: ledgerService,
	}
}

type ownerPayload struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type createLedgerRequest struct {
	ProjectName string         `json:"project_name"`
	Owner       ownerPayload   `json:"owner"`
	Channels    []string       `json:"channels"`
	Snapshot    map[string]any `json:"snapshot"`
	BriefID     string         `json:"brief_id"`
}

type advanceStatusRequest struct {
	Status string `json:"status"`
	Actor  string `json:"actor"`
}

func (h *LedgerHandler) List(c *gin.Context) {
	entries, err := h.ledgerService.List(c.Request.Context(), nil)
	if err != nil {
		h.log.Error("List failed", "error", err)
		RespondError(c, http.StatusInternalServerError, "list_ledgers_failed", err)
		return
	}
	RespondOK(c, gin.H{"ledgers": entries})
}

func (h *LedgerHandler) Get(c *gin.Context) {
	id := c.Param("id")
	entry, err := h.ledgerService.GetByID(c.Request.Context(), nil, id)
	if err != nil {
		if errors.Is(err, types.ErrLedgerNotFound) {
			RespondError(c, http.StatusNotFound, "not_found", err)
			return
		}
		h.log.Error("Get failed", "error", err, "ledger_id", id)
		RespondError(c, http.StatusInternalServerError, "load_ledger_failed", err)
		return
	}
	RespondOK(c, gin.H{"ledger": entry})
}

// Create is where required-field validation happens; the store layer trusts
// the input it receives.
func (h *LedgerHandler) Create(c *gin.Context) {
	var req createLedgerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	if err := validateCreate(req); err != nil {
		RespondError(c, http.StatusBadRequest, "validation_error", err)
		return
	}

	entry, err := h.ledgerService.Create(c.Request.Context(), nil, services.CreateLedgerInput{
		ProjectName: strings.TrimSpace(req.ProjectName),
		Owner: types.Owner{
			Name:  strings.TrimSpace(req.Owner.Name),
			Email: strings.TrimSpace(req.Owner.Email),
		},
		Channels: req.Channels,
		Snapshot: req.Snapshot,
		BriefID:  strings.TrimSpace(req.BriefID),
	})
	if err != nil {
		h.log.Error("Create failed", "error", err)
		RespondError(c, http.StatusInternalServerError, "create_ledger_failed", err)
		return
	}
	RespondCreated(c, gin.H{"ledger": entry})
}

func (h *LedgerHandler) AdvanceStatus(c *gin.Context) {
	id := c.Param("id")

	var req advanceStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	if strings.TrimSpace(req.Status) == "" || strings.TrimSpace(req.Actor) == "" {
		RespondError(c, http.StatusBadRequest, "validation_error", fmt.Errorf("status and actor are required"))
		return
	}

	entry, err := h.ledgerService.AdvanceStatus(c.Request.Context(), nil, id, types.LedgerStatus(req.Status), req.Actor)
	if err != nil {
		var invalid *types.InvalidTransitionError
		switch {
		case errors.Is(err, types.ErrLedgerNotFound):
			RespondError(c, http.StatusNotFound, "not_found", err)
		case errors.As(err, &invalid):
			RespondError(c, http.StatusBadRequest, "invalid_transition", err)
		case errors.Is(err, types.ErrLedgerConflict):
			RespondError(c, http.StatusConflict, "conflict", err)
		default:
			h.log.Error("AdvanceStatus failed", "error", err, "ledger_id", id)
			RespondError(c, http.StatusInternalServerError, "advance_status_failed", err)
		}
		return
	}
	RespondOK(c, gin.H{"ledger": entry})
}

func validateCreate(req createLedgerRequest) error {
	if strings.TrimSpace(req.ProjectName) == "" {
		return fmt.Errorf("project_name is required")
	}
	if strings.TrimSpace(req.Owner.Name) == "" || strings.TrimSpace(req.Owner.Email) == "" {
		return fmt.Errorf("owner.name and owner.email are required")
	}
	return nil
}
