package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/rgtechno/tallybridge/internal/invoice"
	"github.com/rgtechno/tallybridge/internal/models"
	"github.com/rgtechno/tallybridge/internal/repository"
	syncpkg "github.com/rgtechno/tallybridge/internal/sync"
)

// Server wires the HTTP surface over the sync, invoice and settings services.
type Server struct {
	syncs        *syncpkg.Service
	retrier      *invoice.Retrier
	orders       *invoice.OrderService
	syncLogs     *repository.SyncLogRepository
	syncControl  *repository.SyncControlRepository
	ledgerNames  *repository.LedgerNameRepository
	outstandings *repository.OutstandingRepository
	statements   *repository.StatementRepository
	log          *logrus.Logger
}

func New(
	syncs *syncpkg.Service,
	retrier *invoice.Retrier,
	orders *invoice.OrderService,
	syncLogs *repository.SyncLogRepository,
	syncControl *repository.SyncControlRepository,
	ledgerNames *repository.LedgerNameRepository,
	outstandings *repository.OutstandingRepository,
	statements *repository.StatementRepository,
	log *logrus.Logger,
) *Server {
	return &Server{
		syncs:        syncs,
		retrier:      retrier,
		orders:       orders,
		syncLogs:     syncLogs,
		syncControl:  syncControl,
		ledgerNames:  ledgerNames,
		outstandings: outstandings,
		statements:   statements,
		log:          log,
	}
}

// Router builds the gin engine with all routes attached.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", s.health)

	r.POST("/sync/:module", s.triggerSync)
	r.GET("/sync-logs", s.listSyncLogs)
	r.DELETE("/sync-logs", s.clearSyncLogs)

	r.POST("/invoices/retry", s.retryInvoices)

	r.GET("/settings/sync-control", s.listSyncControl)
	r.PUT("/settings/sync-control", s.upsertSyncControl)
	r.GET("/settings/ledger-names", s.listLedgerNames)
	r.PUT("/settings/ledger-names", s.upsertLedgerName)

	r.POST("/orders", s.createOrder)
	r.GET("/orders", s.listOrders)
	r.GET("/orders/:id", s.getOrder)
	r.POST("/orders/:id/finalize", s.finalizeOrder)

	r.GET("/outstandings/:customer", s.getOutstanding)
	r.GET("/statements/:party", s.getStatement)

	return r
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) triggerSync(c *gin.Context) {
	report, err := s.syncs.TriggerManual(c.Request.Context(), c.Param("module"))
	if err != nil {
		s.syncError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (s *Server) syncError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, syncpkg.ErrUnknownModule):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, syncpkg.ErrSyncDisabled):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, syncpkg.ErrSyncInProgress):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		s.log.WithError(err).Error("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func (s *Server) listSyncLogs(c *gin.Context) {
	logs, err := s.syncLogs.List(c.Request.Context())
	if err != nil {
		s.syncError(c, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}

func (s *Server) clearSyncLogs(c *gin.Context) {
	if err := s.syncLogs.DeleteAll(c.Request.Context()); err != nil {
		s.syncError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cleared"})
}

type retryRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

func (s *Server) retryInvoices(c *gin.Context) {
	var req retryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	result, err := s.retrier.RetryForUser(c.Request.Context(), req.UserID)
	if err != nil {
		s.syncError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) listSyncControl(c *gin.Context) {
	settings, err := s.syncControl.List(c.Request.Context())
	if err != nil {
		s.syncError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

type syncControlRequest struct {
	ModuleName          string `json:"module_name" binding:"required"`
	IsAutoSyncEnabled   bool   `json:"is_auto_sync_enabled"`
	IsManualSyncEnabled bool   `json:"is_manual_sync_enabled"`
}

func (s *Server) upsertSyncControl(c *gin.Context) {
	var req syncControlRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	err := s.syncControl.Upsert(c.Request.Context(), models.SyncControlSetting{
		ModuleName:          req.ModuleName,
		IsAutoSyncEnabled:   req.IsAutoSyncEnabled,
		IsManualSyncEnabled: req.IsManualSyncEnabled,
	})
	if err != nil {
		s.syncError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "saved"})
}

func (s *Server) listLedgerNames(c *gin.Context) {
	settings, err := s.ledgerNames.List(c.Request.Context())
	if err != nil {
		s.syncError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

type ledgerNameRequest struct {
	Name  string `json:"name" binding:"required"`
	Value string `json:"value" binding:"required"`
}

func (s *Server) upsertLedgerName(c *gin.Context) {
	var req ledgerNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	err := s.ledgerNames.Upsert(c.Request.Context(), models.LedgerNameSetting{
		Name:  req.Name,
		Value: req.Value,
	})
	if err != nil {
		s.syncError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "saved"})
}

func (s *Server) createOrder(c *gin.Context) {
	var req invoice.NewOrder
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	order, err := s.orders.CreateOrder(c.Request.Context(), req)
	if err != nil {
		s.syncError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (s *Server) listOrders(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}
	orders, err := s.orders.ListOrders(c.Request.Context(), userID)
	if err != nil {
		s.syncError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (s *Server) getOrder(c *gin.Context) {
	order, err := s.orders.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.syncError(c, err)
		return
	}
	if order == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	c.JSON(http.StatusOK, order)
}

func (s *Server) finalizeOrder(c *gin.Context) {
	order, err := s.orders.FinalizeOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.syncError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (s *Server) getOutstanding(c *gin.Context) {
	ledger, err := s.outstandings.GetByCustomer(c.Request.Context(), c.Param("customer"))
	if err != nil {
		s.syncError(c, err)
		return
	}
	if ledger == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "customer not found"})
		return
	}
	c.JSON(http.StatusOK, ledger)
}

func (s *Server) getStatement(c *gin.Context) {
	statement, err := s.statements.GetByParty(c.Request.Context(), c.Param("party"))
	if err != nil {
		s.syncError(c, err)
		return
	}
	if statement == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "party not found"})
		return
	}
	c.JSON(http.StatusOK, statement)
}
