package handler

import (
	"time"

	inventoryapp "github.com/Rajak13/Vyapar-sub001/internal/application/inventory"
	"github.com/Rajak13/Vyapar-sub001/internal/domain/inventory"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// InventoryHandler exposes the stock ledger over HTTP
type InventoryHandler struct {
	BaseHandler
	ledger      *inventoryapp.LedgerService
	adjustments *inventoryapp.AdjustmentService
	lowStock    *inventoryapp.LowStockService
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(
	ledger *inventoryapp.LedgerService,
	adjustments *inventoryapp.AdjustmentService,
	lowStock *inventoryapp.LowStockService,
) *InventoryHandler {
	return &InventoryHandler{
		ledger:      ledger,
		adjustments: adjustments,
		lowStock:    lowStock,
	}
}

// RegisterRoutes registers inventory routes on the API group
func (h *InventoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/inventory")
	{
		group.POST("/transactions", h.RecordTransaction)
		group.POST("/adjustments", h.AdjustStock)
		group.GET("/products/:id/transactions", h.ListTransactions)
		group.GET("/products/:id/verify", h.VerifyStock)
		group.GET("/low-stock", h.LowStockReport)
	}
}

// RecordTransactionRequest represents a direct ledger append
type RecordTransactionRequest struct {
	ProductID       string  `json:"product_id" binding:"required,uuid"`
	TransactionType string  `json:"transaction_type" binding:"required,transaction_type"`
	Quantity        int64   `json:"quantity" binding:"required"`
	ReferenceType   *string `json:"reference_type" binding:"omitempty,reference_type"`
	ReferenceID     *string `json:"reference_id" binding:"omitempty,uuid"`
	Reason          *string `json:"reason" binding:"omitempty,adjustment_reason"`
	UnitCost        *string `json:"unit_cost"`
	Notes           string  `json:"notes" binding:"omitempty,max=1000"`
}

// AdjustStockRequest represents a manual stock correction
type AdjustStockRequest struct {
	ProductID string `json:"product_id" binding:"required,uuid"`
	Delta     int64  `json:"delta" binding:"required"`
	Reason    string `json:"reason" binding:"required,adjustment_reason"`
	Notes     string `json:"notes" binding:"omitempty,max=1000"`
}

// TransactionResponse represents a ledger entry in API responses
type TransactionResponse struct {
	ID              string    `json:"id"`
	ProductID       string    `json:"product_id"`
	TransactionType string    `json:"transaction_type"`
	Quantity        int64     `json:"quantity"`
	SignedQuantity  int64     `json:"signed_quantity"`
	ReferenceType   *string   `json:"reference_type,omitempty"`
	ReferenceID     *string   `json:"reference_id,omitempty"`
	Reason          *string   `json:"reason,omitempty"`
	UnitCost        *string   `json:"unit_cost,omitempty"`
	Notes           string    `json:"notes,omitempty"`
	RecordedBy      *string   `json:"recorded_by,omitempty"`
	RecordedAt      time.Time `json:"recorded_at"`
}

// TransactionResultResponse reports an applied append with the refreshed
// projection. Warnings are non-fatal; the append has already succeeded.
type TransactionResultResponse struct {
	Transaction    TransactionResponse `json:"transaction"`
	ProjectedStock int64               `json:"projected_stock"`
	Warnings       []string            `json:"warnings,omitempty"`
}

// RecordTransaction appends a stock movement to the ledger
func (h *InventoryHandler) RecordTransaction(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.BadRequest(c, "Invalid business ID")
		return
	}

	var req RecordTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	appReq := inventoryapp.RecordTransactionRequest{
		ProductID:       uuid.MustParse(req.ProductID),
		TransactionType: inventory.TransactionType(req.TransactionType),
		Quantity:        req.Quantity,
		UnitCost:        req.UnitCost,
		Notes:           req.Notes,
		ActorID:         getActorID(c),
	}

	if req.ReferenceType != nil && req.ReferenceID != nil {
		refType := inventory.ReferenceType(*req.ReferenceType)
		refID := uuid.MustParse(*req.ReferenceID)
		appReq.ReferenceType = &refType
		appReq.ReferenceID = &refID
	}
	if req.Reason != nil {
		reason := inventory.AdjustmentReason(*req.Reason)
		appReq.Reason = &reason
	}

	result, err := h.ledger.RecordTransaction(c.Request.Context(), businessID, appReq)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, toTransactionResultResponse(result))
}

// AdjustStock appends a manual correction with a mandatory reason code
func (h *InventoryHandler) AdjustStock(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.BadRequest(c, "Invalid business ID")
		return
	}

	var req AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.adjustments.AdjustStock(c.Request.Context(), businessID, inventoryapp.AdjustStockRequest{
		ProductID: uuid.MustParse(req.ProductID),
		Delta:     req.Delta,
		Reason:    inventory.AdjustmentReason(req.Reason),
		Notes:     req.Notes,
		ActorID:   getActorID(c),
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, toTransactionResultResponse(result))
}

// ListTransactionsQuery filters a product's movement history
type ListTransactionsQuery struct {
	TransactionType *string `form:"transaction_type" binding:"omitempty,transaction_type"`
	ReferenceType   *string `form:"reference_type" binding:"omitempty,reference_type"`
	DateFrom        *string `form:"date_from"`
	DateTo          *string `form:"date_to"`
	Page            int     `form:"page" binding:"omitempty,min=1"`
	PageSize        int     `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ListTransactions returns a product's paginated movement history
func (h *InventoryHandler) ListTransactions(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.BadRequest(c, "Invalid business ID")
		return
	}

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	var query ListTransactionsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.ValidationError(c, err)
		return
	}

	appQuery := inventoryapp.ListTransactionsQuery{
		ProductID: productID,
		Page:      query.Page,
		PageSize:  query.PageSize,
	}
	if query.TransactionType != nil {
		txType := inventory.TransactionType(*query.TransactionType)
		appQuery.TransactionType = &txType
	}
	if query.ReferenceType != nil {
		refType := inventory.ReferenceType(*query.ReferenceType)
		appQuery.ReferenceType = &refType
	}
	if query.DateFrom != nil {
		from, err := time.Parse(time.RFC3339, *query.DateFrom)
		if err != nil {
			h.BadRequest(c, "date_from must be RFC 3339")
			return
		}
		appQuery.DateFrom = &from
	}
	if query.DateTo != nil {
		to, err := time.Parse(time.RFC3339, *query.DateTo)
		if err != nil {
			h.BadRequest(c, "date_to must be RFC 3339")
			return
		}
		appQuery.DateTo = &to
	}

	page, err := h.ledger.ListTransactions(c.Request.Context(), businessID, appQuery)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	items := make([]TransactionResponse, len(page.Items))
	for i := range page.Items {
		items[i] = toTransactionResponse(&page.Items[i])
	}

	h.SuccessWithMeta(c, items, page.Total, page.Page, page.PageSize)
}

// VerifyStock recomputes the ledger projection and compares it with the
// cached stock figure
func (h *InventoryHandler) VerifyStock(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.BadRequest(c, "Invalid business ID")
		return
	}

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	result, err := h.ledger.VerifyStock(c.Request.Context(), businessID, productID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// LowStockQuery optionally overrides the configured thresholds for one
// evaluation
type LowStockQuery struct {
	DefaultLow *int64 `form:"default_low" binding:"omitempty,min=0"`
	Critical   *int64 `form:"critical" binding:"omitempty,min=0"`
}

// LowStockReport classifies the catalog into critical and low alert sets
func (h *InventoryHandler) LowStockReport(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.BadRequest(c, "Invalid business ID")
		return
	}

	var query LowStockQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.ValidationError(c, err)
		return
	}

	var override *inventory.Thresholds
	if query.DefaultLow != nil || query.Critical != nil {
		if query.DefaultLow == nil || query.Critical == nil {
			h.BadRequest(c, "default_low and critical must be overridden together")
			return
		}
		override = &inventory.Thresholds{DefaultLow: *query.DefaultLow, Critical: *query.Critical}
	}

	report, err := h.lowStock.ClassifyLowStock(c.Request.Context(), businessID, override)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, report)
}

func toTransactionResponse(tx *inventory.InventoryTransaction) TransactionResponse {
	resp := TransactionResponse{
		ID:              tx.ID.String(),
		ProductID:       tx.ProductID.String(),
		TransactionType: string(tx.TransactionType),
		Quantity:        tx.Quantity,
		SignedQuantity:  tx.SignedQuantity(),
		Notes:           tx.Notes,
		RecordedAt:      tx.RecordedAt,
	}

	if tx.ReferenceType != nil {
		refType := string(*tx.ReferenceType)
		resp.ReferenceType = &refType
	}
	if tx.ReferenceID != nil {
		refID := tx.ReferenceID.String()
		resp.ReferenceID = &refID
	}
	if tx.AdjustmentReason != nil {
		reason := string(*tx.AdjustmentReason)
		resp.Reason = &reason
	}
	if tx.UnitCost != nil {
		cost := tx.UnitCost.Amount().String()
		resp.UnitCost = &cost
	}
	if tx.RecordedBy != nil {
		actor := tx.RecordedBy.String()
		resp.RecordedBy = &actor
	}

	return resp
}

func toTransactionResultResponse(result *inventoryapp.TransactionResult) TransactionResultResponse {
	return TransactionResultResponse{
		Transaction:    toTransactionResponse(result.Transaction),
		ProjectedStock: result.ProjectedStock,
		Warnings:       result.Warnings,
	}
}
