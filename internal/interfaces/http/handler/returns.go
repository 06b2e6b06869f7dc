package handler

import (
	"time"

	tradeapp "github.com/Rajak13/Vyapar-sub001/internal/application/trade"
	"github.com/Rajak13/Vyapar-sub001/internal/domain/trade"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ReturnsHandler exposes the return/exchange workflow over HTTP
type ReturnsHandler struct {
	BaseHandler
	returns *tradeapp.ReturnService
}

// NewReturnsHandler creates a new ReturnsHandler
func NewReturnsHandler(returns *tradeapp.ReturnService) *ReturnsHandler {
	return &ReturnsHandler{returns: returns}
}

// RegisterRoutes registers return routes on the API group
func (h *ReturnsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/returns")
	{
		group.POST("", h.Submit)
		group.GET("", h.List)
		group.GET("/:id", h.Get)
		group.POST("/:id/approve", h.Approve)
		group.POST("/:id/reject", h.Reject)
		group.POST("/:id/complete", h.Complete)
	}
}

// ReturnItemInput selects a product line by product and variant
type ReturnItemInput struct {
	ProductID   string `json:"product_id" binding:"required,uuid"`
	VariantName string `json:"variant_name"`
	Quantity    int64  `json:"quantity" binding:"required,gt=0"`
}

// SubmitReturnRequest represents a new return/exchange submission
type SubmitReturnRequest struct {
	SaleID        string            `json:"sale_id" binding:"required,uuid"`
	ReturnType    string            `json:"return_type" binding:"required,return_type"`
	Reason        string            `json:"reason" binding:"required,return_reason"`
	ReasonNote    string            `json:"reason_note" binding:"omitempty,max=1000"`
	ReturnedItems []ReturnItemInput `json:"returned_items" binding:"required,min=1,dive"`
	ExchangeItems []ReturnItemInput `json:"exchange_items" binding:"omitempty,dive"`
}

// ApproveReturnRequest carries an optional approval note
type ApproveReturnRequest struct {
	Note string `json:"note" binding:"omitempty,max=500"`
}

// RejectReturnRequest carries a mandatory rejection reason
type RejectReturnRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// ReturnItemResponse represents a line snapshot in API responses
type ReturnItemResponse struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	VariantName string `json:"variant_name,omitempty"`
	Quantity    int64  `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
	LineTotal   string `json:"line_total"`
}

// ReturnResponse represents a return/exchange in API responses
type ReturnResponse struct {
	ID                 string               `json:"id"`
	ReturnNumber       string               `json:"return_number"`
	OriginalSaleID     string               `json:"original_sale_id"`
	CustomerID         *string              `json:"customer_id,omitempty"`
	ReturnType         string               `json:"return_type"`
	Reason             string               `json:"reason"`
	ReasonNote         string               `json:"reason_note,omitempty"`
	Status             string               `json:"status"`
	ReturnedItems      []ReturnItemResponse `json:"returned_items"`
	ExchangeItems      []ReturnItemResponse `json:"exchange_items,omitempty"`
	OriginalAmount     string               `json:"original_amount"`
	RefundAmount       string               `json:"refund_amount"`
	ExchangeDifference string               `json:"exchange_difference"`
	DecisionNote       string               `json:"decision_note,omitempty"`
	ProcessedBy        *string              `json:"processed_by,omitempty"`
	ProcessedAt        *time.Time           `json:"processed_at,omitempty"`
	CreatedAt          time.Time            `json:"created_at"`
	UpdatedAt          time.Time            `json:"updated_at"`
	Version            int                  `json:"version"`
}

// CompletionResponse reports a settled return together with the ledger
// entries it produced
type CompletionResponse struct {
	Return       ReturnResponse        `json:"return"`
	Transactions []TransactionResponse `json:"transactions"`
	Warnings     []string              `json:"warnings,omitempty"`
}

// Submit creates a return/exchange request in PENDING state
func (h *ReturnsHandler) Submit(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.BadRequest(c, "Invalid business ID")
		return
	}

	var req SubmitReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	appReq := tradeapp.SubmitReturnRequest{
		SaleID:     uuid.MustParse(req.SaleID),
		ReturnType: trade.ReturnType(req.ReturnType),
		Reason:     trade.ReturnReason(req.Reason),
		ReasonNote: req.ReasonNote,
		ActorID:    getActorID(c),
	}
	for _, item := range req.ReturnedItems {
		appReq.ReturnedItems = append(appReq.ReturnedItems, tradeapp.ReturnedItemRequest{
			ProductID:   uuid.MustParse(item.ProductID),
			VariantName: item.VariantName,
			Quantity:    item.Quantity,
		})
	}
	for _, item := range req.ExchangeItems {
		appReq.ExchangeItems = append(appReq.ExchangeItems, tradeapp.ExchangeItemRequest{
			ProductID:   uuid.MustParse(item.ProductID),
			VariantName: item.VariantName,
			Quantity:    item.Quantity,
		})
	}

	result, err := h.returns.SubmitReturn(c.Request.Context(), businessID, appReq)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, toReturnResponse(result))
}

// Get retrieves a return/exchange by ID
func (h *ReturnsHandler) Get(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.BadRequest(c, "Invalid business ID")
		return
	}

	returnID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid return ID format")
		return
	}

	result, err := h.returns.GetReturn(c.Request.Context(), businessID, returnID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, toReturnResponse(result))
}

// ListReturnsQuery filters the return listing
type ListReturnsQuery struct {
	Status     *string `form:"status" binding:"omitempty,return_status"`
	ReturnType *string `form:"return_type" binding:"omitempty,return_type"`
	SaleID     *string `form:"sale_id" binding:"omitempty,uuid"`
	Page       int     `form:"page" binding:"omitempty,min=1"`
	PageSize   int     `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// List returns a filtered page of return/exchange requests
func (h *ReturnsHandler) List(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.BadRequest(c, "Invalid business ID")
		return
	}

	var query ListReturnsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.ValidationError(c, err)
		return
	}

	appQuery := tradeapp.ListReturnsQuery{
		Page:     query.Page,
		PageSize: query.PageSize,
	}
	if query.Status != nil {
		status := trade.ReturnStatus(*query.Status)
		appQuery.Status = &status
	}
	if query.ReturnType != nil {
		returnType := trade.ReturnType(*query.ReturnType)
		appQuery.ReturnType = &returnType
	}
	if query.SaleID != nil {
		saleID := uuid.MustParse(*query.SaleID)
		appQuery.SaleID = &saleID
	}

	page, err := h.returns.ListReturns(c.Request.Context(), businessID, appQuery)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	items := make([]ReturnResponse, len(page.Items))
	for i := range page.Items {
		items[i] = toReturnResponse(&page.Items[i])
	}

	h.SuccessWithMeta(c, items, page.Total, page.Page, page.PageSize)
}

// Approve transitions a pending request to APPROVED
func (h *ReturnsHandler) Approve(c *gin.Context) {
	h.decide(c, true)
}

// Reject transitions a pending request to REJECTED
func (h *ReturnsHandler) Reject(c *gin.Context) {
	h.decide(c, false)
}

func (h *ReturnsHandler) decide(c *gin.Context, approve bool) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.BadRequest(c, "Invalid business ID")
		return
	}

	returnID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid return ID format")
		return
	}

	actorID := getActorID(c)
	if actorID == nil {
		h.BadRequest(c, "X-Actor-ID header is required for decisions")
		return
	}

	appReq := tradeapp.DecideReturnRequest{
		Approve: approve,
		ActorID: *actorID,
	}

	if approve {
		var req ApproveReturnRequest
		// Empty body is fine for approvals
		_ = c.ShouldBindJSON(&req)
		appReq.Note = req.Note
	} else {
		var req RejectReturnRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			h.ValidationError(c, err)
			return
		}
		appReq.Reason = req.Reason
	}

	result, err := h.returns.DecideReturn(c.Request.Context(), businessID, returnID, appReq)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, toReturnResponse(result))
}

// Complete settles an approved request: the status change and all stock
// movements commit in one transaction
func (h *ReturnsHandler) Complete(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.BadRequest(c, "Invalid business ID")
		return
	}

	returnID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid return ID format")
		return
	}

	actorID := getActorID(c)
	if actorID == nil {
		h.BadRequest(c, "X-Actor-ID header is required for completion")
		return
	}

	result, err := h.returns.CompleteReturn(c.Request.Context(), businessID, returnID, *actorID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	resp := CompletionResponse{
		Return:       toReturnResponse(result.ReturnExchange),
		Transactions: make([]TransactionResponse, len(result.Transactions)),
		Warnings:     result.Warnings,
	}
	for i, tx := range result.Transactions {
		resp.Transactions[i] = toTransactionResponse(tx)
	}

	h.Success(c, resp)
}

func toReturnItemResponses(items trade.ReturnItems) []ReturnItemResponse {
	if len(items) == 0 {
		return nil
	}
	responses := make([]ReturnItemResponse, len(items))
	for i, item := range items {
		responses[i] = ReturnItemResponse{
			ProductID:   item.ProductID.String(),
			ProductName: item.ProductName,
			VariantName: item.VariantName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice.Amount().String(),
			LineTotal:   item.LineTotal.Amount().String(),
		}
	}
	return responses
}

func toReturnResponse(r *trade.ReturnExchange) ReturnResponse {
	resp := ReturnResponse{
		ID:                 r.ID.String(),
		ReturnNumber:       r.ReturnNumber,
		OriginalSaleID:     r.OriginalSaleID.String(),
		ReturnType:         string(r.ReturnType),
		Reason:             string(r.Reason),
		ReasonNote:         r.ReasonNote,
		Status:             string(r.Status),
		ReturnedItems:      toReturnItemResponses(r.ReturnedItems),
		ExchangeItems:      toReturnItemResponses(r.ExchangeItems),
		OriginalAmount:     r.OriginalAmount.Amount().String(),
		RefundAmount:       r.RefundAmount.Amount().String(),
		ExchangeDifference: r.ExchangeDifference.Amount().String(),
		DecisionNote:       r.DecisionNote,
		ProcessedAt:        r.ProcessedAt,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
		Version:            r.Version,
	}

	if r.CustomerID != nil {
		customerID := r.CustomerID.String()
		resp.CustomerID = &customerID
	}
	if r.ProcessedBy != nil {
		processedBy := r.ProcessedBy.String()
		resp.ProcessedBy = &processedBy
	}

	return resp
}
