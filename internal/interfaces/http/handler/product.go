package handler

import (
	"time"

	catalogapp "github.com/Rajak13/Vyapar-sub001/internal/application/catalog"
	"github.com/Rajak13/Vyapar-sub001/internal/domain/catalog"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductHandler exposes the product catalog over HTTP
type ProductHandler struct {
	BaseHandler
	products *catalogapp.ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(products *catalogapp.ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

// RegisterRoutes registers product routes on the API group
func (h *ProductHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/products")
	{
		group.POST("", h.Create)
		group.GET("", h.List)
		group.GET("/:id", h.Get)
		group.PUT("/:id", h.Update)
		group.GET("/sku/:sku", h.GetBySKU)
		group.GET("/barcode/:code", h.GetByBarcode)
	}
}

// CreateProductRequest represents a product creation payload
type CreateProductRequest struct {
	SKU           string  `json:"sku" binding:"required,min=1,max=64"`
	Name          string  `json:"name" binding:"required,min=1,max=255"`
	Description   string  `json:"description" binding:"omitempty,max=2000"`
	Unit          string  `json:"unit" binding:"omitempty,max=32"`
	Barcode       string  `json:"barcode" binding:"omitempty,max=64"`
	PurchasePrice *string `json:"purchase_price" binding:"omitempty"`
	SellingPrice  *string `json:"selling_price" binding:"omitempty"`
	MinStockLevel *int64  `json:"min_stock_level" binding:"omitempty,min=0"`
}

// UpdateProductRequest represents a partial product update
type UpdateProductRequest struct {
	Name          *string `json:"name" binding:"omitempty,min=1,max=255"`
	Description   *string `json:"description" binding:"omitempty,max=2000"`
	Unit          *string `json:"unit" binding:"omitempty,max=32"`
	Barcode       *string `json:"barcode" binding:"omitempty,max=64"`
	Status        *string `json:"status" binding:"omitempty,oneof=active inactive discontinued"`
	PurchasePrice *string `json:"purchase_price" binding:"omitempty"`
	SellingPrice  *string `json:"selling_price" binding:"omitempty"`
	MinStockLevel *int64  `json:"min_stock_level" binding:"omitempty,min=0"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID            string    `json:"id"`
	SKU           string    `json:"sku"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	Unit          string    `json:"unit"`
	Barcode       string    `json:"barcode,omitempty"`
	Status        string    `json:"status"`
	PurchasePrice string    `json:"purchase_price"`
	SellingPrice  string    `json:"selling_price"`
	MinStockLevel int64     `json:"min_stock_level"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	Version       int       `json:"version"`
}

// ListProductsQuery filters the product listing
type ListProductsQuery struct {
	Status   *string `form:"status" binding:"omitempty,oneof=active inactive discontinued"`
	Unit     *string `form:"unit" binding:"omitempty,max=32"`
	Search   string  `form:"search" binding:"omitempty,max=255"`
	Page     int     `form:"page" binding:"omitempty,min=1"`
	PageSize int     `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// Create creates a new catalog product
func (h *ProductHandler) Create(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.BadRequest(c, "Invalid business ID")
		return
	}

	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	appReq := catalogapp.CreateProductRequest{
		SKU:           req.SKU,
		Name:          req.Name,
		Description:   req.Description,
		Unit:          req.Unit,
		Barcode:       req.Barcode,
		MinStockLevel: req.MinStockLevel,
		ActorID:       getActorID(c),
	}
	if appReq.PurchasePrice, err = parsePrice(req.PurchasePrice); err != nil {
		h.BadRequest(c, "purchase_price must be a decimal number")
		return
	}
	if appReq.SellingPrice, err = parsePrice(req.SellingPrice); err != nil {
		h.BadRequest(c, "selling_price must be a decimal number")
		return
	}

	product, err := h.products.CreateProduct(c.Request.Context(), businessID, appReq)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, toProductResponse(product))
}

// Get retrieves a product by ID
func (h *ProductHandler) Get(c *gin.Context) {
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

	product, err := h.products.GetProduct(c.Request.Context(), businessID, productID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, toProductResponse(product))
}

// GetBySKU retrieves a product by its SKU
func (h *ProductHandler) GetBySKU(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.BadRequest(c, "Invalid business ID")
		return
	}

	product, err := h.products.GetProductBySKU(c.Request.Context(), businessID, c.Param("sku"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, toProductResponse(product))
}

// GetByBarcode resolves a scanned code to its product
func (h *ProductHandler) GetByBarcode(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.BadRequest(c, "Invalid business ID")
		return
	}

	product, err := h.products.GetProductByBarcode(c.Request.Context(), businessID, c.Param("code"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, toProductResponse(product))
}

// Update applies a partial update to a product
func (h *ProductHandler) Update(c *gin.Context) {
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

	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	appReq := catalogapp.UpdateProductRequest{
		Name:          req.Name,
		Description:   req.Description,
		Unit:          req.Unit,
		Barcode:       req.Barcode,
		MinStockLevel: req.MinStockLevel,
	}
	if req.Status != nil {
		status := catalog.ProductStatus(*req.Status)
		appReq.Status = &status
	}
	if appReq.PurchasePrice, err = parsePrice(req.PurchasePrice); err != nil {
		h.BadRequest(c, "purchase_price must be a decimal number")
		return
	}
	if appReq.SellingPrice, err = parsePrice(req.SellingPrice); err != nil {
		h.BadRequest(c, "selling_price must be a decimal number")
		return
	}

	product, err := h.products.UpdateProduct(c.Request.Context(), businessID, productID, appReq)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, toProductResponse(product))
}

// List returns a filtered page of products
func (h *ProductHandler) List(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.BadRequest(c, "Invalid business ID")
		return
	}

	var query ListProductsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.ValidationError(c, err)
		return
	}

	appQuery := catalogapp.ListProductsQuery{
		Unit:     query.Unit,
		Search:   query.Search,
		Page:     query.Page,
		PageSize: query.PageSize,
	}
	if query.Status != nil {
		status := catalog.ProductStatus(*query.Status)
		appQuery.Status = &status
	}

	page, err := h.products.ListProducts(c.Request.Context(), businessID, appQuery)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	items := make([]ProductResponse, len(page.Items))
	for i := range page.Items {
		items[i] = toProductResponse(&page.Items[i])
	}

	h.SuccessWithMeta(c, items, page.Total, page.Page, page.PageSize)
}

func parsePrice(raw *string) (*decimal.Decimal, error) {
	if raw == nil {
		return nil, nil
	}
	value, err := decimal.NewFromString(*raw)
	if err != nil {
		return nil, err
	}
	return &value, nil
}

func toProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:            p.ID.String(),
		SKU:           p.SKU,
		Name:          p.Name,
		Description:   p.Description,
		Unit:          p.Unit,
		Barcode:       p.Barcode,
		Status:        string(p.Status),
		PurchasePrice: p.PurchasePrice.Amount().String(),
		SellingPrice:  p.SellingPrice.Amount().String(),
		MinStockLevel: p.MinStockLevel,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
		Version:       p.Version,
	}
}
