package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	catalogapp "github.com/retailscan/backend/internal/application/catalog"
	"github.com/retailscan/backend/internal/interfaces/http/dto"
)

// ProductHandler handles product-related API endpoints
type ProductHandler struct {
	BaseHandler
	productService *catalogapp.ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService *catalogapp.ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
	}
}

// CreateProductRequest represents a request to create a new product.
// Decimal-valued fields bind directly as decimals so prices and quantities
// never round-trip through float64.
type CreateProductRequest struct {
	Name             string           `json:"name" binding:"required,min=1,max=200"`
	Description      string           `json:"description" binding:"max=2000"`
	Barcode          string           `json:"barcode" binding:"max=50"`
	CategoryID       *string          `json:"category_id"`
	SellingPrice     *decimal.Decimal `json:"selling_price"`
	PurchasePrice    *decimal.Decimal `json:"purchase_price"`
	Stock            *decimal.Decimal `json:"stock"`
	MinStock         *decimal.Decimal `json:"min_stock"`
	ImageURL         string           `json:"image_url"`
	Quantity         string           `json:"quantity" binding:"max=100"`
	ExpiryDate       *string          `json:"expiry_date"` // YYYY-MM-DD
	ExpiryNotifyDays int              `json:"expiry_notify_days" binding:"omitempty,min=0"`
}

// UpdateProductRequest represents a request to update a product
type UpdateProductRequest struct {
	Name             *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Description      *string          `json:"description" binding:"omitempty,max=2000"`
	Barcode          *string          `json:"barcode" binding:"omitempty,max=50"`
	CategoryID       *string          `json:"category_id"`
	SellingPrice     *decimal.Decimal `json:"selling_price"`
	PurchasePrice    *decimal.Decimal `json:"purchase_price"`
	Stock            *decimal.Decimal `json:"stock"`
	MinStock         *decimal.Decimal `json:"min_stock"`
	ImageURL         *string          `json:"image_url"`
	Quantity         *string          `json:"quantity" binding:"omitempty,max=100"`
	ExpiryDate       *string          `json:"expiry_date"` // YYYY-MM-DD, empty string clears
	ExpiryNotifyDays *int             `json:"expiry_notify_days" binding:"omitempty,min=0"`
}

// StockAdjustmentRequest represents a signed stock delta. A zero delta is
// valid; it reapplies the clamp and recomputes the derived flags.
type StockAdjustmentRequest struct {
	Delta decimal.Decimal `json:"delta"`
}

// Create creates a new product
func (h *ProductHandler) Create(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	appReq := catalogapp.CreateProductRequest{
		Name:             req.Name,
		Description:      req.Description,
		Barcode:          req.Barcode,
		SellingPrice:     req.SellingPrice,
		PurchasePrice:    req.PurchasePrice,
		Stock:            req.Stock,
		MinStock:         req.MinStock,
		ImageURL:         req.ImageURL,
		Quantity:         req.Quantity,
		ExpiryNotifyDays: req.ExpiryNotifyDays,
	}

	if req.CategoryID != nil && *req.CategoryID != "" {
		categoryID, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			h.BadRequest(c, "Invalid category ID format")
			return
		}
		appReq.CategoryID = &categoryID
	}

	expiry, err := parseDatePtr(req.ExpiryDate)
	if err != nil {
		h.BadRequest(c, "Invalid expiry date, expected YYYY-MM-DD")
		return
	}
	appReq.ExpiryDate = expiry

	product, err := h.productService.Create(c.Request.Context(), appReq)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, product)
}

// GetByID retrieves a product by its ID
func (h *ProductHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	product, err := h.productService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// List lists products with pagination and free-text search
func (h *ProductHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := catalogapp.ProductListFilter{
		Page:     req.Page,
		PageSize: req.PageSize,
		OrderBy:  req.OrderBy,
		OrderDir: req.OrderDir,
		Search:   req.Search,
	}

	products, total, err := h.productService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 20
	}
	h.SuccessWithMeta(c, products, total, page, pageSize)
}

// ListLowStock lists products at or below their stock threshold
func (h *ProductHandler) ListLowStock(c *gin.Context) {
	products, err := h.productService.ListLowStock(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, products)
}

// ListExpiring lists products expiring within their notification lead time
func (h *ProductHandler) ListExpiring(c *gin.Context) {
	products, err := h.productService.ListExpiring(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, products)
}

// Update updates a product. Absent fields are left unchanged.
func (h *ProductHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	appReq := catalogapp.UpdateProductRequest{
		Name:             req.Name,
		Description:      req.Description,
		Barcode:          req.Barcode,
		SellingPrice:     req.SellingPrice,
		PurchasePrice:    req.PurchasePrice,
		Stock:            req.Stock,
		MinStock:         req.MinStock,
		ImageURL:         req.ImageURL,
		Quantity:         req.Quantity,
		ExpiryNotifyDays: req.ExpiryNotifyDays,
	}

	if req.CategoryID != nil && *req.CategoryID != "" {
		categoryID, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			h.BadRequest(c, "Invalid category ID format")
			return
		}
		appReq.CategoryID = &categoryID
	}

	if req.ExpiryDate != nil {
		expiry, err := parseDatePtr(req.ExpiryDate)
		if err != nil {
			h.BadRequest(c, "Invalid expiry date, expected YYYY-MM-DD")
			return
		}
		appReq.ExpiryDate = expiry
	}

	product, err := h.productService.Update(c.Request.Context(), id, appReq)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// AdjustStock applies a signed stock delta to a product
func (h *ProductHandler) AdjustStock(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	var req StockAdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	product, err := h.productService.AdjustStock(c.Request.Context(), id, req.Delta)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// Delete removes a product
func (h *ProductHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	if err := h.productService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// RegisterRoutes registers product routes on the given router group
func (h *ProductHandler) RegisterRoutes(rg *gin.RouterGroup) {
	products := rg.Group("/products")
	{
		products.POST("", h.Create)
		products.GET("", h.List)
		products.GET("/low-stock", h.ListLowStock)
		products.GET("/expiring", h.ListExpiring)
		products.GET("/:id", h.GetByID)
		products.PUT("/:id", h.Update)
		products.POST("/:id/stock-adjustment", h.AdjustStock)
		products.DELETE("/:id", h.Delete)
	}
}
