package httpapi

import (
	"net/http"

	"nyumbani-data/internal/domain"
	"nyumbani-data/internal/repository"

	"go.uber.org/zap"
)

// ShopHandler 商城：商品目录对所有登录用户可见，商品管理和订单
// 状态推进只开放给 shop_manager。
type ShopHandler struct {
	store  *repository.Store
	logger *zap.Logger
}

func NewShopHandler(store *repository.Store, logger *zap.Logger) *ShopHandler {
	return &ShopHandler{store: store, logger: logger}
}

// ListProducts GET /api/v1/shop/products
func (h *ShopHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	products, err := h.store.Shop.GetAllProducts(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(productViews(products)))
}

// GetProduct GET /api/v1/shop/products/{id}
func (h *ShopHandler) GetProduct(w http.ResponseWriter, r *http.Request, productID string) {
	ctx := r.Context()

	product, err := h.store.Shop.GetProduct(ctx, productID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(productView(product)))
}

// CreateProduct POST /api/v1/shop/products
func (h *ShopHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var payload struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		PriceCents  int64  `json:"priceCents"`
		Category    string `json:"category"`
		Stock       int    `json:"stock"`
		ImageRef    string `json:"imageRef"`
	}
	if err := readBodyJSON(r, 1<<20, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
		return
	}

	product, err := h.store.Shop.CreateProduct(ctx, domain.NewShopProduct{
		Name:        payload.Name,
		Description: payload.Description,
		PriceCents:  payload.PriceCents,
		Category:    payload.Category,
		Stock:       payload.Stock,
		ImageRef:    payload.ImageRef,
	})
	if err != nil {
		h.logger.Error("CreateProduct failed", zap.Error(err))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, Ok(productView(product)))
}

// UpdateProduct PATCH /api/v1/shop/products/{id}
// 改价不回溯已下单的行：快照在 order_items 里。
func (h *ShopHandler) UpdateProduct(w http.ResponseWriter, r *http.Request, productID string) {
	ctx := r.Context()

	var payload struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		PriceCents  *int64  `json:"priceCents"`
		Category    *string `json:"category"`
		Stock       *int    `json:"stock"`
		ImageRef    *string `json:"imageRef"`
		Active      *bool   `json:"active"`
	}
	if err := readBodyJSON(r, 1<<20, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
		return
	}

	product, err := h.store.Shop.UpdateProduct(ctx, productID, domain.ShopProductPatch{
		Name:        payload.Name,
		Description: payload.Description,
		PriceCents:  payload.PriceCents,
		Category:    payload.Category,
		Stock:       payload.Stock,
		ImageRef:    payload.ImageRef,
		Active:      payload.Active,
	})
	if err != nil {
		h.logger.Error("UpdateProduct failed", zap.String("product_id", productID), zap.Error(err))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(productView(product)))
}

// GetOrder GET /api/v1/shop/orders/{id}
func (h *ShopHandler) GetOrder(w http.ResponseWriter, r *http.Request, orderID string) {
	ctx := r.Context()

	order, err := h.store.Shop.GetOrder(ctx, orderID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(orderView(order)))
}

// UpdateOrderStatus POST /api/v1/shop/orders/{id}/status
func (h *ShopHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request, orderID string) {
	ctx := r.Context()

	var payload struct {
		Status string `json:"status"`
	}
	if err := readBodyJSON(r, 1<<20, &payload); err != nil || payload.Status == "" {
		writeJSON(w, http.StatusBadRequest, Fail("status is required"))
		return
	}

	order, err := h.store.Shop.UpdateOrderStatus(ctx, orderID, domain.OrderStatus(payload.Status))
	if err != nil {
		h.logger.Error("UpdateOrderStatus failed", zap.String("order_id", orderID), zap.Error(err))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(orderView(order)))
}
