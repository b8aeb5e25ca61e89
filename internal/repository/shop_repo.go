package repository

import (
	"context"

	"nyumbani-data/internal/domain"
)

// ShopRepository 商城 Repository 接口
type ShopRepository interface {
	CreateProduct(ctx context.Context, np domain.NewShopProduct) (*domain.ShopProduct, error)
	GetProduct(ctx context.Context, productID string) (*domain.ShopProduct, error)
	GetAllProducts(ctx context.Context) ([]*domain.ShopProduct, error)
	UpdateProduct(ctx context.Context, productID string, patch domain.ShopProductPatch) (*domain.ShopProduct, error)

	// CreateOrder 单事务下单：
	// - 每行按当前库存条件扣减（stock >= qty 才扣）
	// - 任一行库存不足则整单失败（ErrInvariantViolation），不留下任何扣减
	// - 每行记录下单时的价格快照，total 由快照累加
	CreateOrder(ctx context.Context, no domain.NewShopOrder) (*domain.ShopOrder, error)

	GetOrder(ctx context.Context, orderID string) (*domain.ShopOrder, error)
	GetOrdersByCustomer(ctx context.Context, customerID string) ([]*domain.ShopOrder, error)
	UpdateOrderStatus(ctx context.Context, orderID string, status domain.OrderStatus) (*domain.ShopOrder, error)
}
