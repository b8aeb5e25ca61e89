package domain

import (
	"database/sql"
	"fmt"
	"time"
)

// ShopProduct 商城商品（对应 shop_products 表）
type ShopProduct struct {
	ProductID   string         `db:"product_id"`
	Name        string         `db:"name"`        // NOT NULL
	Description sql.NullString `db:"description"` // nullable
	PriceCents  int64          `db:"price_cents"` // NOT NULL, >= 0
	Category    string         `db:"category"`    // NOT NULL
	Stock       int            `db:"stock"`       // NOT NULL, >= 0
	ImageRef    sql.NullString `db:"image_ref"`   // nullable
	Active      bool           `db:"active"`      // NOT NULL, default true
}

// NewShopProduct 可插入投影。
type NewShopProduct struct {
	Name        string
	Description string // optional
	PriceCents  int64
	Category    string
	Stock       int
	ImageRef    string // optional
}

func (p NewShopProduct) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	if p.PriceCents < 0 {
		return fmt.Errorf("price cannot be negative")
	}
	if p.Category == "" {
		return fmt.Errorf("category is required")
	}
	if p.Stock < 0 {
		return fmt.Errorf("stock cannot be negative")
	}
	return nil
}

// ShopProductPatch 部分更新：nil 字段不更新。
type ShopProductPatch struct {
	Name        *string
	Description *string
	PriceCents  *int64
	Category    *string
	Stock       *int
	ImageRef    *string
	Active      *bool
}

func (p ShopProductPatch) Validate() error {
	if p.Name != nil && *p.Name == "" {
		return fmt.Errorf("name cannot be cleared")
	}
	if p.PriceCents != nil && *p.PriceCents < 0 {
		return fmt.Errorf("price cannot be negative")
	}
	if p.Stock != nil && *p.Stock < 0 {
		return fmt.Errorf("stock cannot be negative")
	}
	return nil
}

// OrderStatus 订单状态
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderConfirmed, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

// ShopOrder 商城订单（对应 shop_orders 表）
type ShopOrder struct {
	OrderID         string       `db:"order_id"`
	CustomerID      string       `db:"customer_id"`      // NOT NULL, FK users (role=tenant)
	TotalCents      int64        `db:"total_cents"`      // NOT NULL
	Status          OrderStatus  `db:"status"`           // NOT NULL, default 'pending'
	DeliveryAddress string       `db:"delivery_address"` // NOT NULL
	OrderDate       time.Time    `db:"order_date"`       // NOT NULL, default now()
	DeliveryDate    sql.NullTime `db:"delivery_date"`    // nullable
	Items           []OrderItem  `db:"-"`
}

// OrderItem 订单行（对应 order_items 表）
// price_cents 是下单时的价格快照，商品改价不回溯。
type OrderItem struct {
	ItemID     string `db:"item_id"`
	OrderID    string `db:"order_id"`    // NOT NULL, FK shop_orders
	ProductID  string `db:"product_id"`  // NOT NULL, FK shop_products
	Quantity   int    `db:"quantity"`    // NOT NULL, > 0
	PriceCents int64  `db:"price_cents"` // NOT NULL, snapshot at order time
}

// OrderLine 下单请求中的一行（价格由存储层快照，不由调用方提供）。
type OrderLine struct {
	ProductID string
	Quantity  int
}

// NewShopOrder 可插入投影：total 与行价格由存储层根据当前商品价格计算。
type NewShopOrder struct {
	CustomerID      string
	DeliveryAddress string
	Lines           []OrderLine
}

func (o NewShopOrder) Validate() error {
	if o.CustomerID == "" {
		return fmt.Errorf("customer_id is required")
	}
	if o.DeliveryAddress == "" {
		return fmt.Errorf("delivery_address is required")
	}
	if len(o.Lines) == 0 {
		return fmt.Errorf("order has no items")
	}
	for _, l := range o.Lines {
		if l.ProductID == "" {
			return fmt.Errorf("product_id is required")
		}
		if l.Quantity <= 0 {
			return fmt.Errorf("quantity must be positive")
		}
	}
	return nil
}
