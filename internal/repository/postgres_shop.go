package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"nyumbani-data/internal/domain"
)

// PostgresShopRepository 商城 Repository 实现。
// CreateOrder 的库存扣减用条件 UPDATE（stock >= qty）在事务内逐行执行，
// 任何一行不满足就整体回滚，两个并发订单不可能把库存扣成负数。
type PostgresShopRepository struct {
	db *sql.DB
}

func NewPostgresShopRepository(db *sql.DB) *PostgresShopRepository {
	return &PostgresShopRepository{db: db}
}

var _ ShopRepository = (*PostgresShopRepository)(nil)

const productColumns = `product_id::text, name, description, price_cents, category, stock, image_ref, active`

func scanProduct(scan func(dest ...any) error) (*domain.ShopProduct, error) {
	var p domain.ShopProduct
	err := scan(
		&p.ProductID,
		&p.Name,
		&p.Description,
		&p.PriceCents,
		&p.Category,
		&p.Stock,
		&p.ImageRef,
		&p.Active,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PostgresShopRepository) CreateProduct(ctx context.Context, np domain.NewShopProduct) (*domain.ShopProduct, error) {
	if err := np.Validate(); err != nil {
		return nil, invalidf("%v", err)
	}

	query := `
		INSERT INTO shop_products (name, description, price_cents, category, stock, image_ref, active)
		VALUES ($1, $2, $3, $4, $5, $6, TRUE)
		RETURNING ` + productColumns

	var desc, img sql.NullString
	if np.Description != "" {
		desc = sql.NullString{String: np.Description, Valid: true}
	}
	if np.ImageRef != "" {
		img = sql.NullString{String: np.ImageRef, Valid: true}
	}

	p, err := scanProduct(r.db.QueryRowContext(ctx, query,
		np.Name, desc, np.PriceCents, np.Category, np.Stock, img,
	).Scan)
	if err != nil {
		return nil, mapPQError(err, "create product")
	}
	return p, nil
}

func (r *PostgresShopRepository) GetProduct(ctx context.Context, productID string) (*domain.ShopProduct, error) {
	query := `SELECT ` + productColumns + ` FROM shop_products WHERE product_id = $1`
	p, err := scanProduct(r.db.QueryRowContext(ctx, query, productID).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFoundf("product %q", productID)
		}
		return nil, mapPQError(err, "get product")
	}
	return p, nil
}

func (r *PostgresShopRepository) GetAllProducts(ctx context.Context) ([]*domain.ShopProduct, error) {
	query := `SELECT ` + productColumns + ` FROM shop_products ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, mapPQError(err, "list products")
	}
	defer rows.Close()

	out := []*domain.ShopProduct{}
	for rows.Next() {
		p, err := scanProduct(rows.Scan)
		if err != nil {
			return nil, mapPQError(err, "scan product")
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PostgresShopRepository) UpdateProduct(ctx context.Context, productID string, patch domain.ShopProductPatch) (*domain.ShopProduct, error) {
	if err := patch.Validate(); err != nil {
		return nil, invalidf("%v", err)
	}

	set := []string{}
	args := []any{}
	argIdx := 1

	add := func(col string, v any) {
		set = append(set, fmt.Sprintf("%s = $%d", col, argIdx))
		args = append(args, v)
		argIdx++
	}
	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.Description != nil {
		add("description", sql.NullString{String: *patch.Description, Valid: *patch.Description != ""})
	}
	if patch.PriceCents != nil {
		add("price_cents", *patch.PriceCents)
	}
	if patch.Category != nil {
		add("category", *patch.Category)
	}
	if patch.Stock != nil {
		add("stock", *patch.Stock)
	}
	if patch.ImageRef != nil {
		add("image_ref", sql.NullString{String: *patch.ImageRef, Valid: *patch.ImageRef != ""})
	}
	if patch.Active != nil {
		add("active", *patch.Active)
	}
	if len(set) == 0 {
		return r.GetProduct(ctx, productID)
	}

	query := `UPDATE shop_products SET ` + strings.Join(set, ", ") +
		fmt.Sprintf(` WHERE product_id = $%d RETURNING `, argIdx) + productColumns
	args = append(args, productID)

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, args...).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFoundf("product %q", productID)
		}
		return nil, mapPQError(err, "update product")
	}
	return p, nil
}

func (r *PostgresShopRepository) CreateOrder(ctx context.Context, no domain.NewShopOrder) (*domain.ShopOrder, error) {
	if err := no.Validate(); err != nil {
		return nil, invalidf("%v", err)
	}

	var order domain.ShopOrder
	err := inTx(ctx, r.db, func(tx *sql.Tx) error {
		var role string
		err := tx.QueryRowContext(ctx, `SELECT role FROM users WHERE user_id = $1`, no.CustomerID).Scan(&role)
		if errors.Is(err, sql.ErrNoRows) {
			return badreff("customer %q does not exist", no.CustomerID)
		}
		if err != nil {
			return mapPQError(err, "check customer")
		}
		if role != string(domain.RoleTenant) {
			return badreff("customer %q has role %q, want %q", no.CustomerID, role, domain.RoleTenant)
		}

		err = tx.QueryRowContext(ctx, `
			INSERT INTO shop_orders (customer_id, total_cents, status, delivery_address)
			VALUES ($1, 0, 'pending', $2)
			RETURNING order_id::text, order_date
		`, no.CustomerID, no.DeliveryAddress).Scan(&order.OrderID, &order.OrderDate)
		if err != nil {
			return mapPQError(err, "create order")
		}
		order.CustomerID = no.CustomerID
		order.Status = domain.OrderPending
		order.DeliveryAddress = no.DeliveryAddress

		for _, line := range no.Lines {
			// 条件扣减：只有库存足够才会命中一行。未命中时区分
			// 商品不存在 / 下架 / 库存不足，错误里带当前库存。
			var priceCents int64
			err := tx.QueryRowContext(ctx, `
				UPDATE shop_products
				SET stock = stock - $1
				WHERE product_id = $2 AND active AND stock >= $1
				RETURNING price_cents
			`, line.Quantity, line.ProductID).Scan(&priceCents)
			if errors.Is(err, sql.ErrNoRows) {
				var stock int
				var active bool
				err := tx.QueryRowContext(ctx,
					`SELECT stock, active FROM shop_products WHERE product_id = $1`,
					line.ProductID,
				).Scan(&stock, &active)
				if errors.Is(err, sql.ErrNoRows) {
					return badreff("product %q does not exist", line.ProductID)
				}
				if err != nil {
					return mapPQError(err, "check product")
				}
				if !active {
					return invalidf("product %q is not available", line.ProductID)
				}
				return invalidf("insufficient stock for product %q: have %d, want %d", line.ProductID, stock, line.Quantity)
			}
			if err != nil {
				return mapPQError(err, "decrement stock")
			}

			item := domain.OrderItem{
				OrderID:    order.OrderID,
				ProductID:  line.ProductID,
				Quantity:   line.Quantity,
				PriceCents: priceCents,
			}
			err = tx.QueryRowContext(ctx, `
				INSERT INTO order_items (order_id, product_id, quantity, price_cents)
				VALUES ($1, $2, $3, $4)
				RETURNING item_id::text
			`, item.OrderID, item.ProductID, item.Quantity, item.PriceCents).Scan(&item.ItemID)
			if err != nil {
				return mapPQError(err, "create order item")
			}

			order.Items = append(order.Items, item)
			order.TotalCents += int64(item.Quantity) * item.PriceCents
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE shop_orders SET total_cents = $1 WHERE order_id = $2`,
			order.TotalCents, order.OrderID,
		); err != nil {
			return mapPQError(err, "set order total")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

const orderColumns = `order_id::text, customer_id::text, total_cents, status, delivery_address, order_date, delivery_date`

func (r *PostgresShopRepository) GetOrder(ctx context.Context, orderID string) (*domain.ShopOrder, error) {
	query := `SELECT ` + orderColumns + ` FROM shop_orders WHERE order_id = $1`
	var o domain.ShopOrder
	err := r.db.QueryRowContext(ctx, query, orderID).Scan(
		&o.OrderID, &o.CustomerID, &o.TotalCents, &o.Status, &o.DeliveryAddress, &o.OrderDate, &o.DeliveryDate,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFoundf("order %q", orderID)
		}
		return nil, mapPQError(err, "get order")
	}
	if err := r.attachItems(ctx, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *PostgresShopRepository) GetOrdersByCustomer(ctx context.Context, customerID string) ([]*domain.ShopOrder, error) {
	query := `SELECT ` + orderColumns + ` FROM shop_orders WHERE customer_id = $1 ORDER BY order_date, order_id`
	rows, err := r.db.QueryContext(ctx, query, customerID)
	if err != nil {
		return nil, mapPQError(err, "list orders")
	}
	defer rows.Close()

	out := []*domain.ShopOrder{}
	for rows.Next() {
		var o domain.ShopOrder
		if err := rows.Scan(&o.OrderID, &o.CustomerID, &o.TotalCents, &o.Status, &o.DeliveryAddress, &o.OrderDate, &o.DeliveryDate); err != nil {
			return nil, mapPQError(err, "scan order")
		}
		out = append(out, &o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, o := range out {
		if err := r.attachItems(ctx, o); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *PostgresShopRepository) attachItems(ctx context.Context, o *domain.ShopOrder) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT item_id::text, order_id::text, product_id::text, quantity, price_cents
		FROM order_items
		WHERE order_id = $1
		ORDER BY item_id
	`, o.OrderID)
	if err != nil {
		return mapPQError(err, "list order items")
	}
	defer rows.Close()

	for rows.Next() {
		var it domain.OrderItem
		if err := rows.Scan(&it.ItemID, &it.OrderID, &it.ProductID, &it.Quantity, &it.PriceCents); err != nil {
			return mapPQError(err, "scan order item")
		}
		o.Items = append(o.Items, it)
	}
	return rows.Err()
}

func (r *PostgresShopRepository) UpdateOrderStatus(ctx context.Context, orderID string, status domain.OrderStatus) (*domain.ShopOrder, error) {
	if !status.Valid() {
		return nil, invalidf("unknown order status %q", status)
	}

	query := `
		UPDATE shop_orders
		SET status = $1,
		    delivery_date = CASE WHEN $1 = 'delivered' THEN now() ELSE delivery_date END
		WHERE order_id = $2
		RETURNING ` + orderColumns
	var o domain.ShopOrder
	err := r.db.QueryRowContext(ctx, query, string(status), orderID).Scan(
		&o.OrderID, &o.CustomerID, &o.TotalCents, &o.Status, &o.DeliveryAddress, &o.OrderDate, &o.DeliveryDate,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFoundf("order %q", orderID)
		}
		return nil, mapPQError(err, "update order status")
	}
	if err := r.attachItems(ctx, &o); err != nil {
		return nil, err
	}
	return &o, nil
}
