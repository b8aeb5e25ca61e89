package repository

import (
	"context"
	"database/sql"
	"sort"

	"nyumbani-data/internal/domain"

	"github.com/google/uuid"
)

func (s *MemoryStore) CreateProduct(_ context.Context, np domain.NewShopProduct) (*domain.ShopProduct, error) {
	if err := np.Validate(); err != nil {
		return nil, invalidf("%v", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p := domain.ShopProduct{
		ProductID:  uuid.NewString(),
		Name:       np.Name,
		PriceCents: np.PriceCents,
		Category:   np.Category,
		Stock:      np.Stock,
		Active:     true,
	}
	if np.Description != "" {
		p.Description = sql.NullString{String: np.Description, Valid: true}
	}
	if np.ImageRef != "" {
		p.ImageRef = sql.NullString{String: np.ImageRef, Valid: true}
	}

	s.products[p.ProductID] = p
	return &p, nil
}

func (s *MemoryStore) GetProduct(_ context.Context, productID string) (*domain.ShopProduct, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[productID]
	if !ok {
		return nil, notFoundf("product %q", productID)
	}
	return &p, nil
}

func (s *MemoryStore) GetAllProducts(_ context.Context) ([]*domain.ShopProduct, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []*domain.ShopProduct{}
	for _, p := range s.products {
		p := p
		out = append(out, &p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *MemoryStore) UpdateProduct(_ context.Context, productID string, patch domain.ShopProductPatch) (*domain.ShopProduct, error) {
	if err := patch.Validate(); err != nil {
		return nil, invalidf("%v", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[productID]
	if !ok {
		return nil, notFoundf("product %q", productID)
	}

	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Description != nil {
		p.Description = sql.NullString{String: *patch.Description, Valid: *patch.Description != ""}
	}
	if patch.PriceCents != nil {
		p.PriceCents = *patch.PriceCents
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	if patch.Stock != nil {
		p.Stock = *patch.Stock
	}
	if patch.ImageRef != nil {
		p.ImageRef = sql.NullString{String: *patch.ImageRef, Valid: *patch.ImageRef != ""}
	}
	if patch.Active != nil {
		p.Active = *patch.Active
	}

	s.products[productID] = p
	return &p, nil
}

func (s *MemoryStore) CreateOrder(_ context.Context, no domain.NewShopOrder) (*domain.ShopOrder, error) {
	if err := no.Validate(); err != nil {
		return nil, invalidf("%v", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireUserRole(no.CustomerID, domain.RoleTenant, "customer"); err != nil {
		return nil, err
	}

	// 先全量检查，再落库：任何一行不满足就整单放弃，不产生部分扣减。
	type staged struct {
		product domain.ShopProduct
		qty     int
	}
	plan := make([]staged, 0, len(no.Lines))
	for _, line := range no.Lines {
		p, ok := s.products[line.ProductID]
		if !ok {
			return nil, badreff("product %q does not exist", line.ProductID)
		}
		if !p.Active {
			return nil, invalidf("product %q is not available", line.ProductID)
		}
		if p.Stock < line.Quantity {
			return nil, invalidf("insufficient stock for product %q: have %d, want %d", line.ProductID, p.Stock, line.Quantity)
		}
		plan = append(plan, staged{product: p, qty: line.Quantity})
	}

	order := domain.ShopOrder{
		OrderID:         uuid.NewString(),
		CustomerID:      no.CustomerID,
		Status:          domain.OrderPending,
		DeliveryAddress: no.DeliveryAddress,
		OrderDate:       s.now(),
	}
	for _, st := range plan {
		st.product.Stock -= st.qty
		s.products[st.product.ProductID] = st.product

		item := domain.OrderItem{
			ItemID:     uuid.NewString(),
			OrderID:    order.OrderID,
			ProductID:  st.product.ProductID,
			Quantity:   st.qty,
			PriceCents: st.product.PriceCents, // snapshot
		}
		order.Items = append(order.Items, item)
		order.TotalCents += int64(st.qty) * st.product.PriceCents
	}

	s.orders[order.OrderID] = order
	return &order, nil
}

func (s *MemoryStore) GetOrder(_ context.Context, orderID string) (*domain.ShopOrder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.orders[orderID]
	if !ok {
		return nil, notFoundf("order %q", orderID)
	}
	o.Items = append([]domain.OrderItem(nil), o.Items...)
	return &o, nil
}

func (s *MemoryStore) GetOrdersByCustomer(_ context.Context, customerID string) ([]*domain.ShopOrder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []*domain.ShopOrder{}
	for _, o := range s.orders {
		if o.CustomerID != customerID {
			continue
		}
		o := o
		o.Items = append([]domain.OrderItem(nil), o.Items...)
		out = append(out, &o)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].OrderDate.Equal(out[j].OrderDate) {
			return out[i].OrderDate.Before(out[j].OrderDate)
		}
		return out[i].OrderID < out[j].OrderID
	})
	return out, nil
}

func (s *MemoryStore) UpdateOrderStatus(_ context.Context, orderID string, status domain.OrderStatus) (*domain.ShopOrder, error) {
	if !status.Valid() {
		return nil, invalidf("unknown order status %q", status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[orderID]
	if !ok {
		return nil, notFoundf("order %q", orderID)
	}
	o.Status = status
	if status == domain.OrderDelivered {
		o.DeliveryDate = sql.NullTime{Time: s.now(), Valid: true}
	}
	s.orders[orderID] = o
	return &o, nil
}
