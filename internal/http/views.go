package httpapi

import (
	"time"

	"nyumbani-data/internal/domain"
)

// 响应视图：领域模型 -> JSON map。可空列只有有值时才出现在响应里，
// 密码摘要永不外发。

func userView(u *domain.User) map[string]any {
	v := map[string]any{
		"userId":    u.UserID,
		"username":  u.Username,
		"email":     u.Email,
		"role":      string(u.Role),
		"fullName":  u.FullName,
		"approved":  u.Approved,
		"createdAt": u.CreatedAt.Format(time.RFC3339),
	}
	if u.Phone.Valid {
		v["phone"] = u.Phone.String
	}
	return v
}

func userViews(users []*domain.User) []map[string]any {
	out := make([]map[string]any, 0, len(users))
	for _, u := range users {
		out = append(out, userView(u))
	}
	return out
}

func apartmentView(a *domain.Apartment) map[string]any {
	return map[string]any{
		"apartmentId": a.ApartmentID,
		"name":        a.Name,
		"location":    a.Location,
		"landlordId":  a.LandlordID,
	}
}

func apartmentViews(as []*domain.Apartment) []map[string]any {
	out := make([]map[string]any, 0, len(as))
	for _, a := range as {
		out = append(out, apartmentView(a))
	}
	return out
}

func unitView(u *domain.Unit) map[string]any {
	return map[string]any{
		"unitId":           u.UnitID,
		"apartmentId":      u.ApartmentID,
		"unitNumber":       u.UnitNumber,
		"monthlyRentCents": u.MonthlyRent,
		"occupied":         u.Occupied,
	}
}

func unitViews(us []*domain.Unit) []map[string]any {
	out := make([]map[string]any, 0, len(us))
	for _, u := range us {
		out = append(out, unitView(u))
	}
	return out
}

func roomView(r *domain.Room) map[string]any {
	v := map[string]any{
		"roomId":     r.RoomID,
		"unitId":     r.UnitID,
		"roomNumber": r.RoomNumber,
		"roomType":   r.RoomType,
	}
	if r.TenantID.Valid {
		v["tenantId"] = r.TenantID.String
	}
	return v
}

func roomViews(rs []*domain.Room) []map[string]any {
	out := make([]map[string]any, 0, len(rs))
	for _, r := range rs {
		out = append(out, roomView(r))
	}
	return out
}

func paymentView(p *domain.RentPayment) map[string]any {
	v := map[string]any{
		"paymentId":   p.PaymentID,
		"tenantId":    p.TenantID,
		"roomId":      p.RoomID,
		"amountCents": p.AmountCents,
		"method":      string(p.Method),
		"status":      string(p.Status),
		"paymentDate": p.PaymentDate.Format(time.DateOnly),
		"createdAt":   p.CreatedAt.Format(time.RFC3339),
	}
	if p.TransactionCode.Valid {
		v["transactionCode"] = p.TransactionCode.String
	}
	if p.ProofRef.Valid {
		v["proofRef"] = p.ProofRef.String
	}
	return v
}

func paymentViews(ps []*domain.RentPayment) []map[string]any {
	out := make([]map[string]any, 0, len(ps))
	for _, p := range ps {
		out = append(out, paymentView(p))
	}
	return out
}

func requestView(r *domain.ServiceRequest) map[string]any {
	v := map[string]any{
		"requestId":   r.RequestID,
		"tenantId":    r.TenantID,
		"roomId":      r.RoomID,
		"title":       r.Title,
		"description": r.Description,
		"status":      string(r.Status),
		"createdAt":   r.CreatedAt.Format(time.RFC3339),
		"updatedAt":   r.UpdatedAt.Format(time.RFC3339),
	}
	if r.MediaRef.Valid {
		v["mediaRef"] = r.MediaRef.String
	}
	if r.WorkerID.Valid {
		v["workerId"] = r.WorkerID.String
	}
	return v
}

func requestViews(rs []*domain.ServiceRequest) []map[string]any {
	out := make([]map[string]any, 0, len(rs))
	for _, r := range rs {
		out = append(out, requestView(r))
	}
	return out
}

func assignmentView(a *domain.WorkerAssignment) map[string]any {
	return map[string]any{
		"assignmentId": a.AssignmentID,
		"workerId":     a.WorkerID,
		"apartmentId":  a.ApartmentID,
		"duties":       a.Duties,
		"schedule":     a.Schedule,
		"createdAt":    a.CreatedAt.Format(time.RFC3339),
	}
}

func assignmentViews(as []*domain.WorkerAssignment) []map[string]any {
	out := make([]map[string]any, 0, len(as))
	for _, a := range as {
		out = append(out, assignmentView(a))
	}
	return out
}

func expenseView(e *domain.Expense) map[string]any {
	v := map[string]any{
		"expenseId":   e.ExpenseID,
		"landlordId":  e.LandlordID,
		"amountCents": e.AmountCents,
		"expenseType": e.ExpenseType,
		"expenseDate": e.ExpenseDate.Format(time.DateOnly),
	}
	if e.ApartmentID.Valid {
		v["apartmentId"] = e.ApartmentID.String
	}
	if e.Description.Valid {
		v["description"] = e.Description.String
	}
	return v
}

func expenseViews(es []*domain.Expense) []map[string]any {
	out := make([]map[string]any, 0, len(es))
	for _, e := range es {
		out = append(out, expenseView(e))
	}
	return out
}

func productView(p *domain.ShopProduct) map[string]any {
	v := map[string]any{
		"productId":  p.ProductID,
		"name":       p.Name,
		"priceCents": p.PriceCents,
		"category":   p.Category,
		"stock":      p.Stock,
		"active":     p.Active,
	}
	if p.Description.Valid {
		v["description"] = p.Description.String
	}
	if p.ImageRef.Valid {
		v["imageRef"] = p.ImageRef.String
	}
	return v
}

func productViews(ps []*domain.ShopProduct) []map[string]any {
	out := make([]map[string]any, 0, len(ps))
	for _, p := range ps {
		out = append(out, productView(p))
	}
	return out
}

func orderView(o *domain.ShopOrder) map[string]any {
	items := make([]map[string]any, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, map[string]any{
			"itemId":     it.ItemID,
			"productId":  it.ProductID,
			"quantity":   it.Quantity,
			"priceCents": it.PriceCents,
		})
	}
	v := map[string]any{
		"orderId":         o.OrderID,
		"customerId":      o.CustomerID,
		"totalCents":      o.TotalCents,
		"status":          string(o.Status),
		"deliveryAddress": o.DeliveryAddress,
		"orderDate":       o.OrderDate.Format(time.RFC3339),
		"items":           items,
	}
	if o.DeliveryDate.Valid {
		v["deliveryDate"] = o.DeliveryDate.Time.Format(time.DateOnly)
	}
	return v
}

func orderViews(os []*domain.ShopOrder) []map[string]any {
	out := make([]map[string]any, 0, len(os))
	for _, o := range os {
		out = append(out, orderView(o))
	}
	return out
}

func notificationView(n *domain.Notification) map[string]any {
	return map[string]any{
		"notificationId": n.NotificationID,
		"userId":         n.UserID,
		"title":          n.Title,
		"message":        n.Message,
		"type":           string(n.Type),
		"read":           n.Read,
		"createdAt":      n.CreatedAt.Format(time.RFC3339),
	}
}

func notificationViews(ns []*domain.Notification) []map[string]any {
	out := make([]map[string]any, 0, len(ns))
	for _, n := range ns {
		out = append(out, notificationView(n))
	}
	return out
}

func demoRequestView(d *domain.DemoRequest) map[string]any {
	v := map[string]any{
		"demoId":    d.DemoID,
		"name":      d.Name,
		"email":     d.Email,
		"createdAt": d.CreatedAt.Format(time.RFC3339),
	}
	if d.Phone.Valid {
		v["phone"] = d.Phone.String
	}
	if d.Company.Valid {
		v["company"] = d.Company.String
	}
	if d.Message.Valid {
		v["message"] = d.Message.String
	}
	return v
}

func contactMessageView(m *domain.ContactMessage) map[string]any {
	return map[string]any{
		"messageId": m.MessageID,
		"name":      m.Name,
		"email":     m.Email,
		"subject":   m.Subject,
		"body":      m.Body,
		"createdAt": m.CreatedAt.Format(time.RFC3339),
	}
}
