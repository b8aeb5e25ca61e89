package httpapi

import (
	"net/http"
	"strings"

	"nyumbani-data/internal/domain"

	"go.uber.org/zap"
)

// Router 使用标准库 http.ServeMux（避免引入第三方路由依赖）
type Router struct {
	mux    *http.ServeMux
	logger *zap.Logger
}

func NewRouter(logger *zap.Logger) *Router {
	return &Router{
		mux:    http.NewServeMux(),
		logger: logger,
	}
}

func (r *Router) Handle(pattern string, h http.HandlerFunc) {
	r.mux.HandleFunc(pattern, h)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// pathTail 取 prefix 之后的路径段。二段形如 {id}/action。
func pathTail(path, prefix string) []string {
	tail := strings.TrimPrefix(path, prefix)
	tail = strings.Trim(tail, "/")
	if tail == "" {
		return nil
	}
	return strings.Split(tail, "/")
}

func methodOnly(method string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h(w, r)
	}
}

// RegisterAuthRoutes 注册 / 登录（公开）
func (r *Router) RegisterAuthRoutes(h *AuthHandler) {
	r.Handle("/api/v1/auth/register", methodOnly(http.MethodPost, h.Register))
	r.Handle("/api/v1/auth/login", methodOnly(http.MethodPost, h.Login))
}

// RegisterPublicRoutes 落地页入口（公开）
func (r *Router) RegisterPublicRoutes(h *PublicHandler) {
	r.Handle("/api/v1/demo-requests", methodOnly(http.MethodPost, h.CreateDemoRequest))
	r.Handle("/api/v1/contact-messages", methodOnly(http.MethodPost, h.CreateContactMessage))
}

// RegisterLandlordRoutes 房东侧（role=landlord，admin 放行）
func (r *Router) RegisterLandlordRoutes(h *LandlordHandler, g *Guard) {
	landlord := func(next http.HandlerFunc) http.HandlerFunc {
		return g.Require(next, domain.RoleLandlord, domain.RoleAdmin)
	}

	r.Handle("/api/v1/landlord/apartments", landlord(func(w http.ResponseWriter, req *http.Request) {
		switch req.Method {
		case http.MethodPost:
			h.CreateApartment(w, req)
		case http.MethodGet:
			h.ListApartments(w, req)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}))

	// apartments/{id}/units | apartments/{id}/worker-assignments
	r.Handle("/api/v1/landlord/apartments/", landlord(func(w http.ResponseWriter, req *http.Request) {
		parts := pathTail(req.URL.Path, "/api/v1/landlord/apartments/")
		if len(parts) != 2 || req.Method != http.MethodGet {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		switch parts[1] {
		case "units":
			h.ListUnits(w, req, parts[0])
		case "worker-assignments":
			h.ListApartmentAssignments(w, req, parts[0])
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	r.Handle("/api/v1/landlord/units", landlord(methodOnly(http.MethodPost, h.CreateUnit)))

	// units/{id}/rooms
	r.Handle("/api/v1/landlord/units/", landlord(func(w http.ResponseWriter, req *http.Request) {
		parts := pathTail(req.URL.Path, "/api/v1/landlord/units/")
		if len(parts) != 2 || parts[1] != "rooms" || req.Method != http.MethodGet {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		h.ListRooms(w, req, parts[0])
	}))

	r.Handle("/api/v1/landlord/rooms", landlord(methodOnly(http.MethodPost, h.CreateRoom)))

	// rooms/{id}/assign-tenant | rooms/{id}/vacate
	r.Handle("/api/v1/landlord/rooms/", landlord(func(w http.ResponseWriter, req *http.Request) {
		parts := pathTail(req.URL.Path, "/api/v1/landlord/rooms/")
		if len(parts) != 2 || req.Method != http.MethodPost {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		switch parts[1] {
		case "assign-tenant":
			h.AssignTenant(w, req, parts[0])
		case "vacate":
			h.VacateRoom(w, req, parts[0])
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	r.Handle("/api/v1/landlord/expenses", landlord(func(w http.ResponseWriter, req *http.Request) {
		switch req.Method {
		case http.MethodPost:
			h.CreateExpense(w, req)
		case http.MethodGet:
			h.ListExpenses(w, req)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}))

	r.Handle("/api/v1/landlord/payments", landlord(methodOnly(http.MethodGet, h.ListPayments)))

	// payments/{id}/confirm | payments/{id}/fail
	r.Handle("/api/v1/landlord/payments/", landlord(func(w http.ResponseWriter, req *http.Request) {
		parts := pathTail(req.URL.Path, "/api/v1/landlord/payments/")
		if len(parts) != 2 || req.Method != http.MethodPost {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		switch parts[1] {
		case "confirm":
			h.ConfirmPayment(w, req, parts[0])
		case "fail":
			h.FailPayment(w, req, parts[0])
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	r.Handle("/api/v1/landlord/service-requests", landlord(methodOnly(http.MethodGet, h.ListServiceRequests)))

	// service-requests/{id}
	r.Handle("/api/v1/landlord/service-requests/", landlord(func(w http.ResponseWriter, req *http.Request) {
		parts := pathTail(req.URL.Path, "/api/v1/landlord/service-requests/")
		if len(parts) != 1 || req.Method != http.MethodPatch {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		h.UpdateServiceRequest(w, req, parts[0])
	}))

	r.Handle("/api/v1/landlord/worker-assignments", landlord(methodOnly(http.MethodPost, h.CreateWorkerAssignment)))
	r.Handle("/api/v1/landlord/reports/finance", landlord(methodOnly(http.MethodGet, h.FinanceReport)))
}

// RegisterTenantRoutes 租客侧（role=tenant）
func (r *Router) RegisterTenantRoutes(h *TenantHandler, g *Guard) {
	tenant := func(next http.HandlerFunc) http.HandlerFunc {
		return g.Require(next, domain.RoleTenant)
	}

	r.Handle("/api/v1/tenant/room", tenant(methodOnly(http.MethodGet, h.MyRoom)))

	r.Handle("/api/v1/tenant/payments", tenant(func(w http.ResponseWriter, req *http.Request) {
		switch req.Method {
		case http.MethodPost:
			h.CreatePayment(w, req)
		case http.MethodGet:
			h.ListPayments(w, req)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}))

	r.Handle("/api/v1/tenant/service-requests", tenant(func(w http.ResponseWriter, req *http.Request) {
		switch req.Method {
		case http.MethodPost:
			h.CreateServiceRequest(w, req)
		case http.MethodGet:
			h.ListServiceRequests(w, req)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}))

	r.Handle("/api/v1/tenant/orders", tenant(func(w http.ResponseWriter, req *http.Request) {
		switch req.Method {
		case http.MethodPost:
			h.CreateOrder(w, req)
		case http.MethodGet:
			h.ListOrders(w, req)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}))
}

// RegisterWorkerRoutes 工人侧（role=worker）
func (r *Router) RegisterWorkerRoutes(h *WorkerHandler, g *Guard) {
	worker := func(next http.HandlerFunc) http.HandlerFunc {
		return g.Require(next, domain.RoleWorker)
	}

	r.Handle("/api/v1/worker/assignments", worker(methodOnly(http.MethodGet, h.ListAssignments)))
	r.Handle("/api/v1/worker/service-requests", worker(methodOnly(http.MethodGet, h.ListServiceRequests)))

	// service-requests/{id}/status
	r.Handle("/api/v1/worker/service-requests/", worker(func(w http.ResponseWriter, req *http.Request) {
		parts := pathTail(req.URL.Path, "/api/v1/worker/service-requests/")
		if len(parts) != 2 || parts[1] != "status" || req.Method != http.MethodPost {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		h.UpdateRequestStatus(w, req, parts[0])
	}))
}

// RegisterShopRoutes 商城：目录对所有登录用户开放，管理需 shop_manager。
func (r *Router) RegisterShopRoutes(h *ShopHandler, g *Guard) {
	manager := func(next http.HandlerFunc) http.HandlerFunc {
		return g.Require(next, domain.RoleShopManager, domain.RoleAdmin)
	}

	r.Handle("/api/v1/shop/products", func(w http.ResponseWriter, req *http.Request) {
		switch req.Method {
		case http.MethodGet:
			g.Authenticated(h.ListProducts)(w, req)
		case http.MethodPost:
			manager(h.CreateProduct)(w, req)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})

	// products/{id}
	r.Handle("/api/v1/shop/products/", func(w http.ResponseWriter, req *http.Request) {
		parts := pathTail(req.URL.Path, "/api/v1/shop/products/")
		if len(parts) != 1 {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		switch req.Method {
		case http.MethodGet:
			g.Authenticated(func(w http.ResponseWriter, req *http.Request) {
				h.GetProduct(w, req, parts[0])
			})(w, req)
		case http.MethodPatch:
			manager(func(w http.ResponseWriter, req *http.Request) {
				h.UpdateProduct(w, req, parts[0])
			})(w, req)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})

	// orders/{id} | orders/{id}/status
	r.Handle("/api/v1/shop/orders/", manager(func(w http.ResponseWriter, req *http.Request) {
		parts := pathTail(req.URL.Path, "/api/v1/shop/orders/")
		switch {
		case len(parts) == 1 && req.Method == http.MethodGet:
			h.GetOrder(w, req, parts[0])
		case len(parts) == 2 && parts[1] == "status" && req.Method == http.MethodPost:
			h.UpdateOrderStatus(w, req, parts[0])
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

// RegisterAdminRoutes 管理员侧（role=admin）
func (r *Router) RegisterAdminRoutes(h *AdminHandler, g *Guard) {
	admin := func(next http.HandlerFunc) http.HandlerFunc {
		return g.Require(next, domain.RoleAdmin)
	}

	r.Handle("/api/v1/admin/users", admin(methodOnly(http.MethodGet, h.ListUsers)))

	// users/{id}/approve
	r.Handle("/api/v1/admin/users/", admin(func(w http.ResponseWriter, req *http.Request) {
		parts := pathTail(req.URL.Path, "/api/v1/admin/users/")
		if len(parts) != 2 || parts[1] != "approve" || req.Method != http.MethodPost {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		h.ApproveUser(w, req, parts[0])
	}))

	r.Handle("/api/v1/admin/demo-requests", admin(methodOnly(http.MethodGet, h.ListDemoRequests)))
	r.Handle("/api/v1/admin/contact-messages", admin(methodOnly(http.MethodGet, h.ListContactMessages)))
}

// RegisterCommonRoutes 所有登录用户可用：通知、排程建议。
func (r *Router) RegisterCommonRoutes(h *CommonHandler, g *Guard) {
	r.Handle("/api/v1/notifications", g.Authenticated(methodOnly(http.MethodGet, h.ListNotifications)))
	r.Handle("/api/v1/notifications/unread-count", g.Authenticated(methodOnly(http.MethodGet, h.UnreadCount)))

	// notifications/{id}/read
	r.Handle("/api/v1/notifications/", g.Authenticated(func(w http.ResponseWriter, req *http.Request) {
		parts := pathTail(req.URL.Path, "/api/v1/notifications/")
		if len(parts) != 2 || parts[1] != "read" || req.Method != http.MethodPost {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		h.MarkRead(w, req, parts[0])
	}))

	r.Handle("/api/v1/schedule/suggest", g.Authenticated(methodOnly(http.MethodPost, h.SuggestSchedule)))
}
