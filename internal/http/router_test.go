package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"nyumbani-data/internal/domain"
	"nyumbani-data/internal/repository"
	"nyumbani-data/internal/service"
	"nyumbani-data/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type apiFixture struct {
	router *Router
	store  *repository.Store
	auth   service.AuthService
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	logger := zap.NewNop()
	st := repository.NewMemoryBackedStore()

	auth := service.NewAuthService(st.Users, "test-secret", time.Hour, logger)
	notifications := service.NewNotificationService(st.Notifications, store.NopKV{}, logger)
	reports := service.NewReportService(st.Payments, st.Expenses, logger)
	scheduler := service.NewSchedulerClient("http://scheduler.invalid", "", logger)

	guard := NewGuard(auth, logger)
	router := NewRouter(logger)
	router.RegisterAuthRoutes(NewAuthHandler(auth, logger))
	router.RegisterPublicRoutes(NewPublicHandler(st, logger))
	router.RegisterLandlordRoutes(NewLandlordHandler(st, reports, notifications, logger), guard)
	router.RegisterTenantRoutes(NewTenantHandler(st, logger), guard)
	router.RegisterWorkerRoutes(NewWorkerHandler(st, logger), guard)
	router.RegisterShopRoutes(NewShopHandler(st, logger), guard)
	router.RegisterAdminRoutes(NewAdminHandler(st, logger), guard)
	router.RegisterCommonRoutes(NewCommonHandler(scheduler, notifications, logger), guard)

	return &apiFixture{router: router, store: st, auth: auth}
}

// loginAs 直接在存储层造号并签发 token。
func (fx *apiFixture) loginAs(t *testing.T, username string, role domain.Role) (string, string) {
	t.Helper()
	ctx := context.Background()
	u, err := fx.store.Users.CreateUser(ctx, domain.NewUser{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: service.HashPassword("hunter2!"),
		Role:         role,
		FullName:     "Test " + username,
	})
	require.NoError(t, err)
	require.NoError(t, fx.store.Users.ApproveUser(ctx, u.UserID, true))

	resp, err := fx.auth.Login(ctx, service.LoginRequest{Username: username, Password: "hunter2!"})
	require.NoError(t, err)
	return resp.Token, u.UserID
}

func (fx *apiFixture) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	fx.router.ServeHTTP(rec, req)
	return rec
}

func decodeResult(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var envelope struct {
		Code   int             `json:"code"`
		Result json.RawMessage `json:"result"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Equal(t, ResultSuccess, envelope.Code, "body: %s", rec.Body.String())
	var out map[string]any
	require.NoError(t, json.Unmarshal(envelope.Result, &out))
	return out
}

func TestAuth_RegisterAndLogin(t *testing.T) {
	fx := newAPIFixture(t)

	rec := fx.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"username": "tina",
		"email":    "tina@example.com",
		"password": "hunter2!",
		"role":     "tenant",
		"fullName": "Tina",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeResult(t, rec)
	assert.Equal(t, false, created["approved"])

	// 未审批不能登录
	rec = fx.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"username": "tina",
		"password": "hunter2!",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	require.NoError(t, fx.store.Users.ApproveUser(context.Background(), created["userId"].(string), true))

	rec = fx.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"username": "tina",
		"password": "hunter2!",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	result := decodeResult(t, rec)
	assert.NotEmpty(t, result["token"])
}

func TestAuth_AdminCannotSelfRegister(t *testing.T) {
	fx := newAPIFixture(t)

	rec := fx.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"username": "sneaky",
		"email":    "sneaky@example.com",
		"password": "hunter2!",
		"role":     "admin",
		"fullName": "Sneaky",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestGuard_TokenAndRoleChecks(t *testing.T) {
	fx := newAPIFixture(t)

	// 无 token
	rec := fx.do(t, http.MethodGet, "/api/v1/landlord/apartments", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// 伪 token
	rec = fx.do(t, http.MethodGet, "/api/v1/landlord/apartments", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// 角色不符
	tenantToken, _ := fx.loginAs(t, "tina", domain.RoleTenant)
	rec = fx.do(t, http.MethodGet, "/api/v1/landlord/apartments", tenantToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// 正确角色
	landlordToken, _ := fx.loginAs(t, "landlady", domain.RoleLandlord)
	rec = fx.do(t, http.MethodGet, "/api/v1/landlord/apartments", landlordToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLandlordFlow_PropertyChainAndOccupancy(t *testing.T) {
	fx := newAPIFixture(t)
	landlordToken, _ := fx.loginAs(t, "landlady", domain.RoleLandlord)
	_, tenantID := fx.loginAs(t, "tina", domain.RoleTenant)

	rec := fx.do(t, http.MethodPost, "/api/v1/landlord/apartments", landlordToken, map[string]any{
		"name":     "Sunrise Court",
		"location": "Ngong Road",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	aptID := decodeResult(t, rec)["apartmentId"].(string)

	rec = fx.do(t, http.MethodPost, "/api/v1/landlord/units", landlordToken, map[string]any{
		"apartmentId":      aptID,
		"unitNumber":       "A1",
		"monthlyRentCents": 1500000,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	unitID := decodeResult(t, rec)["unitId"].(string)

	rec = fx.do(t, http.MethodPost, "/api/v1/landlord/rooms", landlordToken, map[string]any{
		"unitId":     unitID,
		"roomNumber": "R1",
		"roomType":   "bedsitter",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	roomID := decodeResult(t, rec)["roomId"].(string)

	rec = fx.do(t, http.MethodPost, "/api/v1/landlord/rooms/"+roomID+"/assign-tenant", landlordToken, map[string]any{
		"tenantId": tenantID,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// occupied 在单元列表里可见
	rec = fx.do(t, http.MethodGet, "/api/v1/landlord/apartments/"+aptID+"/units", landlordToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var envelope struct {
		Result []map[string]any `json:"result"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Len(t, envelope.Result, 1)
	assert.Equal(t, true, envelope.Result[0]["occupied"])
}

func TestLandlordScoping_CrossLandlordHidden(t *testing.T) {
	fx := newAPIFixture(t)
	ownerToken, _ := fx.loginAs(t, "owner", domain.RoleLandlord)
	intruderToken, _ := fx.loginAs(t, "intruder", domain.RoleLandlord)

	rec := fx.do(t, http.MethodPost, "/api/v1/landlord/apartments", ownerToken, map[string]any{
		"name":     "Private Court",
		"location": "Karen",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	aptID := decodeResult(t, rec)["apartmentId"].(string)

	// 别人的物业在列表里不可见，按 id 摸也是 404
	rec = fx.do(t, http.MethodGet, "/api/v1/landlord/apartments/"+aptID+"/units", intruderToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = fx.do(t, http.MethodPost, "/api/v1/landlord/units", intruderToken, map[string]any{
		"apartmentId":      aptID,
		"unitNumber":       "X1",
		"monthlyRentCents": 1,
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTenantFlow_PaymentAndShopOrder(t *testing.T) {
	fx := newAPIFixture(t)
	ctx := context.Background()
	landlordToken, landlordID := fx.loginAs(t, "landlady", domain.RoleLandlord)
	tenantToken, tenantID := fx.loginAs(t, "tina", domain.RoleTenant)
	managerToken, _ := fx.loginAs(t, "dukawala", domain.RoleShopManager)

	// 房东搭好链路并安置租客
	apt, err := fx.store.Properties.CreateApartment(ctx, domain.NewApartment{
		Name: "Sunrise Court", Location: "Nairobi", LandlordID: landlordID,
	})
	require.NoError(t, err)
	unit, err := fx.store.Properties.CreateUnit(ctx, domain.NewUnit{
		ApartmentID: apt.ApartmentID, UnitNumber: "A1", MonthlyRent: 1500000,
	})
	require.NoError(t, err)
	room, err := fx.store.Properties.CreateRoom(ctx, domain.NewRoom{
		UnitID: unit.UnitID, RoomNumber: "R1", RoomType: "bedsitter",
	})
	require.NoError(t, err)
	require.NoError(t, fx.store.Properties.AssignTenant(ctx, room.RoomID, tenantID))

	// 租客提交支付（pending）
	rec := fx.do(t, http.MethodPost, "/api/v1/tenant/payments", tenantToken, map[string]any{
		"roomId":      room.RoomID,
		"amountCents": 1500000,
		"method":      "mpesa_manual",
		"proofRef":    "uploads/receipt.jpg",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	payment := decodeResult(t, rec)
	assert.Equal(t, "pending", payment["status"])

	// 房东确认
	rec = fx.do(t, http.MethodPost, "/api/v1/landlord/payments/"+payment["paymentId"].(string)+"/confirm", landlordToken, map[string]any{
		"transactionCode": "SBX123",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "confirmed", decodeResult(t, rec)["status"])

	// 店长上架商品，租客下单
	rec = fx.do(t, http.MethodPost, "/api/v1/shop/products", managerToken, map[string]any{
		"name":       "Soap",
		"priceCents": 5000,
		"category":   "household",
		"stock":      10,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	productID := decodeResult(t, rec)["productId"].(string)

	rec = fx.do(t, http.MethodPost, "/api/v1/tenant/orders", tenantToken, map[string]any{
		"deliveryAddress": "Sunrise Court A1",
		"lines":           []map[string]any{{"productId": productID, "quantity": 2}},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	order := decodeResult(t, rec)
	assert.Equal(t, float64(10000), order["totalCents"])

	// 库存不足整单失败
	rec = fx.do(t, http.MethodPost, "/api/v1/tenant/orders", tenantToken, map[string]any{
		"deliveryAddress": "Sunrise Court A1",
		"lines":           []map[string]any{{"productId": productID, "quantity": 100}},
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestWorkerFlow_OnlyOwnRequests(t *testing.T) {
	fx := newAPIFixture(t)
	ctx := context.Background()
	_, landlordID := fx.loginAs(t, "landlady", domain.RoleLandlord)
	_, tenantID := fx.loginAs(t, "tina", domain.RoleTenant)
	workerToken, workerID := fx.loginAs(t, "juma", domain.RoleWorker)

	apt, err := fx.store.Properties.CreateApartment(ctx, domain.NewApartment{
		Name: "Court", Location: "Nairobi", LandlordID: landlordID,
	})
	require.NoError(t, err)
	unit, err := fx.store.Properties.CreateUnit(ctx, domain.NewUnit{
		ApartmentID: apt.ApartmentID, UnitNumber: "A1", MonthlyRent: 1,
	})
	require.NoError(t, err)
	room, err := fx.store.Properties.CreateRoom(ctx, domain.NewRoom{
		UnitID: unit.UnitID, RoomNumber: "R1", RoomType: "1BR",
	})
	require.NoError(t, err)
	request, err := fx.store.Maintenance.CreateServiceRequest(ctx, domain.NewServiceRequest{
		TenantID: tenantID, RoomID: room.RoomID, Title: "Leak", Description: "drips",
	})
	require.NoError(t, err)

	// 未派给该工人：禁止推进
	rec := fx.do(t, http.MethodPost, "/api/v1/worker/service-requests/"+request.RequestID+"/status", workerToken, map[string]any{
		"status": "in_progress",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	_, err = fx.store.Maintenance.UpdateServiceRequest(ctx, request.RequestID, domain.ServiceRequestPatch{
		WorkerID: &workerID,
	})
	require.NoError(t, err)

	rec = fx.do(t, http.MethodPost, "/api/v1/worker/service-requests/"+request.RequestID+"/status", workerToken, map[string]any{
		"status": "in_progress",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "in_progress", decodeResult(t, rec)["status"])
}

func TestAdminAndPublicInquiries(t *testing.T) {
	fx := newAPIFixture(t)
	adminToken, _ := fx.loginAs(t, "root", domain.RoleAdmin)
	tenantToken, _ := fx.loginAs(t, "tina", domain.RoleTenant)

	// 公开提交
	rec := fx.do(t, http.MethodPost, "/api/v1/demo-requests", "", map[string]any{
		"name":    "Grace",
		"email":   "grace@example.com",
		"company": "Makao Ltd",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// 只有 admin 能读全量
	rec = fx.do(t, http.MethodGet, "/api/v1/admin/demo-requests", tenantToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = fx.do(t, http.MethodGet, "/api/v1/admin/demo-requests", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var envelope struct {
		Result []map[string]any `json:"result"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Len(t, envelope.Result, 1)
	assert.Equal(t, "Grace", envelope.Result[0]["name"])
}

func TestAdminApprovalFlow(t *testing.T) {
	fx := newAPIFixture(t)
	adminToken, _ := fx.loginAs(t, "root", domain.RoleAdmin)

	rec := fx.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"username": "newlord",
		"email":    "newlord@example.com",
		"password": "hunter2!",
		"role":     "landlord",
		"fullName": "New Lord",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	userID := decodeResult(t, rec)["userId"].(string)

	rec = fx.do(t, http.MethodPost, "/api/v1/admin/users/"+userID+"/approve", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = fx.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"username": "newlord",
		"password": "hunter2!",
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestNotifications_EndToEnd(t *testing.T) {
	fx := newAPIFixture(t)
	ctx := context.Background()
	tenantToken, tenantID := fx.loginAs(t, "tina", domain.RoleTenant)

	_, err := fx.store.Notifications.CreateNotification(ctx, domain.NewNotification{
		UserID: tenantID, Title: "Hello", Message: "Karibu", Type: domain.NotifyGeneral,
	})
	require.NoError(t, err)

	rec := fx.do(t, http.MethodGet, "/api/v1/notifications/unread-count", tenantToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), decodeResult(t, rec)["unread"])

	rec = fx.do(t, http.MethodGet, "/api/v1/notifications", tenantToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var envelope struct {
		Result []map[string]any `json:"result"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Len(t, envelope.Result, 1)

	notifID := envelope.Result[0]["notificationId"].(string)
	rec = fx.do(t, http.MethodPost, "/api/v1/notifications/"+notifID+"/read", tenantToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = fx.do(t, http.MethodGet, "/api/v1/notifications/unread-count", tenantToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(0), decodeResult(t, rec)["unread"])
}
