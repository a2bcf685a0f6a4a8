package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Laboratorio-api/internal/application/analytics"
	"github.com/jhoicas/Laboratorio-api/internal/application/auth"
	"github.com/jhoicas/Laboratorio-api/internal/application/inventory"
	"github.com/jhoicas/Laboratorio-api/internal/application/ports"
	"github.com/jhoicas/Laboratorio-api/internal/application/requisition"
	"github.com/jhoicas/Laboratorio-api/internal/domain/entity"
	"github.com/jhoicas/Laboratorio-api/internal/infrastructure/excel"
	"github.com/jhoicas/Laboratorio-api/internal/infrastructure/memory"
	"github.com/jhoicas/Laboratorio-api/internal/infrastructure/metrics"
	apphttp "github.com/jhoicas/Laboratorio-api/internal/interfaces/http"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Code    int             `json:"code"`
}

type testAPI struct {
	app      *fiber.App
	store    *memory.Store
	authUC   *auth.AuthUseCase
	member   string
	approver string
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	cst := time.FixedZone("CST", 8*3600)
	clock := ports.FixedClock(time.Date(2026, 3, 7, 10, 0, 0, 0, cst))
	log := zerolog.Nop()
	s := memory.NewStore()
	recorder := metrics.NewRecorder("laboratorio_test")

	ctx := context.Background()
	member := &entity.User{Username: "ana", Role: entity.RoleMember}
	approver := &entity.User{Username: "jefe", Role: entity.RoleApprover}
	require.NoError(t, s.Users().Create(ctx, member))
	require.NoError(t, s.Users().Create(ctx, approver))

	authUC := auth.NewAuthUseCase(s.Users(), auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer}, clock)

	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler})
	app.Use(apphttp.AccessLog(log))
	app.Use(apphttp.Instrument(recorder))
	apphttp.Router(app, apphttp.RouterDeps{
		CategoryUC:    inventory.NewCategoryUseCase(s.Categories(), s.Materials(), clock, log),
		MaterialUC:    inventory.NewMaterialUseCase(s, s.Materials(), s.Categories(), s.Transactions(), clock, log),
		StockUC:       inventory.NewStockUseCase(s, s.Transactions(), excel.NewLedgerExporter(cst), recorder, clock, log),
		StatisticsUC:  analytics.NewStatisticsUseCase(s.Statistics(), clock),
		RequisitionUC: requisition.NewUseCase(s, s.Requisitions(), s.Materials(), s.Users(), recorder, clock, log),
		AuthUC:        authUC,
		JWTSecret:     testJWTSecret,
		ApproverRoles: []string{entity.RoleAdmin, entity.RoleApprover},
	})

	return &testAPI{
		app:      app,
		store:    s,
		authUC:   authUC,
		member:   tokenFor(t, member.ID, member.Role),
		approver: tokenFor(t, approver.ID, approver.Role),
	}
}

// do lanza la petición y devuelve la respuesta con el envelope decodificado.
func (a *testAPI) do(t *testing.T, method, path, token string, body any) (*http.Response, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 && resp.Header.Get("Content-Type") == fiber.MIMEApplicationJSON {
		require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp, env
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

type idOnly struct {
	ID int64 `json:"id"`
}

func (a *testAPI) createCategory(t *testing.T, name string) int64 {
	t.Helper()
	resp, env := a.do(t, http.MethodPost, "/api/v1/material-categories", a.member, map[string]any{"name": name})
	require.Equal(t, http.StatusCreated, resp.StatusCode, env.Message)
	return decode[idOnly](t, env).ID
}

func (a *testAPI) createMaterial(t *testing.T, body map[string]any) int64 {
	t.Helper()
	resp, env := a.do(t, http.MethodPost, "/api/v1/materials", a.member, body)
	require.Equal(t, http.StatusCreated, resp.StatusCode, env.Message)
	return decode[idOnly](t, env).ID
}

func TestRouter_SinToken_401(t *testing.T) {
	api := newTestAPI(t)
	for _, path := range []string{"/api/v1/materials", "/api/v1/material-categories", "/api/v1/material-requests", "/api/v1/auth/profile"} {
		resp, env := api.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
		assert.False(t, env.Success)
		assert.Equal(t, http.StatusUnauthorized, env.Code)
	}
}

func TestRouter_MaterialBajoStock(t *testing.T) {
	api := newTestAPI(t)
	catID := api.createCategory(t, "Electronics")
	id := api.createMaterial(t, map[string]any{
		"code": "R100", "name": "Resistencia 100Ω", "category_id": catID, "unit": "pcs",
		"stock_quantity": 5, "min_stock": 10,
	})

	resp, env := api.do(t, http.MethodGet, fmt.Sprintf("/api/v1/materials/%d", id), api.member, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, env.Success)
	assert.Equal(t, http.StatusOK, env.Code)
	m := decode[struct {
		Code   string `json:"code"`
		Status string `json:"status"`
	}](t, env)
	assert.Equal(t, "R100", m.Code)
	assert.Equal(t, entity.MaterialStatusLowStock, m.Status)
}

func TestRouter_ErroresDeMaterial(t *testing.T) {
	api := newTestAPI(t)
	catID := api.createCategory(t, "Vidrio")
	api.createMaterial(t, map[string]any{"code": "V1", "name": "Vaso", "category_id": catID, "unit": "pcs"})

	resp, env := api.do(t, http.MethodPost, "/api/v1/materials", api.member,
		map[string]any{"code": "V1", "name": "Otro", "category_id": catID, "unit": "pcs"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.False(t, env.Success)

	resp, _ = api.do(t, http.MethodPost, "/api/v1/materials", api.member,
		map[string]any{"code": "V2", "name": "Otro", "category_id": 999, "unit": "pcs"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = api.do(t, http.MethodPost, "/api/v1/materials", api.member, map[string]any{"name": "sin código"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = api.do(t, http.MethodGet, "/api/v1/materials/abc", api.member, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = api.do(t, http.MethodGet, "/api/v1/materials/999", api.member, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = api.do(t, http.MethodGet, "/api/v1/materials?category_id=x", api.member, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRouter_AjusteYLibro(t *testing.T) {
	api := newTestAPI(t)
	catID := api.createCategory(t, "Reactivos")
	id := api.createMaterial(t, map[string]any{"code": "M001", "name": "Etanol", "category_id": catID, "unit": "L", "stock_quantity": 10})

	resp, env := api.do(t, http.MethodPut, fmt.Sprintf("/api/v1/materials/%d/stock", id), api.member, map[string]any{"stock_quantity": 7})
	require.Equal(t, http.StatusOK, resp.StatusCode, env.Message)

	resp, env = api.do(t, http.MethodGet, fmt.Sprintf("/api/v1/material-transactions?material_id=%d", id), api.member, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	page := decode[struct {
		Items []struct {
			Type   string `json:"transaction_type"`
			Before int64  `json:"before_quantity"`
			After  int64  `json:"after_quantity"`
			Qty    int64  `json:"quantity"`
		} `json:"items"`
		Pagination struct {
			Total      int  `json:"total"`
			TotalPages int  `json:"total_pages"`
			HasNext    bool `json:"has_next"`
		} `json:"pagination"`
	}](t, env)
	require.Len(t, page.Items, 1)
	assert.Equal(t, entity.TransactionTypeAdjust, page.Items[0].Type)
	assert.Equal(t, int64(10), page.Items[0].Before)
	assert.Equal(t, int64(7), page.Items[0].After)
	assert.Equal(t, int64(-3), page.Items[0].Qty)
	assert.Equal(t, 1, page.Pagination.Total)
	assert.Equal(t, 1, page.Pagination.TotalPages)
	assert.False(t, page.Pagination.HasNext)

	// Una salida mayor que el stock no deja rastro
	resp, _ = api.do(t, http.MethodPost, "/api/v1/material-transactions", api.member,
		map[string]any{"material_id": id, "transaction_type": "out", "quantity": 8})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, env = api.do(t, http.MethodGet, fmt.Sprintf("/api/v1/materials/%d/reconcile", id), api.member, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	rec := decode[struct {
		StockQuantity int64 `json:"stock_quantity"`
		Consistent    bool  `json:"consistent"`
	}](t, env)
	assert.Equal(t, int64(7), rec.StockQuantity)
	assert.True(t, rec.Consistent)

	// Con movimientos no se puede borrar
	resp, _ = api.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/materials/%d", id), api.member, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRouter_AjusteMasivoParcial(t *testing.T) {
	api := newTestAPI(t)
	catID := api.createCategory(t, "Consumibles")
	a := api.createMaterial(t, map[string]any{"code": "A", "name": "Guantes", "category_id": catID, "unit": "caja", "stock_quantity": 3})
	b := api.createMaterial(t, map[string]any{"code": "B", "name": "Puntas", "category_id": catID, "unit": "caja", "stock_quantity": 1})

	resp, env := api.do(t, http.MethodPut, "/api/v1/materials/batch-update-stock", api.member, map[string]any{
		"updates": []map[string]any{
			{"material_id": a, "stock_quantity": 20},
			{"material_id": 999, "stock_quantity": 5},
			{"material_id": b, "stock_quantity": 4, "notes": "inventario anual"},
		},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, env.Message)
	out := decode[struct {
		UpdatedCount int `json:"updated_count"`
		FailedCount  int `json:"failed_count"`
		Results      []struct {
			Success bool `json:"success"`
		} `json:"results"`
	}](t, env)
	assert.Equal(t, 2, out.UpdatedCount)
	assert.Equal(t, 1, out.FailedCount)
	require.Len(t, out.Results, 3)
	assert.False(t, out.Results[1].Success)

	resp, _ = api.do(t, http.MethodPut, "/api/v1/materials/batch-update-stock", api.member, map[string]any{"updates": []any{}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRouter_FlujoDeSolicitud(t *testing.T) {
	api := newTestAPI(t)
	catID := api.createCategory(t, "Óptica")
	id := api.createMaterial(t, map[string]any{"code": "L1", "name": "Lente", "category_id": catID, "unit": "pcs", "stock_quantity": 4})

	resp, env := api.do(t, http.MethodPost, "/api/v1/material-requests", api.member, map[string]any{
		"materials":    []map[string]any{{"material_id": id, "quantity": 2}},
		"project_name": "Microscopía",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, env.Message)
	req := decode[struct {
		ID            int64  `json:"id"`
		RequestNumber string `json:"request_number"`
		Status        string `json:"status"`
	}](t, env)
	assert.Equal(t, "REQ202603070001", req.RequestNumber)
	assert.Equal(t, entity.RequisitionStatusPending, req.Status)

	approvePath := fmt.Sprintf("/api/v1/material-requests/%d/approve", req.ID)
	resp, _ = api.do(t, http.MethodPut, approvePath, api.member, map[string]any{"action": "approve"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, env = api.do(t, http.MethodPut, approvePath, api.approver, map[string]any{"action": "approve", "comment": "ok"})
	require.Equal(t, http.StatusOK, resp.StatusCode, env.Message)
	approved := decode[struct {
		Status            string `json:"status"`
		ApprovedMaterials []struct {
			Quantity int64 `json:"quantity"`
		} `json:"approved_materials"`
	}](t, env)
	assert.Equal(t, entity.RequisitionStatusApproved, approved.Status)
	require.Len(t, approved.ApprovedMaterials, 1)
	assert.Equal(t, int64(2), approved.ApprovedMaterials[0].Quantity)

	resp, _ = api.do(t, http.MethodPut, approvePath, api.approver, map[string]any{"action": "reject"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, env = api.do(t, http.MethodGet, "/api/v1/material-requests?status=approved", api.member, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[struct {
		Items []idOnly `json:"items"`
	}](t, env)
	require.Len(t, list.Items, 1)
	assert.Equal(t, req.ID, list.Items[0].ID)

	resp, _ = api.do(t, http.MethodGet, "/api/v1/material-requests/999", api.member, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRouter_Estadisticas(t *testing.T) {
	api := newTestAPI(t)
	catID := api.createCategory(t, "Reactivos")
	id := api.createMaterial(t, map[string]any{"code": "S1", "name": "Sal", "category_id": catID, "unit": "kg", "stock_quantity": 10, "unit_price": "2.5"})

	resp, env := api.do(t, http.MethodPost, "/api/v1/material-transactions", api.member,
		map[string]any{"material_id": id, "transaction_type": "out", "quantity": 4})
	require.Equal(t, http.StatusCreated, resp.StatusCode, env.Message)

	resp, env = api.do(t, http.MethodGet, "/api/v1/materials/statistics?period=week", api.member, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, env.Message)
	stats := decode[map[string]any](t, env)
	assert.Equal(t, float64(4), stats["week_out"])
	assert.Equal(t, float64(1), stats["total_materials"])
	assert.NotContains(t, stats, "month_out")

	resp, _ = api.do(t, http.MethodGet, "/api/v1/materials/statistics?period=year", api.member, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRouter_ExportarMovimientos(t *testing.T) {
	api := newTestAPI(t)
	catID := api.createCategory(t, "Metales")
	id := api.createMaterial(t, map[string]any{"code": "C1", "name": "Cobre", "category_id": catID, "unit": "kg", "stock_quantity": 1})
	resp, _ := api.do(t, http.MethodPost, "/api/v1/material-transactions", api.member,
		map[string]any{"material_id": id, "transaction_type": "in", "quantity": 2})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, _ = api.do(t, http.MethodGet, "/api/v1/material-transactions/export", api.member, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "spreadsheetml")
	assert.Contains(t, resp.Header.Get("Content-Disposition"), ".xlsx")
}

func TestRouter_ArbolDeCategorias(t *testing.T) {
	api := newTestAPI(t)
	root := api.createCategory(t, "Raíz")
	resp, env := api.do(t, http.MethodPost, "/api/v1/material-categories", api.member, map[string]any{"name": "Hija", "parent_id": root})
	require.Equal(t, http.StatusCreated, resp.StatusCode, env.Message)
	child := decode[idOnly](t, env).ID

	resp, _ = api.do(t, http.MethodPost, "/api/v1/material-categories", api.member, map[string]any{"name": "Raíz"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, _ = api.do(t, http.MethodPut, fmt.Sprintf("/api/v1/material-categories/%d", root), api.member, map[string]any{"parent_id": child})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = api.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/material-categories/%d", root), api.member, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = api.do(t, http.MethodPut, fmt.Sprintf("/api/v1/material-categories/%d", child), api.member, map[string]any{"parent_id": nil})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = api.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/material-categories/%d", root), api.member, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, env = api.do(t, http.MethodGet, "/api/v1/material-categories", api.member, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]idOnly](t, env), 1)
}

func TestRouter_LoginYPerfil(t *testing.T) {
	api := newTestAPI(t)
	created, err := api.authUC.EnsureAdmin(context.Background(), "admin", "admin123", "Administrador", "admin@lab.local")
	require.NoError(t, err)
	require.True(t, created)

	resp, _ := api.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]any{"username": "admin", "password": "mala"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, env := api.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]any{"username": "admin", "password": "admin123"})
	require.Equal(t, http.StatusOK, resp.StatusCode, env.Message)
	login := decode[struct {
		Token string `json:"token"`
	}](t, env)
	require.NotEmpty(t, login.Token)

	resp, env = api.do(t, http.MethodGet, "/api/v1/auth/profile", "Bearer "+login.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	profile := decode[struct {
		Username string `json:"username"`
		Role     string `json:"role"`
	}](t, env)
	assert.Equal(t, "admin", profile.Username)
	assert.Equal(t, entity.RoleAdmin, profile.Role)
}
