package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/fiecl/barcode-inventory-management/internal/application/auth"
	"github.com/fiecl/barcode-inventory-management/internal/application/dto"
	"github.com/fiecl/barcode-inventory-management/internal/application/inventory"
	"github.com/fiecl/barcode-inventory-management/internal/application/recipients"
	"github.com/fiecl/barcode-inventory-management/internal/infrastructure/barcode"
	"github.com/fiecl/barcode-inventory-management/internal/infrastructure/memory"
	"github.com/fiecl/barcode-inventory-management/internal/infrastructure/pdf"
	"github.com/fiecl/barcode-inventory-management/internal/infrastructure/storage"
	apphttp "github.com/fiecl/barcode-inventory-management/internal/interfaces/http"
	"github.com/fiecl/barcode-inventory-management/pkg/logger"
	"github.com/fiecl/barcode-inventory-management/pkg/metrics"
)

const testPassword = "s3creta"

// newAPI arma la API completa sobre el almacén en memoria y disco temporal.
func newAPI(t *testing.T, jwtSecret string) *fiber.App {
	t.Helper()
	store := memory.NewStore()
	files, err := storage.NewFSStore(t.TempDir())
	require.NoError(t, err)
	m := metrics.New()
	log := logger.Nop()

	ledger := inventory.NewLedgerUseCase(inventory.LedgerDeps{
		Tx:        store.TxRunner(),
		Items:     store.Items(),
		Allocator: inventory.NewIdentifierAllocator(store.Items(), inventory.NewRandomSource(), inventory.DefaultMaxAttempts, m, log),
		Renderer:  barcode.NewRenderer(),
		Artifacts: files,
		Metrics:   m,
		Logger:    log,
	})
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	app := fiber.New()
	app.Use(apphttp.RequestLogger(log))
	apphttp.Router(app, apphttp.RouterDeps{
		Ledger:     ledger,
		Audit:      inventory.NewAuditUseCase(store.Audits(), store.Items()),
		Label:      inventory.NewLabelUseCase(ledger, pdf.NewLabelGenerator()),
		Recipients: recipients.NewRecipientUseCase(store.Recipients()),
		AuthUC: auth.NewAuthUseCase(
			auth.AdminCredentials{Email: testSubject, PasswordHash: string(hash)},
			auth.JWTConfig{Secret: jwtSecret, ExpMinutes: testExpMin, Issuer: testIssuer},
		),
		Registry:  m.Registry,
		JWTSecret: jwtSecret,
	})
	return app
}

func call(t *testing.T, app *fiber.App, method, path string, body interface{}, token string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func createItem(t *testing.T, app *fiber.App, name string, qty, threshold int) dto.ItemResponse {
	t.Helper()
	resp := call(t, app, http.MethodPost, "/api/items", map[string]interface{}{
		"name": name, "quantity": qty, "threshold": threshold,
	}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var item dto.ItemResponse
	decode(t, resp, &item)
	return item
}

func TestRouter_Health(t *testing.T) {
	app := newAPI(t, "")
	resp := call(t, app, http.MethodGet, "/health", nil, "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(apphttp.HeaderRequestID))
}

func TestItems_CrearYConsultar(t *testing.T) {
	app := newAPI(t, "")
	item := createItem(t, app, "Tornillo M4", 10, 3)
	assert.Len(t, item.Barcode, 8)
	assert.Equal(t, "High", item.Status)

	resp := call(t, app, http.MethodGet, "/api/items/"+item.Barcode, nil, "")
	var got dto.ItemResponse
	decode(t, resp, &got)
	assert.Equal(t, item.ID, got.ID)

	resp = call(t, app, http.MethodGet, "/api/items", nil, "")
	var list dto.ItemListResponse
	decode(t, resp, &list)
	assert.Equal(t, 1, list.Total)
}

func TestItems_CrearSinNombre_Retorna400(t *testing.T) {
	app := newAPI(t, "")
	resp := call(t, app, http.MethodPost, "/api/items", map[string]interface{}{"quantity": 1}, "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestItems_CuerpoInvalido_Retorna400(t *testing.T) {
	app := newAPI(t, "")
	req := httptest.NewRequest(http.MethodPost, "/api/items", strings.NewReader("{no-json"))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	var e dto.ErrorResponse
	decode(t, resp, &e)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_BODY", e.Code)
}

func TestItems_Inexistente_Retorna404(t *testing.T) {
	app := newAPI(t, "")
	resp := call(t, app, http.MethodGet, "/api/items/12345678", nil, "")
	var e dto.ErrorResponse
	decode(t, resp, &e)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", e.Code)
}

func TestItems_EscaneoCruzaUmbralYRegistraAuditoria(t *testing.T) {
	app := newAPI(t, "")
	item := createItem(t, app, "Cinta", 5, 3)

	resp := call(t, app, http.MethodPost, "/api/items/"+item.Barcode+"/scan",
		map[string]interface{}{"amount": 2, "scanned_by": "ana"}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var mut dto.MutationResponse
	decode(t, resp, &mut)
	assert.Equal(t, 3, mut.Item.Quantity)
	assert.Equal(t, "Warning", mut.Item.Status)
	assert.True(t, mut.Crossed)
	assert.Equal(t, 2, mut.Audit.DecrementedBy)
	assert.Equal(t, "ana", mut.Audit.ScannedBy)
	assert.Equal(t, "scan", mut.Audit.Purpose)

	resp = call(t, app, http.MethodGet, "/api/items/"+item.Barcode+"/audit", nil, "")
	var hist dto.AuditListResponse
	decode(t, resp, &hist)
	require.Len(t, hist.Items, 1)
	assert.Equal(t, dto.DefaultAuditLimit, hist.Limit)
}

func TestItems_EscaneoMayorAlStock_Retorna409(t *testing.T) {
	app := newAPI(t, "")
	item := createItem(t, app, "Guantes", 1, 0)

	resp := call(t, app, http.MethodPost, "/api/items/"+item.Barcode+"/scan",
		map[string]interface{}{"amount": 2}, "")
	var e dto.ErrorResponse
	decode(t, resp, &e)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_STOCK", e.Code)

	resp = call(t, app, http.MethodGet, "/api/audit", nil, "")
	var hist dto.AuditListResponse
	decode(t, resp, &hist)
	assert.Empty(t, hist.Items)
}

func TestItems_EscaneoCantidadCero_Retorna400(t *testing.T) {
	app := newAPI(t, "")
	item := createItem(t, app, "Brocas", 4, 1)
	resp := call(t, app, http.MethodPost, "/api/items/"+item.Barcode+"/scan",
		map[string]interface{}{"amount": 0}, "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestItems_EscaneoSinBody_DescuentaUnaUnidad(t *testing.T) {
	app := newAPI(t, "")
	item := createItem(t, app, "Cable", 4, 1)

	req := httptest.NewRequest(http.MethodPost, "/api/items/"+item.Barcode+"/scan", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var mut dto.MutationResponse
	decode(t, resp, &mut)
	assert.Equal(t, 3, mut.Item.Quantity)
	assert.Equal(t, 1, mut.Audit.DecrementedBy)

	resp = call(t, app, http.MethodPost, "/api/items/"+item.Barcode+"/scan", map[string]interface{}{}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &mut)
	assert.Equal(t, 2, mut.Item.Quantity)
}

func TestItems_EscaneoCantidadNegativa_Retorna400(t *testing.T) {
	app := newAPI(t, "")
	item := createItem(t, app, "Cable", 4, 1)
	resp := call(t, app, http.MethodPost, "/api/items/"+item.Barcode+"/scan",
		map[string]interface{}{"amount": -3}, "")
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestItems_CodigoMalFormado_Retorna404SinConsultar(t *testing.T) {
	app := newAPI(t, "")
	for _, path := range []string{
		"/api/items/abc",
		"/api/items/1234567",
		"/api/items/123456789/audit",
		"/api/items/ABCDEFGH/barcode.png",
		"/api/items/x1/label.pdf",
	} {
		resp := call(t, app, http.MethodGet, path, nil, "")
		var e dto.ErrorResponse
		decode(t, resp, &e)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, path)
		assert.Equal(t, "NOT_FOUND", e.Code, path)
	}

	resp := call(t, app, http.MethodPost, "/api/items/abc/scan", nil, "")
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = call(t, app, http.MethodPut, "/api/items/abc/quantity", map[string]interface{}{"quantity": 1}, "")
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestItems_CorreccionDeCantidad(t *testing.T) {
	app := newAPI(t, "")
	item := createItem(t, app, "Clavos", 2, 5)

	resp := call(t, app, http.MethodPut, "/api/items/"+item.Barcode+"/quantity",
		map[string]interface{}{"quantity": 20}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var mut dto.MutationResponse
	decode(t, resp, &mut)
	assert.Equal(t, 20, mut.Item.Quantity)
	assert.False(t, mut.Crossed)
	assert.Equal(t, -18, mut.Audit.DecrementedBy)
	assert.Equal(t, "manual correction", mut.Audit.Purpose)
	assert.Equal(t, "unknown", mut.Audit.ScannedBy)
}

func TestItems_ActualizarDetalles(t *testing.T) {
	app := newAPI(t, "")
	item := createItem(t, app, "Lija", 8, 2)

	resp := call(t, app, http.MethodPatch, "/api/items/"+item.Barcode,
		map[string]interface{}{"name": "Lija 120", "threshold": 8}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got dto.ItemResponse
	decode(t, resp, &got)
	assert.Equal(t, "Lija 120", got.Name)
	assert.Equal(t, 8, got.Quantity)
	assert.Equal(t, "Warning", got.Status)
}

func TestItems_ImagenYEtiqueta(t *testing.T) {
	app := newAPI(t, "")
	item := createItem(t, app, "Pegante", 3, 1)

	resp := call(t, app, http.MethodGet, "/api/items/"+item.Barcode+"/barcode.png", nil, "")
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(body, []byte("\x89PNG")))

	resp = call(t, app, http.MethodGet, "/api/items/"+item.Barcode+"/label.pdf", nil, "")
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))
}

func TestItems_BorrarSinAuthConfigurada(t *testing.T) {
	app := newAPI(t, "")
	item := createItem(t, app, "Martillo", 1, 0)

	resp := call(t, app, http.MethodDelete, "/api/items/"+item.Barcode, nil, "")
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = call(t, app, http.MethodGet, "/api/items/"+item.Barcode, nil, "")
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestItems_BorrarConAuth_ExigeTokenDeAdmin(t *testing.T) {
	app := newAPI(t, testJWTSecret)
	item := createItem(t, app, "Alicate", 1, 0)

	resp := call(t, app, http.MethodDelete, "/api/items/"+item.Barcode, nil, "")
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = call(t, app, http.MethodPost, "/api/auth/login",
		map[string]string{"email": testSubject, "password": testPassword}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var login dto.LoginResponse
	decode(t, resp, &login)
	require.NotEmpty(t, login.Token)

	resp = call(t, app, http.MethodDelete, "/api/items/"+item.Barcode, nil, "Bearer "+login.Token)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestAuth_LoginPasswordIncorrecto_Retorna401(t *testing.T) {
	app := newAPI(t, testJWTSecret)
	resp := call(t, app, http.MethodPost, "/api/auth/login",
		map[string]string{"email": testSubject, "password": "otra"}, "")
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRecipients_CRUD(t *testing.T) {
	app := newAPI(t, "")

	resp := call(t, app, http.MethodPost, "/api/recipients", map[string]string{"email": "compras@example.com"}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var r dto.RecipientResponse
	decode(t, resp, &r)

	resp = call(t, app, http.MethodPost, "/api/recipients", map[string]string{"email": "compras@example.com"}, "")
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = call(t, app, http.MethodPost, "/api/recipients", map[string]string{"email": "no-es-correo"}, "")
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = call(t, app, http.MethodPut, "/api/recipients/"+itoa(r.ID), map[string]string{"email": "bodega@example.com"}, "")
	var upd dto.RecipientResponse
	decode(t, resp, &upd)
	assert.Equal(t, "bodega@example.com", upd.Email)

	resp = call(t, app, http.MethodGet, "/api/recipients", nil, "")
	var list []dto.RecipientResponse
	decode(t, resp, &list)
	assert.Len(t, list, 1)

	resp = call(t, app, http.MethodDelete, "/api/recipients/"+itoa(r.ID), nil, "")
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = call(t, app, http.MethodGet, "/api/recipients/"+itoa(r.ID), nil, "")
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAudit_BorrarRegistro(t *testing.T) {
	app := newAPI(t, "")
	item := createItem(t, app, "Taladro", 3, 0)
	resp := call(t, app, http.MethodPost, "/api/items/"+item.Barcode+"/scan", map[string]interface{}{"amount": 1}, "")
	var mut dto.MutationResponse
	decode(t, resp, &mut)

	resp = call(t, app, http.MethodDelete, "/api/audit/"+itoa(mut.Audit.ID), nil, "")
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = call(t, app, http.MethodDelete, "/api/audit/"+itoa(mut.Audit.ID), nil, "")
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = call(t, app, http.MethodDelete, "/api/audit/abc", nil, "")
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMetrics_ExponeContadores(t *testing.T) {
	app := newAPI(t, "")
	item := createItem(t, app, "Broca", 2, 0)
	resp := call(t, app, http.MethodPost, "/api/items/"+item.Barcode+"/scan", map[string]interface{}{"amount": 1}, "")
	resp.Body.Close()

	resp = call(t, app, http.MethodGet, "/metrics", nil, "")
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "inventory_mutations_total")
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
