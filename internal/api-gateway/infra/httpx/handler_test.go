package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/retail-checkout/internal/api-gateway/core/domain/entity"
	"github.com/jcmexdev/retail-checkout/internal/api-gateway/core/services"
	"github.com/jcmexdev/retail-checkout/internal/api-gateway/infra/adapters/memory"
	cartdomain "github.com/jcmexdev/retail-checkout/internal/cart/domain"
	"github.com/jcmexdev/retail-checkout/internal/catalog/app"
	catalogdomain "github.com/jcmexdev/retail-checkout/internal/catalog/domain"
	"github.com/jcmexdev/retail-checkout/internal/coordinator"
	"github.com/jcmexdev/retail-checkout/internal/coordinator/checkoutlog/sqlite"
	"github.com/jcmexdev/retail-checkout/internal/pkg/cache"
	"github.com/jcmexdev/retail-checkout/internal/pkg/clock"
)

// localCatalog serves ports.CatalogService from an in-process Catalog.
type localCatalog struct {
	catalog *app.Catalog
}

func (l *localCatalog) AddItem(ctx context.Context, v catalogdomain.View) (catalogdomain.View, error) {
	item, err := catalogdomain.Restore(v)
	if err != nil {
		return catalogdomain.View{}, err
	}
	l.catalog.Add(ctx, item)
	return catalogdomain.Describe(item), nil
}

func (l *localCatalog) GetItem(_ context.Context, id string) (catalogdomain.View, error) {
	return l.catalog.Get(id)
}

func (l *localCatalog) ListItems(context.Context) ([]catalogdomain.View, error) {
	return l.catalog.List(), nil
}

func (l *localCatalog) Purchase(ctx context.Context, req entity.PurchaseRequest) (catalogdomain.Purchase, error) {
	return l.catalog.Purchase(ctx, req.ItemID, req.Quantity, req.Email, req.Address)
}

func (l *localCatalog) PruneOutdated(ctx context.Context, maxAgeYears int) ([]catalogdomain.View, error) {
	removed := l.catalog.PruneOlderThan(ctx, maxAgeYears)
	out := make([]catalogdomain.View, 0, len(removed))
	for _, item := range removed {
		out = append(out, catalogdomain.Describe(item))
	}
	return out, nil
}

type testServer struct {
	handler  http.Handler
	products *memory.ProductRepository
	cache    cache.Cache
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	repo, err := sqlite.Open(filepath.Join(t.TempDir(), "checkout.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	clk := clock.Date(2025, time.July, 10)
	products := memory.NewProductRepository()
	accounts := memory.NewAccountRepository()
	pipeline := coordinator.NewPipeline(coordinator.WithCheckoutLog(repo))
	checkouts := services.NewCheckoutService(products, accounts, pipeline, clk, cartdomain.DefaultShippingPolicy())
	catalog := &localCatalog{catalog: app.NewCatalog(app.WithClock(clk))}

	client := redis.NewClient(&redis.Options{Addr: miniredis.RunT(t).Addr()})
	t.Cleanup(func() { _ = client.Close() })
	idempotency := cache.NewRedisCacheFromClient(client, "gateway")

	h := NewHandler(catalog, products, accounts, checkouts, idempotency, repo)
	return &testServer{handler: NewRouter(h), products: products, cache: idempotency}
}

func (s *testServer) do(t *testing.T, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func (s *testServer) seedCheckout(t *testing.T, balance string) string {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/products", ProductDTO{ID: "laptop", Name: "Laptop", UnitPrice: decimal.NewFromInt(1500), QuantityOnHand: 5, WeightGrams: 1000})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = s.do(t, http.MethodPost, "/products", ProductDTO{ID: "ebook", Name: "E-book", UnitPrice: decimal.NewFromInt(25), QuantityOnHand: 10})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/accounts", CreateAccountRequest{Owner: "Mostafa", Balance: decimal.RequireFromString(balance)})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[AccountResponse](t, rec).ID
}

func checkoutBody(accountID string) CheckoutRequest {
	return CheckoutRequest{
		AccountID: accountID,
		Lines: []CheckoutLineDTO{
			{ProductID: "laptop", Quantity: 1},
			{ProductID: "ebook", Quantity: 2},
		},
	}
}

func TestCheckoutEndpoint(t *testing.T) {
	s := newTestServer(t)
	accountID := s.seedCheckout(t, "1580")

	rec := s.do(t, http.MethodPost, "/checkouts", checkoutBody(accountID))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	res := decode[coordinator.Result](t, rec)
	assert.True(t, decimal.NewFromInt(1580).Equal(res.Total))
	assert.True(t, res.Receipt.Balance.IsZero())
	require.NotNil(t, res.Shipment)
	assert.Equal(t, 1000, res.Shipment.TotalWeightGrams)

	rec = s.do(t, http.MethodGet, "/checkouts/"+res.CheckoutID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	status := decode[CheckoutStatusResponse](t, rec)
	assert.Equal(t, "COMPLETED", status.Status)

	rec = s.do(t, http.MethodPost, "/checkouts", checkoutBody(accountID))
	assert.Equal(t, http.StatusPaymentRequired, rec.Code)
	assert.Equal(t, "insufficient_balance", decode[ErrorResponse](t, rec).Error)

	rec = s.do(t, http.MethodGet, "/accounts/"+accountID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[AccountResponse](t, rec).Balance.IsZero())
}

func TestCheckoutEndpointReplaysIdempotentRequest(t *testing.T) {
	s := newTestServer(t)
	accountID := s.seedCheckout(t, "5000")

	first := s.do(t, http.MethodPost, "/checkouts", checkoutBody(accountID), "X-Idempotency-Key", "key-1")
	require.Equal(t, http.StatusCreated, first.Code, first.Body.String())

	second := s.do(t, http.MethodPost, "/checkouts", checkoutBody(accountID), "X-Idempotency-Key", "key-1")
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "true", second.Header().Get(replayedHeader))
	assert.JSONEq(t, first.Body.String(), second.Body.String())

	rec := s.do(t, http.MethodGet, "/accounts/"+accountID, nil)
	assert.True(t, decimal.NewFromInt(3420).Equal(decode[AccountResponse](t, rec).Balance))
}

func TestCheckoutEndpointErrors(t *testing.T) {
	s := newTestServer(t)
	accountID := s.seedCheckout(t, "100")

	rec := s.do(t, http.MethodPost, "/products", ProductDTO{ID: "milk", Name: "Milk", UnitPrice: decimal.RequireFromString("20.5"), QuantityOnHand: 20, WeightGrams: 500, ExpiryDate: "2025-07-06"})
	require.Equal(t, http.StatusCreated, rec.Code)

	tests := []struct {
		name   string
		body   CheckoutRequest
		status int
		code   string
	}{
		{"empty cart", CheckoutRequest{AccountID: accountID}, http.StatusUnprocessableEntity, "empty_cart"},
		{"expired", CheckoutRequest{AccountID: accountID, Lines: []CheckoutLineDTO{{ProductID: "milk", Quantity: 1}}}, http.StatusUnprocessableEntity, "product_expired"},
		{"stock", CheckoutRequest{AccountID: accountID, Lines: []CheckoutLineDTO{{ProductID: "laptop", Quantity: 6}}}, http.StatusConflict, "insufficient_stock"},
		{"unknown product", CheckoutRequest{AccountID: accountID, Lines: []CheckoutLineDTO{{ProductID: "nope", Quantity: 1}}}, http.StatusNotFound, "product_not_found"},
		{"unknown account", CheckoutRequest{AccountID: "nobody"}, http.StatusNotFound, "account_not_found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, http.MethodPost, "/checkouts", tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.Equal(t, tt.code, decode[ErrorResponse](t, rec).Error)
		})
	}

	rec = s.do(t, http.MethodGet, "/accounts/"+accountID, nil)
	assert.True(t, decimal.NewFromInt(100).Equal(decode[AccountResponse](t, rec).Balance))

	rec = s.do(t, http.MethodGet, "/checkouts/unknown", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCatalogEndpoints(t *testing.T) {
	s := newTestServer(t)

	items := []CatalogItemDTO{
		{ID: "D001", Title: "AI Revolution", Year: 2015, Creator: "Nour", Kind: "DEMO"},
		{ID: "P001", Title: "OOP Mastery", Year: 2021, Creator: "Mustafa", UnitPrice: decimal.NewFromInt(150), Kind: "PHYSICAL", Stock: 10},
		{ID: "E001", Title: "Laravel Secrets", Year: 2021, Creator: "Ahmed", UnitPrice: decimal.NewFromInt(100), Kind: "DIGITAL", FileFormat: "PDF"},
	}
	for _, it := range items {
		rec := s.do(t, http.MethodPost, "/catalog/items", it)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	rec := s.do(t, http.MethodPost, "/catalog/items/P001/purchase", PurchaseRequest{Quantity: 2, Email: "test@example.com", Address: "Cairo"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	purchase := decode[PurchaseResponse](t, rec)
	assert.True(t, decimal.NewFromInt(300).Equal(purchase.Total))
	assert.Equal(t, FulfillmentDTO{Kind: "ship", Destination: "Cairo", ItemID: "P001"}, purchase.Fulfillment)

	rec = s.do(t, http.MethodGet, "/catalog/items/P001", nil)
	assert.Equal(t, 8, decode[CatalogItemDTO](t, rec).Stock)

	rec = s.do(t, http.MethodPost, "/catalog/items/D001/purchase", PurchaseRequest{Quantity: 1})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "unavailable", decode[ErrorResponse](t, rec).Error)

	rec = s.do(t, http.MethodPost, "/catalog/items/P001/purchase", PurchaseRequest{Quantity: 0})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodDelete, "/catalog/items/outdated?max_age_years=4", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	removed := decode[[]CatalogItemDTO](t, rec)
	require.Len(t, removed, 1)
	assert.Equal(t, "D001", removed[0].ID)

	rec = s.do(t, http.MethodGet, "/catalog/items", nil)
	assert.Len(t, decode[[]CatalogItemDTO](t, rec), 2)

	rec = s.do(t, http.MethodDelete, "/catalog/items/outdated?max_age_years=abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateProductValidation(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/products", ProductDTO{Name: "Chess", UnitPrice: decimal.NewFromInt(8), QuantityOnHand: 7, ExpiryDate: "20-07-2025"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/products", ProductDTO{Name: "", UnitPrice: decimal.NewFromInt(8)})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_product", decode[ErrorResponse](t, rec).Error)

	rec = s.do(t, http.MethodPost, "/products", ProductDTO{Name: "Chess", UnitPrice: decimal.NewFromInt(8), QuantityOnHand: 7, WeightGrams: 1000, ExpiryDate: "2025-07-20"})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[ProductDTO](t, rec)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "2025-07-20", created.ExpiryDate)

	p, err := s.products.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, 1000, p.WeightGrams)
}

func TestCheckoutEndpointChargesOncePerKeyUnderConcurrency(t *testing.T) {
	s := newTestServer(t)
	accountID := s.seedCheckout(t, "5000")

	body, err := json.Marshal(checkoutBody(accountID))
	require.NoError(t, err)

	const attempts = 20
	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		codes = map[int]int{}
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodPost, "/checkouts", bytes.NewReader(body))
			req.Header.Set("X-Idempotency-Key", "same-key")
			rec := httptest.NewRecorder()
			s.handler.ServeHTTP(rec, req)

			mu.Lock()
			codes[rec.Code]++
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, codes[http.StatusCreated], "codes: %v", codes)
	assert.Equal(t, attempts, codes[http.StatusCreated]+codes[http.StatusConflict]+codes[http.StatusOK], "codes: %v", codes)

	rec := s.do(t, http.MethodGet, "/accounts/"+accountID, nil)
	assert.True(t, decimal.NewFromInt(3420).Equal(decode[AccountResponse](t, rec).Balance))
}

func TestCheckoutEndpointRejectsKeyInFlight(t *testing.T) {
	s := newTestServer(t)
	accountID := s.seedCheckout(t, "5000")

	ok, err := s.cache.Reserve(context.Background(), checkoutCacheKey(s.cache, accountID, "key-1"), time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	rec := s.do(t, http.MethodPost, "/checkouts", checkoutBody(accountID), "X-Idempotency-Key", "key-1")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "checkout_in_progress", decode[ErrorResponse](t, rec).Error)

	rec = s.do(t, http.MethodGet, "/accounts/"+accountID, nil)
	assert.True(t, decimal.NewFromInt(5000).Equal(decode[AccountResponse](t, rec).Balance))
}

func TestCheckoutEndpointFailureFreesKey(t *testing.T) {
	s := newTestServer(t)
	accountID := s.seedCheckout(t, "5000")

	tooMany := CheckoutRequest{AccountID: accountID, Lines: []CheckoutLineDTO{{ProductID: "laptop", Quantity: 6}}}
	rec := s.do(t, http.MethodPost, "/checkouts", tooMany, "X-Idempotency-Key", "key-1")
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "insufficient_stock", decode[ErrorResponse](t, rec).Error)

	rec = s.do(t, http.MethodPost, "/checkouts", checkoutBody(accountID), "X-Idempotency-Key", "key-1")
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestCheckoutEndpointScopesKeyToAccount(t *testing.T) {
	s := newTestServer(t)
	first := s.seedCheckout(t, "5000")

	rec := s.do(t, http.MethodPost, "/accounts", CreateAccountRequest{Owner: "Nour", Balance: decimal.NewFromInt(2000)})
	require.Equal(t, http.StatusCreated, rec.Code)
	second := decode[AccountResponse](t, rec).ID

	rec = s.do(t, http.MethodPost, "/checkouts", checkoutBody(first), "X-Idempotency-Key", "shared")
	require.Equal(t, http.StatusCreated, rec.Code)
	firstResult := decode[coordinator.Result](t, rec)

	rec = s.do(t, http.MethodPost, "/checkouts", checkoutBody(second), "X-Idempotency-Key", "shared")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.NotEqual(t, firstResult.CheckoutID, decode[coordinator.Result](t, rec).CheckoutID)

	rec = s.do(t, http.MethodGet, "/accounts/"+second, nil)
	assert.True(t, decimal.NewFromInt(420).Equal(decode[AccountResponse](t, rec).Balance))
}
