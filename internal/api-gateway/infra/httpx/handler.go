package httpx

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	accountdomain "github.com/jcmexdev/retail-checkout/internal/account/domain"
	"github.com/jcmexdev/retail-checkout/internal/api-gateway/core/domain/entity"
	"github.com/jcmexdev/retail-checkout/internal/api-gateway/core/ports"
	"github.com/jcmexdev/retail-checkout/internal/api-gateway/core/services"
	cartdomain "github.com/jcmexdev/retail-checkout/internal/cart/domain"
	catalogdomain "github.com/jcmexdev/retail-checkout/internal/catalog/domain"
	"github.com/jcmexdev/retail-checkout/internal/coordinator/checkoutlog"
	"github.com/jcmexdev/retail-checkout/internal/pkg/cache"
	"github.com/jcmexdev/retail-checkout/internal/pkg/interceptors/constants"
)

const (
	dateLayout         = "2006-01-02"
	checkoutTTL        = 24 * time.Hour
	checkoutPendingTTL = 2 * time.Minute
	replayedHeader     = "Idempotent-Replayed"
)

// Handler serves the gateway HTTP API.
type Handler struct {
	catalog   ports.CatalogService
	products  ports.ProductRepository
	accounts  ports.AccountRepository
	checkouts *services.CheckoutService
	cache     cache.Cache        // nil disables idempotent replay
	logReader checkoutlog.Reader // nil disables GET /checkouts/{id}
}

func NewHandler(
	catalog ports.CatalogService,
	products ports.ProductRepository,
	accounts ports.AccountRepository,
	checkouts *services.CheckoutService,
	c cache.Cache,
	logReader checkoutlog.Reader,
) *Handler {
	return &Handler{
		catalog:   catalog,
		products:  products,
		accounts:  accounts,
		checkouts: checkouts,
		cache:     c,
		logReader: logReader,
	}
}

// --- catalog ---

func (h *Handler) AddCatalogItem(w http.ResponseWriter, r *http.Request) {
	var req CatalogItemDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	item, err := h.catalog.AddItem(r.Context(), catalogItemFromDTO(req))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, catalogItemToDTO(item))
}

func (h *Handler) ListCatalogItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.catalog.ListItems(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, catalogItemsToDTO(items))
}

func (h *Handler) GetCatalogItem(w http.ResponseWriter, r *http.Request) {
	item, err := h.catalog.GetItem(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, catalogItemToDTO(item))
}

func (h *Handler) PurchaseCatalogItem(w http.ResponseWriter, r *http.Request) {
	var req PurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if req.Quantity <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be positive")
		return
	}

	p, err := h.catalog.Purchase(r.Context(), entity.PurchaseRequest{
		ItemID:   chi.URLParam(r, "id"),
		Quantity: req.Quantity,
		Email:    req.Email,
		Address:  req.Address,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, PurchaseResponse{
		ItemID:   p.ItemID,
		Quantity: p.Quantity,
		Total:    p.Total,
		Fulfillment: FulfillmentDTO{
			Kind:        string(p.Fulfillment.Kind),
			Destination: p.Fulfillment.Destination,
			ItemID:      p.Fulfillment.ItemID,
		},
	})
}

func (h *Handler) PruneCatalog(w http.ResponseWriter, r *http.Request) {
	maxAge, err := strconv.Atoi(r.URL.Query().Get("max_age_years"))
	if err != nil || maxAge < 0 {
		writeError(w, http.StatusBadRequest, "invalid_max_age", "max_age_years must be a non-negative integer")
		return
	}

	removed, err := h.catalog.PruneOutdated(r.Context(), maxAge)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, catalogItemsToDTO(removed))
}

// --- products ---

func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	product := &cartdomain.Product{
		ID:             req.ID,
		Name:           req.Name,
		UnitPrice:      req.UnitPrice,
		QuantityOnHand: req.QuantityOnHand,
		WeightGrams:    req.WeightGrams,
	}
	if product.ID == "" {
		product.ID = uuid.NewString()
	}
	if req.ExpiryDate != "" {
		expiry, err := time.Parse(dateLayout, req.ExpiryDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_expiry_date", err.Error())
			return
		}
		product.ExpiryDate = &expiry
	}
	if err := product.Validate(); err != nil {
		writeDomainError(w, err)
		return
	}

	if err := h.products.Save(r.Context(), product); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, productToDTO(product))
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.products.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, productToDTO(product))
}

// --- accounts ---

func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if req.Owner == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "owner is required")
		return
	}

	acc, err := accountdomain.NewAccount(uuid.NewString(), req.Owner, req.Balance)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if err := h.accounts.Save(r.Context(), acc); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, accountToResponse(acc))
}

func (h *Handler) GetAccount(w http.ResponseWriter, r *http.Request) {
	acc, err := h.accounts.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, accountToResponse(acc))
}

// --- checkouts ---

// Checkout runs the checkout pipeline. With an X-Idempotency-Key header and a
// configured cache, the key is claimed for the account before anything is
// charged: a repeat after success replays the stored result, a repeat while
// the first request is still running gets 409, and a failed run frees the key.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if req.AccountID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "account_id is required")
		return
	}

	ctx := r.Context()
	idempKey, _ := ctx.Value(constants.ContextKeyIdempotencyKey).(string)
	requestID, _ := ctx.Value(constants.ContextKeyRequestID).(string)

	var cacheKey string
	if h.cache != nil && idempKey != "" {
		cacheKey = checkoutCacheKey(h.cache, req.AccountID, idempKey)
		reserved, err := h.cache.Reserve(ctx, cacheKey, checkoutPendingTTL)
		if err != nil {
			slog.ErrorContext(ctx, "idempotency reservation failed", "request_id", requestID, "error", err)
			writeError(w, http.StatusServiceUnavailable, "idempotency_unavailable", "idempotency store is unavailable")
			return
		}
		if !reserved {
			h.replayCheckout(w, r, cacheKey, idempKey)
			return
		}
	}

	lines := make([]entity.CheckoutLine, 0, len(req.Lines))
	for _, l := range req.Lines {
		lines = append(lines, entity.CheckoutLine{ProductID: l.ProductID, Quantity: l.Quantity})
	}

	slog.InfoContext(ctx, "starting checkout", "request_id", requestID, "account_id", req.AccountID, "lines", len(lines))

	res, err := h.checkouts.Checkout(ctx, entity.CheckoutRequest{AccountID: req.AccountID, Lines: lines})
	if err != nil {
		h.releaseCheckoutKey(ctx, cacheKey)
		writeDomainError(w, err)
		return
	}

	body, err := json.Marshal(res)
	if err != nil {
		h.releaseCheckoutKey(ctx, cacheKey)
		writeError(w, http.StatusInternalServerError, "encode_error", err.Error())
		return
	}
	if cacheKey != "" {
		if err := h.cache.Set(ctx, cacheKey, string(body), checkoutTTL); err != nil {
			slog.WarnContext(ctx, "failed to cache checkout result", "checkout_id", res.CheckoutID, "error", err)
		}
	}
	writeRawJSON(w, http.StatusCreated, body)
}

func (h *Handler) replayCheckout(w http.ResponseWriter, r *http.Request, cacheKey, idempKey string) {
	ctx := r.Context()
	cached, err := h.cache.Get(ctx, cacheKey)
	if err != nil {
		slog.ErrorContext(ctx, "idempotency cache lookup failed", "idempotency_key", idempKey, "error", err)
		writeError(w, http.StatusServiceUnavailable, "idempotency_unavailable", "idempotency store is unavailable")
		return
	}
	if cached == "" || cached == cache.Pending {
		writeError(w, http.StatusConflict, "checkout_in_progress", "a checkout with this idempotency key is still running")
		return
	}

	slog.InfoContext(ctx, "replaying checkout", "idempotency_key", idempKey)
	w.Header().Set(replayedHeader, "true")
	writeRawJSON(w, http.StatusOK, []byte(cached))
}

// releaseCheckoutKey frees a reservation so the client can retry with the
// same key.
func (h *Handler) releaseCheckoutKey(ctx context.Context, cacheKey string) {
	if cacheKey == "" {
		return
	}
	if err := h.cache.Delete(ctx, cacheKey); err != nil {
		slog.WarnContext(ctx, "failed to release idempotency key", "key", cacheKey, "error", err)
	}
}

// checkoutCacheKey scopes an idempotency key to the account it charges.
func checkoutCacheKey(c cache.Cache, accountID, idempKey string) string {
	return c.GenerateKey("checkout", accountID+":"+idempKey)
}

func (h *Handler) GetCheckout(w http.ResponseWriter, r *http.Request) {
	if h.logReader == nil {
		writeError(w, http.StatusNotImplemented, "checkout_log_disabled", "")
		return
	}

	entry, err := h.logReader.GetLatest(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, CheckoutStatusResponse{
		CheckoutID: entry.CheckoutID,
		Status:     string(entry.Status),
		Step:       entry.CurrentStep,
		Errors:     entry.Errors(),
		TraceID:    entry.TraceID,
		UpdatedAt:  entry.UpdatedAt.Format(time.RFC3339),
	})
}

// --- mapping ---

func catalogItemFromDTO(d CatalogItemDTO) catalogdomain.View {
	return catalogdomain.View{
		ID:         d.ID,
		Title:      d.Title,
		Creator:    d.Creator,
		Year:       d.Year,
		UnitPrice:  d.UnitPrice,
		Kind:       catalogdomain.Kind(d.Kind),
		Stock:      d.Stock,
		FileFormat: d.FileFormat,
	}
}

func catalogItemToDTO(v catalogdomain.View) CatalogItemDTO {
	return CatalogItemDTO{
		ID:         v.ID,
		Title:      v.Title,
		Creator:    v.Creator,
		Year:       v.Year,
		UnitPrice:  v.UnitPrice,
		Kind:       string(v.Kind),
		Available:  v.Available,
		Stock:      v.Stock,
		FileFormat: v.FileFormat,
	}
}

func catalogItemsToDTO(views []catalogdomain.View) []CatalogItemDTO {
	out := make([]CatalogItemDTO, len(views))
	for i, v := range views {
		out[i] = catalogItemToDTO(v)
	}
	return out
}

func productToDTO(p *cartdomain.Product) ProductDTO {
	dto := ProductDTO{
		ID:             p.ID,
		Name:           p.Name,
		UnitPrice:      p.UnitPrice,
		QuantityOnHand: p.QuantityOnHand,
		WeightGrams:    p.WeightGrams,
	}
	if p.ExpiryDate != nil {
		dto.ExpiryDate = p.ExpiryDate.Format(dateLayout)
	}
	return dto
}

func accountToResponse(a *accountdomain.Account) AccountResponse {
	return AccountResponse{ID: a.ID, Owner: a.Owner, Balance: a.Balance()}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeRawJSON(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, ErrorResponse{
		Error:   code,
		Message: msg,
	})
}
