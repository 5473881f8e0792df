package httpx

import (
	"errors"
	"net/http"

	accountdomain "github.com/jcmexdev/retail-checkout/internal/account/domain"
	"github.com/jcmexdev/retail-checkout/internal/api-gateway/core/domain/entity"
	cartdomain "github.com/jcmexdev/retail-checkout/internal/cart/domain"
	catalogdomain "github.com/jcmexdev/retail-checkout/internal/catalog/domain"
	"github.com/jcmexdev/retail-checkout/internal/coordinator"
	"github.com/jcmexdev/retail-checkout/internal/coordinator/checkoutlog"
)

type errorMapping struct {
	err    error
	status int
	code   string
}

var errorMappings = []errorMapping{
	{catalogdomain.ErrNotFound, http.StatusNotFound, "item_not_found"},
	{entity.ErrProductNotFound, http.StatusNotFound, "product_not_found"},
	{entity.ErrAccountNotFound, http.StatusNotFound, "account_not_found"},
	{checkoutlog.ErrNotFound, http.StatusNotFound, "checkout_not_found"},
	{catalogdomain.ErrUnavailable, http.StatusConflict, "unavailable"},
	{catalogdomain.ErrOutOfStock, http.StatusConflict, "out_of_stock"},
	{catalogdomain.ErrNotForSale, http.StatusConflict, "not_for_sale"},
	{cartdomain.ErrInsufficientStock, http.StatusConflict, "insufficient_stock"},
	{cartdomain.ErrProductExpired, http.StatusUnprocessableEntity, "product_expired"},
	{coordinator.ErrEmptyCart, http.StatusUnprocessableEntity, "empty_cart"},
	{accountdomain.ErrInsufficientBalance, http.StatusPaymentRequired, "insufficient_balance"},
	{catalogdomain.ErrInvalidQuantity, http.StatusBadRequest, "invalid_quantity"},
	{cartdomain.ErrInvalidQuantity, http.StatusBadRequest, "invalid_quantity"},
	{catalogdomain.ErrInvalidItem, http.StatusBadRequest, "invalid_item"},
	{cartdomain.ErrInvalidProduct, http.StatusBadRequest, "invalid_product"},
	{accountdomain.ErrInvalidAmount, http.StatusBadRequest, "invalid_amount"},
}

func writeDomainError(w http.ResponseWriter, err error) {
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			writeError(w, m.status, m.code, err.Error())
			return
		}
	}
	writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
}
