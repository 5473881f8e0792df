package ports

import (
	"context"

	accountdomain "github.com/jcmexdev/retail-checkout/internal/account/domain"
	"github.com/jcmexdev/retail-checkout/internal/api-gateway/core/domain/entity"
	cartdomain "github.com/jcmexdev/retail-checkout/internal/cart/domain"
	catalogdomain "github.com/jcmexdev/retail-checkout/internal/catalog/domain"
)

// CatalogService is the remote catalog as seen by the gateway.
type CatalogService interface {
	AddItem(ctx context.Context, item catalogdomain.View) (catalogdomain.View, error)
	GetItem(ctx context.Context, id string) (catalogdomain.View, error)
	ListItems(ctx context.Context) ([]catalogdomain.View, error)
	Purchase(ctx context.Context, req entity.PurchaseRequest) (catalogdomain.Purchase, error)
	PruneOutdated(ctx context.Context, maxAgeYears int) ([]catalogdomain.View, error)
}

type ProductRepository interface {
	Save(ctx context.Context, p *cartdomain.Product) error
	Get(ctx context.Context, id string) (*cartdomain.Product, error)
}

type AccountRepository interface {
	Save(ctx context.Context, a *accountdomain.Account) error
	Get(ctx context.Context, id string) (*accountdomain.Account, error)
}
