// Package memory keeps gateway products and accounts in process memory.
// Nothing survives a restart.
package memory

import (
	"context"
	"fmt"
	"sync"

	accountdomain "github.com/jcmexdev/retail-checkout/internal/account/domain"
	"github.com/jcmexdev/retail-checkout/internal/api-gateway/core/domain/entity"
	"github.com/jcmexdev/retail-checkout/internal/api-gateway/core/ports"
	cartdomain "github.com/jcmexdev/retail-checkout/internal/cart/domain"
)

var (
	_ ports.ProductRepository = (*ProductRepository)(nil)
	_ ports.AccountRepository = (*AccountRepository)(nil)
)

type ProductRepository struct {
	mu       sync.RWMutex
	products map[string]*cartdomain.Product
}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{products: make(map[string]*cartdomain.Product)}
}

func (r *ProductRepository) Save(_ context.Context, p *cartdomain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[p.ID] = p
	return nil
}

func (r *ProductRepository) Get(_ context.Context, id string) (*cartdomain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", entity.ErrProductNotFound, id)
	}
	return p, nil
}

type AccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*accountdomain.Account
}

func NewAccountRepository() *AccountRepository {
	return &AccountRepository{accounts: make(map[string]*accountdomain.Account)}
}

func (r *AccountRepository) Save(_ context.Context, a *accountdomain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.accounts[a.ID] = a
	return nil
}

func (r *AccountRepository) Get(_ context.Context, id string) (*accountdomain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.accounts[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", entity.ErrAccountNotFound, id)
	}
	return a, nil
}
