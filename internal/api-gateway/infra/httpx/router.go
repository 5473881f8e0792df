package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jcmexdev/retail-checkout/internal/api-gateway/infra/httpx/middlewares"
)

func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middlewares.AttachTracingMetadata)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/catalog/items", func(r chi.Router) {
		r.Post("/", handler.AddCatalogItem)
		r.Get("/", handler.ListCatalogItems)
		r.Delete("/outdated", handler.PruneCatalog)
		r.Get("/{id}", handler.GetCatalogItem)
		r.Post("/{id}/purchase", handler.PurchaseCatalogItem)
	})

	r.Post("/products", handler.CreateProduct)
	r.Get("/products/{id}", handler.GetProduct)

	r.Post("/accounts", handler.CreateAccount)
	r.Get("/accounts/{id}", handler.GetAccount)

	r.Post("/checkouts", handler.Checkout)
	r.Get("/checkouts/{id}", handler.GetCheckout)
	return r
}
