// Package product holds the catalogue and stock management use cases.
package product

import (
	"context"
	"time"

	"ordercore/application"
	"ordercore/domain/product"
	"ordercore/domain/shared"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

type CreateProductRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description" binding:"required"`
	Price       string `json:"price" binding:"required"`
	Currency    string `json:"currency" binding:"required"`
	Stock       int    `json:"stock" binding:"min=0"`
}

type RestockRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

type UpdatePriceRequest struct {
	Price    string `json:"price" binding:"required"`
	Currency string `json:"currency" binding:"required"`
}

type ProductResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       string    `json:"price"`
	Currency    string    `json:"currency"`
	Stock       int       `json:"stock"`
	Reserved    int       `json:"reserved"`
	Active      bool      `json:"active"`
	Version     int       `json:"version"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ReservationReader reports how much of a product is currently held by
// orders being placed.
type ReservationReader interface {
	Reserved(ctx context.Context, productID string) (int, error)
}

type ApplicationService struct {
	products     product.Repository
	reservations ReservationReader
	uows         shared.UnitOfWorkFactory
	tracer       trace.Tracer
}

func NewApplicationService(products product.Repository, reservations ReservationReader, uows shared.UnitOfWorkFactory) *ApplicationService {
	return &ApplicationService{
		products:     products,
		reservations: reservations,
		uows:         uows,
		tracer:       otel.Tracer("ordercore/application/product"),
	}
}

func (s *ApplicationService) CreateProduct(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	price, err := shared.ParseMoney(req.Price, req.Currency)
	if err != nil {
		return nil, err
	}
	stock, err := shared.NewQuantity(req.Stock)
	if err != nil {
		return nil, err
	}

	var p *product.Product
	err = application.Run(ctx, s.tracer, s.uows, "product.CreateProduct", func(ctx context.Context, _ shared.UnitOfWork) error {
		var err error
		if p, err = product.NewProduct(req.Name, req.Description, price, stock); err != nil {
			return err
		}
		return s.products.Save(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, p)
}

// RestockProduct adds quantity to the durable stock.
func (s *ApplicationService) RestockProduct(ctx context.Context, id string, req RestockRequest) (*ProductResponse, error) {
	quantity, err := shared.NewQuantity(req.Quantity)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, "product.RestockProduct", id, func(p *product.Product) error {
		p.AddStock(quantity)
		return nil
	})
}

func (s *ApplicationService) UpdatePrice(ctx context.Context, id string, req UpdatePriceRequest) (*ProductResponse, error) {
	price, err := shared.ParseMoney(req.Price, req.Currency)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, "product.UpdatePrice", id, func(p *product.Product) error {
		return p.UpdatePrice(price)
	})
}

func (s *ApplicationService) DeactivateProduct(ctx context.Context, id string) (*ProductResponse, error) {
	return s.mutate(ctx, "product.DeactivateProduct", id, func(p *product.Product) error {
		p.Deactivate()
		return nil
	})
}

func (s *ApplicationService) ActivateProduct(ctx context.Context, id string) (*ProductResponse, error) {
	return s.mutate(ctx, "product.ActivateProduct", id, func(p *product.Product) error {
		p.Activate()
		return nil
	})
}

func (s *ApplicationService) mutate(ctx context.Context, name, id string, fn func(p *product.Product) error) (*ProductResponse, error) {
	var p *product.Product
	err := application.Run(ctx, s.tracer, s.uows, name, func(ctx context.Context, _ shared.UnitOfWork) error {
		var err error
		if p, err = s.products.FindByID(ctx, id); err != nil {
			return err
		}
		if err := fn(p); err != nil {
			return err
		}
		return s.products.Save(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, p)
}

func (s *ApplicationService) GetProduct(ctx context.Context, id string) (*ProductResponse, error) {
	return application.Query(ctx, s.tracer, "product.GetProduct", func(ctx context.Context) (*ProductResponse, error) {
		p, err := s.products.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return s.toResponse(ctx, p)
	})
}

func (s *ApplicationService) ListProducts(ctx context.Context) ([]*ProductResponse, error) {
	return application.Query(ctx, s.tracer, "product.ListProducts", func(ctx context.Context) ([]*ProductResponse, error) {
		products, err := s.products.FindAll(ctx)
		if err != nil {
			return nil, err
		}
		responses := make([]*ProductResponse, 0, len(products))
		for _, p := range products {
			r, err := s.toResponse(ctx, p)
			if err != nil {
				return nil, err
			}
			responses = append(responses, r)
		}
		return responses, nil
	})
}

func (s *ApplicationService) toResponse(ctx context.Context, p *product.Product) (*ProductResponse, error) {
	reserved := 0
	if s.reservations != nil {
		var err error
		if reserved, err = s.reservations.Reserved(ctx, p.ID()); err != nil {
			return nil, err
		}
	}
	return &ProductResponse{
		ID:          p.ID(),
		Name:        p.Name(),
		Description: p.Description(),
		Price:       p.Price().Amount().StringFixed(shared.MoneyScale),
		Currency:    p.Price().Currency(),
		Stock:       p.StockQuantity().Value(),
		Reserved:    reserved,
		Active:      p.IsActive(),
		Version:     p.Version(),
		UpdatedAt:   p.UpdatedAt(),
	}, nil
}
