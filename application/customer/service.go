// Package customer holds the customer registration use cases.
package customer

import (
	"context"
	"time"

	"ordercore/application"
	"ordercore/domain/customer"
	"ordercore/domain/shared"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

type RegisterCustomerRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Email     string `json:"email" binding:"required"`
	Phone     string `json:"phone"`
}

type CustomerResponse struct {
	ID           string    `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	FullName     string    `json:"full_name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone,omitempty"`
	Active       bool      `json:"active"`
	RegisteredAt time.Time `json:"registered_at"`
}

type ApplicationService struct {
	customers customer.Repository
	uows      shared.UnitOfWorkFactory
	tracer    trace.Tracer
}

func NewApplicationService(customers customer.Repository, uows shared.UnitOfWorkFactory) *ApplicationService {
	return &ApplicationService{
		customers: customers,
		uows:      uows,
		tracer:    otel.Tracer("ordercore/application/customer"),
	}
}

func (s *ApplicationService) RegisterCustomer(ctx context.Context, req RegisterCustomerRequest) (*CustomerResponse, error) {
	var c *customer.Customer
	err := application.Run(ctx, s.tracer, s.uows, "customer.RegisterCustomer", func(ctx context.Context, _ shared.UnitOfWork) error {
		var err error
		if c, err = customer.NewCustomer(req.FirstName, req.LastName, req.Email, req.Phone); err != nil {
			return err
		}
		return s.customers.Save(ctx, c)
	})
	if err != nil {
		return nil, err
	}
	return toResponse(c), nil
}

func (s *ApplicationService) GetCustomer(ctx context.Context, id string) (*CustomerResponse, error) {
	return application.Query(ctx, s.tracer, "customer.GetCustomer", func(ctx context.Context) (*CustomerResponse, error) {
		c, err := s.customers.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return toResponse(c), nil
	})
}

// DeactivateCustomer stops the customer from opening new orders.
func (s *ApplicationService) DeactivateCustomer(ctx context.Context, id string) (*CustomerResponse, error) {
	return s.setActive(ctx, "customer.DeactivateCustomer", id, false)
}

func (s *ApplicationService) ActivateCustomer(ctx context.Context, id string) (*CustomerResponse, error) {
	return s.setActive(ctx, "customer.ActivateCustomer", id, true)
}

func (s *ApplicationService) setActive(ctx context.Context, name, id string, active bool) (*CustomerResponse, error) {
	var c *customer.Customer
	err := application.Run(ctx, s.tracer, s.uows, name, func(ctx context.Context, _ shared.UnitOfWork) error {
		var err error
		if c, err = s.customers.FindByID(ctx, id); err != nil {
			return err
		}
		if active {
			c.Activate()
		} else {
			c.Deactivate()
		}
		return s.customers.Save(ctx, c)
	})
	if err != nil {
		return nil, err
	}
	return toResponse(c), nil
}

func toResponse(c *customer.Customer) *CustomerResponse {
	return &CustomerResponse{
		ID:           c.ID(),
		FirstName:    c.FirstName(),
		LastName:     c.LastName(),
		FullName:     c.FullName(),
		Email:        c.Email(),
		Phone:        c.Phone(),
		Active:       c.IsActive(),
		RegisteredAt: c.RegisteredAt(),
	}
}
