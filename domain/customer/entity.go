package customer

import (
	"regexp"
	"strings"
	"time"

	"ordercore/domain/shared"

	"github.com/google/uuid"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,6}$`)

// Customer places orders. Only active customers may create new ones;
// registeredAt drives the loyalty discount.
type Customer struct {
	id           string
	firstName    string
	lastName     string
	email        string
	phone        string
	active       bool
	registeredAt time.Time
	version      int
}

func NewCustomer(firstName, lastName, email, phone string) (*Customer, error) {
	if strings.TrimSpace(firstName) == "" {
		return nil, shared.NewValidationError("customer", "first_name", "must not be blank")
	}
	if strings.TrimSpace(lastName) == "" {
		return nil, shared.NewValidationError("customer", "last_name", "must not be blank")
	}
	email = strings.TrimSpace(email)
	if !emailPattern.MatchString(email) {
		return nil, shared.NewDomainError(shared.ErrValidation, ErrInvalidEmail, "customer", "email", "invalid email: "+email)
	}

	return &Customer{
		id:           uuid.NewString(),
		firstName:    strings.TrimSpace(firstName),
		lastName:     strings.TrimSpace(lastName),
		email:        email,
		phone:        strings.TrimSpace(phone),
		active:       true,
		registeredAt: time.Now(),
	}, nil
}

func (c *Customer) Activate()   { c.active = true }
func (c *Customer) Deactivate() { c.active = false }

// CanPlaceOrder is the rule checked when an order is created.
func (c *Customer) CanPlaceOrder() bool { return c.active }

// IncrementVersion is called by repositories after a successful write.
func (c *Customer) IncrementVersion() { c.version++ }

func (c *Customer) ID() string              { return c.id }
func (c *Customer) FirstName() string       { return c.firstName }
func (c *Customer) LastName() string        { return c.lastName }
func (c *Customer) FullName() string        { return c.firstName + " " + c.lastName }
func (c *Customer) Email() string           { return c.email }
func (c *Customer) Phone() string           { return c.phone }
func (c *Customer) IsActive() bool          { return c.active }
func (c *Customer) RegisteredAt() time.Time { return c.registeredAt }
func (c *Customer) Version() int            { return c.version }

func (c *Customer) Clone() *Customer {
	cp := *c
	return &cp
}

// ReconstructionDTO is used by repositories and fixtures only.
type ReconstructionDTO struct {
	ID           string
	FirstName    string
	LastName     string
	Email        string
	Phone        string
	Active       bool
	RegisteredAt time.Time
	Version      int
}

func RebuildFromDTO(dto ReconstructionDTO) *Customer {
	return &Customer{
		id:           dto.ID,
		firstName:    dto.FirstName,
		lastName:     dto.LastName,
		email:        dto.Email,
		phone:        dto.Phone,
		active:       dto.Active,
		registeredAt: dto.RegisteredAt,
		version:      dto.Version,
	}
}

var _ shared.Entity = (*Customer)(nil)
