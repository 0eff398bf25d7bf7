package product

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/gussttaav/g-commerce-thymeleaf/internal/pagination"
)

// ErrInvalidPrice is returned when a product price is not positive or has
// more than two decimal places.
var ErrInvalidPrice = errors.New("price must be positive with at most two decimal places")

// Service provides catalog management operations on a Storage backend.
type Service struct {
	storage Storage
	logger  *zap.Logger
}

// NewService creates a new product Service.
func NewService(storage Storage, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{storage: storage, logger: logger}
}

func validatePrice(price decimal.Decimal) error {
	if !price.IsPositive() || price.Exponent() < -2 {
		return ErrInvalidPrice
	}
	return nil
}

// Create adds a new active product to the catalog.
func (s *Service) Create(req Request) (*Product, error) {
	s.logger.Info("creating new product", zap.String("name", req.Name))

	if err := validatePrice(req.Price); err != nil {
		return nil, err
	}

	p := &Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Active:      true,
		CreatedAt:   time.Now(),
	}
	if err := s.storage.Create(p); err != nil {
		s.logger.Error("failed to create product", zap.String("name", req.Name), zap.Error(err))
		return nil, err
	}

	s.logger.Info("product created", zap.Int64("product_id", p.ID))
	return p, nil
}

// Update replaces name, description and price of an existing product.
func (s *Service) Update(id int64, req Request) (*Product, error) {
	s.logger.Info("updating product", zap.Int64("product_id", id))

	if err := validatePrice(req.Price); err != nil {
		return nil, err
	}

	p, err := s.storage.FindByID(id)
	if err != nil {
		return nil, err
	}
	p.Name = req.Name
	p.Description = req.Description
	p.Price = req.Price
	if err := s.storage.Update(p); err != nil {
		s.logger.Error("failed to update product", zap.Int64("product_id", id), zap.Error(err))
		return nil, err
	}

	s.logger.Info("product updated", zap.Int64("product_id", p.ID))
	return p, nil
}

// ToggleStatus flips the active flag of an existing product.
func (s *Service) ToggleStatus(id int64) (*Product, error) {
	s.logger.Info("toggling product status", zap.Int64("product_id", id))

	p, err := s.storage.FindByID(id)
	if err != nil {
		return nil, err
	}
	p.Active = !p.Active
	if err := s.storage.Update(p); err != nil {
		s.logger.Error("failed to toggle product status", zap.Int64("product_id", id), zap.Error(err))
		return nil, err
	}
	return p, nil
}

// FindByID resolves a product by its ID.
func (s *Service) FindByID(id int64) (*Product, error) {
	return s.storage.FindByID(id)
}

// List returns one page of the catalog filtered by status and an optional
// search term matched against name and description.
func (s *Service) List(status Status, search string, req pagination.PageRequest) (pagination.Page[Product], error) {
	s.logger.Debug("listing products",
		zap.String("status", string(status)),
		zap.String("search", search),
		zap.Int("page", req.Page),
		zap.Int("size", req.Size),
	)

	page, err := s.storage.Find(status, search, req)
	if err != nil {
		s.logger.Error("failed to list products", zap.Error(err))
		return pagination.Page[Product]{}, err
	}
	return page, nil
}
