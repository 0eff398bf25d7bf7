package purchase

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/gussttaav/g-commerce-thymeleaf/internal/pagination"
	"github.com/gussttaav/g-commerce-thymeleaf/internal/product"
	"github.com/gussttaav/g-commerce-thymeleaf/internal/user"
)

// ProductNotFoundError is returned when a submitted item references a
// product that does not exist in the catalog. It carries the offending id.
type ProductNotFoundError struct {
	ProductID int64
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %d not found", e.ProductID)
}

// Service executes purchase submissions and lists purchase history with
// role-scoped visibility.
type Service struct {
	storage  Storage
	users    user.Storage
	products product.Storage
	logger   *zap.Logger
}

// NewService creates a new purchase Service.
func NewService(storage Storage, users user.Storage, products product.Storage, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		storage:  storage,
		users:    users,
		products: products,
		logger:   logger,
	}
}

// Create validates and executes a purchase submission for the user
// identified by email. Every item must reference an existing product; the
// first missing product aborts the whole submission and nothing is
// persisted. Subtotals and the total are always computed server-side.
func (s *Service) Create(email string, req Request) (*Response, error) {
	s.logger.Info("starting new purchase", zap.String("email", email), zap.Int("items", len(req.Items)))

	u, err := s.users.FindByEmail(email)
	if err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(req.Items))
	total := decimal.Zero
	for _, item := range req.Items {
		p, err := s.products.FindByID(item.ProductID)
		if errors.Is(err, product.ErrNotFound) {
			s.logger.Warn("purchase rejected, unknown product",
				zap.String("email", email),
				zap.Int64("product_id", item.ProductID),
			)
			return nil, &ProductNotFoundError{ProductID: item.ProductID}
		}
		if err != nil {
			return nil, err
		}

		subtotal := p.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		items = append(items, Item{
			ProductID: p.ID,
			Product:   p,
			Quantity:  item.Quantity,
			Subtotal:  subtotal,
		})
		total = total.Add(subtotal)
	}

	purchase := &Purchase{
		UserID: u.ID,
		User:   u,
		Date:   time.Now(),
		Total:  total,
		Items:  items,
	}
	if err := s.storage.Save(purchase); err != nil {
		s.logger.Error("failed to save purchase", zap.String("email", email), zap.Error(err))
		return nil, err
	}

	s.logger.Info("purchase completed",
		zap.Int64("purchase_id", purchase.ID),
		zap.String("total", purchase.Total.String()),
	)
	return toResponse(purchase), nil
}

// List returns one page of purchase history for the user identified by
// email. Admins see every purchase in the ledger; regular users see only
// their own.
func (s *Service) List(email string, req pagination.PageRequest) (pagination.Page[Response], error) {
	s.logger.Debug("listing purchases",
		zap.String("email", email),
		zap.Int("page", req.Page),
		zap.Int("size", req.Size),
		zap.String("sort", req.Sort),
		zap.String("direction", string(req.Direction)),
	)

	u, err := s.users.FindByEmail(email)
	if err != nil {
		return pagination.Page[Response]{}, err
	}

	var page pagination.Page[Purchase]
	switch u.Role {
	case user.RoleAdmin:
		page, err = s.storage.FindAll(req)
	default:
		page, err = s.storage.FindByUser(u.ID, req)
	}
	if err != nil {
		s.logger.Error("failed to list purchases", zap.String("email", email), zap.Error(err))
		return pagination.Page[Response]{}, err
	}

	return pagination.Map(page, func(p Purchase) Response { return *toResponse(&p) }), nil
}
