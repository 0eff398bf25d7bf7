package product

import (
	"errors"
	"sort"
	"strings"
	"sync"

	"gorm.io/gorm"

	"github.com/gussttaav/g-commerce-thymeleaf/internal/pagination"
)

// ErrNotFound is returned when no product matches the given ID.
var ErrNotFound = errors.New("product not found")

// Storage is the main interface for the product catalog storage layer.
type Storage interface {
	Create(p *Product) error
	Update(p *Product) error
	FindByID(id int64) (*Product, error)
	Find(status Status, search string, req pagination.PageRequest) (pagination.Page[Product], error)
}

// GormStorage persists products in a relational database through gorm.
type GormStorage struct {
	db *gorm.DB
}

// NewGormStorage instantiates a product storage backed by the given DB handle.
func NewGormStorage(db *gorm.DB) *GormStorage {
	return &GormStorage{db: db}
}

func (g *GormStorage) Create(p *Product) error {
	return g.db.Create(p).Error
}

func (g *GormStorage) Update(p *Product) error {
	return g.db.Save(p).Error
}

func (g *GormStorage) FindByID(id int64) (*Product, error) {
	var p Product
	err := g.db.First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (g *GormStorage) Find(status Status, search string, req pagination.PageRequest) (pagination.Page[Product], error) {
	query := g.db.Model(&Product{})
	switch status {
	case StatusActive:
		query = query.Where("active = ?", true)
	case StatusInactive:
		query = query.Where("active = ?", false)
	}
	if search != "" {
		term := "%" + strings.ToLower(search) + "%"
		query = query.Where("lower(name) LIKE ? OR lower(description) LIKE ?", term, term)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return pagination.Page[Product]{}, err
	}

	var products []Product
	err := query.Order(orderClause(req)).
		Offset(req.Offset()).
		Limit(req.Size).
		Find(&products).Error
	if err != nil {
		return pagination.Page[Product]{}, err
	}
	return pagination.NewPage(products, req, total), nil
}

func orderClause(req pagination.PageRequest) string {
	column := "name"
	switch req.Sort {
	case "price":
		column = "price"
	case "date":
		column = "created_at"
	}
	if req.Direction == pagination.DESC {
		return column + " desc"
	}
	return column + " asc"
}

// LocalStorage provides an in-memory implementation of the product catalog.
type LocalStorage struct {
	mu     sync.RWMutex
	m      map[int64]*Product
	nextID int64
}

// NewLocalStorage instantiates a new LocalStorage with an empty catalog.
func NewLocalStorage() *LocalStorage {
	return &LocalStorage{m: map[int64]*Product{}, nextID: 1}
}

func (l *LocalStorage) Create(p *Product) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	p.ID = l.nextID
	l.nextID++
	cp := *p
	l.m[p.ID] = &cp
	return nil
}

func (l *LocalStorage) Update(p *Product) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.m[p.ID]; !ok {
		return ErrNotFound
	}
	cp := *p
	l.m[p.ID] = &cp
	return nil
}

func (l *LocalStorage) FindByID(id int64) (*Product, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	p, ok := l.m[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (l *LocalStorage) Find(status Status, search string, req pagination.PageRequest) (pagination.Page[Product], error) {
	l.mu.RLock()
	products := make([]Product, 0, len(l.m))
	for _, p := range l.m {
		if status == StatusActive && !p.Active {
			continue
		}
		if status == StatusInactive && p.Active {
			continue
		}
		if search != "" {
			term := strings.ToLower(search)
			if !strings.Contains(strings.ToLower(p.Name), term) &&
				!strings.Contains(strings.ToLower(p.Description), term) {
				continue
			}
		}
		products = append(products, *p)
	}
	l.mu.RUnlock()

	sort.SliceStable(products, func(i, j int) bool {
		var less bool
		switch req.Sort {
		case "price":
			less = products[i].Price.LessThan(products[j].Price)
		case "date":
			less = products[i].CreatedAt.Before(products[j].CreatedAt)
		default:
			less = strings.ToLower(products[i].Name) < strings.ToLower(products[j].Name)
		}
		if req.Direction == pagination.DESC {
			return !less
		}
		return less
	})

	total := int64(len(products))
	start := req.Offset()
	if start > len(products) {
		start = len(products)
	}
	end := start + req.Size
	if end > len(products) {
		end = len(products)
	}
	return pagination.NewPage(products[start:end], req, total), nil
}
