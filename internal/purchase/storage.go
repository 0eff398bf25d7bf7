package purchase

import (
	"sort"
	"sync"

	"gorm.io/gorm"

	"github.com/gussttaav/g-commerce-thymeleaf/internal/pagination"
)

// Storage is the persistence contract of the purchase ledger. Save is
// atomic over the whole aggregate; there is no update or delete.
type Storage interface {
	Save(p *Purchase) error
	FindByUser(userID int64, req pagination.PageRequest) (pagination.Page[Purchase], error)
	FindAll(req pagination.PageRequest) (pagination.Page[Purchase], error)
}

// GormStorage persists purchases in a relational database through gorm.
type GormStorage struct {
	db *gorm.DB
}

// NewGormStorage instantiates a purchase ledger backed by the given DB handle.
func NewGormStorage(db *gorm.DB) *GormStorage {
	return &GormStorage{db: db}
}

// Save writes the purchase and all of its items in one transaction. On any
// error the transaction rolls back and nothing is persisted. User and
// product rows are references, not part of the aggregate, and are never
// written here.
func (g *GormStorage) Save(p *Purchase) error {
	return g.db.Transaction(func(tx *gorm.DB) error {
		return tx.Omit("User", "Items.Product").Create(p).Error
	})
}

func (g *GormStorage) FindByUser(userID int64, req pagination.PageRequest) (pagination.Page[Purchase], error) {
	return g.find(g.db.Where("user_id = ?", userID), req)
}

func (g *GormStorage) FindAll(req pagination.PageRequest) (pagination.Page[Purchase], error) {
	return g.find(g.db, req)
}

func (g *GormStorage) find(query *gorm.DB, req pagination.PageRequest) (pagination.Page[Purchase], error) {
	var total int64
	if err := query.Model(&Purchase{}).Count(&total).Error; err != nil {
		return pagination.Page[Purchase]{}, err
	}

	var purchases []Purchase
	err := query.
		Preload("User").
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			// items come back in submission order
			return db.Order("purchase_items.id asc")
		}).
		Preload("Items.Product").
		Order(orderClause(req)).
		Offset(req.Offset()).
		Limit(req.Size).
		Find(&purchases).Error
	if err != nil {
		return pagination.Page[Purchase]{}, err
	}
	return pagination.NewPage(purchases, req, total), nil
}

func orderClause(req pagination.PageRequest) string {
	column := "date"
	if req.Sort == "total" {
		column = "total"
	}
	if req.Direction == pagination.ASC {
		return column + " asc"
	}
	return column + " desc"
}

// LocalStorage provides an in-memory implementation of the purchase ledger.
type LocalStorage struct {
	mu         sync.RWMutex
	m          map[int64]*Purchase
	nextID     int64
	nextItemID int64
}

// NewLocalStorage instantiates a new LocalStorage with an empty ledger.
func NewLocalStorage() *LocalStorage {
	return &LocalStorage{m: map[int64]*Purchase{}, nextID: 1, nextItemID: 1}
}

func (l *LocalStorage) Save(p *Purchase) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	p.ID = l.nextID
	l.nextID++
	for i := range p.Items {
		p.Items[i].ID = l.nextItemID
		p.Items[i].PurchaseID = p.ID
		l.nextItemID++
	}
	cp := *p
	cp.Items = append([]Item(nil), p.Items...)
	l.m[p.ID] = &cp
	return nil
}

func (l *LocalStorage) FindByUser(userID int64, req pagination.PageRequest) (pagination.Page[Purchase], error) {
	return l.find(func(p *Purchase) bool { return p.UserID == userID }, req)
}

func (l *LocalStorage) FindAll(req pagination.PageRequest) (pagination.Page[Purchase], error) {
	return l.find(func(*Purchase) bool { return true }, req)
}

// Count returns the number of purchases in the ledger.
func (l *LocalStorage) Count() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.m)
}

func (l *LocalStorage) find(match func(*Purchase) bool, req pagination.PageRequest) (pagination.Page[Purchase], error) {
	l.mu.RLock()
	purchases := make([]Purchase, 0, len(l.m))
	for _, p := range l.m {
		if match(p) {
			cp := *p
			cp.Items = append([]Item(nil), p.Items...)
			purchases = append(purchases, cp)
		}
	}
	l.mu.RUnlock()

	sort.SliceStable(purchases, func(i, j int) bool {
		var less bool
		switch req.Sort {
		case "total":
			less = purchases[i].Total.LessThan(purchases[j].Total)
		default:
			if purchases[i].Date.Equal(purchases[j].Date) {
				less = purchases[i].ID < purchases[j].ID
			} else {
				less = purchases[i].Date.Before(purchases[j].Date)
			}
		}
		if req.Direction == pagination.DESC {
			return !less
		}
		return less
	})

	total := int64(len(purchases))
	start := req.Offset()
	if start > len(purchases) {
		start = len(purchases)
	}
	end := start + req.Size
	if end > len(purchases) {
		end = len(purchases)
	}
	return pagination.NewPage(purchases[start:end], req, total), nil
}
