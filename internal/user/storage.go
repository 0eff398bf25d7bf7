package user

import (
	"errors"
	"sort"
	"strings"
	"sync"

	"gorm.io/gorm"

	"github.com/gussttaav/g-commerce-thymeleaf/internal/pagination"
)

// ErrNotFound is returned when no user matches the given email or ID.
var ErrNotFound = errors.New("user not found")

// Storage is the main interface for the user directory storage layer.
type Storage interface {
	Create(u *User) error
	Update(u *User) error
	FindByEmail(email string) (*User, error)
	FindByID(id int64) (*User, error)
	ExistsByEmail(email string) (bool, error)
	FindAll(req pagination.PageRequest) (pagination.Page[User], error)
}

// GormStorage persists users in a relational database through gorm.
type GormStorage struct {
	db *gorm.DB
}

// NewGormStorage instantiates a user storage backed by the given DB handle.
func NewGormStorage(db *gorm.DB) *GormStorage {
	return &GormStorage{db: db}
}

func (g *GormStorage) Create(u *User) error {
	return g.db.Create(u).Error
}

func (g *GormStorage) Update(u *User) error {
	return g.db.Save(u).Error
}

func (g *GormStorage) FindByEmail(email string) (*User, error) {
	var u User
	err := g.db.Where("email = ?", email).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (g *GormStorage) FindByID(id int64) (*User, error) {
	var u User
	err := g.db.First(&u, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (g *GormStorage) ExistsByEmail(email string) (bool, error) {
	var count int64
	if err := g.db.Model(&User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (g *GormStorage) FindAll(req pagination.PageRequest) (pagination.Page[User], error) {
	var total int64
	if err := g.db.Model(&User{}).Count(&total).Error; err != nil {
		return pagination.Page[User]{}, err
	}

	var users []User
	err := g.db.Order(orderClause(req)).
		Offset(req.Offset()).
		Limit(req.Size).
		Find(&users).Error
	if err != nil {
		return pagination.Page[User]{}, err
	}
	return pagination.NewPage(users, req, total), nil
}

// orderClause whitelists sortable columns; anything unknown sorts by
// creation time.
func orderClause(req pagination.PageRequest) string {
	column := "created_at"
	switch req.Sort {
	case "name":
		column = "name"
	case "email":
		column = "email"
	}
	if req.Direction == pagination.ASC {
		return column + " asc"
	}
	return column + " desc"
}

// LocalStorage provides an in-memory implementation of the user directory.
type LocalStorage struct {
	mu     sync.RWMutex
	m      map[int64]*User
	nextID int64
}

// NewLocalStorage instantiates a new LocalStorage with an empty directory.
func NewLocalStorage() *LocalStorage {
	return &LocalStorage{m: map[int64]*User{}, nextID: 1}
}

func (l *LocalStorage) Create(u *User) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	u.ID = l.nextID
	l.nextID++
	cp := *u
	l.m[u.ID] = &cp
	return nil
}

func (l *LocalStorage) Update(u *User) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.m[u.ID]; !ok {
		return ErrNotFound
	}
	cp := *u
	l.m[u.ID] = &cp
	return nil
}

func (l *LocalStorage) FindByEmail(email string) (*User, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, u := range l.m {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (l *LocalStorage) FindByID(id int64) (*User, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	u, ok := l.m[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (l *LocalStorage) ExistsByEmail(email string) (bool, error) {
	_, err := l.FindByEmail(email)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (l *LocalStorage) FindAll(req pagination.PageRequest) (pagination.Page[User], error) {
	l.mu.RLock()
	users := make([]User, 0, len(l.m))
	for _, u := range l.m {
		users = append(users, *u)
	}
	l.mu.RUnlock()

	sort.SliceStable(users, func(i, j int) bool {
		var less bool
		switch req.Sort {
		case "name":
			less = strings.ToLower(users[i].Name) < strings.ToLower(users[j].Name)
		case "email":
			less = users[i].Email < users[j].Email
		default:
			less = users[i].CreatedAt.Before(users[j].CreatedAt)
		}
		if req.Direction == pagination.DESC {
			return !less
		}
		return less
	})

	total := int64(len(users))
	start := req.Offset()
	if start > len(users) {
		start = len(users)
	}
	end := start + req.Size
	if end > len(users) {
		end = len(users)
	}
	return pagination.NewPage(users[start:end], req, total), nil
}
