package store

import (
	"errors"
	"sync"

	"gorm.io/gorm"

	"github.com/spirolink/SpiroLink-website-sub000/model"
)

var ErrUserNotFound = errors.New("user not found")

type UserStore interface {
	Create(u *model.User) error
	GetByEmail(email string) (*model.User, error)
	GetByID(id uint) (*model.User, error)
}

type GormUserStore struct {
	DB *gorm.DB
}

func NewGormUserStore(db *gorm.DB) *GormUserStore {
	return &GormUserStore{DB: db}
}

func (s *GormUserStore) Create(u *model.User) error {
	return s.DB.Create(u).Error
}

func (s *GormUserStore) GetByEmail(email string) (*model.User, error) {
	var u model.User
	if err := s.DB.Where("email = ?", email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (s *GormUserStore) GetByID(id uint) (*model.User, error) {
	var u model.User
	if err := s.DB.First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

type MemoryUserStore struct {
	mu     sync.RWMutex
	users  map[string]*model.User
	nextID uint
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{users: make(map[string]*model.User)}
}

func (s *MemoryUserStore) Create(u *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[u.Email]; ok {
		return errors.New("email already registered")
	}
	s.nextID++
	u.ID = s.nextID
	cp := *u
	s.users[u.Email] = &cp
	return nil
}

func (s *MemoryUserStore) GetByEmail(email string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[email]
	if !ok {
		return nil, ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *MemoryUserStore) GetByID(id uint) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrUserNotFound
}
