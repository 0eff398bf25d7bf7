package user

import (
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/gussttaav/g-commerce-thymeleaf/internal/pagination"
)

// ErrEmailTaken is returned when registering or updating to an email that
// already belongs to another account.
var ErrEmailTaken = errors.New("email already registered")

// ErrInvalidPassword is returned when the current password is wrong or the
// new password equals the current one.
var ErrInvalidPassword = errors.New("invalid password")

// ErrPasswordMismatch is returned when the new password and its
// confirmation differ.
var ErrPasswordMismatch = errors.New("password confirmation does not match")

// Service provides account management operations on a Storage backend.
type Service struct {
	storage Storage
	logger  *zap.Logger
}

// NewService creates a new user Service.
func NewService(storage Storage, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{storage: storage, logger: logger}
}

// Register creates a new account with role USER and a bcrypt-hashed
// password.
func (s *Service) Register(req RegistrationRequest) (*Response, error) {
	s.logger.Info("registering new user", zap.String("email", req.Email))

	taken, err := s.storage.ExistsByEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		s.logger.Warn("registration failed, email already exists", zap.String("email", req.Email))
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u := &User{
		Name:      req.Name,
		Email:     req.Email,
		Password:  string(hash),
		Role:      RoleUser,
		CreatedAt: time.Now(),
	}
	if err := s.storage.Create(u); err != nil {
		s.logger.Error("failed to save user", zap.String("email", req.Email), zap.Error(err))
		return nil, err
	}

	s.logger.Info("user registered", zap.Int64("user_id", u.ID), zap.String("email", u.Email))
	return toResponse(u), nil
}

// Authenticate verifies the given credentials and returns the matching
// account. Returns ErrNotFound for an unknown email and ErrInvalidPassword
// for a wrong password.
func (s *Service) Authenticate(email, password string) (*User, error) {
	u, err := s.storage.FindByEmail(email)
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		s.logger.Warn("failed login attempt", zap.String("email", email))
		return nil, ErrInvalidPassword
	}
	return u, nil
}

// FindByEmail resolves an account by email.
func (s *Service) FindByEmail(email string) (*User, error) {
	return s.storage.FindByEmail(email)
}

// Profile returns the account information for the given email.
func (s *Service) Profile(email string) (*Response, error) {
	u, err := s.storage.FindByEmail(email)
	if err != nil {
		return nil, err
	}
	return toResponse(u), nil
}

// UpdateProfile changes the name and email of the account identified by
// email. Changing to an email that belongs to another account fails with
// ErrEmailTaken.
func (s *Service) UpdateProfile(email string, req ProfileUpdateRequest) (*Response, error) {
	s.logger.Info("updating profile", zap.String("email", email))

	u, err := s.storage.FindByEmail(email)
	if err != nil {
		return nil, err
	}

	if req.Email != u.Email {
		taken, err := s.storage.ExistsByEmail(req.Email)
		if err != nil {
			return nil, err
		}
		if taken {
			s.logger.Warn("profile update failed, email already exists", zap.String("email", req.Email))
			return nil, ErrEmailTaken
		}
	}

	u.Name = req.Name
	u.Email = req.Email
	if err := s.storage.Update(u); err != nil {
		s.logger.Error("failed to update user", zap.Int64("user_id", u.ID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("profile updated", zap.Int64("user_id", u.ID), zap.String("email", u.Email))
	return toResponse(u), nil
}

// ChangePassword replaces the account's password after checking the
// current one.
func (s *Service) ChangePassword(email string, req PasswordChangeRequest) error {
	s.logger.Info("password change attempt", zap.String("email", email))

	u, err := s.storage.FindByEmail(email)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.CurrentPassword)); err != nil {
		return ErrInvalidPassword
	}
	if req.NewPassword == req.CurrentPassword {
		return ErrInvalidPassword
	}
	if req.NewPassword != req.Confirmation {
		return ErrPasswordMismatch
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hash)
	if err := s.storage.Update(u); err != nil {
		s.logger.Error("failed to update password", zap.Int64("user_id", u.ID), zap.Error(err))
		return err
	}

	s.logger.Info("password changed", zap.String("email", email))
	return nil
}

// ToggleRole flips the role of the account with the given ID between USER
// and ADMIN.
func (s *Service) ToggleRole(userID int64) (*Response, error) {
	s.logger.Info("changing role", zap.Int64("user_id", userID))

	u, err := s.storage.FindByID(userID)
	if err != nil {
		return nil, err
	}
	if u.Role == RoleAdmin {
		u.Role = RoleUser
	} else {
		u.Role = RoleAdmin
	}
	if err := s.storage.Update(u); err != nil {
		s.logger.Error("failed to update role", zap.Int64("user_id", userID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("role updated", zap.Int64("user_id", userID), zap.String("role", string(u.Role)))
	return toResponse(u), nil
}

// List returns one page of all accounts.
func (s *Service) List(req pagination.PageRequest) (pagination.Page[Response], error) {
	s.logger.Debug("listing users",
		zap.Int("page", req.Page),
		zap.Int("size", req.Size),
		zap.String("sort", req.Sort),
		zap.String("direction", string(req.Direction)),
	)

	page, err := s.storage.FindAll(req)
	if err != nil {
		s.logger.Error("failed to list users", zap.Error(err))
		return pagination.Page[Response]{}, err
	}
	return pagination.Map(page, func(u User) Response { return *toResponse(&u) }), nil
}

// EnsureAdmin creates the administrator account on startup when it does
// not exist yet.
func (s *Service) EnsureAdmin(name, email, password string) error {
	exists, err := s.storage.ExistsByEmail(email)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := &User{
		Name:      name,
		Email:     email,
		Password:  string(hash),
		Role:      RoleAdmin,
		CreatedAt: time.Now(),
	}
	if err := s.storage.Create(admin); err != nil {
		return err
	}
	s.logger.Info("admin account created", zap.String("email", email))
	return nil
}
