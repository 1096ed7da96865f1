package publishers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pura-pata/internal/platform/logger"
	"pura-pata/internal/platform/validation"

	"github.com/go-playground/validator/v10"
)

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrNotFound      = errors.New("user not found")
	ErrAlreadyExists = errors.New("user profile already exists")
	ErrEmailTaken    = errors.New("email already registered by another user")
)

type Service struct {
	repo     Repository
	log      logger.Logger
	validate *validator.Validate
	now      func() time.Time
}

func NewService(repo Repository, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo:     repo,
		log:      log,
		validate: validation.New(),
		now:      time.Now,
	}
}

type CreateInput struct {
	Email     string   `json:"email" validate:"required,email"`
	Name      string   `json:"name" validate:"required,max=255"`
	Phone     string   `json:"phone" validate:"max=20"`
	Province  string   `json:"province" validate:"max=100"`
	Canton    string   `json:"canton" validate:"max=100"`
	Address   string   `json:"address" validate:"max=255"`
	Latitude  *float64 `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
}

// UpdateInput: nil = no tocar. El email viene del proveedor de identidad y no se edita.
type UpdateInput struct {
	Name      *string  `json:"name" validate:"omitempty,min=1,max=255"`
	Phone     *string  `json:"phone" validate:"omitempty,max=20"`
	Province  *string  `json:"province" validate:"omitempty,max=100"`
	Canton    *string  `json:"canton" validate:"omitempty,max=100"`
	Address   *string  `json:"address" validate:"omitempty,max=255"`
	Latitude  *float64 `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
}

func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (Publisher, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Publisher{}, ErrInvalidInput
	}

	in.Email = strings.TrimSpace(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	if err := s.validate.Struct(in); err != nil {
		return Publisher{}, fmt.Errorf("%w: %s", ErrInvalidInput, validation.Describe(err))
	}

	now := s.now()
	p := Publisher{
		ID:        userID,
		Email:     in.Email,
		Name:      in.Name,
		Phone:     strings.TrimSpace(in.Phone),
		Province:  strings.TrimSpace(in.Province),
		Canton:    strings.TrimSpace(in.Canton),
		Address:   strings.TrimSpace(in.Address),
		Latitude:  in.Latitude,
		Longitude: in.Longitude,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return Publisher{}, err
	}

	s.log.Info("publisher created", map[string]any{"user_id": userID})
	return p, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Publisher, error) {
	if strings.TrimSpace(id) == "" {
		return Publisher{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

// GetOrCreate devuelve el perfil del usuario autenticado y crea uno mínimo si no existe
// (p.ej. si el registro quedó a medias).
func (s *Service) GetOrCreate(ctx context.Context, userID, email string) (Publisher, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Publisher{}, ErrInvalidInput
	}

	p, err := s.repo.GetByID(ctx, userID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Publisher{}, err
	}

	now := s.now()
	p = Publisher{
		ID:        userID,
		Email:     strings.TrimSpace(email),
		Name:      DefaultName,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.repo.Create(ctx, p)
	switch {
	case err == nil:
		s.log.Info("publisher created implicitly", map[string]any{"user_id": userID})
		return p, nil
	case errors.Is(err, ErrAlreadyExists):
		// Otra request lo creó en paralelo.
		return s.repo.GetByID(ctx, userID)
	case errors.Is(err, ErrEmailTaken):
		// Otro perfil ya reclamó ese email; el usuario no puede quedar sin perfil.
		s.log.Warn("publisher email taken, creating without email", map[string]any{"user_id": userID})
		p.Email = ""
		if err := s.repo.Create(ctx, p); err != nil {
			if errors.Is(err, ErrAlreadyExists) {
				return s.repo.GetByID(ctx, userID)
			}
			return Publisher{}, err
		}
		return p, nil
	default:
		return Publisher{}, err
	}
}

// Ensure garantiza que exista el perfil antes de asociarle publicaciones.
func (s *Service) Ensure(ctx context.Context, userID, email string) error {
	_, err := s.GetOrCreate(ctx, userID, email)
	return err
}

func (s *Service) Update(ctx context.Context, userID string, in UpdateInput) (Publisher, error) {
	if err := s.validate.Struct(in); err != nil {
		return Publisher{}, fmt.Errorf("%w: %s", ErrInvalidInput, validation.Describe(err))
	}

	p, err := s.GetByID(ctx, userID)
	if err != nil {
		return Publisher{}, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return Publisher{}, fmt.Errorf("%w: name: required", ErrInvalidInput)
		}
		p.Name = name
	}
	if in.Phone != nil {
		p.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.Province != nil {
		p.Province = strings.TrimSpace(*in.Province)
	}
	if in.Canton != nil {
		p.Canton = strings.TrimSpace(*in.Canton)
	}
	if in.Address != nil {
		p.Address = strings.TrimSpace(*in.Address)
	}
	if in.Latitude != nil {
		p.Latitude = in.Latitude
	}
	if in.Longitude != nil {
		p.Longitude = in.Longitude
	}
	p.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, p); err != nil {
		return Publisher{}, err
	}
	return p, nil
}
