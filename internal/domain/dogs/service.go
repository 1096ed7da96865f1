package dogs

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"pura-pata/internal/geo"
	"pura-pata/internal/platform/logger"
	"pura-pata/internal/platform/validation"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("dog not found")
	ErrForbidden    = errors.New("forbidden")

	ErrInvalidStatus = fmt.Errorf("%w: invalid status", ErrInvalidInput)
)

// DefaultNearbyRadiusKm es el radio que usa la búsqueda por cercanía si no se indica otro.
const DefaultNearbyRadiusKm = 50.0

// PublisherDirectory garantiza que el publicador exista antes de crear publicaciones.
// Se define aquí para no importar el módulo publishers.
type PublisherDirectory interface {
	Ensure(ctx context.Context, userID, email string) error
}

type Service struct {
	repo       Repository
	publishers PublisherDirectory
	events     EventPublisher
	log        logger.Logger
	validate   *validator.Validate
	now        func() time.Time
}

type Option func(*Service)

func WithPublisherDirectory(d PublisherDirectory) Option {
	return func(s *Service) { s.publishers = d }
}

func WithEventPublisher(p EventPublisher) Option {
	return func(s *Service) {
		if p != nil {
			s.events = p
		}
	}
}

func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{
		repo:     repo,
		events:   NoopPublisher{},
		log:      logger.Nop(),
		validate: validation.New(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type CreateInput struct {
	Name         string  `json:"name" validate:"required,max=100"`
	Breed        string  `json:"breed" validate:"required,max=100"`
	Size         Size    `json:"size" validate:"required,oneof=small medium large"`
	Gender       Gender  `json:"gender" validate:"required,oneof=male female"`
	AgeYears     int     `json:"age_years" validate:"gte=0,lte=30"`
	AgeMonths    int     `json:"age_months" validate:"gte=0,lte=11"`
	Color        string  `json:"color" validate:"max=50"`
	Description  string  `json:"description" validate:"max=2000"`
	SpecialNeeds string  `json:"special_needs" validate:"max=1000"`
	Vaccinated   bool    `json:"vaccinated"`
	Sterilized   bool    `json:"sterilized"`
	Dewormed     bool    `json:"dewormed"`
	Latitude     float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude    float64 `json:"longitude" validate:"gte=-180,lte=180"`
	Province     string  `json:"province" validate:"max=100"`
	Canton       string  `json:"canton" validate:"max=100"`
	Address      string  `json:"address" validate:"max=255"`
	ContactPhone string  `json:"contact_phone" validate:"max=30"`
	ContactEmail string  `json:"contact_email" validate:"omitempty,email"`
	HasWhatsApp  bool    `json:"has_whatsapp"`

	Photos      []string `json:"photos" validate:"min=1,max=10,dive,required"`
	Certificate string   `json:"certificate"`
}

// UpdateInput: nil = no tocar. Status y adopted_at no se pueden editar por aquí.
type UpdateInput struct {
	Name         *string
	Breed        *string
	Size         *Size
	Gender       *Gender
	AgeYears     *int
	AgeMonths    *int
	Color        *string
	Description  *string
	SpecialNeeds *string
	Vaccinated   *bool
	Sterilized   *bool
	Dewormed     *bool
	Latitude     *float64
	Longitude    *float64
	Province     *string
	Canton       *string
	Address      *string
	ContactPhone *string
	ContactEmail *string
	HasWhatsApp  *bool
	Photos       []string // nil = no tocar
	Certificate  *string
}

func (s *Service) Create(ctx context.Context, publisherID, email string, in CreateInput) (Dog, error) {
	publisherID = strings.TrimSpace(publisherID)
	if publisherID == "" {
		return Dog{}, ErrInvalidInput
	}

	in = normalizeInput(in)
	if err := s.validate.Struct(in); err != nil {
		return Dog{}, fmt.Errorf("%w: %s", ErrInvalidInput, validation.Describe(err))
	}

	if s.publishers != nil {
		if err := s.publishers.Ensure(ctx, publisherID, email); err != nil {
			return Dog{}, fmt.Errorf("ensure publisher: %w", err)
		}
	}

	now := s.now()
	d := fromInput(in)
	d.ID = uuid.NewString()
	d.PublisherID = publisherID
	d.Status = StatusAvailable
	d.CreatedAt = now
	d.UpdatedAt = now

	if err := s.repo.CreateWithHistory(ctx, d, InitialEntry(d)); err != nil {
		return Dog{}, err
	}

	s.log.Info("dog created", map[string]any{
		"dog_id":       d.ID,
		"publisher_id": d.PublisherID,
	})
	return d, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Dog, error) {
	if strings.TrimSpace(id) == "" {
		return Dog{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]Dog, error) {
	return s.repo.List(ctx, filter.Normalize())
}

func (s *Service) ListMine(ctx context.Context, publisherID string) ([]Dog, error) {
	if strings.TrimSpace(publisherID) == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByPublisher(ctx, publisherID)
}

// Nearby busca perros disponibles en un radio (km) alrededor del punto dado.
func (s *Service) Nearby(ctx context.Context, lat, lon, radiusKm float64) ([]Dog, error) {
	if !(geo.Point{Lat: lat, Lon: lon}).Valid() {
		return nil, fmt.Errorf("%w: coordinates out of range", ErrInvalidInput)
	}
	if math.IsNaN(radiusKm) || radiusKm < 0 {
		return nil, fmt.Errorf("%w: radius must be >= 0", ErrInvalidInput)
	}

	candidates, err := s.repo.ListByStatus(ctx, StatusAvailable)
	if err != nil {
		return nil, err
	}
	return Nearby(lat, lon, radiusKm, candidates), nil
}

func (s *Service) Update(ctx context.Context, id, actorID string, in UpdateInput) (Dog, error) {
	current, err := s.GetByID(ctx, id)
	if err != nil {
		return Dog{}, err
	}
	if strings.TrimSpace(actorID) == "" || current.PublisherID != actorID {
		return Dog{}, ErrForbidden
	}

	// Se valida el resultado completo, no solo los campos enviados.
	norm := normalizeInput(toInput(applyUpdate(current, in)))
	if err := s.validate.Struct(norm); err != nil {
		return Dog{}, fmt.Errorf("%w: %s", ErrInvalidInput, validation.Describe(err))
	}
	merged := fromInputOnto(current, norm)
	merged.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, merged); err != nil {
		return Dog{}, err
	}

	// Releer: status/adopted_at pueden haber cambiado en paralelo.
	return s.repo.GetByID(ctx, id)
}

// SetStatus cambia el estado y agrega la entrada de historial en una sola unidad.
// La notificación posterior es best effort: si falla se loguea y no se devuelve.
func (s *Service) SetStatus(ctx context.Context, id, status, actorID string) (Dog, error) {
	if strings.TrimSpace(id) == "" {
		return Dog{}, ErrNotFound
	}

	updated, entry, err := s.repo.ApplyTransition(ctx, id, func(current Dog) (Dog, HistoryEntry, error) {
		return Transition(current, status, actorID, s.now())
	})
	if err != nil {
		return Dog{}, err
	}

	log := s.log.With(map[string]any{
		"dog_id":     updated.ID,
		"new_status": string(entry.NewStatus),
	})
	log.Info("dog status changed", nil)

	change := StatusChange{
		DogID:       updated.ID,
		PublisherID: updated.PublisherID,
		NewStatus:   entry.NewStatus,
		ChangedAt:   entry.ChangedAt,
	}
	if entry.OldStatus != nil {
		change.OldStatus = *entry.OldStatus
	}
	if err := s.events.PublishStatusChanged(ctx, change); err != nil {
		log.Warn("publish status change failed", map[string]any{"error": err})
	}

	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id, actorID string) error {
	owner, err := s.OwnerOf(ctx, id)
	if err != nil {
		return err
	}
	if strings.TrimSpace(actorID) == "" || owner != actorID {
		return ErrForbidden
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.log.Info("dog deleted", map[string]any{"dog_id": id, "publisher_id": owner})
	return nil
}

func normalizeInput(in CreateInput) CreateInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Breed = strings.TrimSpace(in.Breed)
	in.Size = Size(strings.ToLower(strings.TrimSpace(string(in.Size))))
	in.Gender = Gender(strings.ToLower(strings.TrimSpace(string(in.Gender))))
	in.Color = strings.TrimSpace(in.Color)
	in.Description = strings.TrimSpace(in.Description)
	in.SpecialNeeds = strings.TrimSpace(in.SpecialNeeds)
	in.Province = strings.TrimSpace(in.Province)
	in.Canton = strings.TrimSpace(in.Canton)
	in.Address = strings.TrimSpace(in.Address)
	in.ContactPhone = strings.TrimSpace(in.ContactPhone)
	in.ContactEmail = strings.TrimSpace(in.ContactEmail)
	in.Certificate = strings.TrimSpace(in.Certificate)

	if in.Photos != nil {
		photos := make([]string, 0, len(in.Photos))
		for _, p := range in.Photos {
			photos = append(photos, strings.TrimSpace(p))
		}
		in.Photos = photos
	}
	return in
}

func fromInput(in CreateInput) Dog {
	return fromInputOnto(Dog{}, in)
}

func fromInputOnto(d Dog, in CreateInput) Dog {
	d.Name = in.Name
	d.Breed = in.Breed
	d.Size = in.Size
	d.Gender = in.Gender
	d.AgeYears = in.AgeYears
	d.AgeMonths = in.AgeMonths
	d.Color = in.Color
	d.Description = in.Description
	d.SpecialNeeds = in.SpecialNeeds
	d.Vaccinated = in.Vaccinated
	d.Sterilized = in.Sterilized
	d.Dewormed = in.Dewormed
	d.Latitude = in.Latitude
	d.Longitude = in.Longitude
	d.Province = in.Province
	d.Canton = in.Canton
	d.Address = in.Address
	d.ContactPhone = in.ContactPhone
	d.ContactEmail = in.ContactEmail
	d.HasWhatsApp = in.HasWhatsApp
	d.Photos = append([]string(nil), in.Photos...)
	d.Certificate = in.Certificate
	return d
}

func toInput(d Dog) CreateInput {
	return CreateInput{
		Name:         d.Name,
		Breed:        d.Breed,
		Size:         d.Size,
		Gender:       d.Gender,
		AgeYears:     d.AgeYears,
		AgeMonths:    d.AgeMonths,
		Color:        d.Color,
		Description:  d.Description,
		SpecialNeeds: d.SpecialNeeds,
		Vaccinated:   d.Vaccinated,
		Sterilized:   d.Sterilized,
		Dewormed:     d.Dewormed,
		Latitude:     d.Latitude,
		Longitude:    d.Longitude,
		Province:     d.Province,
		Canton:       d.Canton,
		Address:      d.Address,
		ContactPhone: d.ContactPhone,
		ContactEmail: d.ContactEmail,
		HasWhatsApp:  d.HasWhatsApp,
		Photos:       d.Photos,
		Certificate:  d.Certificate,
	}
}

func applyUpdate(d Dog, in UpdateInput) Dog {
	setString := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	setBool := func(dst *bool, v *bool) {
		if v != nil {
			*dst = *v
		}
	}
	setInt := func(dst *int, v *int) {
		if v != nil {
			*dst = *v
		}
	}

	setString(&d.Name, in.Name)
	setString(&d.Breed, in.Breed)
	if in.Size != nil {
		d.Size = *in.Size
	}
	if in.Gender != nil {
		d.Gender = *in.Gender
	}
	setInt(&d.AgeYears, in.AgeYears)
	setInt(&d.AgeMonths, in.AgeMonths)
	setString(&d.Color, in.Color)
	setString(&d.Description, in.Description)
	setString(&d.SpecialNeeds, in.SpecialNeeds)
	setBool(&d.Vaccinated, in.Vaccinated)
	setBool(&d.Sterilized, in.Sterilized)
	setBool(&d.Dewormed, in.Dewormed)
	if in.Latitude != nil {
		d.Latitude = *in.Latitude
	}
	if in.Longitude != nil {
		d.Longitude = *in.Longitude
	}
	setString(&d.Province, in.Province)
	setString(&d.Canton, in.Canton)
	setString(&d.Address, in.Address)
	setString(&d.ContactPhone, in.ContactPhone)
	setString(&d.ContactEmail, in.ContactEmail)
	setBool(&d.HasWhatsApp, in.HasWhatsApp)
	if in.Photos != nil {
		d.Photos = append([]string(nil), in.Photos...)
	}
	setString(&d.Certificate, in.Certificate)
	return d
}
