package dogs

import "time"

// Status es el estado de adopción de una publicación.
// @Enum available, reserved, adopted
type Status string

const (
	StatusAvailable Status = "available"
	StatusReserved  Status = "reserved"
	StatusAdopted   Status = "adopted"
)

// ParseStatus convierte texto externo en un Status válido.
// Es el único punto de entrada de estados desde fuera del dominio. El match es exacto.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusAvailable:
		return StatusAvailable, nil
	case StatusReserved:
		return StatusReserved, nil
	case StatusAdopted:
		return StatusAdopted, nil
	default:
		return "", ErrInvalidStatus
	}
}

func (s Status) Valid() bool {
	_, err := ParseStatus(string(s))
	return err == nil
}

// Size define el tamaño del perro.
// @Enum small, medium, large
type Size string

const (
	SizeSmall  Size = "small"
	SizeMedium Size = "medium"
	SizeLarge  Size = "large"
)

// Gender define el sexo del perro.
// @Enum male, female
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// Dog representa una publicación de adopción.
type Dog struct {
	ID          string
	PublisherID string

	Name      string
	Breed     string
	Size      Size
	Gender    Gender
	AgeYears  int
	AgeMonths int
	Color     string

	Description  string
	SpecialNeeds string

	Vaccinated bool
	Sterilized bool
	Dewormed   bool

	Latitude  float64
	Longitude float64
	Province  string
	Canton    string
	Address   string

	ContactPhone string
	ContactEmail string
	HasWhatsApp  bool

	Photos      []string
	Certificate string

	Status Status

	CreatedAt time.Time
	UpdatedAt time.Time
	AdoptedAt *time.Time // se fija una sola vez, la primera vez que pasa a adopted
}

// HistoryEntry es una fila inmutable del historial de estados de un perro.
// OldStatus es nil solo en la entrada de creación.
type HistoryEntry struct {
	ID        string
	DogID     string
	OldStatus *Status
	NewStatus Status
	ChangedAt time.Time
}
