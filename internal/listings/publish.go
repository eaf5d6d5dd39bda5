package listings

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/PIN-11-07/Turboo/internal/domain"
	"github.com/PIN-11-07/Turboo/internal/eventbus"
)

// Option lists for the constrained publish fields
var (
	MakeOptions = []string{
		"Alfa Romeo", "Audi", "BMW", "Citroen", "Cupra", "Dacia", "Fiat", "Ford",
		"Hyundai", "Jeep", "Kia", "Mazda", "Mercedes-Benz", "Mini", "Nissan", "Opel",
		"Peugeot", "Renault", "Seat", "Skoda", "Tesla", "Toyota", "Volkswagen", "Volvo",
	}
	FuelOptions         = []string{"Gasolina", "Diesel", "Hibrido", "Electrico", "GLP", "GNC"}
	TransmissionOptions = []string{"Manual", "Automatica", "Semiautomatica"}
)

// Publish feedback
const (
	MsgSignInRequired   = "You must sign in to publish a listing."
	MsgPublishFailed    = "Unable to publish the listing. Please try again."
	MsgPublishSucceeded = "Listing published successfully."
)

var (
	// ErrSignInRequired is returned when publishing without a session
	ErrSignInRequired = errors.New(MsgSignInRequired)
	// ErrPublishFailed wraps insert failures
	ErrPublishFailed = errors.New(MsgPublishFailed)
)

// Field identifies a publish form field
type Field int

const (
	FieldNone  Field = -1
	FieldTitle Field = iota - 1
	FieldDescription
	FieldPrice
	FieldMake
	FieldModel
	FieldYear
	FieldMileage
	FieldFuelType
	FieldTransmission
	FieldDoors
	FieldColor
	FieldLocation
)

// Fields lists every form field in display order
var Fields = []Field{
	FieldTitle, FieldDescription, FieldPrice, FieldMake, FieldModel, FieldYear,
	FieldMileage, FieldFuelType, FieldTransmission, FieldDoors, FieldColor, FieldLocation,
}

var fieldLabels = map[Field]string{
	FieldTitle:        "Title",
	FieldDescription:  "Description",
	FieldPrice:        "Price",
	FieldMake:         "Make",
	FieldModel:        "Model",
	FieldYear:         "Year",
	FieldMileage:      "Mileage",
	FieldFuelType:     "Fuel",
	FieldTransmission: "Transmission",
	FieldDoors:        "Doors",
	FieldColor:        "Color",
	FieldLocation:     "Location",
}

func (f Field) Label() string { return fieldLabels[f] }

// Options returns the allowed values of a picker field, nil for free text
func (f Field) Options() []string {
	switch f {
	case FieldMake:
		return MakeOptions
	case FieldFuelType:
		return FuelOptions
	case FieldTransmission:
		return TransmissionOptions
	}
	return nil
}

// ValidationError carries the message shown under the publish form
type ValidationError struct {
	Field   Field
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// PublishForm holds the raw text of every publish field
type PublishForm struct {
	values map[Field]string
}

// NewPublishForm returns an empty form
func NewPublishForm() *PublishForm {
	return &PublishForm{values: make(map[Field]string, len(Fields))}
}

// Get returns the raw value of f
func (p *PublishForm) Get(f Field) string { return p.values[f] }

// Set stores the raw value of f
func (p *PublishForm) Set(f Field, v string) { p.values[f] = v }

// Reset clears every field
func (p *PublishForm) Reset() {
	p.values = make(map[Field]string, len(Fields))
}

// Validate checks the form and builds the insert payload
func (p *PublishForm) Validate() (domain.NewListing, error) {
	var missing []string
	for _, f := range Fields {
		if strings.TrimSpace(p.values[f]) == "" {
			missing = append(missing, f.Label())
		}
	}
	if len(missing) > 0 {
		return domain.NewListing{}, &ValidationError{
			Field:   FieldNone,
			Message: fmt.Sprintf("Complete the required fields: %s.", strings.Join(missing, ", ")),
		}
	}

	price, ok := parseNumber(p.values[FieldPrice])
	if !ok {
		return domain.NewListing{}, &ValidationError{Field: FieldPrice, Message: "Enter a valid price."}
	}
	year, ok := parseInteger(p.values[FieldYear])
	if !ok || year < 1900 {
		return domain.NewListing{}, &ValidationError{Field: FieldYear, Message: "Enter a valid year."}
	}
	mileage, ok := parseInteger(p.values[FieldMileage])
	if !ok || mileage < 0 {
		return domain.NewListing{}, &ValidationError{Field: FieldMileage, Message: "Enter a valid mileage."}
	}
	doors, ok := parseInteger(p.values[FieldDoors])
	if !ok || doors <= 0 {
		return domain.NewListing{}, &ValidationError{Field: FieldDoors, Message: "Enter a valid number of doors."}
	}

	for _, f := range []Field{FieldMake, FieldFuelType, FieldTransmission} {
		if !slices.Contains(f.Options(), strings.TrimSpace(p.values[f])) {
			return domain.NewListing{}, &ValidationError{
				Field:   f,
				Message: fmt.Sprintf("Choose a %s from the list.", strings.ToLower(f.Label())),
			}
		}
	}

	return domain.NewListing{
		Title:        strings.TrimSpace(p.values[FieldTitle]),
		Description:  strings.TrimSpace(p.values[FieldDescription]),
		Price:        price,
		Make:         strings.TrimSpace(p.values[FieldMake]),
		Model:        strings.TrimSpace(p.values[FieldModel]),
		Year:         year,
		Mileage:      mileage,
		FuelType:     strings.TrimSpace(p.values[FieldFuelType]),
		Transmission: strings.TrimSpace(p.values[FieldTransmission]),
		Doors:        doors,
		Color:        strings.TrimSpace(p.values[FieldColor]),
		Location:     strings.TrimSpace(p.values[FieldLocation]),
	}, nil
}

// parseNumber accepts a comma as the decimal separator
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(strings.Replace(s, ",", ".", 1))
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// parseInteger rounds decimal input to the nearest integer
func parseInteger(s string) (int, bool) {
	v, ok := parseNumber(s)
	if !ok || math.Abs(v) > math.MaxInt32 {
		return 0, false
	}
	return int(math.Round(v)), true
}

// Inserter stores new listings
type Inserter interface {
	Insert(ctx context.Context, l domain.NewListing) error
}

// Publisher validates and inserts listings for the signed-in user
type Publisher struct {
	store Inserter
	bus   eventbus.EventBus
}

// NewPublisher creates a publisher writing to store
func NewPublisher(store Inserter, bus eventbus.EventBus) *Publisher {
	return &Publisher{store: store, bus: bus}
}

// Publish inserts the form as an active listing of session's user and resets
// the form. Validation errors are returned as *ValidationError, insert
// failures wrap ErrPublishFailed.
func (p *Publisher) Publish(ctx context.Context, session *domain.Session, form *PublishForm) error {
	if session == nil || session.User.ID == uuid.Nil || session.AccessToken == "" {
		return ErrSignInRequired
	}

	payload, err := form.Validate()
	if err != nil {
		return err
	}
	payload.UserID = session.User.ID.String()
	payload.IsActive = true

	if err := p.store.Insert(ctx, payload); err != nil {
		log.Printf("Listings: publish failed: %v", err)
		return fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}

	log.Printf("Listings: published %q for %s", payload.Title, payload.UserID)
	form.Reset()
	if p.bus != nil {
		p.bus.Publish(eventbus.ListingPublishedEvent{Title: payload.Title})
	}
	return nil
}

// UserMessage returns the text shown for a Publish error
func UserMessage(err error) string {
	var verr *ValidationError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &verr):
		return verr.Message
	case errors.Is(err, ErrSignInRequired):
		return MsgSignInRequired
	default:
		return MsgPublishFailed
	}
}
