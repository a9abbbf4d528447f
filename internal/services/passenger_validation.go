package services

import (
	"errors"
	"fmt"
	"strings"

	intconfig "railbook/internal/config"
	"railbook/internal/domain"
	"railbook/internal/domain/models"
	"railbook/internal/utils"

	"github.com/go-playground/validator/v10"
)

// PassengerValidator checks passenger input against the booking settings.
// Each check is also usable on its own so a prompt can re-ask one field.
type PassengerValidator struct {
	Settings intconfig.BookingSettings
	v        *validator.Validate
}

func NewPassengerValidator(st intconfig.BookingSettings) PassengerValidator {
	return PassengerValidator{Settings: st, v: validator.New()}
}

func (pv PassengerValidator) validate() *validator.Validate {
	if pv.v != nil {
		return pv.v
	}
	return validator.New()
}

func (pv PassengerValidator) CheckCount(n int) error {
	if err := pv.validate().Var(n, fmt.Sprintf("min=1,max=%d", pv.Settings.MaxPassengers)); err != nil {
		return domain.ValidationError{Field: "passengers", Msg: fmt.Sprintf("number of passengers must be between 1 and %d", pv.Settings.MaxPassengers)}
	}
	return nil
}

func (pv PassengerValidator) CheckName(name string) (string, error) {
	name = utils.NormalizeSpace(name)
	if err := pv.validate().Var(name, "required"); err != nil {
		return "", domain.ValidationError{Field: "name", Msg: "name cannot be empty"}
	}
	return name, nil
}

func (pv PassengerValidator) CheckAge(age int) error {
	tag := fmt.Sprintf("min=%d,max=%d", pv.Settings.MinAge, pv.Settings.MaxAge)
	if err := pv.validate().Var(age, tag); err != nil {
		return domain.ValidationError{Field: "age", Msg: fmt.Sprintf("age must be between %d and %d", pv.Settings.MinAge, pv.Settings.MaxAge)}
	}
	return nil
}

func (pv PassengerValidator) CheckClass(raw string) (domain.SeatClass, error) {
	class := domain.ParseSeatClass(raw)
	if !class.In(pv.Settings.SeatClasses) {
		return "", domain.ValidationError{
			Field: "seat_class",
			Msg:   fmt.Sprintf("class must be one of %s", joinClasses(pv.Settings.SeatClasses)),
			Err:   domain.ErrUnknownClass,
		}
	}
	return class, nil
}

// Normalize validates one passenger and returns it trimmed and upper-cased.
func (pv PassengerValidator) Normalize(p models.PassengerInput) (models.PassengerInput, error) {
	p.Name = utils.NormalizeSpace(p.Name)
	p.SeatClass = domain.ParseSeatClass(p.SeatClass).String()
	if err := pv.validate().Struct(p); err != nil {
		return p, fieldError(err)
	}
	if err := pv.CheckAge(p.Age); err != nil {
		return p, err
	}
	if _, err := pv.CheckClass(p.SeatClass); err != nil {
		return p, err
	}
	return p, nil
}

func (pv PassengerValidator) NormalizeAll(passengers []models.PassengerInput) ([]models.PassengerInput, error) {
	if err := pv.CheckCount(len(passengers)); err != nil {
		return nil, err
	}
	out := make([]models.PassengerInput, 0, len(passengers))
	for i, p := range passengers {
		clean, err := pv.Normalize(p)
		if err != nil {
			return nil, fmt.Errorf("passenger %d: %w", i+1, err)
		}
		out = append(out, clean)
	}
	return out, nil
}

func fieldError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		field := strings.ToLower(fe.Field())
		if fe.Tag() == "required" {
			return domain.ValidationError{Field: field, Msg: field + " is required"}
		}
		return domain.ValidationError{Field: field, Msg: fmt.Sprintf("%s failed %s", field, fe.Tag())}
	}
	return domain.ValidationError{Msg: err.Error()}
}

func joinClasses(classes []domain.SeatClass) string {
	parts := make([]string, len(classes))
	for i, c := range classes {
		parts[i] = c.String()
	}
	return strings.Join(parts, ", ")
}
