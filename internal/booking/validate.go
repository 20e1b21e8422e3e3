package booking

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/nyaruka/phonenumbers"

	"barberbook/internal/model"
)

type bookingInput struct {
	Date           string `json:"date" validate:"required"`
	Time           string `json:"time" validate:"required"`
	Service        string `json:"service" validate:"required,max=100"`
	Name           string `json:"name" validate:"required_if=RequireContact true,max=100"`
	Phone          string `json:"phone" validate:"required_if=RequireContact true,max=32"`
	RequireContact bool   `json:"-"`
}

type bookingValidator struct {
	validate       *validator.Validate
	requireContact bool
	phoneRegion    string
	services       map[string]string
}

func newBookingValidator(opts Options) *bookingValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	var services map[string]string
	if len(opts.Services) > 0 {
		services = make(map[string]string, len(opts.Services))
		for _, s := range opts.Services {
			services[strings.ToLower(strings.TrimSpace(s))] = s
		}
	}

	return &bookingValidator{
		validate:       v,
		requireContact: opts.RequireContact,
		phoneRegion:    opts.PhoneRegion,
		services:       services,
	}
}

// check turns a request into a booking, normalizing service and phone.
func (v *bookingValidator) check(req Request) (model.Booking, error) {
	in := bookingInput{
		Service:        strings.TrimSpace(req.Service),
		Name:           strings.TrimSpace(req.Name),
		Phone:          strings.TrimSpace(req.Phone),
		RequireContact: v.requireContact,
	}
	if req.Selection != nil {
		if !req.Selection.Date.IsZero() {
			in.Date = req.Selection.Date.String()
		}
		in.Time = req.Selection.Time.String()
	}

	var fields []FieldError
	if err := v.validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return model.Booking{}, err
		}
		fields = translate(verrs)
	}

	b := model.Booking{
		Service:       in.Service,
		CustomerName:  in.Name,
		CustomerPhone: in.Phone,
	}
	if req.Selection != nil {
		b.Slot = *req.Selection
	}

	if in.Service != "" && v.services != nil {
		canonical, ok := v.services[strings.ToLower(in.Service)]
		if ok {
			b.Service = canonical
		} else {
			fields = append(fields, FieldError{Field: "service", Message: "service is not offered"})
		}
	}

	if in.Phone != "" {
		phone, err := normalizePhone(in.Phone, v.phoneRegion)
		if err != nil {
			fields = append(fields, FieldError{Field: "phone", Message: err.Error()})
		} else {
			b.CustomerPhone = phone
		}
	}

	if len(fields) > 0 {
		return model.Booking{}, &ValidationError{Fields: fields}
	}
	return b, nil
}

func normalizePhone(phone, region string) (string, error) {
	num, err := phonenumbers.Parse(phone, region)
	if err != nil {
		return "", fmt.Errorf("phone is not a valid number")
	}
	if !phonenumbers.IsPossibleNumber(num) {
		return "", fmt.Errorf("phone is not a valid number")
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}

func translate(errs validator.ValidationErrors) []FieldError {
	fields := make([]FieldError, 0, len(errs))
	for _, err := range errs {
		message := err.Error()
		switch err.Tag() {
		case "required", "required_if":
			message = fmt.Sprintf("%s is required", err.Field())
		case "max":
			message = fmt.Sprintf("%s must be at most %s characters", err.Field(), err.Param())
		}
		fields = append(fields, FieldError{Field: err.Field(), Message: message})
	}
	return fields
}
