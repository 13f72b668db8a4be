package agent

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type CreateDTO struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Mobile   string `json:"mobile" validate:"required"`
	Password string `json:"password" validate:"required,max=72"`
}

func (d *CreateDTO) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.Email = strings.TrimSpace(d.Email)
	d.Mobile = strings.TrimSpace(d.Mobile)
}

// Ok normalizes d and returns per-field messages keyed by JSON name.
func (d *CreateDTO) Ok() (map[string]string, bool) {
	d.Normalize()
	return check(d)
}

// UpdateDTO applies only the fields that are set.
type UpdateDTO struct {
	Name     string `json:"name"`
	Email    string `json:"email" validate:"omitempty,email"`
	Mobile   string `json:"mobile"`
	Password string `json:"password" validate:"omitempty,max=72"`
}

func (d *UpdateDTO) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.Email = strings.TrimSpace(d.Email)
	d.Mobile = strings.TrimSpace(d.Mobile)
}

func (d *UpdateDTO) Ok() (map[string]string, bool) {
	d.Normalize()
	return check(d)
}

func check(dto any) (map[string]string, bool) {
	err := validate.Struct(dto)
	if err == nil {
		return map[string]string{}, true
	}
	out := map[string]string{}
	validatorErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		out["_"] = err.Error()
		return out, false
	}
	for _, fe := range validatorErrs {
		out[jsonName(fe.Field())] = message(fe)
	}
	return out, false
}

func jsonName(field string) string {
	switch field {
	case "Name":
		return "name"
	case "Email":
		return "email"
	case "Mobile":
		return "mobile"
	case "Password":
		return "password"
	default:
		return strings.ToLower(field)
	}
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return jsonName(fe.Field()) + " is required"
	case "email":
		return "email is not a valid address"
	case "max":
		return jsonName(fe.Field()) + " is too long"
	default:
		return jsonName(fe.Field()) + " is invalid"
	}
}
