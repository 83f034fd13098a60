package customvalidator

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// RegisterCustomValidations регистрирует прикладные правила валидации
// в переданном экземпляре валидатора.
func RegisterCustomValidations(v *validator.Validate) error {
	return v.RegisterValidation("phone_number", isPhoneNumber)
}

// isPhoneNumber: номер в международном формате, 10-15 цифр,
// допускается ведущий «+».
func isPhoneNumber(fl validator.FieldLevel) bool {
	re := regexp.MustCompile(`^\+?\d{10,15}$`)
	return re.MatchString(fl.Field().String())
}
