package user

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/campus/core"
	"github.com/trezcool/campus/core/auth"
)

var (
	roleTag  = "role"
	roleText = "{0} must be one of: admin, teacher, student"
)

// InitValidators registers the user validation tags.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(roleTag, roleValidation)
	core.RegisterCustomTranslation(validate, translator, roleTag, roleText)
}

// roleValidation checks that the field names a known role.
func roleValidation(fl validator.FieldLevel) bool {
	return auth.Role(fl.Field().String()).Valid()
}
