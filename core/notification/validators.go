package notification

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/campus/core"
)

// InitValidators registers the notification validation tags.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(notificationTypeTag, func(fl validator.FieldLevel) bool {
		return Type(fl.Field().String()).Valid()
	})
	core.RegisterCustomTranslation(validate, translator, notificationTypeTag, notificationTypeText)
}

var (
	notificationTypeTag  = "notification_type"
	notificationTypeText = "{0} must be one of: info, warning, success, error, assignment, test, announcement"
)
