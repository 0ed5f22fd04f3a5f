package form

import (
	"reflect"
	"strconv"
	"strings"

	"arcronym/internal/util"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// NewValidator returns a validator reporting fields by their form names, together with the
// english translator for its errors.
func NewValidator() (*validator.Validate, ut.Translator) {
	validate := validator.New()

	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Use form tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Lengths are checked the way the browser counts them, in UTF-16 code units.
	_ = validate.RegisterValidation("utf16max", utf16Max)

	RegisterCustomTranslation(validate, translator, "uuid", "{0} must be a valid id", true)
	RegisterCustomTranslation(validate, translator, "utf16max", "{0} must be a maximum of {1} characters in length")
	return validate, translator
}

func utf16Max(fl validator.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())
	if err != nil || fl.Field().Kind() != reflect.String {
		return false
	}
	return util.TextLength(fl.Field().String()) <= limit
}

// RegisterCustomTranslation registers a custom translation for the specified validation tag. The
// text may refer to the field as {0} and to the tag parameter as {1}.
func RegisterCustomTranslation(validate *validator.Validate, translator ut.Translator, tag, text string, override ...bool) {
	var ovrd bool
	if len(override) > 0 {
		ovrd = override[0]
	}
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, ovrd) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field(), fe.Param())
			return s
		},
	)
}
