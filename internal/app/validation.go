package app

import (
	"errors"
	"net/mail"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/example/ambassador/internal/core/errs"
	coreperson "github.com/example/ambassador/internal/core/person"
)

var (
	sectorTag  = "sector"
	sectorText = "{0} must be one of chamber_of_industry, chamber_of_trade, other"

	isoDateTag  = "isodate"
	isoDateText = "{0} must be a date in YYYY-MM-DD format"

	genderTag  = "gender"
	genderText = "{0} must be one of m, w, d"

	optEmailTag  = "optemail"
	optEmailText = "{0} must be a valid email address"
)

// Validator checks request structs and reports failures as *errs.ValidationError.
type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

// NewValidator builds a validator with the ledger's custom tags registered.
func NewValidator() *Validator {
	english := en.New()
	uni := ut.New(english, english)
	translator, _ := uni.GetTranslator("en")

	validate := validator.New(validator.WithRequiredStructEnabled())
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Report snake_case field names, matching CSV headers and CLI flags.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return snakeCase(fld.Name)
	})

	_ = validate.RegisterValidation(sectorTag, func(fl validator.FieldLevel) bool {
		return coreperson.ValidSector(fl.Field().String())
	})
	_ = validate.RegisterValidation(isoDateTag, func(fl validator.FieldLevel) bool {
		return coreperson.ValidDate(fl.Field().String())
	})
	_ = validate.RegisterValidation(genderTag, func(fl validator.FieldLevel) bool {
		return coreperson.ValidGender(fl.Field().String())
	})
	_ = validate.RegisterValidation(optEmailTag, func(fl validator.FieldLevel) bool {
		v := fl.Field().String()
		if v == "" {
			return true
		}
		_, err := mail.ParseAddress(v)
		return err == nil
	})

	registerTranslation(validate, translator, sectorTag, sectorText)
	registerTranslation(validate, translator, isoDateTag, isoDateText)
	registerTranslation(validate, translator, genderTag, genderText)
	registerTranslation(validate, translator, optEmailTag, optEmailText)

	return &Validator{validate: validate, translator: translator}
}

// Struct validates req. A nil return means every tag passed.
func (v *Validator) Struct(req any) error {
	err := v.validate.Struct(req)
	if err == nil {
		return nil
	}

	var invalid validator.ValidationErrors
	if !errors.As(err, &invalid) {
		return errs.NewValidation(err.Error())
	}

	fields := make([]errs.FieldError, 0, len(invalid))
	for _, fe := range invalid {
		fields = append(fields, errs.FieldError{
			Field:   fe.Field(),
			Message: strings.TrimPrefix(fe.Translate(v.translator), fe.Field()+" "),
		})
	}
	return errs.NewValidation("", fields...)
}

func registerTranslation(validate *validator.Validate, translator ut.Translator, tag, text string) {
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

func snakeCase(name string) string {
	var b strings.Builder
	runes := []rune(strings.ReplaceAll(name, "IDs", "Ids"))
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && (unicode.IsLower(runes[i-1]) || (i+1 < len(runes) && unicode.IsLower(runes[i+1]))) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
