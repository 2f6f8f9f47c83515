package validation

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// custom validation tags
const notBlankTag = "notblank"

var (
	translator ut.Translator
	setupOnce  sync.Once
	setupErr   error
)

// Setup configures gin's validator engine once: json field names in errors,
// the notblank tag and English messages
func Setup() error {
	setupOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			setupErr = errors.New("unexpected validator engine")
			return
		}
		setupErr = register(v)
	})
	return setupErr
}

func register(v *validator.Validate) error {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ = uni.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(v, translator); err != nil {
		return err
	}

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation(notBlankTag, validators.NotBlank); err != nil {
		return err
	}
	return v.RegisterTranslation(notBlankTag, translator,
		func(ut.Translator) error { return nil },
		func(_ ut.Translator, fe validator.FieldError) string {
			return fe.Field() + " cannot be blank"
		},
	)
}

// Details maps each failing field to an English message; nil when err is
// not a validation error (malformed JSON, wrong types)
func Details(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}

	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		key := fieldPath(fe)
		if translator != nil {
			out[key] = fe.Translate(translator)
		} else {
			out[key] = fe.Error()
		}
	}
	return out
}

// fieldPath the namespace without the root struct name, e.g.
// languagesTaught[0].language
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}
