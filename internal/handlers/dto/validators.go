package dto

import (
	"errors"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/RahimovIlhom/instagram-clone/internal/domain/valueobjects"
)

// Tags de validação próprias
const (
	TagEmailOrPhone = "email_or_phone"
	TagUserInput    = "userinput"
)

// RegisterValidators registra as tags próprias no validator do gin
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("unexpected gin validator engine")
	}
	return RegisterValidatorsOn(v)
}

// RegisterValidatorsOn registra as tags em v
func RegisterValidatorsOn(v *validator.Validate) error {
	if err := v.RegisterValidation(TagEmailOrPhone, func(fl validator.FieldLevel) bool {
		_, err := valueobjects.ClassifyContact(fl.Field().String())
		return err == nil
	}); err != nil {
		return err
	}

	return v.RegisterValidation(TagUserInput, func(fl validator.FieldLevel) bool {
		_, err := valueobjects.ClassifyLogin(fl.Field().String())
		return err == nil
	})
}
