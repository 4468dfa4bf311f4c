package leads

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// Messages returned to the contact form. They are part of the public API.
const (
	MsgNameTooShort    = "El nombre debe tener al menos 2 caracteres"
	MsgNameTooLong     = "El nombre no puede superar los 100 caracteres"
	MsgInvalidEmail    = "Email inválido"
	MsgEmailTooLong    = "El email no puede superar los 255 caracteres"
	MsgMessageTooShort = "El mensaje debe tener al menos 10 caracteres"
	MsgMessageTooLong  = "El mensaje no puede superar los 1000 caracteres"
	MsgInvalidData     = "Datos inválidos"
)

var validate = validator.New()

// violationMessages maps "<Field>.<tag>" to the user-facing message.
var violationMessages = map[string]string{
	"Name.min":    MsgNameTooShort,
	"Name.max":    MsgNameTooLong,
	"Email.email": MsgInvalidEmail,
	"Email.max":   MsgEmailTooLong,
	"Message.min": MsgMessageTooShort,
	"Message.max": MsgMessageTooLong,
}

// Validate checks req and returns one message per invalid field, in the
// order name, email, message. A nil result means the request is valid.
// Lengths are counted in characters, not bytes.
func Validate(req CreateLeadRequest) []string {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []string{MsgInvalidData}
	}

	out := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msg, ok := violationMessages[fe.Field()+"."+fe.Tag()]
		if !ok {
			msg = MsgInvalidData
		}
		out = append(out, msg)
	}
	return out
}
