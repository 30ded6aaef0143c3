// Package forms binds and validates the incoming form posts. Each form
// returns a field-keyed error map so handlers can re-render the page
// with messages next to the inputs that caused them.
package forms

import "github.com/go-playground/validator/v10"

// Errors maps a form field name to a human-readable message.
type Errors map[string]string

func (e Errors) Add(field, message string) {
	if _, ok := e[field]; !ok {
		e[field] = message
	}
}

func (e Errors) Empty() bool { return len(e) == 0 }

var validate = validator.New()

func validEmail(email string) bool {
	return validate.Var(email, "required,email") == nil
}

// DateLayout is the wire format of date inputs (HTML date pickers post it).
const DateLayout = "2006-01-02"
