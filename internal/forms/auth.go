package forms

import "strings"

const minPasswordLength = 8

type RegisterForm struct {
	Username  string `form:"username"`
	Email     string `form:"email"`
	Password1 string `form:"password1"`
	Password2 string `form:"password2"`
}

func (f *RegisterForm) Validate() Errors {
	errs := Errors{}

	f.Username = strings.TrimSpace(f.Username)
	if f.Username == "" {
		errs.Add("username", "Username is required.")
	}

	f.Email = strings.TrimSpace(f.Email)
	if !validEmail(f.Email) {
		errs.Add("email", "Enter a valid email address.")
	}

	if len(f.Password1) < minPasswordLength {
		errs.Add("password1", "Password must be at least 8 characters long.")
	}
	if f.Password2 != f.Password1 {
		errs.Add("password2", "The two password fields didn't match.")
	}

	return errs
}

type LoginForm struct {
	Username string `form:"username"`
	Password string `form:"password"`
}

func (f *LoginForm) Validate() Errors {
	errs := Errors{}

	f.Username = strings.TrimSpace(f.Username)
	if f.Username == "" {
		errs.Add("username", "Username is required.")
	}
	if f.Password == "" {
		errs.Add("password", "Password is required.")
	}

	return errs
}

// AccountForm is the username/email sub-form of the profile page.
// Email uniqueness against other accounts is checked by the service.
type AccountForm struct {
	Username string `form:"username"`
	Email    string `form:"email"`
}

func (f *AccountForm) Validate() Errors {
	errs := Errors{}

	f.Username = strings.TrimSpace(f.Username)
	if f.Username == "" {
		errs.Add("username", "Username is required.")
	}

	f.Email = strings.TrimSpace(f.Email)
	if !validEmail(f.Email) {
		errs.Add("email", "Enter a valid email address.")
	}

	return errs
}

type ResetRequestForm struct {
	Email string `form:"email"`
}

func (f *ResetRequestForm) Validate() Errors {
	errs := Errors{}

	f.Email = strings.TrimSpace(f.Email)
	if !validEmail(f.Email) {
		errs.Add("email", "Enter a valid email address.")
	}

	return errs
}

type ResetConfirmForm struct {
	Password1 string `form:"password1"`
	Password2 string `form:"password2"`
}

func (f *ResetConfirmForm) Validate() Errors {
	errs := Errors{}

	if len(f.Password1) < minPasswordLength {
		errs.Add("password1", "Password must be at least 8 characters long.")
	}
	if f.Password2 != f.Password1 {
		errs.Add("password2", "The two password fields didn't match.")
	}

	return errs
}
