// Package form binds and validates the login and registration forms.
package form

import (
	"errors"
	"strings"

	"github.com/camdash/camdash/database/model"
	"github.com/camdash/camdash/util/crypto"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	ErrValidation    = errors.New("form validation failed")
	ErrUsernameTaken = errors.New("that username is taken")
)

// Message keys resolved through the web locale.
const (
	MsgRequired      = "form.required"
	MsgTooLong       = "form.tooLong"
	MsgInvalid       = "form.invalid"
	MsgUsernameTaken = "form.usernameTaken"
	MsgCsrf          = "form.csrf"
)

// Errors maps a form field name to the message key describing its problem.
type Errors map[string]string

func (e Errors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

// UserLookup is the part of the credential store the registration form needs.
type UserLookup interface {
	GetUserByUsername(username string) (*model.User, error)
}

type LoginForm struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

type RegisterForm struct {
	Username string `form:"username" binding:"required,max=15"`
	Password string `form:"password" binding:"required"`
}

// BindLogin reads the login form from the request body. Whether the account
// exists is not checked here.
func BindLogin(c *gin.Context) (*LoginForm, Errors, error) {
	f := &LoginForm{}
	fieldErrs, err := bind(c, f)
	return f, fieldErrs, err
}

// BindRegister reads the registration form and checks that the username is
// still free. A taken username yields ErrUsernameTaken; any other field
// problem yields ErrValidation. Other errors come from the store.
func BindRegister(c *gin.Context, users UserLookup) (*RegisterForm, Errors, error) {
	f := &RegisterForm{}
	fieldErrs, err := bind(c, f)
	// validator's max counts runes, bcrypt limits bytes
	if len(f.Password) > crypto.MaxPasswordBytes {
		if fieldErrs == nil {
			fieldErrs = Errors{}
		}
		fieldErrs["password"] = MsgTooLong
		err = ErrValidation
	}
	if err != nil {
		return f, fieldErrs, err
	}
	existing, err := users.GetUserByUsername(f.Username)
	if err != nil {
		return f, nil, err
	}
	if existing != nil {
		return f, Errors{"username": MsgUsernameTaken}, ErrUsernameTaken
	}
	return f, nil, nil
}

func bind(c *gin.Context, obj any) (Errors, error) {
	err := c.ShouldBindWith(obj, binding.Form)
	if err == nil {
		return nil, nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return Errors{"form": MsgInvalid}, ErrValidation
	}
	fieldErrs := make(Errors, len(verrs))
	for _, fe := range verrs {
		fieldErrs[strings.ToLower(fe.Field())] = messageFor(fe.Tag())
	}
	return fieldErrs, ErrValidation
}

func messageFor(tag string) string {
	switch tag {
	case "required":
		return MsgRequired
	case "max":
		return MsgTooLong
	default:
		return MsgInvalid
	}
}
