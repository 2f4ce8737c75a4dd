package dto

import (
	"errors"
	"fmt"
	"strings"
)

type Auth struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

func (a Auth) IsValid() error {
	var loginErr, passwordErr error

	if strings.TrimSpace(a.Login) == "" {
		loginErr = fmt.Errorf("login is required")
	}

	if strings.TrimSpace(a.Password) == "" {
		passwordErr = fmt.Errorf("password is required")
	}

	return errors.Join(loginErr, passwordErr)
}

type Register struct {
	Login           string `json:"login"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

func (r Register) IsValid() error {
	var loginErr, emailErr, passwordErr, confirmErr error

	if strings.TrimSpace(r.Login) == "" {
		loginErr = fmt.Errorf("login is required")
	}

	if !strings.Contains(r.Email, "@") {
		emailErr = fmt.Errorf("a valid email is required")
	}

	if len(r.Password) < 8 {
		passwordErr = fmt.Errorf("password must be at least 8 characters")
	}

	if r.Password != r.ConfirmPassword {
		confirmErr = fmt.Errorf("passwords do not match")
	}

	return errors.Join(loginErr, emailErr, passwordErr, confirmErr)
}
