package validator

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"unicode"
)

type ValidationErrors map[string]string

func (v ValidationErrors) HasErrors() bool {
	return len(v) > 0
}

func (v ValidationErrors) Add(field, message string) {
	v[field] = message
}

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

const maxPostLength = 5000

func ValidateSignup(username, email, name, password string) ValidationErrors {
	errs := make(ValidationErrors)

	username = strings.TrimSpace(username)
	if username == "" {
		errs.Add("username", "Username is required")
	} else if len(username) < 2 {
		errs.Add("username", "Username must be at least 2 characters")
	} else if len(username) > 30 {
		errs.Add("username", "Username is too long")
	} else if !usernameRegex.MatchString(username) {
		errs.Add("username", "Username can only contain letters, numbers, _ and -")
	}

	email = strings.TrimSpace(email)
	if email == "" {
		errs.Add("email", "Email is required")
	} else if _, err := mail.ParseAddress(email); err != nil {
		errs.Add("email", "Invalid email address")
	} else if len(email) > 255 {
		errs.Add("email", "Email is too long")
	}

	name = strings.TrimSpace(name)
	if name == "" {
		errs.Add("name", "Name is required")
	} else if len(name) > 50 {
		errs.Add("name", "Name is too long")
	}

	validatePassword(password, errs)

	return errs
}

func ValidateProfileUpdate(name, bio, password *string) ValidationErrors {
	errs := make(ValidationErrors)

	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if trimmed == "" {
			errs.Add("name", "Name cannot be empty")
		} else if len(trimmed) > 50 {
			errs.Add("name", "Name is too long")
		}
	}

	if bio != nil && len(*bio) > 500 {
		errs.Add("bio", "Bio is too long")
	}

	if password != nil {
		validatePassword(*password, errs)
	}

	return errs
}

func ValidatePost(text string) ValidationErrors {
	errs := make(ValidationErrors)

	if strings.TrimSpace(text) == "" {
		errs.Add("text", "Post text is required")
	} else if len(text) > maxPostLength {
		errs.Add("text", "Post is too long")
	}

	return errs
}

func ValidateComment(text string) ValidationErrors {
	errs := make(ValidationErrors)

	if strings.TrimSpace(text) == "" {
		errs.Add("comment", "Comment text is required")
	} else if len(text) > 1000 {
		errs.Add("comment", "Comment is too long")
	}

	return errs
}

func validatePassword(password string, errs ValidationErrors) {
	if len(password) < 8 {
		errs.Add("password", "Password must be at least 8 characters")
		return
	}

	var hasUpper, hasLower, hasDigit bool
	for _, ch := range password {
		switch {
		case unicode.IsUpper(ch):
			hasUpper = true
		case unicode.IsLower(ch):
			hasLower = true
		case unicode.IsDigit(ch):
			hasDigit = true
		}
	}

	missing := []string{}
	if !hasUpper {
		missing = append(missing, "one uppercase letter")
	}
	if !hasLower {
		missing = append(missing, "one lowercase letter")
	}
	if !hasDigit {
		missing = append(missing, "one number")
	}

	if len(missing) > 0 {
		errs.Add("password", fmt.Sprintf("Password must contain at least %s", strings.Join(missing, ", ")))
	}
}
