package models

// User is a console operator account
type User struct {
	ID                 int    `json:"id"`
	Username           string `json:"username"`
	MustChangePassword bool   `json:"must_change_password"`
	CreatedAt          Time   `json:"created_at"`
	LastLoginAt        Time   `json:"last_login_at"`
}

// CreatedUser carries the one-time generated password of a new account
type CreatedUser struct {
	ID                 int    `json:"id"`
	Username           string `json:"username"`
	GeneratedPassword  string `json:"generated_password"`
	MustChangePassword bool   `json:"must_change_password"`
}

// LoginResult is the response of the login endpoint
type LoginResult struct {
	AccessToken        string `json:"access_token"`
	TokenType          string `json:"token_type"`
	MustChangePassword bool   `json:"must_change_password"`
}

// MinPasswordLength is enforced before a password change is submitted
const MinPasswordLength = 8

// ValidatePasswordChange checks a new password and its confirmation
func ValidatePasswordChange(newPassword, confirm string) error {
	if newPassword != confirm {
		return invalid("confirm_password", "passwords do not match")
	}
	if len(newPassword) < MinPasswordLength {
		return invalid("new_password", "password must be at least %d characters", MinPasswordLength)
	}
	return nil
}

// Message is the generic acknowledgement body of the gateway
type Message struct {
	Message string `json:"message"`
}
