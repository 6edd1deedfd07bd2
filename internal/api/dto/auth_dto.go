package dto

import (
	"errors"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/spec-kit/auth-service/internal/domain"
)

// LoginRequest carries the credentials for POST /api/auth/login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse returns the issued session token.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// RegisterRequest is the employee record submitted for registration.
// Constraints match what the directory service will accept.
type RegisterRequest struct {
	EmployeeID  int    `json:"employeeId" validate:"required,min=1"`
	ManagerID   int    `json:"managerId" validate:"required,min=1"`
	Username    string `json:"username" validate:"required,min=2,max=50"`
	Password    string `json:"password" validate:"required,min=8,strongpassword"`
	FirstName   string `json:"firstName" validate:"required,min=2,max=50"`
	LastName    string `json:"lastName" validate:"required,min=2,max=50"`
	Email       string `json:"email" validate:"required,email"`
	PhoneNumber string `json:"phoneNumber" validate:"required,len=10,numeric"`
	Department  string `json:"department" validate:"required,min=2,max=50"`
	Role        string `json:"role" validate:"required,min=2,max=50"`
	ShiftID     int    `json:"shiftId"`
	JoinedDate  string `json:"joinedDate" validate:"required,pastdate"`
}

// Record converts the request to the directory record shape. The password
// hash is left empty; the service fills it after hashing.
func (r *RegisterRequest) Record() *domain.EmployeeRecord {
	return &domain.EmployeeRecord{
		EmployeeID:  r.EmployeeID,
		ManagerID:   r.ManagerID,
		Username:    r.Username,
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		Email:       r.Email,
		PhoneNumber: r.PhoneNumber,
		Department:  r.Department,
		Role:        r.Role,
		ShiftID:     r.ShiftID,
		JoinedDate:  r.JoinedDate,
	}
}

// RegisterResponse echoes the saved record without password material.
type RegisterResponse struct {
	EmployeeID  int    `json:"employeeId"`
	ManagerID   int    `json:"managerId"`
	Username    string `json:"username"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Department  string `json:"department"`
	Role        string `json:"role"`
	ShiftID     int    `json:"shiftId"`
	JoinedDate  string `json:"joinedDate"`
}

// NewRegisterResponse strips password material from a directory record.
func NewRegisterResponse(record *domain.EmployeeRecord) RegisterResponse {
	return RegisterResponse{
		EmployeeID:  record.EmployeeID,
		ManagerID:   record.ManagerID,
		Username:    record.Username,
		FirstName:   record.FirstName,
		LastName:    record.LastName,
		Email:       record.Email,
		PhoneNumber: record.PhoneNumber,
		Department:  record.Department,
		Role:        record.Role,
		ShiftID:     record.ShiftID,
		JoinedDate:  record.JoinedDate,
	}
}

const dateLayout = "2006-01-02"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("strongpassword", strongPassword)
	_ = v.RegisterValidation("pastdate", pastDate)
	return v
}

// strongPassword requires at least one uppercase letter, one lowercase
// letter and one digit.
func strongPassword(fl validator.FieldLevel) bool {
	var upper, lower, digit bool
	for _, r := range fl.Field().String() {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return upper && lower && digit
}

// pastDate requires a parseable date strictly before today.
func pastDate(fl validator.FieldLevel) bool {
	parsed, err := time.Parse(dateLayout, fl.Field().String())
	if err != nil {
		return false
	}
	return parsed.Before(time.Now().Truncate(24 * time.Hour))
}

// Validate reports per-field failures keyed by JSON-ish field name.
func Validate(payload any) map[string]any {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	details := make(map[string]any)
	if !errors.As(err, &verrs) {
		details["payload"] = err.Error()
		return details
	}
	for _, fe := range verrs {
		details[fe.Field()] = failureMessage(fe)
	}
	return details
}

func failureMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "below minimum " + fe.Param()
	case "max":
		return "above maximum " + fe.Param()
	case "len":
		return "must be exactly " + fe.Param() + " characters"
	case "email":
		return "must be a valid email address"
	case "numeric":
		return "must contain only digits"
	case "strongpassword":
		return "must contain an uppercase letter, a lowercase letter and a digit"
	case "pastdate":
		return "must be a past date in YYYY-MM-DD form"
	default:
		return "failed " + fe.Tag() + " validation"
	}
}
