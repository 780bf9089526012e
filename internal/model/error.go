package model

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	EntityName    string `json:"entityName,omitempty"`
	ErrorKey      string `json:"errorKey,omitempty"`
	Status        int    `json:"status"`
	CorrelationID string `json:"correlationId,omitempty"`
}

// Standard error keys for API responses. They are sent as "error.<key>".
const (
	ErrCodeIDExists        = "idexists"
	ErrCodeIDNull          = "idnull"
	ErrCodeIDNotFound      = "idnotfound"
	ErrCodeInvalidID       = "invalidid"
	ErrCodeInvalidJSON     = "invalidjson"
	ErrCodeInvalidPaging   = "invalidpaging"
	ErrCodeInvalidSort     = "invalidsort"
	ErrCodeValidation      = "validation"
	ErrCodeCodeExists      = "codeexists"
	ErrCodeReferenced      = "referenced"
	ErrCodeProductNotFound = "productnotfound"
	ErrCodeNotFound        = "notfound"
	ErrCodeInternalError   = "internal"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrProductNotFound     = NewDomainError(ErrCodeNotFound, "Product not found")
	ErrNeedNotFound        = NewDomainError(ErrCodeNotFound, "Need not found")
	ErrProductCodeRequired = NewDomainError(ErrCodeValidation, "Product code is required")
	ErrProductCodeExists   = NewDomainError(ErrCodeCodeExists, "A product with this code already exists")
	ErrProductReferenced   = NewDomainError(ErrCodeReferenced, "Product is still referenced by needs")
	ErrNeedProductNotFound = NewDomainError(ErrCodeProductNotFound, "Referenced product does not exist")
	ErrInvalidSort         = NewDomainError(ErrCodeInvalidSort, "Invalid sort expression")
	ErrNilEntity           = NewDomainError(ErrCodeValidation, "Entity must not be nil")
)
