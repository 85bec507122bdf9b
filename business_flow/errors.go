package businessflow

import (
	"errors"
	"fmt"
)

// Business flow error constants
var (
	// Fatal before any row is generated
	ErrConfiguration = errors.New("invalid configuration")

	// Fatal for the job; the partition record is left for an operator
	ErrPartitionCoordination = errors.New("partition coordination failed")

	// Retried up to the attempt limit, then fatal
	ErrUploadExhausted = errors.New("upload retries exhausted")

	ErrTableGeneration   = errors.New("table generation failed")
	ErrThreadFailed      = errors.New("worker thread failed")
	ErrInvalidTransition = errors.New("invalid upload state transition")
	ErrPartitionNotFound = errors.New("partition not found")
	ErrJobNotActive      = errors.New("job is not active in partition")
)

// BusinessError carries a stable code next to the wrapped cause
type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NewBusinessErrorf(code, message string, err error, args ...any) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: fmt.Sprintf(message, args...),
		Err:     err,
	}
}

// ErrorCode returns the code of the outermost BusinessError in err's chain
func ErrorCode(err error) string {
	var be *BusinessError
	if errors.As(err, &be) {
		return be.Code
	}
	return ""
}

func IsConfiguration(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

func IsPartitionCoordination(err error) bool {
	return errors.Is(err, ErrPartitionCoordination)
}

func IsUploadExhausted(err error) bool {
	return errors.Is(err, ErrUploadExhausted)
}

func IsTableGeneration(err error) bool {
	return errors.Is(err, ErrTableGeneration)
}

func IsThreadFailed(err error) bool {
	return errors.Is(err, ErrThreadFailed)
}

func IsPartitionNotFound(err error) bool {
	return errors.Is(err, ErrPartitionNotFound)
}

func IsJobNotActive(err error) bool {
	return errors.Is(err, ErrJobNotActive)
}
