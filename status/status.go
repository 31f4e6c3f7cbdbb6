// Package status defines the numeric result codes and the result envelope
// shared by every signing operation. The integer values are part of the
// external contract with callers that predate this implementation and must
// never be renumbered.
package status

import (
	"errors"
	"fmt"
)

// SigningCode classifies the outcome of a signing operation.
type SigningCode int

const (
	// Success indicates the operation completed.
	Success SigningCode = 0
	// InvalidInput indicates a request parameter failed validation.
	InvalidInput SigningCode = 1
	// CertificateNotFound indicates no signing certificate is available.
	CertificateNotFound SigningCode = 2
	// SigningFailed indicates the cryptographic operation failed, including
	// PIN authentication failures.
	SigningFailed SigningCode = 3
	// PrivateKeyNotFound indicates the token holds no usable signing key.
	PrivateKeyNotFound SigningCode = 4
	// UnknownError covers failures with no more specific classification.
	UnknownError SigningCode = 5
	// PageParameterMissing indicates a visible signature was requested
	// without a page number.
	PageParameterMissing SigningCode = 6
	// InvalidSignaturePage indicates the requested page is out of range.
	InvalidSignaturePage SigningCode = 7
	// TokenNotFound indicates no token is present in any slot.
	TokenNotFound SigningCode = 8
	// TokenReferenceError indicates the token session is not in a usable
	// state for the requested operation.
	TokenReferenceError SigningCode = 9
	// InvalidExistingSignature indicates an existing signature in the
	// document is malformed and blocks an incremental update.
	InvalidExistingSignature SigningCode = 10
	// UserCancelled indicates the user aborted the operation.
	UserCancelled SigningCode = 11
)

// String returns the stable mnemonic for the code. Localization is keyed on
// these mnemonics, never on message text.
func (c SigningCode) String() string {
	switch c {
	case Success:
		return "SUCCESS"
	case InvalidInput:
		return "INVALID_INPUT"
	case CertificateNotFound:
		return "CERTIFICATE_NOT_FOUND"
	case SigningFailed:
		return "SIGNING_FAILED"
	case PrivateKeyNotFound:
		return "PRIVATE_KEY_NOT_FOUND"
	case UnknownError:
		return "UNKNOWN_ERROR"
	case PageParameterMissing:
		return "PAGE_PARAMETER_MISSING"
	case InvalidSignaturePage:
		return "INVALID_SIGNATURE_PAGE"
	case TokenNotFound:
		return "TOKEN_NOT_FOUND"
	case TokenReferenceError:
		return "TOKEN_REFERENCE_ERROR"
	case InvalidExistingSignature:
		return "INVALID_EXISTING_SIGNATURE"
	case UserCancelled:
		return "USER_CANCELLED"
	default:
		return fmt.Sprintf("SIGNING_CODE_%d", int(c))
	}
}

// Message returns the default English description for the code.
func (c SigningCode) Message() string {
	switch c {
	case Success:
		return "operation completed successfully"
	case InvalidInput:
		return "invalid input parameter"
	case CertificateNotFound:
		return "signing certificate not found"
	case SigningFailed:
		return "signing operation failed"
	case PrivateKeyNotFound:
		return "private key not found on token"
	case UnknownError:
		return "unknown error"
	case PageParameterMissing:
		return "page parameter is required for visible signatures"
	case InvalidSignaturePage:
		return "signature page is out of range"
	case TokenNotFound:
		return "no token found in any slot"
	case TokenReferenceError:
		return "token session is not available"
	case InvalidExistingSignature:
		return "document contains an invalid existing signature"
	case UserCancelled:
		return "operation cancelled by user"
	default:
		return "unrecognized signing code"
	}
}

// CertValidationCode classifies the status of a signing certificate.
type CertValidationCode int

const (
	// CertValid indicates the certificate passed all requested checks.
	CertValid CertValidationCode = 0
	// CertUnknownError covers validation failures with no classification.
	CertUnknownError CertValidationCode = 1
	// CertExpired indicates the certificate validity period has ended.
	CertExpired CertValidationCode = 2
	// CertNotYetValid indicates the validity period has not started.
	CertNotYetValid CertValidationCode = 3
	// CertRevoked indicates the issuing CA revoked the certificate.
	CertRevoked CertValidationCode = 4
	// CertCannotSign indicates the key usage does not permit signing.
	CertCannotSign CertValidationCode = 5
	// CertRevocationCheckFailed indicates the OCSP query did not complete.
	CertRevocationCheckFailed CertValidationCode = 6
	// CertUntrustedCA indicates the issuer is not in the trust anchors.
	CertUntrustedCA CertValidationCode = 7
	// CertInfoUnavailable indicates the certificate could not be read.
	CertInfoUnavailable CertValidationCode = 8
	// CertCAInfoUnavailable indicates the issuer certificate is missing.
	CertCAInfoUnavailable CertValidationCode = 9
	// CertOCSPUrlNotFound indicates the certificate carries no OCSP URL.
	CertOCSPUrlNotFound CertValidationCode = 10
)

// String returns the stable mnemonic for the code.
func (c CertValidationCode) String() string {
	switch c {
	case CertValid:
		return "VALID"
	case CertUnknownError:
		return "UNKNOWN_ERROR"
	case CertExpired:
		return "EXPIRED"
	case CertNotYetValid:
		return "NOT_YET_VALID"
	case CertRevoked:
		return "REVOKED"
	case CertCannotSign:
		return "CANNOT_SIGN"
	case CertRevocationCheckFailed:
		return "REVOCATION_CHECK_FAILED"
	case CertUntrustedCA:
		return "UNTRUSTED_CA"
	case CertInfoUnavailable:
		return "CERT_INFO_UNAVAILABLE"
	case CertCAInfoUnavailable:
		return "CA_CERT_INFO_UNAVAILABLE"
	case CertOCSPUrlNotFound:
		return "OCSP_URL_NOT_FOUND"
	default:
		return fmt.Sprintf("CERT_VALIDATION_CODE_%d", int(c))
	}
}

// Message returns the default English description for the code.
func (c CertValidationCode) Message() string {
	switch c {
	case CertValid:
		return "certificate is valid"
	case CertUnknownError:
		return "certificate validation failed"
	case CertExpired:
		return "certificate has expired"
	case CertNotYetValid:
		return "certificate is not yet valid"
	case CertRevoked:
		return "certificate has been revoked"
	case CertCannotSign:
		return "certificate is not authorized for signing"
	case CertRevocationCheckFailed:
		return "revocation status could not be determined"
	case CertUntrustedCA:
		return "certificate issuer is not trusted"
	case CertInfoUnavailable:
		return "certificate information is unavailable"
	case CertCAInfoUnavailable:
		return "issuer certificate information is unavailable"
	case CertOCSPUrlNotFound:
		return "certificate carries no OCSP responder URL"
	default:
		return "unrecognized certificate validation code"
	}
}

// Result is the envelope returned to external callers. Success is derived
// from the code, never stored separately.
type Result struct {
	Code  SigningCode `json:"code"`
	Data  any         `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

// OK builds a success result carrying data.
func OK(data any) Result {
	return Result{Code: Success, Data: data}
}

// Fail builds a failure result for the given code. An empty message falls
// back to the code's default message.
func Fail(code SigningCode, message string) Result {
	if message == "" {
		message = code.Message()
	}
	return Result{Code: code, Error: message}
}

// FailErr builds a failure result from an error, extracting the code from
// the error chain.
func FailErr(err error) Result {
	return Fail(CodeOf(err), err.Error())
}

// Succeeded reports whether the result carries a success code.
func (r Result) Succeeded() bool {
	return r.Code == Success
}

// SigningError is an error carrying a SigningCode through a call chain.
type SigningError struct {
	Code    SigningCode
	Message string
	Err     error
}

// Error implements the error interface. PIN material must never reach
// Message or the wrapped error text.
func (e *SigningError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Code.Message()
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *SigningError) Unwrap() error {
	return e.Err
}

// NewError creates a SigningError with the given code and message.
func NewError(code SigningCode, message string) *SigningError {
	return &SigningError{Code: code, Message: message}
}

// WrapError creates a SigningError wrapping a cause.
func WrapError(code SigningCode, message string, err error) *SigningError {
	return &SigningError{Code: code, Message: message, Err: err}
}

// CodeOf extracts the SigningCode from an error chain. A nil error maps to
// Success; an error chain without a SigningError maps to UnknownError.
func CodeOf(err error) SigningCode {
	if err == nil {
		return Success
	}
	var se *SigningError
	if errors.As(err, &se) {
		return se.Code
	}
	return UnknownError
}
