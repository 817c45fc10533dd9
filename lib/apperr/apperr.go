package apperr

import (
	"fmt"

	"github.com/pkg/errors"
)

type Kind string

const (
	KindNotFound         Kind = "not_found"
	KindAccessDenied     Kind = "access_denied"
	KindPrecondition     Kind = "precondition"
	KindValidation       Kind = "validation"
	KindConflict         Kind = "conflict"
	KindExtraction       Kind = "extraction"
	KindGeneration       Kind = "generation"
	KindScoring          Kind = "scoring"
	KindTranscription    Kind = "transcription"
	KindEmptyAggregation Kind = "empty_aggregation"
	KindInternal         Kind = "internal"
)

// Error ошибка с типом. Message показывается пользователю, cause только пишется в лог
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s", e.Message, e.cause.Error())
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

func (e *Error) Cause() error {
	return e.cause
}

func New(kind Kind, message string) error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, cause error, message string) error {
	return &Error{Kind: kind, Message: message, cause: cause}
}

func NotFound(message string) error {
	return New(KindNotFound, message)
}

func AccessDenied(message string) error {
	return New(KindAccessDenied, message)
}

func Precondition(message string) error {
	return New(KindPrecondition, message)
}

func Validation(message string) error {
	return New(KindValidation, message)
}

func Conflict(message string) error {
	return New(KindConflict, message)
}

func Extraction(cause error, message string) error {
	return Wrap(KindExtraction, cause, message)
}

func Generation(cause error, message string) error {
	return Wrap(KindGeneration, cause, message)
}

func Scoring(cause error, message string) error {
	return Wrap(KindScoring, cause, message)
}

func Transcription(cause error, message string) error {
	return Wrap(KindTranscription, cause, message)
}

func EmptyAggregation(message string) error {
	return New(KindEmptyAggregation, message)
}

// KindOf тип ошибки, для ошибок без типа KindInternal
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

func Is(err error, kind Kind) bool {
	if err == nil {
		return false
	}
	return KindOf(err) == kind
}

// UserMessage текст для ответа api без внутренних подробностей
func UserMessage(err error, defaultMsg string) string {
	var appErr *Error
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return defaultMsg
}
