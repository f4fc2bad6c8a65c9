package coinbase

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/go-playground/validator/v10"
)

var errMissingData = errors.New("envelope has no data member")

// envelope wraps every successful response.
type envelope struct {
	Data       json.RawMessage `json:"data"`
	Pagination json.RawMessage `json:"pagination"`
}

// errorBody is the non-enveloped shape the API uses to report failures.
type errorBody struct {
	Errors []APIError `json:"errors"`
}

type outcomeKind int

const (
	outcomeEnvelope outcomeKind = iota
	outcomeAPIError
	outcomeUnrecognized
)

// outcome is the result of classifying a body. Exactly one of env, apiErrs
// and err is meaningful, selected by kind.
type outcome struct {
	kind    outcomeKind
	env     envelope
	apiErrs []APIError
	err     error
}

// classify tries the envelope first and the error body second. The order
// matters: a success body is never read as an error.
func classify(body []byte) outcome {
	env, err := parseEnvelope(body)
	if err == nil {
		return outcome{kind: outcomeEnvelope, env: env}
	}
	if apiErrs, ok := parseErrorBody(body); ok {
		return outcome{kind: outcomeAPIError, apiErrs: apiErrs}
	}
	return outcome{kind: outcomeUnrecognized, err: err}
}

func parseEnvelope(body []byte) (envelope, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return envelope{}, err
	}
	if isAbsent(env.Data) {
		return envelope{}, errMissingData
	}
	return env, nil
}

func parseErrorBody(body []byte) ([]APIError, bool) {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return nil, false
	}
	if len(eb.Errors) == 0 {
		return nil, false
	}
	return eb.Errors, true
}

func isAbsent(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// interpret turns a raw body into T or a classified *Error.
func interpret[T any](body []byte, status int) (T, error) {
	var zero T
	env, err := envelopeOrError(body, status)
	if err != nil {
		return zero, err
	}
	out, err := decodeData[T](env.Data)
	if err != nil {
		return zero, decodeError(err, body, status)
	}
	return out, nil
}

// interpretPage is interpret plus the optional pagination member.
func interpretPage[T any](body []byte, status int) (Page[T], error) {
	env, err := envelopeOrError(body, status)
	if err != nil {
		return Page[T]{}, err
	}
	data, err := decodeData[T](env.Data)
	if err != nil {
		return Page[T]{}, decodeError(err, body, status)
	}
	page := Page[T]{Data: data}
	if !isAbsent(env.Pagination) {
		var p Pagination
		if err := json.Unmarshal(env.Pagination, &p); err != nil {
			return Page[T]{}, decodeError(fmt.Errorf("pagination: %w", err), body, status)
		}
		page.Pagination = &p
	}
	return page, nil
}

func envelopeOrError(body []byte, status int) (envelope, error) {
	o := classify(body)
	switch o.kind {
	case outcomeEnvelope:
		return o.env, nil
	case outcomeAPIError:
		return envelope{}, &Error{Kind: KindAPI, StatusCode: status, APIErrors: o.apiErrs}
	default:
		return envelope{}, decodeError(o.err, body, status)
	}
}

func decodeData[T any](raw json.RawMessage) (T, error) {
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, err
	}
	if err := validatePayload(out); err != nil {
		return out, err
	}
	return out, nil
}

func decodeError(err error, body []byte, status int) *Error {
	return &Error{Kind: KindDecode, StatusCode: status, Body: string(body), Err: err}
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func payloadValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// validatePayload checks required fields of a struct payload or of every
// struct element of a slice payload. Other kinds pass through.
func validatePayload(v any) error {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Struct:
		return payloadValidator().Struct(v)
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			elem := rv.Index(i)
			if elem.Kind() != reflect.Struct {
				continue
			}
			if err := payloadValidator().Struct(elem.Interface()); err != nil {
				return fmt.Errorf("element %d: %w", i, err)
			}
		}
	}
	return nil
}
