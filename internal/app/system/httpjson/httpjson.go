// internal/app/system/httpjson/httpjson.go
// Package httpjson holds the JSON request/response helpers shared by
// every API handler.
package httpjson

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// errorBody is the uniform error envelope: a status code on the wire
// and a human-readable message in the body.
type errorBody struct {
	Message string `json:"message"`
}

// Write encodes v as JSON with the given status code.
func Write(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// OK writes v with a 200 status.
func OK(w http.ResponseWriter, v any) {
	Write(w, http.StatusOK, v)
}

// Created writes v with a 201 status.
func Created(w http.ResponseWriter, v any) {
	Write(w, http.StatusCreated, v)
}

// Error writes the standard error envelope with the given status.
func Error(w http.ResponseWriter, status int, message string) {
	Write(w, status, errorBody{Message: message})
}

// ErrTooLarge is returned by Decode when the request body exceeds the
// limit passed to it.
var ErrTooLarge = errors.New("request body too large")

// Decode reads the request body into v, rejecting bodies larger than
// maxBytes and bodies with trailing data after the JSON value.
func Decode(r *http.Request, v any, maxBytes int64) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return ErrTooLarge
		}
		return err
	}
	// A trailing second JSON value is a malformed request.
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("unexpected data after JSON body")
	}
	return nil
}
