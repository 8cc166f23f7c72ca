package card

import (
	"errors"
	"fmt"
)

// ErrNilCard is returned when a conversion targets a nil record.
var ErrNilCard = errors.New("card: nil model card")

// ConversionError reports a proto-form or JSON-form value that the converter
// cannot map onto the record, such as a required leaf that is missing.
type ConversionError struct {
	Path   string
	Reason string
	Err    error
}

func (e *ConversionError) Error() string {
	if e == nil {
		return ""
	}
	msg := "card: conversion failed"
	if e.Path != "" {
		msg += " at " + e.Path
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *ConversionError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
