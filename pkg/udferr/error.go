/*
Copyright 2022 The Numaproj Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package udferr defines the errors surfaced by the engine and its user defined callbacks.
package udferr

import (
	"errors"
	"fmt"
)

// Op identifies the callback that failed.
type Op int

const (
	OnEvent Op = iota
	OnTimer
	Emit
)

func (o Op) String() string {
	switch o {
	case OnEvent:
		return "OnEvent"
	case OnTimer:
		return "OnTimer"
	case Emit:
		return "Emit"
	default:
		return "Unknown"
	}
}

// ConfigError is returned at construction time for invalid settings, e.g. a non-positive threshold or
// window size.
type ConfigError struct {
	Field string
	Value any
	Msg   string
}

// NewConfigError returns a ConfigError for field.
func NewConfigError(field string, value any, msg string) *ConfigError {
	return &ConfigError{Field: field, Value: value, Msg: msg}
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration %s=%v: %s", e.Field, e.Value, e.Msg)
}

// CallbackError wraps an error returned by a user callback. Only the failed invocation is aborted; its
// pending emits are discarded and the error is returned to the caller of the engine.
type CallbackError struct {
	Op   Op
	Key  any
	Time int64
	Err  error
}

// NewCallbackError wraps err. A nil err yields nil.
func NewCallbackError(op Op, key any, t int64, err error) error {
	if err == nil {
		return nil
	}
	return &CallbackError{Op: op, Key: key, Time: t, Err: err}
}

func (e *CallbackError) Error() string {
	return fmt.Sprintf("%s failed for key %v at %d: %v", e.Op, e.Key, e.Time, e.Err)
}

func (e *CallbackError) Unwrap() error {
	return e.Err
}

// IsConfigError reports whether err is, or wraps, a ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// FromError returns the CallbackError carried by err, if any.
func FromError(err error) (*CallbackError, bool) {
	var ce *CallbackError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}
