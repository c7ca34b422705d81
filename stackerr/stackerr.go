// Package stackerr attaches named context frames to errors while they travel
// up the call stack, so that the final error reads as a causal trace of the
// operations (and their identifying parameters) that led to the failure.
package stackerr

import (
	"errors"
	"fmt"
	"strings"
)

// Field is one identifying parameter of a Frame.
type Field struct {
	Key   string
	Value interface{}
}

// Frame wraps an error with the operation under which it occurred.
type Frame struct {
	Op     string
	Fields []Field
	Err    error
}

// Wrap encloses err in a frame named op. kv are key/value pairs identifying the
// operation, e.g. Wrap(err, "Block", "number", 10). A nil err stays nil.
func Wrap(err error, op string, kv ...interface{}) error {
	if err == nil {
		return nil
	}
	return &Frame{
		Op:     op,
		Fields: toFields(kv),
		Err:    err,
	}
}

// WrapFunc returns a function that wraps errors in frames named op.
// It is handy for frames that are attached at several return points.
func WrapFunc(op string, kv ...interface{}) func(error) error {
	return func(err error) error {
		return Wrap(err, op, kv...)
	}
}

func toFields(kv []interface{}) []Field {
	if len(kv) == 0 {
		return nil
	}
	fields := make([]Field, 0, (len(kv)+1)/2) //nolint:mnd
	for i := 0; i < len(kv); i += 2 {
		key := fmt.Sprint(kv[i])
		var value interface{} = "<missing>"
		if i+1 < len(kv) {
			value = kv[i+1]
		}
		fields = append(fields, Field{Key: key, Value: value})
	}
	return fields
}

// Header renders the frame without its cause, e.g. "Block(number=10)".
func (f *Frame) Header() string {
	if len(f.Fields) == 0 {
		return f.Op
	}
	parts := make([]string, len(f.Fields))
	for i, field := range f.Fields {
		parts[i] = fmt.Sprintf("%s=%v", field.Key, field.Value)
	}
	return f.Op + "(" + strings.Join(parts, ", ") + ")"
}

// Value returns the value of the field named key.
func (f *Frame) Value(key string) (interface{}, bool) {
	for _, field := range f.Fields {
		if field.Key == key {
			return field.Value, true
		}
	}
	return nil, false
}

func (f *Frame) Error() string {
	return f.Header() + ": " + f.Err.Error()
}

func (f *Frame) Unwrap() error {
	return f.Err
}

// Find returns the outermost frame named op in the chain of err.
func Find(err error, op string) (*Frame, bool) {
	for err != nil {
		var frame *Frame
		if !errors.As(err, &frame) {
			return nil, false
		}
		if frame.Op == op {
			return frame, true
		}
		err = frame.Err
	}
	return nil, false
}

// Stack returns the causal chain of err, outermost first: one entry per frame
// followed by the root cause.
func Stack(err error) []string {
	var stack []string
	for err != nil {
		frame, ok := err.(*Frame) //nolint:errorlint
		if !ok {
			stack = append(stack, err.Error())
			break
		}
		stack = append(stack, frame.Header())
		err = frame.Err
	}
	return stack
}

// Trace renders Stack as a multi line report.
func Trace(err error) string {
	stack := Stack(err)
	if len(stack) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(stack[0])
	for _, line := range stack[1:] {
		b.WriteString("\nCaused by: ")
		b.WriteString(line)
	}
	return b.String()
}
