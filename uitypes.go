// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package configshell

import (
	"fmt"
	"strconv"
	"strings"
)

// UIType is the uniform four-mode interface used for all settable
// parameters: a syntax description, a finite candidate enumeration (possibly
// empty), parsing with validation, and formatting for display.
type UIType interface {
	Describe() string
	Enum() []string
	Parse(text string) (interface{}, error)
	Format(value interface{}) string
}

// Built-in parameter types.
var (
	TypeBool         UIType = boolType{}
	TypeNumber       UIType = numberType{}
	TypeString       UIType = stringType{}
	TypeLogLevel     UIType = logLevelType{}
	TypeColor        UIType = colorType{absent: "default"}
	TypeColorDefault UIType = colorType{absent: "none"}
)

type boolType struct{}

func (boolType) Describe() string { return "true|false" }
func (boolType) Enum() []string   { return []string{"true", "false"} }

func (t boolType) Parse(text string) (interface{}, error) {
	switch text {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return nil, &BadValueError{
		Reason: fmt.Sprintf("syntax error, %q is not %s", text, t.Describe())}
}

func (boolType) Format(value interface{}) string {
	if v, ok := value.(bool); ok && v {
		return "true"
	}
	return "false"
}

type numberType struct{}

func (numberType) Describe() string { return "NUMBER" }
func (numberType) Enum() []string   { return nil }

func (t numberType) Parse(text string) (interface{}, error) {
	n, err := strconv.Atoi(text)
	if err != nil {
		return nil, &BadValueError{
			Reason: fmt.Sprintf("syntax error, %q is not a %s", text, t.Describe())}
	}
	return n, nil
}

func (numberType) Format(value interface{}) string {
	switch v := value.(type) {
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.Itoa(int(v))
	default:
		return "n/a"
	}
}

type stringType struct{}

func (stringType) Describe() string { return "STRING_OF_TEXT" }
func (stringType) Enum() []string   { return nil }

func (stringType) Parse(text string) (interface{}, error) {
	return text, nil
}

func (stringType) Format(value interface{}) string {
	if v, ok := value.(string); ok {
		return v
	}
	return "n/a"
}

type logLevelType struct{}

func (logLevelType) Describe() string { return strings.Join(LogLevels, "|") }
func (logLevelType) Enum() []string   { return LogLevels }

func (t logLevelType) Parse(text string) (interface{}, error) {
	if IsLogLevel(text) {
		return text, nil
	}
	return nil, &BadValueError{
		Reason: fmt.Sprintf("syntax error, %q is not %s", text, t.Describe())}
}

func (logLevelType) Format(value interface{}) string {
	if v, ok := value.(string); ok && v != "" {
		return v
	}
	return "n/a"
}

// colorType covers both the color and color_default types: the same eight
// ANSI color names plus one absent alias ("default" or "none").
type colorType struct {
	absent string
}

func (t colorType) Describe() string {
	return strings.Join(t.Enum(), "|")
}

func (t colorType) Enum() []string {
	return append(append([]string{}, Colors...), t.absent)
}

func (t colorType) Parse(text string) (interface{}, error) {
	if text == "" || text == t.absent {
		return nil, nil
	}
	for _, color := range Colors {
		if text == color {
			return text, nil
		}
	}
	return nil, &BadValueError{
		Reason: fmt.Sprintf("syntax error, %q is not %s", text, t.Describe())}
}

func (t colorType) Format(value interface{}) string {
	if v, ok := value.(string); ok && v != "" {
		return v
	}
	return t.absent
}
