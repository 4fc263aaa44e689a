// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package configshell

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeBool(t *testing.T) {
	v, err := TypeBool.Parse("true")
	require.NoError(t, err)
	assert.Equal(t, true, v)

	v, err = TypeBool.Parse("false")
	require.NoError(t, err)
	assert.Equal(t, false, v)

	_, err = TypeBool.Parse("yes")
	var badValue *BadValueError
	require.ErrorAs(t, err, &badValue)

	assert.Equal(t, "true", TypeBool.Format(true))
	assert.Equal(t, "false", TypeBool.Format(nil))
	assert.Equal(t, []string{"true", "false"}, TypeBool.Enum())
}

func TestTypeNumber(t *testing.T) {
	v, err := TypeNumber.Parse("42")
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	_, err = TypeNumber.Parse("abc")
	var badValue *BadValueError
	require.ErrorAs(t, err, &badValue)

	assert.Equal(t, "42", TypeNumber.Format(42))
	assert.Equal(t, "n/a", TypeNumber.Format(nil))
	assert.Empty(t, TypeNumber.Enum())
}

func TestTypeLogLevel(t *testing.T) {
	for _, level := range LogLevels {
		v, err := TypeLogLevel.Parse(level)
		require.NoError(t, err)
		assert.Equal(t, level, v)
	}
	_, err := TypeLogLevel.Parse("verbose")
	assert.Error(t, err)
	assert.Equal(t, "n/a", TypeLogLevel.Format(nil))
}

func TestTypeColor(t *testing.T) {
	v, err := TypeColor.Parse("magenta")
	require.NoError(t, err)
	assert.Equal(t, "magenta", v)

	v, err = TypeColor.Parse("default")
	require.NoError(t, err)
	assert.Nil(t, v)

	_, err = TypeColor.Parse("chartreuse")
	assert.Error(t, err)

	assert.Equal(t, "default", TypeColor.Format(nil))
	assert.Equal(t, "none", TypeColorDefault.Format(nil))
	assert.Contains(t, TypeColor.Enum(), "default")
	assert.Contains(t, TypeColorDefault.Enum(), "none")
	assert.Len(t, TypeColor.Enum(), 9)
}

// The set/get normalization property: storing a parsed value and formatting
// it back yields the canonical spelling.
func TestTypeNormalization(t *testing.T) {
	tests := []struct {
		name string
		typ  UIType
		in   string
		out  string
	}{
		{name: "bool", typ: TypeBool, in: "true", out: "true"},
		{name: "number", typ: TypeNumber, in: "007", out: "7"},
		{name: "string", typ: TypeString, in: "hello", out: "hello"},
		{name: "color", typ: TypeColor, in: "red", out: "red"},
		{name: "loglevel", typ: TypeLogLevel, in: "debug", out: "debug"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := tt.typ.Parse(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.out, tt.typ.Format(v))
		})
	}
}
