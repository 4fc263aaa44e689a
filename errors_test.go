// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package configshell

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "bad path",
			err:  &BadPathError{Path: "/a/missing"},
			want: "no such path /a/missing",
		},
		{
			name: "bad bookmark",
			err:  &BadBookmarkError{Name: "nowhere"},
			want: "no such bookmark nowhere",
		},
		{
			name: "command not found",
			err:  &CommandNotFoundError{Name: "frobnicate"},
			want: `no command named "frobnicate"`,
		},
		{
			name: "bad usage suggests help",
			err:  &BadUsageError{Command: "greet", Reason: "missing required parameter name"},
			want: "wrong parameters for greet (missing required parameter name), see 'help greet'",
		},
		{
			name: "bad value is the helper's explanation",
			err:  &BadValueError{Reason: `syntax error, "abc" is not a NUMBER`},
			want: `syntax error, "abc" is not a NUMBER`,
		},
		{
			name: "execution error verbatim",
			err:  Execf("LUN %d already exists", 3),
			want: "LUN 3 already exists",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestIoErrorUnwrap(t *testing.T) {
	err := &IoError{Op: "open script", Err: os.ErrNotExist}
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.Contains(t, err.Error(), "open script")
}
