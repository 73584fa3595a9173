/*
 * MIT License
 *
 * Copyright (c) 2022-2025  Arsene Tochemey Gandote
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

package validation

import (
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func TestRangeValidator(t *testing.T) {
	t.Run("With value in range", func(t *testing.T) {
		assert.NoError(t, NewRangeValidator("thread", 4, 1, 1024).Validate())
		assert.NoError(t, NewRangeValidator("harbor", 0, 0, 255).Validate())
		assert.NoError(t, NewRangeValidator("harbor", 255, 0, 255).Validate())
	})
	t.Run("With value out of range", func(t *testing.T) {
		err := NewRangeValidator("thread", 0, 1, 1024).Validate()
		assert.EqualError(t, err, "the [thread] must be between 1 and 1024, got 0")
	})
}

func TestEmptyStringValidator(t *testing.T) {
	assert.NoError(t, NewEmptyStringValidator("bootstrap", "root").Validate())
	assert.EqualError(t, NewEmptyStringValidator("bootstrap", "  ").Validate(), "the [bootstrap] is required")
}

func TestPatternValidator(t *testing.T) {
	pattern := regexp.MustCompile(`^\.[a-z]+$`)
	assert.NoError(t, NewPatternValidator(pattern, ".logger", nil).Validate())
	assert.Error(t, NewPatternValidator(pattern, "logger", nil).Validate())

	custom := errors.New("custom")
	assert.ErrorIs(t, NewPatternValidator(pattern, "logger", custom).Validate(), custom)
}

func TestValidatorFunc(t *testing.T) {
	expected := errors.New("boom")
	chain := New().AddValidator(ValidatorFunc(func() error { return expected }))
	assert.ErrorIs(t, chain.Validate(), expected)
}

func TestListenAddressValidator(t *testing.T) {
	assert.NoError(t, NewListenAddressValidator("gate", "127.0.0.1:8888").Validate())
	assert.NoError(t, NewListenAddressValidator("gate", ":8888").Validate())
	assert.NoError(t, NewListenAddressValidator("gate", "[::1]:0").Validate())

	assert.Error(t, NewListenAddressValidator("gate", "not-an-address").Validate())
	assert.Error(t, NewListenAddressValidator("gate", "127.0.0.1:http").Validate())
	assert.Error(t, NewListenAddressValidator("gate", "127.0.0.1:70000").Validate())
}

func TestChain(t *testing.T) {
	t.Run("With all errors", func(t *testing.T) {
		err := New(AllErrors()).
			AddAssertion(true, "never").
			AddAssertion(false, "first").
			AddValidator(NewEmptyStringValidator("bootstrap", "")).
			Validate()
		require.Error(t, err)
		assert.Len(t, multierr.Errors(err), 2)
		assert.Contains(t, err.Error(), "first")
		assert.Contains(t, err.Error(), "the [bootstrap] is required")
	})
	t.Run("With fail fast", func(t *testing.T) {
		err := New(FailFast()).
			AddAssertion(false, "first").
			AddAssertion(false, "second").
			Validate()
		assert.EqualError(t, err, "first")
	})
	t.Run("With no violation", func(t *testing.T) {
		chain := New().AddValidator(ValidatorFunc(func() error { return nil }))
		assert.NoError(t, chain.Validate())
		// a chain can be validated again
		assert.NoError(t, chain.Validate())
	})
}
