/*
 * Copyright 2024 The Outliner Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package outliner

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewWithNoOptionsStartsWithEmptyStats(t *testing.T) {
	p := New()
	require.NotNil(t, p)
	s := p.Stats()
	require.Empty(t, s.Rejects)
	require.Zero(t, s.AdmittedWindows)
	require.Zero(t, s.FunctionsEmitted)
}

func TestWithLargestLengthPanicsBelowTwo(t *testing.T) {
	require.PanicsWithValue(t, InvalidOptionError{Option: "post-link-outlining-length", Value: 1, Reason: "must be >= 2"}, func() {
		New(WithLargestLength(1))
	})
}

func TestWithMinLengthPanicsBelowTwo(t *testing.T) {
	require.PanicsWithValue(t, InvalidOptionError{Option: "post-link-outlining-min-length", Value: 0, Reason: "must be >= 2"}, func() {
		New(WithMinLength(0))
	})
}

func TestInvalidOptionErrorMessageNamesOptionAndValue(t *testing.T) {
	err := InvalidOptionError{Option: "post-link-outlining-length", Value: -3, Reason: "must be >= 2"}
	require.Equal(t, "outliner: invalid post-link-outlining-length=-3: must be >= 2", err.Error())
}

func TestStatsIsSafeBeforeAnyRun(t *testing.T) {
	p := New(WithDebug(true))
	s := p.Stats()
	require.Zero(t, s.FunctionsEmitted)
	require.Zero(t, s.BytesSaved)
}
