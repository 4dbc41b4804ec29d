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

import "github.com/postlink/outliner/internal/opts"

// Option is the property setter function for opts.Options, following the
// same functional-options shape frugal's own package-level Option uses.
type Option func(*opts.Options)

// WithEnabled is the `enable-post-link-outlining` master switch. With it
// false, Run leaves the program untouched (spec.md §8 scenario S1).
func WithEnabled(v bool) Option {
	return func(o *opts.Options) { o.Enabled = v }
}

// WithLargestLength sets `post-link-outlining-length`, the upper bound on
// the swept window length L. Must be >= 2.
func WithLargestLength(n int) Option {
	if n < 2 {
		panic(InvalidOptionError{Option: "post-link-outlining-length", Value: n, Reason: "must be >= 2"})
	}
	return func(o *opts.Options) { o.LargestLength = n }
}

// WithMinLength sets `post-link-outlining-min-length`, the lower bound on
// the swept window length L. Must be >= 2.
func WithMinLength(n int) Option {
	if n < 2 {
		panic(InvalidOptionError{Option: "post-link-outlining-min-length", Value: n, Reason: "must be >= 2"})
	}
	return func(o *opts.Options) { o.MinLength = n }
}

// WithProfileFilter sets `post-link-outlining-pgo`: when enabled, hot
// blocks (execution count > 1) are excluded from extraction.
func WithProfileFilter(v bool) Option {
	return func(o *opts.Options) { o.EnablePGO = v }
}

// WithDebug sets `post-link-outlining-debug`: when enabled, synthesizer
// warnings are recorded into Stats().Warnings (spec.md §7). The other
// pass-wide diagnostic counters are kept whether or not it is set.
func WithDebug(v bool) Option {
	return func(o *opts.Options) { o.Debug = v }
}
