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

package opts

// LargestLength/MinLength are the default window-length bounds of the
// length sweep (spec.md §6: post-link-outlining-length,
// post-link-outlining-min-length). Unlike frugal's own opts.MaxInlineDepth,
// these are plain constants: spec.md §6 explicitly rules out environment
// variables as a configuration surface for this pass.
const (
	LargestLength = 32
	MinLength     = 2
)
