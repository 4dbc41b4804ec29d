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

// Options holds the pass's tunables: spec.md §6's constructor parameters
// plus the recognized configuration options of the same name.
type Options struct {
	Enabled       bool
	LargestLength int
	MinLength     int
	EnablePGO     bool
	Debug         bool
}

func (self *Options) SweepFloor() int {
	if self.MinLength > 2 {
		return self.MinLength
	}
	return 2
}

func GetDefaultOptions() Options {
	return Options{
		Enabled:       true,
		LargestLength: LargestLength,
		MinLength:     MinLength,
		EnablePGO:     false,
		Debug:         false,
	}
}
