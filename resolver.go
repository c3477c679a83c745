// Copyright 2026 The Gatewatch Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use file except in compliance with the License.
// You may obtain a copy of the license at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package gatewatch

import (
	"os"
	"os/exec"
	"path/filepath"
)

// wellKnownDirs returns the ordered list of installation directories probed
// when normal PATH lookup fails, and prepended to the PATH of spawned
// helpers.  Restricted execution environments sometimes hand us a PATH
// that is missing the usual suspects.
func wellKnownDirs() []string {
	dirs := []string{
		"/usr/local/bin",
		"/opt/homebrew/bin",
		"/usr/bin",
		"/bin",
	}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".local", "bin"))
	}
	return dirs
}

// ResolveCommand resolves a logical command name to an invocable path.  It
// tries the standard PATH lookup first, then each well-known directory in
// order.  If nothing matches it returns the name unchanged; the caller may
// still fail at invocation time, but absence of a resolvable path is not an
// error at this layer.
func ResolveCommand(name string) string {
	if p, err := exec.LookPath(name); err == nil {
		if abs, err := filepath.Abs(p); err == nil {
			return abs
		}
		return p
	}
	for _, dir := range wellKnownDirs() {
		p := filepath.Join(dir, name)
		if fi, err := os.Stat(p); err == nil &&
			fi.Mode().IsRegular() && fi.Mode().Perm()&0111 != 0 {
			return p
		}
	}
	return name
}
