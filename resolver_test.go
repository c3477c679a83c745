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

//go:build darwin || dragonfly || freebsd || linux || netbsd || openbsd || solaris

package gatewatch

import (
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestResolveCommand(t *testing.T) {
	Convey("Resolving a command name", t, func() {
		Convey("A PATH-resolvable name becomes an absolute path", func() {
			p := ResolveCommand("sh")
			So(filepath.IsAbs(p), ShouldBeTrue)
			So(filepath.Base(p), ShouldEqual, "sh")
		})

		Convey("An unresolvable name is returned unchanged", func() {
			name := "gatewatch-no-such-command-xyzzy"
			So(ResolveCommand(name), ShouldEqual, name)
		})

		Convey("A relative path to an existing script resolves", func() {
			p := ResolveCommand("./launcher_test.sh")
			So(filepath.IsAbs(p), ShouldBeTrue)
			So(filepath.Base(p), ShouldEqual, "launcher_test.sh")
		})
	})
}

func TestWellKnownDirs(t *testing.T) {
	Convey("The well-known directory list is fixed and ordered", t, func() {
		dirs := wellKnownDirs()
		So(len(dirs), ShouldBeGreaterThanOrEqualTo, 4)
		So(dirs[0], ShouldEqual, "/usr/local/bin")
		So(dirs[1], ShouldEqual, "/opt/homebrew/bin")
		So(dirs[2], ShouldEqual, "/usr/bin")
		So(dirs[3], ShouldEqual, "/bin")
	})
}
