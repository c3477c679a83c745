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
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestProbe(t *testing.T) {
	Convey("Probing an address", t, func() {
		p := NewProber(time.Second)

		Convey("Any response counts as healthy", func() {
			ok := httptest.NewServer(http.HandlerFunc(
				func(w http.ResponseWriter, r *http.Request) {
					fmt.Fprintln(w, "hi")
				}))
			defer ok.Close()
			So(p.Probe(ok.URL), ShouldBeTrue)
		})

		Convey("Even an error status counts as healthy", func() {
			bad := httptest.NewServer(http.HandlerFunc(
				func(w http.ResponseWriter, r *http.Request) {
					http.Error(w, "broken", http.StatusInternalServerError)
				}))
			defer bad.Close()
			So(p.Probe(bad.URL), ShouldBeTrue)
		})

		Convey("Nothing listening is unhealthy", func() {
			So(p.Probe(fmt.Sprintf("http://127.0.0.1:%d/", freePort())),
				ShouldBeFalse)
		})

		Convey("A probe is bounded by its timeout", func() {
			slow := httptest.NewServer(http.HandlerFunc(
				func(w http.ResponseWriter, r *http.Request) {
					time.Sleep(500 * time.Millisecond)
				}))
			defer slow.Close()

			quick := NewProber(50 * time.Millisecond)
			start := time.Now()
			So(quick.Probe(slow.URL), ShouldBeFalse)
			So(time.Since(start), ShouldBeLessThan, 400*time.Millisecond)
		})

		Convey("Garbage addresses are just unhealthy", func() {
			So(p.Probe("not a url"), ShouldBeFalse)
		})
	})
}
