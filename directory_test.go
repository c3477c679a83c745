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
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestRewriteLoopback(t *testing.T) {
	Convey("Loopback hosts are rewritten, everything else passes", t, func() {
		cases := map[string]string{
			"http://127.0.0.1:9000/health": "http://" + CrossNamespaceHost + ":9000/health",
			"http://localhost:8080/api":    "http://" + CrossNamespaceHost + ":8080/api",
			"http://[::1]:9000/x":          "http://" + CrossNamespaceHost + ":9000/x",
			"http://127.0.0.1/x":           "http://" + CrossNamespaceHost + "/x",
			"https://db.example:443":       "https://db.example:443",
			"http://10.1.2.3:80/":          "http://10.1.2.3:80/",
		}
		for in, want := range cases {
			So(rewriteLoopback(in), ShouldEqual, want)
		}

		Convey("An unparseable address comes back unchanged", func() {
			So(rewriteLoopback("http://bad host/"), ShouldEqual, "http://bad host/")
		})
	})
}

func TestPublishedAddress(t *testing.T) {
	Convey("Published addresses follow the declaration kind", t, func() {
		Convey("Owned processes get the cross-namespace alias", func() {
			d := Declaration{Name: "svc", Command: "svc", Port: 9000}
			So(publishedAddress(&d), ShouldEqual,
				"http://"+CrossNamespaceHost+":9000/health")
		})

		Convey("External endpoints are published as declared", func() {
			d := Declaration{Name: "db", URL: "https://db.example:443"}
			So(publishedAddress(&d), ShouldEqual, "https://db.example:443")
		})
	})
}

func TestEffectiveAddress(t *testing.T) {
	Convey("The effective (probed) address", t, func() {
		Convey("Embeds the declared port and health path for owned processes", func() {
			d := Declaration{Name: "svc", Command: "svc", Port: 9100}
			So(d.Address(), ShouldEqual, "http://127.0.0.1:9100/health")
			So(d.Kind(), ShouldEqual, KindProcess)
		})

		Convey("Is the declared URL verbatim for external endpoints", func() {
			d := Declaration{Name: "db", URL: "https://db.example:443"}
			So(d.Address(), ShouldEqual, "https://db.example:443")
			So(d.Kind(), ShouldEqual, KindExternal)
		})
	})
}
