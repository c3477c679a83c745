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
	"io"
	"net/http"
	"time"
)

// ProbeTimeout bounds a single health probe.  One unreachable gateway may
// stall a poll pass by at most this long.
const ProbeTimeout = 5 * time.Second

// Prober performs single-shot reachability checks against gateway
// addresses.  A Prober is safe for concurrent use.
type Prober struct {
	client *http.Client
}

// NewProber returns a Prober whose probes complete within the given
// timeout.  A zero or negative timeout selects ProbeTimeout.
func NewProber(timeout time.Duration) *Prober {
	if timeout <= 0 {
		timeout = ProbeTimeout
	}
	return &Prober{client: &http.Client{Timeout: timeout}}
}

// Probe issues one best-effort request against addr and reports whether
// anything answered.  Any response at all counts as healthy, error statuses
// included; the point is to detect that something is listening and speaking
// the protocol, not to judge application-level success.  Connection errors,
// timeouts, and other transport failures count as unhealthy.  Probe never
// returns an error.
func (p *Prober) Probe(addr string) bool {
	resp, err := p.client.Get(addr)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	// Drain a bounded amount so the connection can be reused.
	io.Copy(io.Discard, io.LimitReader(resp.Body, 64*1024))
	return true
}
