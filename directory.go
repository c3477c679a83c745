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
	"net"
	"net/url"
)

// Entry is one line of the published directory: a gateway that is
// currently reachable, at the address consumers should use.
type Entry struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// GatewayInfo is a point-in-time status record for one gateway.
type GatewayInfo struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Kind        string `json:"kind"`
	Optional    bool   `json:"optional"`
	State       string `json:"state"`
	Restarts    int    `json:"restarts"`
	Address     string `json:"address,omitempty"`
}

// Reachable returns the directory of currently healthy gateways, in
// declaration order.  It is a pure snapshot read: no mutation, no I/O.
// Owned-process addresses have their loopback host rewritten to the
// cross-namespace alias, port and path untouched; external endpoints are
// published exactly as declared.
func (s *Supervisor) Reachable() []Entry {
	s.mx.Lock()
	defer s.mx.Unlock()

	entries := make([]Entry, 0, len(s.order))
	for _, name := range s.order {
		g := s.gateways[name]
		if g == nil || g.health != healthHealthy {
			continue
		}
		entries = append(entries, Entry{
			Name:    name,
			Address: publishedAddress(&g.decl),
		})
	}
	return entries
}

// Status returns a snapshot record for every managed gateway, in
// declaration order.  The address is only present while the gateway is
// reachable.
func (s *Supervisor) Status() []GatewayInfo {
	s.mx.Lock()
	defer s.mx.Unlock()

	infos := make([]GatewayInfo, 0, len(s.order))
	for _, name := range s.order {
		g := s.gateways[name]
		info := GatewayInfo{
			Name:        name,
			Description: g.decl.Description,
			Kind:        g.decl.Kind(),
			Optional:    g.decl.Optional,
			State:       g.health.String(),
			Restarts:    g.restarts,
		}
		if g.health == healthHealthy {
			info.Address = publishedAddress(&g.decl)
		}
		infos = append(infos, info)
	}
	return infos
}

func publishedAddress(d *Declaration) string {
	if d.External() {
		return d.URL
	}
	return rewriteLoopback(d.Address())
}

// rewriteLoopback replaces a loopback host with the cross-namespace alias,
// preserving scheme, port, and path.  Addresses that do not parse, or that
// are not loopback-scoped, come back unchanged.
func rewriteLoopback(addr string) string {
	u, err := url.Parse(addr)
	if err != nil {
		return addr
	}
	switch u.Hostname() {
	case "127.0.0.1", "localhost", "::1":
	default:
		return addr
	}
	if port := u.Port(); port != "" {
		u.Host = net.JoinHostPort(CrossNamespaceHost, port)
	} else {
		u.Host = CrossNamespaceHost
	}
	return u.String()
}
