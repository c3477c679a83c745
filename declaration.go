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
	"net"
	"strconv"
)

// Gateway kinds.  A declaration that carries a URL is an external endpoint
// that we only observe; everything else is a process that we own, spawned
// through the bridge helper.
const (
	KindProcess  = "process"
	KindExternal = "external"
)

const (
	// loopbackHost is where owned gateways bind.  The bridge helper is
	// only ever reachable from the local host.
	loopbackHost = "127.0.0.1"

	// CrossNamespaceHost is the hostname alias that consumers in another
	// network namespace (typically containers) use to reach loopback
	// services on this host.  Published addresses for owned gateways have
	// their loopback host rewritten to this alias.
	CrossNamespaceHost = "host.docker.internal"

	// healthPath is the conventional path probed on owned gateways.
	healthPath = "/health"
)

// Declaration describes a single gateway, as loaded from the declaration
// file.  Declarations are immutable once handed to a Supervisor.  If URL is
// set the gateway is an external endpoint and Command, Args, Env and Port
// are ignored; otherwise the gateway is an owned process and Command and
// Port are required.
type Declaration struct {
	Name        string            `toml:"name" json:"name"`
	Description string            `toml:"description" json:"description,omitempty"`
	Optional    bool              `toml:"optional" json:"optional"`
	Command     string            `toml:"command" json:"command,omitempty"`
	Args        []string          `toml:"args" json:"args,omitempty"`
	Env         map[string]string `toml:"env" json:"env,omitempty"`
	Port        int               `toml:"port" json:"port,omitempty"`
	URL         string            `toml:"url" json:"url,omitempty"`
}

// External reports whether the declaration names a pre-existing endpoint
// rather than a process we spawn.
func (d *Declaration) External() bool {
	return d.URL != ""
}

// Kind returns the gateway kind as a string, suitable for status output.
func (d *Declaration) Kind() string {
	if d.External() {
		return KindExternal
	}
	return KindProcess
}

// Address returns the effective address used for health probing.  External
// endpoints are probed at their declared URL verbatim; owned processes at
// the conventional health path on their loopback port.
func (d *Declaration) Address() string {
	if d.External() {
		return d.URL
	}
	host := net.JoinHostPort(loopbackHost, strconv.Itoa(d.Port))
	return fmt.Sprintf("http://%s%s", host, healthPath)
}
