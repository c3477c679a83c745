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

// Package gatewatch supervises a set of declared gateways: network
// endpoints that other processes depend on.  Gateways come in two kinds.
// An owned-process gateway wraps an ordinary command behind a bridge
// helper so that it behaves like a networked service on a declared port;
// gatewatch spawns it, watches it, and restarts it with exponential
// backoff when it dies.  An external-endpoint gateway already exists
// somewhere else; gatewatch only observes it.
//
// All gateways are health-probed periodically, and the set of currently
// reachable gateways is published as a directory whose loopback addresses
// are rewritten for consumers running in another network namespace (for
// example, containers).
//
// A Supervisor is created from declarations loaded once at startup, and
// its lifecycle is explicit: Start brings owned gateways up, waits a short
// grace period, runs a first health pass, and begins polling; Stop cancels
// timers and asks live processes to terminate.  Nothing the supervised
// gateways do is ever fatal to the supervisor.
package gatewatch
