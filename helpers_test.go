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
	"strings"
	"sync"
	"testing"
)

// testLog bridges log output into the test log.
type testLog struct {
	t *testing.T
}

func (tl *testLog) Write(p []byte) (n int, err error) {
	s := string(p)
	s = strings.Trim(s, "\n")
	tl.t.Log(s)
	return len(p), nil
}

// captureLog retains raw zerolog JSON lines for severity assertions.
type captureLog struct {
	mx    sync.Mutex
	lines []string
}

func (c *captureLog) Write(p []byte) (int, error) {
	c.mx.Lock()
	c.lines = append(c.lines, strings.Trim(string(p), "\n"))
	c.mx.Unlock()
	return len(p), nil
}

// find returns the first captured line containing every given substring.
func (c *captureLog) find(subs ...string) string {
	c.mx.Lock()
	defer c.mx.Unlock()
outer:
	for _, line := range c.lines {
		for _, sub := range subs {
			if !strings.Contains(line, sub) {
				continue outer
			}
		}
		return line
	}
	return ""
}

// freePort reserves and releases a loopback port: good enough for pointing
// a probe at an address where nothing is listening.
func freePort() int {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 1 // nothing listens on the reserved port either
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}
