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
	"bufio"
	"io"
	"os"
	"os/exec"
	"sort"
	"strconv"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
)

// launcher starts the bridge helper for owned-process gateways.  It holds
// no retry policy of its own; every launch produces exactly one terminal
// event (exit or spawn error) delivered through post, and the Supervisor
// decides what happens next.
type launcher struct {
	helper string
	logger zerolog.Logger
	post   func(procEvent)
}

// processHandle is the Supervisor's grip on one live process instance.
// Instances are never reused; a relaunch produces a new handle.
type processHandle struct {
	cmd *exec.Cmd
}

// terminate asks the process to exit.  It is fire and forget; the exit
// itself still arrives as the instance's terminal event.
func (h *processHandle) terminate() {
	if h == nil || h.cmd == nil || h.cmd.Process == nil {
		return
	}
	h.cmd.Process.Signal(syscall.SIGTERM)
}

// invocation builds the helper command line for a declaration: the helper
// executable, the fully resolved wrapped command line, and the port to
// expose it on.
func (l *launcher) invocation(d Declaration) (string, []string) {
	target := ResolveCommand(d.Command)
	wrapped := strings.Join(append([]string{target}, d.Args...), " ")
	args := []string{
		"--command", wrapped,
		"--port", strconv.Itoa(d.Port),
	}
	return ResolveCommand(l.helper), args
}

// launch starts the bridge helper for d.  The returned handle is valid even
// when the spawn fails; in that case the failure arrives as a spawn-error
// event and terminate is a no-op.
func (l *launcher) launch(d Declaration, gen uint64) *processHandle {
	helper, args := l.invocation(d)
	cmd := exec.Command(helper, args...)
	cmd.Env = buildEnv(os.Environ(), d.Env)

	if stdout, err := cmd.StdoutPipe(); err == nil {
		go l.pump(d.Name, stdout)
	} else {
		l.logger.Debug().Err(err).Str("gateway", d.Name).
			Msg("failed to capture stdout")
	}
	if stderr, err := cmd.StderrPipe(); err == nil {
		go l.pump(d.Name, stderr)
	} else {
		l.logger.Debug().Err(err).Str("gateway", d.Name).
			Msg("failed to capture stderr")
	}

	if err := cmd.Start(); err != nil {
		ev := procEvent{kind: evSpawnError, name: d.Name, gen: gen, err: err}
		go l.post(ev)
		return &processHandle{}
	}

	h := &processHandle{cmd: cmd}
	go func() {
		l.post(procEvent{
			kind: evExit, name: d.Name, gen: gen,
			code: waitCode(cmd.Wait()),
		})
	}()
	return h
}

// waitCode maps a Wait result to a reportable exit code: the process's own
// code where it ran to completion, -1 where the wait itself failed.
func waitCode(err error) int {
	if err == nil {
		return 0
	}
	if ee, ok := err.(*exec.ExitError); ok {
		return ee.ExitCode()
	}
	return -1
}

// pump forwards one output stream line-by-line to the log at debug
// severity, tagged with the gateway name.  Lines are trimmed; entirely
// empty lines are dropped.
func (l *launcher) pump(name string, r io.Reader) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), 256*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		l.logger.Debug().Str("gateway", name).Msg(line)
	}
}

// buildEnv derives the helper environment: the base environment with the
// well-known installation directories prepended to PATH (de-duplicated,
// order preserved, new entries first), and the declaration's overrides
// applied last so they take precedence over everything.
func buildEnv(base []string, overrides map[string]string) []string {
	env := make([]string, len(base))
	copy(env, base)
	env = setEnv(env, "PATH", prependPath(getEnv(env, "PATH")))

	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		env = setEnv(env, k, overrides[k])
	}
	return env
}

func prependPath(path string) string {
	seen := make(map[string]bool)
	merged := make([]string, 0, 8)
	for _, d := range wellKnownDirs() {
		if d == "" || seen[d] {
			continue
		}
		seen[d] = true
		merged = append(merged, d)
	}
	for _, d := range strings.Split(path, string(os.PathListSeparator)) {
		if d == "" || seen[d] {
			continue
		}
		seen[d] = true
		merged = append(merged, d)
	}
	return strings.Join(merged, string(os.PathListSeparator))
}

func getEnv(env []string, key string) string {
	for _, kv := range env {
		if strings.HasPrefix(kv, key+"=") {
			return kv[len(key)+1:]
		}
	}
	return ""
}

func setEnv(env []string, key, value string) []string {
	for i, kv := range env {
		if strings.HasPrefix(kv, key+"=") {
			env[i] = key + "=" + value
			return env
		}
	}
	return append(env, key+"="+value)
}
