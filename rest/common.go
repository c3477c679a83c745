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

package rest

import (
	"github.com/gdamore/gatewatch"
)

const (
	mimeJson = "application/json; charset=UTF-8"
)

type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return e.Message
}

// LogChunk is the payload of the log endpoint: the retained records plus a
// watermark the client hands back as ?since= to poll cheaply.
type LogChunk struct {
	Id      int64                 `json:"id,string"`
	Records []gatewatch.LogRecord `json:"records"`
}
