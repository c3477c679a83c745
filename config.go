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
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"
)

type declarationFile struct {
	Gateways []Declaration `toml:"gateway"`
}

// LoadDeclarations reads gateway declarations from a TOML file.  A missing
// file is not an error; the supervisor simply manages zero gateways.  A file
// that cannot be parsed, or that contains a nameless declaration, is an
// error; callers are expected to log it and carry on with no gateways.
//
// When two declarations share a name, the last one wins, holding the
// position of the first.  This keeps load deterministic without making a
// stray copy-paste in the declaration file fatal.
func LoadDeclarations(path string) ([]Declaration, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading gateway declarations: %w", err)
	}
	var f declarationFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing gateway declarations: %w", err)
	}

	index := make(map[string]int, len(f.Gateways))
	decls := make([]Declaration, 0, len(f.Gateways))
	for _, d := range f.Gateways {
		if d.Name == "" {
			return nil, ErrNoGatewayName
		}
		if at, ok := index[d.Name]; ok {
			decls[at] = d
			continue
		}
		index[d.Name] = len(decls)
		decls = append(decls, d)
	}
	return decls, nil
}
