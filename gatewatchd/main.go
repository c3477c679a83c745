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

// Command gatewatchd supervises the gateways declared in a TOML file and
// serves the reachable-gateway directory over HTTP.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/gdamore/gatewatch"
	"github.com/gdamore/gatewatch/rest"
)

var addr string = "127.0.0.1:8321"
var conf string = "/etc/gatewatch/gateways.toml"
var helper string = gatewatch.DefaultHelper
var debug bool = false

func main() {
	pflag.StringVarP(&addr, "addr", "a", addr, "listen address")
	pflag.StringVarP(&conf, "config", "c", conf, "gateway declaration file")
	pflag.StringVarP(&helper, "bridge", "b", helper, "bridge helper executable")
	pflag.BoolVarP(&debug, "debug", "d", debug, "log at debug level")
	pflag.Parse()

	ring := gatewatch.NewLog()
	out := zerolog.MultiLevelWriter(
		zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339},
		zerolog.ConsoleWriter{Out: ring, NoColor: true, TimeFormat: time.RFC3339},
	)
	logger := zerolog.New(out).With().Timestamp().Str("app", "gatewatchd").Logger()
	if !debug {
		logger = logger.Level(zerolog.InfoLevel)
	}

	decls, err := gatewatch.LoadDeclarations(conf)
	if err != nil {
		// Degrade to managing nothing rather than dying; the REST
		// surface still comes up so the failure is inspectable.
		logger.Error().Err(err).Str("path", conf).
			Msg("unusable gateway declarations; managing none")
		decls = nil
	}

	s := gatewatch.New(decls, gatewatch.Options{
		Helper: helper,
		Logger: logger,
	})
	s.Start(context.Background())

	go func() {
		if e := http.ListenAndServe(addr, rest.NewHandler(s, ring)); e != nil {
			logger.Fatal().Err(e).Str("addr", addr).Msg("rest server failed")
		}
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	<-sigs
	s.Stop()
}
