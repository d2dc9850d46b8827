// Copyright (c) 2018 Cisco and/or its affiliates.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at:
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// switch-agent is an open network switch control agent: it realizes a
// declarative configuration document as an immutable switch-state tree and
// keeps it in step with the document on disk.
package main

import (
	"fmt"
	"os"

	"go.ligato.io/cn-infra/v2/agent"
	"go.ligato.io/cn-infra/v2/logging/logrus"

	"github.com/opennetsys/switch-agent/app"
	"github.com/opennetsys/switch-agent/pkg/version"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		fmt.Println(version.Detail())
		os.Exit(0)
	}

	switchAgent := app.New()
	a := agent.NewAgent(agent.AllPlugins(switchAgent))

	if err := a.Run(); err != nil {
		logrus.DefaultLogger().Fatal(err)
	}
}

func init() {
	logrus.DefaultLogger().SetOutput(os.Stdout)
}
