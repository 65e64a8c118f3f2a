// Copyright 2024 Google, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package commands

import (
	"fmt"
	"text/template"

	"github.com/jaycherian/gcp-go-style-passport/internal/cloud"
	"github.com/jaycherian/gcp-go-style-passport/internal/core/cor"
)

// ParamsFunc derives template parameters from a command input.
type ParamsFunc func(in interface{}) (map[string]interface{}, error)

// TemplatePromptBuilder renders a text prompt from its input with a Go
// template. It is used by the studio tools, which send no media.
type TemplatePromptBuilder struct {
	cor.BaseCommand
	template *template.Template
	params   ParamsFunc
}

func NewTemplatePromptBuilder(name string, template *template.Template, params ParamsFunc) *TemplatePromptBuilder {
	return &TemplatePromptBuilder{BaseCommand: *cor.NewBaseCommand(name), template: template, params: params}
}

func (t *TemplatePromptBuilder) Execute(context cor.Context) {
	params, err := t.params(context.Get(t.GetInputParam()))
	if err != nil {
		t.Fail(context, err)
		return
	}
	prompt, err := render(t.template, params)
	if err != nil {
		t.Fail(context, err)
		return
	}
	if prompt == "" {
		t.Fail(context, fmt.Errorf("prompt %s rendered empty", t.template.Name()))
		return
	}
	t.Succeed(context, cloud.NewTextContent(prompt))
}
