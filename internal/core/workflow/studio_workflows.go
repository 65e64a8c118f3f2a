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

// Package workflow assembles commands into the studio's pipelines. This file
// holds the generation workflows behind the studio tools. Each one renders a
// prompt template from a request, makes one Gemini call and, for structured
// tools, decodes the reply:
//
//   - script: ScriptRequest -> []model.ScriptLine
//   - comparison: ComparisonRequest -> plain text
//   - interest map: InterestMapRequest -> *model.RoadmapData
//   - ideas: IdeasRequest -> []model.ContentIdea
//
// The result is left under cor.CtxIn when the chain completes.
package workflow

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/jaycherian/gcp-go-style-passport/internal/cloud"
	"github.com/jaycherian/gcp-go-style-passport/internal/core/commands"
	"github.com/jaycherian/gcp-go-style-passport/internal/core/cor"
	"github.com/jaycherian/gcp-go-style-passport/internal/core/model"
)

// ErrInvalidRequest is returned by the parameter builders for requests that
// cannot be rendered into a prompt.
var ErrInvalidRequest = errors.New("invalid request")

// GenerationWorkflow is a prompt, generate, decode chain.
type GenerationWorkflow struct {
	cor.BaseCommand
	chain cor.Chain
}

func (g *GenerationWorkflow) Execute(context cor.Context) {
	g.chain.Execute(context)
}

func mustTemplate(name string, src string) *template.Template {
	t, err := template.New(name).Parse(src)
	if err != nil {
		panic(err) // Panic on failure, as the app cannot run without valid templates.
	}
	return t
}

func newGenerationWorkflow(name string, prompt *template.Template, params commands.ParamsFunc, genaiModel cloud.GenerativeModel, decoder cor.Command) *GenerationWorkflow {
	out := &GenerationWorkflow{BaseCommand: *cor.NewBaseCommand(name)}
	chain := cor.NewBaseChain(name)
	chain.AddCommand(commands.NewTemplatePromptBuilder(name+"-prompt", prompt, params))
	chain.AddCommand(commands.NewContentGenerator(name+"-generate", genaiModel))
	if decoder != nil {
		chain.AddCommand(decoder)
	}
	out.chain = chain
	return out
}

func exampleJSON(v interface{}) string {
	b, _ := json.Marshal(v)
	return string(b)
}

func scriptParams(in interface{}) (map[string]interface{}, error) {
	req, ok := in.(*model.ScriptRequest)
	if !ok {
		return nil, fmt.Errorf("%w: expected a script request", ErrInvalidRequest)
	}
	if req.Passport == nil {
		return nil, fmt.Errorf("%w: a style passport is required", ErrInvalidRequest)
	}
	if strings.TrimSpace(req.Topic) == "" {
		return nil, fmt.Errorf("%w: topic is empty", ErrInvalidRequest)
	}
	passport, err := json.Marshal(req.Passport)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"TOPIC":         strings.TrimSpace(req.Topic),
		"PASSPORT_JSON": string(passport),
		"EXAMPLE_JSON":  exampleJSON(model.GetExampleScript()),
	}, nil
}

func comparisonParams(in interface{}) (map[string]interface{}, error) {
	req, ok := in.(*model.ComparisonRequest)
	if !ok {
		return nil, fmt.Errorf("%w: expected a comparison request", ErrInvalidRequest)
	}
	items, err := json.MarshalIndent(model.NewComparisonEntries(req.Items), "", "  ")
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"COUNT":      len(req.Items),
		"ITEMS_JSON": string(items),
	}, nil
}

func interestMapParams(in interface{}) (map[string]interface{}, error) {
	req, ok := in.(*model.InterestMapRequest)
	if !ok {
		return nil, fmt.Errorf("%w: expected an interest map request", ErrInvalidRequest)
	}
	a, b := strings.TrimSpace(req.InterestA), strings.TrimSpace(req.InterestB)
	if a == "" || b == "" {
		return nil, fmt.Errorf("%w: both interests are required", ErrInvalidRequest)
	}
	return map[string]interface{}{
		"INTEREST_A":   a,
		"INTEREST_B":   b,
		"EXAMPLE_JSON": exampleJSON(model.GetExampleRoadmap()),
	}, nil
}

// ideasParams renders the creator context from the latest passport, or the
// generic context when there is no history.
func ideasParams(withContext *template.Template, noContext string) commands.ParamsFunc {
	return func(in interface{}) (map[string]interface{}, error) {
		req, ok := in.(*model.IdeasRequest)
		if !ok {
			return nil, fmt.Errorf("%w: expected an ideas request", ErrInvalidRequest)
		}
		if strings.TrimSpace(req.Topic) == "" {
			return nil, fmt.Errorf("%w: topic is empty", ErrInvalidRequest)
		}

		creator := strings.TrimSpace(noContext)
		if p := req.Latest; p != nil {
			insights := p.RetentionFormulaInsights
			if len(insights) > 2 {
				insights = insights[:2]
			}
			var sb strings.Builder
			err := withContext.Execute(&sb, map[string]interface{}{
				"WPM":      p.StyleMetrics.WordsPerMinute,
				"EMOTION":  p.StyleMetrics.DominantEmotion,
				"INSIGHTS": strings.Join(insights, ", "),
			})
			if err != nil {
				return nil, err
			}
			creator = strings.TrimSpace(sb.String())
		}

		return map[string]interface{}{
			"TOPIC":        strings.TrimSpace(req.Topic),
			"CONTEXT":      creator,
			"EXAMPLE_JSON": exampleJSON(model.GetExampleIdeas()),
		}, nil
	}
}

func validateScript(lines *[]model.ScriptLine) error {
	return model.ValidateScript(*lines)
}

func validateIdeas(ideas *[]model.ContentIdea) error {
	for i, idea := range *ideas {
		if strings.TrimSpace(idea.Title) == "" {
			return fmt.Errorf("idea %d has no title", i)
		}
	}
	return nil
}

// NewScriptWorkflow writes a timed script in the style of a passport.
func NewScriptWorkflow(config *cloud.Config, genaiModel cloud.GenerativeModel) *GenerationWorkflow {
	return newGenerationWorkflow("script-workflow",
		mustTemplate("script", config.PromptTemplates.Script),
		scriptParams,
		cloud.BindSchema(genaiModel, commands.ScriptSchema()),
		commands.NewJsonToStruct[[]model.ScriptLine]("convert-script", "", nil, validateScript))
}

// NewComparisonWorkflow compares two to five history items in plain text.
func NewComparisonWorkflow(config *cloud.Config, genaiModel cloud.GenerativeModel) *GenerationWorkflow {
	return newGenerationWorkflow("comparison-workflow",
		mustTemplate("comparison", config.PromptTemplates.Comparison),
		comparisonParams,
		cloud.BindPlainText(genaiModel),
		nil)
}

// NewInterestMapWorkflow fuses two interests into a node graph. Coordinates
// are clamped and dangling edges dropped.
func NewInterestMapWorkflow(config *cloud.Config, genaiModel cloud.GenerativeModel) *GenerationWorkflow {
	return newGenerationWorkflow("interest-map-workflow",
		mustTemplate("interest-map", config.PromptTemplates.InterestMap),
		interestMapParams,
		cloud.BindSchema(genaiModel, commands.RoadmapSchema()),
		commands.NewJsonToStruct[model.RoadmapData]("convert-roadmap", "", nil, (*model.RoadmapData).Normalize))
}

// NewIdeasWorkflow suggests content ideas, adapted to the latest passport
// when one exists.
func NewIdeasWorkflow(config *cloud.Config, genaiModel cloud.GenerativeModel) *GenerationWorkflow {
	return newGenerationWorkflow("ideas-workflow",
		mustTemplate("ideas", config.PromptTemplates.Ideas),
		ideasParams(mustTemplate("ideas-with-context", config.PromptTemplates.IdeasWithContext), config.PromptTemplates.IdeasNoContext),
		cloud.BindSchema(genaiModel, commands.IdeasSchema()),
		commands.NewJsonToStruct[[]model.ContentIdea]("convert-ideas", "", nil, validateIdeas))
}
