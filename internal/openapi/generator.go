// Package openapi renders OpenAPI 3 documents describing the export
// shape of a program's applications: one schema per question, one
// property per scalar leaf.
package openapi

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/civiform/civiform-go/internal/model"
)

// GenerateProgramDoc renders the document for one program. questions
// maps the program's question ids to their definitions.
func GenerateProgramDoc(program *model.ProgramDefinition, questions map[int64]*model.QuestionDefinition) (string, error) {
	schemas := map[string]any{}
	properties := map[string]any{}

	for _, id := range program.QuestionIDs() {
		question, ok := questions[id]
		if !ok {
			return "", fmt.Errorf("program %q references unknown question %d", program.AdminName, id)
		}
		schema, err := questionSchema(question)
		if err != nil {
			return "", err
		}
		// Component names cannot carry the repeated-entity marker.
		name := strings.TrimSuffix(question.PathSegment(), "[]")
		schemas[name] = schema
		properties[name] = map[string]any{"$ref": "#/components/schemas/" + name}
	}

	schemas["application"] = map[string]any{
		"type":       "object",
		"properties": properties,
	}

	doc := map[string]any{
		"openapi": "3.0.0",
		"info": map[string]any{
			"title":       program.AdminName + " applications",
			"description": program.AdminDescription,
			"version":     "1.0.0",
		},
		"paths": map[string]any{
			fmt.Sprintf("/api/v1/programs/%s/applications", program.AdminName): map[string]any{
				"get": map[string]any{
					"summary": "List applications submitted to this program",
					"responses": map[string]any{
						"200": map[string]any{
							"description": "A page of applications",
							"content": map[string]any{
								"application/json": map[string]any{
									"schema": map[string]any{
										"type":  "array",
										"items": map[string]any{"$ref": "#/components/schemas/application"},
									},
								},
							},
						},
					},
				},
			},
		},
		"components": map[string]any{
			"schemas": schemas,
		},
	}

	out, err := yaml.Marshal(doc)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func questionSchema(question *model.QuestionDefinition) (map[string]any, error) {
	switch question.Type {
	case model.QuestionTypeEnumerator:
		return map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"entity_name": map[string]any{"type": "string"},
				},
			},
		}, nil
	case model.QuestionTypeStatic:
		return map[string]any{"type": "object", "properties": map[string]any{}}, nil
	}

	scalars, err := model.Scalars(question.Type)
	if err != nil {
		return nil, err
	}
	properties := map[string]any{}
	for scalar, scalarType := range scalars {
		properties[scalar.Key()] = scalarProperty(scalarType)
	}
	for scalar, scalarType := range model.MetadataScalars() {
		properties[scalar.Key()] = scalarProperty(scalarType)
	}
	return map[string]any{
		"type":       "object",
		"properties": properties,
	}, nil
}

func scalarProperty(t model.ScalarType) map[string]any {
	switch t {
	case model.ScalarTypeLong, model.ScalarTypeCurrencyCents:
		return map[string]any{"type": "integer", "format": "int64"}
	case model.ScalarTypeDouble:
		return map[string]any{"type": "number", "format": "double"}
	case model.ScalarTypeDate:
		return map[string]any{"type": "string", "format": "date"}
	case model.ScalarTypeListOfStrings:
		return map[string]any{"type": "array", "items": map[string]any{"type": "string"}}
	case model.ScalarTypeListOfLongs:
		return map[string]any{"type": "array", "items": map[string]any{"type": "integer", "format": "int64"}}
	default:
		return map[string]any{"type": "string"}
	}
}
