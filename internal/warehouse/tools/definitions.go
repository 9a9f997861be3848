package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"github.com/openai/openai-go"
)

// operation describes one warehouse tool exposed to the LLM: its name and
// description as declared in the tool schema, the argument struct the LLM's
// JSON arguments unmarshal into, and the call that runs it.
type operation struct {
	Name        string
	Description string
	Args        any
	Required    []string
	Call        func(ctx context.Context, p *Provider, raw json.RawMessage) (string, error)
}

var operations = []operation{
	{
		Name:        "list_tables",
		Description: "Lists all available tables in the specified catalog and schema. Useful for understanding what data is available.",
		Args:        ListTablesArgs{},
		Call: func(ctx context.Context, p *Provider, raw json.RawMessage) (string, error) {
			var args ListTablesArgs
			if err := unmarshalArgs(raw, &args); err != nil {
				return "", err
			}
			return p.ListTables(ctx, args), nil
		},
	},
	{
		Name:        "describe_table",
		Description: "Describes the structure of a specific table including column names and data types. Essential before querying a table.",
		Args:        DescribeTableArgs{},
		Required:    []string{"table_name"},
		Call: func(ctx context.Context, p *Provider, raw json.RawMessage) (string, error) {
			var args DescribeTableArgs
			if err := unmarshalArgs(raw, &args); err != nil {
				return "", err
			}
			return p.DescribeTable(ctx, args), nil
		},
	},
	{
		Name:        "execute_sql_query",
		Description: "Executes a given SQL query on the warehouse and returns the results. Use this for data analysis and retrieval.",
		Args:        ExecuteSQLQueryArgs{},
		Required:    []string{"query"},
		Call: func(ctx context.Context, p *Provider, raw json.RawMessage) (string, error) {
			var args ExecuteSQLQueryArgs
			if err := unmarshalArgs(raw, &args); err != nil {
				return "", err
			}
			return p.ExecuteSQLQuery(ctx, args), nil
		},
	},
	{
		Name:        "execute_query_for_chart",
		Description: "Executes a SQL query and returns results in JSON format suitable for creating charts and graphs.",
		Args:        ExecuteQueryForChartArgs{},
		Required:    []string{"query"},
		Call: func(ctx context.Context, p *Provider, raw json.RawMessage) (string, error) {
			var args ExecuteQueryForChartArgs
			if err := unmarshalArgs(raw, &args); err != nil {
				return "", err
			}
			return p.ExecuteQueryForChart(ctx, args), nil
		},
	},
}

// Definitions returns the tool schemas declared on chat-with-tools calls,
// generated from the operations' argument structs.
func Definitions() []openai.ChatCompletionToolParam {
	var definitions []openai.ChatCompletionToolParam

	for _, op := range operations {
		schema, err := typeToJSONSchema(reflect.TypeOf(op.Args))
		if err != nil {
			slog.Error("failed to generate JSON schema for tool", "tool", op.Name, "error", err)
			continue
		}
		if len(op.Required) > 0 {
			schema["required"] = op.Required
		} else {
			delete(schema, "required")
		}

		definitions = append(definitions, openai.ChatCompletionToolParam{
			Type: openai.F(openai.ChatCompletionToolTypeFunction),
			Function: openai.F(openai.FunctionDefinitionParam{
				Name:        openai.String(op.Name),
				Description: openai.String(strings.TrimSpace(op.Description)),
				Parameters:  openai.F(openai.FunctionParameters(schema)),
			}),
		})
	}

	return definitions
}

// typeToJSONSchema walks a struct type and produces the equivalent JSON
// schema object for the tool declaration.
func typeToJSONSchema(t reflect.Type) (map[string]interface{}, error) {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	switch t.Kind() {
	case reflect.Struct:
		props := map[string]interface{}{}
		var requiredFields []string

		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if f.PkgPath != "" {
				continue
			}

			jsonName := jsonFieldName(f)
			if jsonName == "" {
				continue
			}

			fieldSchema, err := typeToJSONSchema(f.Type)
			if err != nil {
				return nil, err
			}
			props[jsonName] = fieldSchema

			if !strings.Contains(f.Tag.Get("json"), "omitempty") {
				requiredFields = append(requiredFields, jsonName)
			}
		}

		objSchema := map[string]interface{}{
			"type":       "object",
			"properties": props,
		}
		if len(requiredFields) > 0 {
			objSchema["required"] = requiredFields
		}
		return objSchema, nil

	case reflect.String:
		return map[string]interface{}{"type": "string"}, nil
	case reflect.Int, reflect.Int64, reflect.Int32:
		return map[string]interface{}{"type": "integer"}, nil
	case reflect.Float32, reflect.Float64:
		return map[string]interface{}{"type": "number"}, nil
	case reflect.Bool:
		return map[string]interface{}{"type": "boolean"}, nil
	case reflect.Slice, reflect.Array:
		elemSchema, err := typeToJSONSchema(t.Elem())
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{
			"type":  "array",
			"items": elemSchema,
		}, nil
	case reflect.Map:
		valSchema, err := typeToJSONSchema(t.Elem())
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{
			"type":                 "object",
			"additionalProperties": valSchema,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported kind %s for JSON schema generation", t.Kind())
	}
}

// jsonFieldName resolves the JSON property name for a struct field,
// returning "" for ignored fields.
func jsonFieldName(f reflect.StructField) string {
	tag := f.Tag.Get("json")
	if tag == "" {
		return f.Name
	}
	name := strings.Split(tag, ",")[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}
