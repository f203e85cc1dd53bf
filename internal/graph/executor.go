// Package graph serves a read-only GraphQL view of the active dataset, the
// imported library and the score.
package graph

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"github.com/vektah/gqlparser/v2/validator"
	"github.com/vektah/gqlparser/v2/validator/rules"
)

//go:embed schema.graphqls
var schemaSource string

// Schema is the parsed schema served by the executor
var Schema = gqlparser.MustLoadSchema(&ast.Source{Name: "schema.graphqls", Input: schemaSource})

// Request is the body of a GraphQL POST
type Request struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName,omitempty"`
	Variables     map[string]any `json:"variables,omitempty"`
}

// Response carries the data of an executed query and any field errors.
// Data is nil when a non-null root field failed.
type Response struct {
	Data   any           `json:"data"`
	Errors gqlerror.List `json:"errors,omitempty"`
}

// Executor runs queries against a Resolver
type Executor struct {
	resolver *Resolver
	rules    *rules.Rules
}

// NewExecutor creates an executor for the resolver
func NewExecutor(resolver *Resolver) *Executor {
	return &Executor{resolver: resolver, rules: rules.NewDefaultRules()}
}

// Execute parses, validates and runs one query.
// A request that cannot run at all returns a gqlerror.List as the error.
func (e *Executor) Execute(ctx context.Context, req Request) (*Response, error) {
	doc, errs := gqlparser.LoadQueryWithRules(Schema, req.Query, e.rules)
	if len(errs) > 0 {
		return nil, errs
	}

	op := doc.Operations.ForName(req.OperationName)
	if op == nil {
		if req.OperationName == "" {
			return nil, gqlerror.List{gqlerror.Errorf("operation name is required when the document has several operations")}
		}
		return nil, gqlerror.List{gqlerror.Errorf("operation %q not found", req.OperationName)}
	}
	if op.Operation != ast.Query {
		return nil, gqlerror.List{gqlerror.Errorf("only queries are supported")}
	}

	vars, err := validator.VariableValues(Schema, op, req.Variables)
	if err != nil {
		var gqlErr *gqlerror.Error
		if errors.As(err, &gqlErr) {
			return nil, gqlerror.List{gqlErr}
		}
		return nil, gqlerror.List{gqlerror.Wrap(err)}
	}

	ex := &execution{resolver: e.resolver, doc: doc, vars: vars}
	resp := &Response{}
	if data := ex.root(ctx, op.SelectionSet); data != nil {
		resp.Data = data
	}
	resp.Errors = ex.errors
	return resp, nil
}

type execution struct {
	resolver *Resolver
	doc      *ast.QueryDocument
	vars     map[string]any
	errors   gqlerror.List
}

// root resolves the selected Query fields. A failed non-null field nulls the whole result.
func (ex *execution) root(ctx context.Context, set ast.SelectionSet) *fieldSet {
	data := &fieldSet{}
	failed := false

	for _, group := range ex.collect(Schema.Query.Name, set) {
		field := group.fields[0]
		path := ast.Path{ast.PathName(group.key)}

		switch field.Name {
		case "__typename":
			data.set(group.key, Schema.Query.Name)
			continue
		case "__schema", "__type":
			ex.errors = append(ex.errors, gqlerror.ErrorPathf(path, "introspection is not supported"))
			data.set(group.key, nil)
			continue
		}

		value, err := ex.resolver.resolve(ctx, field.Name, field.ArgumentMap(ex.vars))
		if err != nil {
			ex.errors = append(ex.errors, gqlerror.ErrorPathf(path, "%s", err.Error()))
			data.set(group.key, nil)
			if field.Definition != nil && field.Definition.Type.NonNull {
				failed = true
			}
			continue
		}
		data.set(group.key, ex.complete(value, group.selections(), path))
	}

	if failed {
		return nil
	}
	return data
}

// complete projects a resolved value onto the selection set
func (ex *execution) complete(value any, set ast.SelectionSet, path ast.Path) any {
	switch v := value.(type) {
	case object:
		return ex.project(v, set, path)
	case []object:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = ex.project(item, set, append(path[:len(path):len(path)], ast.PathIndex(i)))
		}
		return out
	default:
		return v
	}
}

func (ex *execution) project(obj object, set ast.SelectionSet, path ast.Path) *fieldSet {
	out := &fieldSet{}
	for _, group := range ex.collect(obj.typeName, set) {
		name := group.fields[0].Name
		if name == "__typename" {
			out.set(group.key, obj.typeName)
			continue
		}
		childPath := append(path[:len(path):len(path)], ast.PathName(group.key))
		out.set(group.key, ex.complete(obj.fields[name], group.selections(), childPath))
	}
	return out
}

// fieldGroup holds the fields sharing one response key
type fieldGroup struct {
	key    string
	fields []*ast.Field
}

func (g fieldGroup) selections() ast.SelectionSet {
	if len(g.fields) == 1 {
		return g.fields[0].SelectionSet
	}
	var set ast.SelectionSet
	for _, f := range g.fields {
		set = append(set, f.SelectionSet...)
	}
	return set
}

// collect flattens fragments and drops skipped fields, keeping selection order
func (ex *execution) collect(typeName string, set ast.SelectionSet) []fieldGroup {
	var groups []fieldGroup
	index := map[string]int{}
	visited := map[string]bool{}

	var walk func(ast.SelectionSet)
	walk = func(set ast.SelectionSet) {
		for _, sel := range set {
			switch sel := sel.(type) {
			case *ast.Field:
				if !ex.included(sel.Directives) {
					continue
				}
				if i, ok := index[sel.Alias]; ok {
					groups[i].fields = append(groups[i].fields, sel)
					continue
				}
				index[sel.Alias] = len(groups)
				groups = append(groups, fieldGroup{key: sel.Alias, fields: []*ast.Field{sel}})
			case *ast.InlineFragment:
				if !ex.included(sel.Directives) || (sel.TypeCondition != "" && sel.TypeCondition != typeName) {
					continue
				}
				walk(sel.SelectionSet)
			case *ast.FragmentSpread:
				if !ex.included(sel.Directives) || visited[sel.Name] {
					continue
				}
				visited[sel.Name] = true
				def := ex.doc.Fragments.ForName(sel.Name)
				if def == nil || def.TypeCondition != typeName {
					continue
				}
				walk(def.SelectionSet)
			}
		}
	}
	walk(set)
	return groups
}

// included applies @skip and @include
func (ex *execution) included(directives ast.DirectiveList) bool {
	if d := directives.ForName("skip"); d != nil && ex.condition(d) {
		return false
	}
	if d := directives.ForName("include"); d != nil && !ex.condition(d) {
		return false
	}
	return true
}

func (ex *execution) condition(d *ast.Directive) bool {
	arg := d.Arguments.ForName("if")
	if arg == nil {
		return false
	}
	v, err := arg.Value.Value(ex.vars)
	if err != nil {
		return false
	}
	b, _ := v.(bool)
	return b
}

// fieldSet is a JSON object that keeps the selection order of its keys
type fieldSet struct {
	keys   []string
	values map[string]any
}

func (s *fieldSet) set(key string, value any) {
	if s.values == nil {
		s.values = map[string]any{}
	}
	if _, ok := s.values[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.values[key] = value
}

// MarshalJSON writes the keys in selection order
func (s *fieldSet) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range s.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(s.values[key])
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
