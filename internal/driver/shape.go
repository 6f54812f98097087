package driver

import (
	"sort"

	"keel/internal/sema"
	"keel/internal/types"
)

// ShapeExport is the declaration-level view of a checked program: every
// named type with its fields and method signatures, rendered with final
// resolved types. It is what documentation tooling consumes and what the
// disk cache persists, so it deliberately contains no syntax-tree or
// body-level data.
type ShapeExport struct {
	Types   []TypeShape   `json:"types" msgpack:"types"`
	Globals []GlobalShape `json:"globals,omitempty" msgpack:"globals"`
}

// TypeShape is one named type entry.
type TypeShape struct {
	Name     string        `json:"name" msgpack:"name"`
	Kind     string        `json:"kind" msgpack:"kind"`
	Super    string        `json:"super,omitempty" msgpack:"super"`
	Abstract bool          `json:"abstract,omitempty" msgpack:"abstract"`
	Fields   []FieldShape  `json:"fields,omitempty" msgpack:"fields"`
	Methods  []MethodShape `json:"methods,omitempty" msgpack:"methods"`
}

// FieldShape is one resolved field.
type FieldShape struct {
	Name    string `json:"name" msgpack:"name"`
	Type    string `json:"type" msgpack:"type"`
	Class   bool   `json:"class,omitempty" msgpack:"class"`
	Nilable bool   `json:"nilable,omitempty" msgpack:"nilable"`
	HasInit bool   `json:"has_init,omitempty" msgpack:"has_init"`
}

// MethodShape is one resolved method signature.
type MethodShape struct {
	Name        string   `json:"name" msgpack:"name"`
	Params      []string `json:"params,omitempty" msgpack:"params"`
	Return      string   `json:"return,omitempty" msgpack:"return"`
	ClassLevel  bool     `json:"class_level,omitempty" msgpack:"class_level"`
	Abstract    bool     `json:"abstract,omitempty" msgpack:"abstract"`
	Synthesized bool     `json:"synthesized,omitempty" msgpack:"synthesized"`
}

// GlobalShape is one resolved top-level variable.
type GlobalShape struct {
	Name    string `json:"name" msgpack:"name"`
	Type    string `json:"type" msgpack:"type"`
	Nilable bool   `json:"nilable,omitempty" msgpack:"nilable"`
}

// BuildShape extracts the declaration shape from a checked context.
// Output is sorted by name so identical programs export identical bytes.
func BuildShape(ctx *sema.Context) *ShapeExport {
	out := &ShapeExport{}
	table := ctx.Types

	for _, entry := range table.Entries() {
		if entry.Builtin {
			continue
		}
		out.Types = append(out.Types, typeShape(ctx, entry))
	}
	sort.Slice(out.Types, func(i, j int) bool { return out.Types[i].Name < out.Types[j].Name })

	for _, g := range table.Globals() {
		out.Globals = append(out.Globals, GlobalShape{
			Name:    ctx.Builder.Name(g.Name),
			Type:    table.TypeString(g.Type),
			Nilable: g.Nilable,
		})
	}
	sort.Slice(out.Globals, func(i, j int) bool { return out.Globals[i].Name < out.Globals[j].Name })
	return out
}

func typeShape(ctx *sema.Context, entry *types.Entry) TypeShape {
	table := ctx.Types
	shape := TypeShape{
		Name:     ctx.Builder.Name(entry.Name),
		Kind:     entry.Kind.String(),
		Abstract: entry.Abstract,
	}
	if super := table.Get(entry.Super); super != nil {
		shape.Super = ctx.Builder.Name(super.Name)
	}

	for _, f := range entry.InstanceFields {
		shape.Fields = append(shape.Fields, fieldShape(ctx, f, false))
	}
	for _, f := range entry.ClassFields {
		shape.Fields = append(shape.Fields, fieldShape(ctx, f, true))
	}
	sort.Slice(shape.Fields, func(i, j int) bool { return shape.Fields[i].Name < shape.Fields[j].Name })

	for _, m := range entry.Methods {
		shape.Methods = append(shape.Methods, methodShape(ctx, m))
	}
	sort.Slice(shape.Methods, func(i, j int) bool {
		a, b := shape.Methods[i], shape.Methods[j]
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return len(a.Params) < len(b.Params)
	})
	return shape
}

func fieldShape(ctx *sema.Context, f *types.FieldDecl, class bool) FieldShape {
	return FieldShape{
		Name:    ctx.Builder.Name(f.Name),
		Type:    ctx.Types.TypeString(f.Type),
		Class:   class,
		Nilable: f.Nilable,
		HasInit: f.HasInit,
	}
}

func methodShape(ctx *sema.Context, m *types.Method) MethodShape {
	shape := MethodShape{
		Name:        ctx.Builder.Name(m.Name),
		ClassLevel:  m.ClassLevel,
		Abstract:    m.Abstract,
		Synthesized: m.Synthesized,
	}
	for _, p := range m.Params {
		shape.Params = append(shape.Params, ctx.Builder.Name(p.Name)+": "+ctx.Types.TypeString(p.Type))
	}
	if m.ReturnType != types.NoTypeID {
		shape.Return = ctx.Types.TypeString(m.ReturnType)
	}
	return shape
}
