package gomodel_test

import (
	"testing"

	"github.com/goccy/go-json"

	g "github.com/reoring/gomodel/dsl"
	js "github.com/reoring/gomodel/jsonschema"
)

func TestJSONSchema(t *testing.T) {
	addr := g.Model("Address").Field("city", g.Str()).Required().MustBuild()
	user := g.Model("User").
		Field("id", g.Int().Gt(0)).Required().
		Field("name", g.Str().MaxLen(10)).Default("anon").
		Field("tags", g.List(g.Str())).Default([]any{}).
		Field("home", g.Nested(addr)).Optional().
		ExtraForbid().
		MustBuild()

	sch, err := user.JSONSchema()
	if err != nil {
		t.Fatalf("json schema: %v", err)
	}
	b, err := json.Marshal(sch)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"$defs":{"Address":{"type":"object","title":"Address","properties":{"city":{"type":"string","title":"City"}},"required":["city"]}},` +
		`"type":"object","title":"User","properties":{` +
		`"id":{"type":"integer","title":"Id","exclusiveMinimum":0},` +
		`"name":{"type":"string","title":"Name","default":"anon","maxLength":10},` +
		`"tags":{"type":"array","title":"Tags","default":[],"items":{"type":"string"}},` +
		`"home":{"anyOf":[{"$ref":"#/$defs/Address"},{"type":"null"}],"title":"Home","default":null}},` +
		`"required":["id"],"additionalProperties":false}`
	if string(b) != want {
		t.Fatalf("unexpected schema:\n got %s\nwant %s", b, want)
	}
}

func TestJSONSchema_ContainersAndAliases(t *testing.T) {
	s := g.Model("Shape").
		Field("corner", g.Tuple(g.Float(), g.Float())).Alias("cornerPoint").Title("Corner").Required().
		Field("path", g.TupleOf(g.Int())).Required().
		Field("weights", g.Dict(g.Float().Nullable()).MinLen(1)).Required().
		Field("code", g.Str().Pattern("^[A-Z]+$")).Description("upper-case code").Required().
		Title("A Shape").
		ExtraAllow().
		MustBuild()

	sch, err := s.JSONSchema()
	if err != nil {
		t.Fatalf("json schema: %v", err)
	}
	if sch.Title != "A Shape" || sch.AdditionalProperties != true {
		t.Fatalf("unexpected root: %+v", sch)
	}
	if got := sch.PropertyOrder; len(got) != 4 || got[0] != "cornerPoint" {
		t.Fatalf("properties should use input keys in declaration order: %v", got)
	}
	corner := sch.Properties["cornerPoint"]
	if corner.Title != "Corner" || len(corner.PrefixItems) != 2 || *corner.MinItems != 2 || *corner.MaxItems != 2 {
		t.Fatalf("unexpected tuple schema: %+v", corner)
	}
	if path := sch.Properties["path"]; path.Items == nil || path.Items.Type != "integer" || path.PrefixItems != nil {
		t.Fatalf("unexpected variadic tuple schema: %+v", path)
	}
	weights := sch.Properties["weights"]
	ap, ok := weights.AdditionalProperties.(*js.Schema)
	if !ok || len(ap.AnyOf) != 2 || *weights.MinProperties != 1 {
		t.Fatalf("unexpected dict schema: %+v", weights)
	}
	if code := sch.Properties["code"]; code.Pattern != "^[A-Z]+$" || code.Description != "upper-case code" {
		t.Fatalf("unexpected string schema: %+v", code)
	}
}

func TestJSONSchema_TitleFromMultibyteName(t *testing.T) {
	s := g.Model("Word").Field("élan_vital", g.Str()).Required().MustBuild()
	sch, err := s.JSONSchema()
	if err != nil {
		t.Fatalf("json schema: %v", err)
	}
	if got := sch.Properties["élan_vital"].Title; got != "Élan Vital" {
		t.Fatalf("unexpected title %q", got)
	}
}
