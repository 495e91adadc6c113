package schemafile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gomodel "github.com/reoring/gomodel"
	g "github.com/reoring/gomodel/dsl"
)

const people = `
models:
  - name: Address
    fields:
      - {name: city, type: str, constraints: {min_length: 1}}
      - {name: zip, type: "str | None"}
      - {name: country, type: str, required: false}
  - name: Person
    title: A Person
    config: {extra: forbid, str_strip: true, validate_assignment: true}
    fields:
      - name: first_name
        type: str
        alias: firstName
        description: given name
        constraints: {max_length: 20}
      - {name: age, type: "int | None", default: null, constraints: {ge: 0}}
      - {name: scores, type: "list[float]", default: []}
      - {name: point, type: "tuple[int, int]", required: true}
      - {name: path, type: "tuple[int, ...]", default: []}
      - {name: tags, type: "dict[str, list[str | None]]", default: {}}
      - {name: home, type: Address}
      - {name: work, type: "Address | None", default: null}
`

func TestLoad_BuildsModels(t *testing.T) {
	reg, err := Load([]byte(people))
	require.NoError(t, err)
	assert.Equal(t, []string{"Address", "Person"}, reg.Names())

	person, ok := reg.Get("Person")
	require.True(t, ok)
	assert.Equal(t, "A Person", person.Title())
	cfg := person.Config()
	assert.Equal(t, gomodel.ExtraForbid, cfg.Extra)
	assert.True(t, cfg.StrStrip)
	assert.True(t, cfg.ValidateAssignment)

	want := map[string]string{
		"first_name": "FieldInfo(annotation=str, required=True, alias='firstName', description='given name', metadata=[MaxLen(max_length=20)])",
		"age":        "FieldInfo(annotation=int | None, required=False, default=None, metadata=[Ge(ge=0)])",
		"scores":     "FieldInfo(annotation=list[float], required=False, default=[])",
		"point":      "FieldInfo(annotation=tuple[int, int], required=True)",
		"path":       "FieldInfo(annotation=tuple[int, ...], required=False, default=[])",
		"tags":       "FieldInfo(annotation=dict[str, list[str | None]], required=False, default={})",
		"home":       "FieldInfo(annotation=Address, required=True)",
		"work":       "FieldInfo(annotation=Address | None, required=False, default=None)",
	}
	for _, f := range person.Fields() {
		assert.Equal(t, want[f.Name], f.String(), f.Name)
	}

	addr, _ := reg.Get("Address")
	zip, ok := addr.Field("zip")
	require.True(t, ok)
	assert.True(t, zip.Nullable)
	assert.True(t, zip.Required, "a nullable field without a default is still required")
	country, _ := addr.Field("country")
	assert.Equal(t, "FieldInfo(annotation=str | None, required=False, default=None)", country.String())
}

func TestLoad_EquivalentToBuilder(t *testing.T) {
	reg, err := Load([]byte(people))
	require.NoError(t, err)
	fromFile, _ := reg.Get("Address")

	built := g.Model("Address").
		Field("city", g.Str().MinLen(1)).Required().
		Field("zip", g.Str()).Nullable().Required().
		Field("country", g.Str()).Optional().
		MustBuild()

	require.Equal(t, len(built.Fields()), len(fromFile.Fields()))
	for i, f := range built.Fields() {
		assert.Equal(t, f.String(), fromFile.Fields()[i].String())
	}
	assert.Equal(t, built.Config(), fromFile.Config())
}

func TestLoad_ValidatesInput(t *testing.T) {
	reg, err := Load([]byte(people))
	require.NoError(t, err)
	person, _ := reg.Get("Person")
	ctx := context.Background()

	inst, err := person.ValidateJSON(ctx, []byte(`{"firstName": " Ann ", "point": [1, 2], "home": {"city": "Oslo", "zip": null}}`))
	require.NoError(t, err)
	name, _ := inst.Get("first_name")
	assert.Equal(t, "Ann", name)

	_, err = person.Validate(ctx, map[string]any{"firstName": "Ann", "point": []any{1, 2}, "home": map[string]any{"city": "", "zip": nil}, "x": 1})
	iss, ok := gomodel.AsIssues(err)
	require.True(t, ok)
	assert.Equal(t, []string{gomodel.CodeTooShort, gomodel.CodeExtraForbidden}, iss.Codes())
	assert.Equal(t, "/home/city", iss[0].Path)
}

func TestLoad_Errors(t *testing.T) {
	cases := map[string]string{
		"empty":         `models: []`,
		"bad yaml":      "models: [\n",
		"unknown key":   `models: [{name: A, fields: [{name: a, type: int, requird: true}]}]`,
		"unknown type":  `models: [{name: A, fields: [{name: a, type: Missing}]}]`,
		"bad generic":   `models: [{name: A, fields: [{name: a, type: "list[int"}]}]`,
		"dict key":      `models: [{name: A, fields: [{name: a, type: "dict[int, str]"}]}]`,
		"bad variadic":  `models: [{name: A, fields: [{name: a, type: "tuple[int, str, ...]"}]}]`,
		"extra policy":  `models: [{name: A, config: {extra: sometimes}, fields: []}]`,
		"required+dflt": `models: [{name: A, fields: [{name: a, type: int, required: true, default: 1}]}]`,
		"duplicate":     `models: [{name: A, fields: []}, {name: A, fields: []}]`,
		"bad pattern":   `models: [{name: A, fields: [{name: a, type: str, constraints: {pattern: "("}}]}]`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestParseType(t *testing.T) {
	addr := g.Model("Address").Field("city", g.Str()).Required().MustBuild()
	models := map[string]*gomodel.Schema{"Address": addr}
	cases := []struct {
		in       string
		want     string
		nullable bool
	}{
		{"str", "str", false},
		{"int|None", "int", true},
		{"list", "list[any]", false},
		{"list[ list[int] ]", "list[list[int]]", false},
		{"tuple[int, str | None]", "tuple[int, str | None]", false},
		{"tuple[float, ...]", "tuple[float, ...]", false},
		{"dict[str, Address | None] | None", "dict[str, Address | None]", true},
	}
	for _, c := range cases {
		tb, nullable, err := parseType(c.in, models)
		require.NoError(t, err, c.in)
		assert.Equal(t, c.want, tb.String(), c.in)
		assert.Equal(t, c.nullable, nullable, c.in)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "defs.yaml")
	require.NoError(t, os.WriteFile(path, []byte(people), 0o600))
	reg, err := LoadFile(path)
	require.NoError(t, err)
	_, ok := reg.Get("Person")
	assert.True(t, ok)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
