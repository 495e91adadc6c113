package openapi_test

import (
	"context"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gomodel "github.com/reoring/gomodel"
	g "github.com/reoring/gomodel/dsl"
	"github.com/reoring/gomodel/openapi"
)

func models() (*gomodel.Schema, *gomodel.Schema) {
	addr := g.Model("Address").
		Field("city", g.Str().MinLen(1)).Required().
		MustBuild()
	user := g.Model("User").
		Field("id", g.Int().Gt(0)).Required().
		Field("name", g.Str().MaxLen(10).Pattern("^[a-z]+$")).Default("anon").
		Field("tags", g.List(g.Str()).MaxLen(3)).Default([]any{}).
		Field("scores", g.Dict(g.Float().Ge(0))).Default(map[string]any{}).
		Field("point", g.Tuple(g.Float(), g.Float())).Optional().
		Field("home", g.Nested(addr)).Required().
		Field("work", g.Nested(addr)).Optional().
		ExtraForbid().
		MustBuild()
	return addr, user
}

func TestSchema_Keywords(t *testing.T) {
	_, user := models()
	ref := openapi.Schema(user)
	require.NotNil(t, ref.Value)
	s := ref.Value

	assert.Equal(t, "User", s.Title)
	assert.ElementsMatch(t, []string{"id", "home"}, s.Required)
	require.NotNil(t, s.AdditionalProperties.Has)
	assert.False(t, *s.AdditionalProperties.Has)

	id := s.Properties["id"].Value
	assert.True(t, id.Type.Is("integer"))
	require.NotNil(t, id.Min)
	assert.Equal(t, 0.0, *id.Min)
	assert.True(t, id.ExclusiveMin)

	name := s.Properties["name"].Value
	require.NotNil(t, name.MaxLength)
	assert.Equal(t, uint64(10), *name.MaxLength)
	assert.Equal(t, "^[a-z]+$", name.Pattern)
	assert.Equal(t, "anon", name.Default)

	tags := s.Properties["tags"].Value
	require.NotNil(t, tags.MaxItems)
	assert.Equal(t, uint64(3), *tags.MaxItems)
	assert.True(t, tags.Items.Value.Type.Is("string"))

	scores := s.Properties["scores"].Value
	require.NotNil(t, scores.AdditionalProperties.Schema)
	assert.True(t, scores.AdditionalProperties.Schema.Value.Type.Is("number"))

	point := s.Properties["point"].Value
	assert.True(t, point.Nullable)
	assert.Equal(t, uint64(2), point.MinItems)

	home := s.Properties["home"]
	require.Len(t, home.Value.AllOf, 1)
	assert.Equal(t, openapi.RefPrefix+"Address", home.Value.AllOf[0].Ref)
	work := s.Properties["work"].Value
	assert.True(t, work.Nullable)
}

func TestSchema_ValidatesDumps(t *testing.T) {
	ctx := context.Background()
	_, user := models()
	sch := openapi.Schema(user).Value
	require.NoError(t, sch.Validate(ctx))

	inst, err := user.Validate(ctx, map[string]any{
		"id":   1,
		"home": map[string]any{"city": "Oslo"},
		"tags": []any{"a"},
	})
	require.NoError(t, err)
	b, err := inst.DumpJSON()
	require.NoError(t, err)
	var doc any
	require.NoError(t, json.Unmarshal(b, &doc))
	assert.NoError(t, sch.VisitJSON(doc))

	bad := map[string]any{"id": 0.0, "home": map[string]any{"city": ""}, "extra": true}
	assert.Error(t, sch.VisitJSON(bad))
}

func TestComponents(t *testing.T) {
	addr, user := models()
	c := openapi.Components(user, addr)
	require.Len(t, c.Schemas, 2)
	assert.Equal(t, "Address", c.Schemas["Address"].Value.Title)
	assert.Contains(t, c.Schemas["User"].Value.Properties, "home")
	require.NoError(t, c.Validate(context.Background()))

	b, err := json.Marshal(c.Schemas["User"].Value.Properties["home"])
	require.NoError(t, err)
	assert.JSONEq(t, `{"allOf":[{"$ref":"#/components/schemas/Address"}]}`, string(b))
}
