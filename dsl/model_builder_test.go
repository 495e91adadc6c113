package dsl_test

import (
	"context"
	"errors"
	"testing"

	gomodel "github.com/reoring/gomodel"
	g "github.com/reoring/gomodel/dsl"
)

func TestModelBuilder_RequiredDefaultOptional(t *testing.T) {
	ctx := context.Background()
	s := g.Model("User").
		Field("id", g.Int()).Required().
		Field("name", g.Str()).Default("anon").
		Field("nickname", g.Str()).Optional().
		MustBuild()

	fields := s.Fields()
	if len(fields) != 3 {
		t.Fatalf("expected 3 fields, got %d", len(fields))
	}
	if !fields[0].Required || fields[1].Required || !fields[1].HasDefault {
		t.Fatalf("unexpected required/default flags: %+v", fields)
	}
	if !fields[2].Nullable || fields[2].Default != nil || !fields[2].HasDefault {
		t.Fatalf("Optional should be nullable with null default: %+v", fields[2])
	}

	inst, err := s.Validate(ctx, map[string]any{"id": 1})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if v, _ := inst.Get("name"); v != "anon" {
		t.Fatalf("expected default name, got %v", v)
	}
	if v, ok := inst.Get("nickname"); !ok || v != nil {
		t.Fatalf("expected null nickname, got %v", v)
	}

	_, err = s.Validate(ctx, map[string]any{})
	var missing *gomodel.MissingFieldError
	if !errors.As(err, &missing) || missing.Field != "id" {
		t.Fatalf("expected MissingFieldError for id, got %v", err)
	}
}

func TestModelBuilder_ConfigToggles(t *testing.T) {
	s := g.Model("Cfg").
		Field("x", g.Int()).Required().
		ExtraForbid().
		Strict().
		ValidateDefault().
		ValidateAssignment().
		Frozen().
		StrStrip().
		StrToLower().
		StrToUpper().
		CoerceNumbersToStr().
		PopulateByName().
		Title("Config Model").
		MustBuild()

	want := gomodel.Config{
		Title:              "Config Model",
		Extra:              gomodel.ExtraForbid,
		Strict:             true,
		ValidateDefault:    true,
		ValidateAssignment: true,
		Frozen:             true,
		StrStrip:           true,
		StrToUpper:         true,
		StrToLower:         true,
		CoerceNumbersToStr: true,
		PopulateByName:     true,
	}
	if got := s.Config(); got != want {
		t.Fatalf("config mismatch:\n got %+v\nwant %+v", got, want)
	}
	if s.Title() != "Config Model" {
		t.Fatalf("unexpected title %q", s.Title())
	}
}

func TestTypeBuilder_ReusableConstrainedTypes(t *testing.T) {
	ctx := context.Background()
	bounded := g.Int().Ge(0).Le(100)
	s := g.Model("Scores").
		Field("a", bounded).Required().
		Field("b", bounded.Gt(10)).Required().
		Field("items", g.List(bounded).MaxLen(3)).Default([]any{}).
		MustBuild()

	// the Gt(10) on b must not leak into a
	if got := len(s.Fields()[0].Constraints()); got != 2 {
		t.Fatalf("expected 2 constraints on a, got %d", got)
	}
	if got := s.Fields()[1].String(); got != "FieldInfo(annotation=int, required=True, metadata=[Ge(ge=0), Le(le=100), Gt(gt=10)])" {
		t.Fatalf("unexpected field info %q", got)
	}
	if got := s.Fields()[2].Annotation(); got != "list[int]" {
		t.Fatalf("unexpected annotation %q", got)
	}

	_, err := s.Validate(ctx, map[string]any{"a": 5, "b": 5, "items": []any{1, 200, 3, 4}})
	iss, ok := gomodel.AsIssues(err)
	if !ok {
		t.Fatalf("expected issues, got %v", err)
	}
	got := map[string]string{}
	for _, it := range iss {
		got[it.Path] = it.Code
	}
	want := map[string]string{
		"/b":       gomodel.CodeGreaterThan,
		"/items/1": gomodel.CodeLessThanEqual,
	}
	for p, c := range want {
		if got[p] != c {
			t.Fatalf("expected %s at %s, got %v", c, p, iss)
		}
	}
	// list length is checked only after the elements validate
	if len(iss) != 2 {
		t.Fatalf("expected 2 issues, got %v", iss)
	}
}

func TestTypeBuilder_Annotations(t *testing.T) {
	cases := []struct {
		b    g.TypeBuilder
		want string
	}{
		{g.Str(), "str"},
		{g.List(g.Int()), "list[int]"},
		{g.Tuple(g.Int(), g.Str()), "tuple[int, str]"},
		{g.TupleOf(g.Float()), "tuple[float, ...]"},
		{g.Dict(g.Int().Nullable()), "dict[str, int | None]"},
		{g.Any(), "any"},
	}
	for _, c := range cases {
		if got := c.b.String(); got != c.want {
			t.Fatalf("annotation: got %q want %q", got, c.want)
		}
	}
}

func TestModelBuilder_DefinitionErrors(t *testing.T) {
	if _, err := g.Model("Dup").Field("a", g.Int()).Required().Field("a", g.Str()).Required().Build(); err == nil {
		t.Fatalf("expected duplicate field error")
	}
	if _, err := g.Model("BadPattern").Field("a", g.Str().Pattern("(")).Required().Build(); err == nil {
		t.Fatalf("expected invalid pattern error")
	}
	_, err := g.Model("Mismatch").Field("a", g.Int().Pattern("x")).Required().Build()
	var se *gomodel.SchemaError
	if !errors.As(err, &se) || se.Field != "a" {
		t.Fatalf("expected SchemaError for a, got %v", err)
	}
	if _, err := g.Model("Alias").Field("a", g.Int()).Alias("b").Required().Field("b", g.Int()).Required().Build(); err == nil {
		t.Fatalf("expected input key collision error")
	}
}

func TestModelBuilder_AliasAndPopulateByName(t *testing.T) {
	ctx := context.Background()
	s := g.Model("Item").
		Field("item_id", g.Int()).Alias("itemId").Required().
		MustBuild()
	if _, err := s.Validate(ctx, map[string]any{"itemId": 1}); err != nil {
		t.Fatalf("alias input should pass: %v", err)
	}
	if _, err := s.Validate(ctx, map[string]any{"item_id": 1}); err == nil {
		t.Fatalf("field name should not be accepted without PopulateByName")
	}

	s2 := g.Model("Item").
		Field("item_id", g.Int()).Alias("itemId").Required().
		PopulateByName().
		MustBuild()
	inst, err := s2.Validate(ctx, map[string]any{"item_id": 7})
	if err != nil {
		t.Fatalf("field name should be accepted with PopulateByName: %v", err)
	}
	out := inst.Dump(gomodel.ByAlias())
	if out["itemId"] != int64(7) {
		t.Fatalf("expected aliased dump, got %v", out)
	}
}
