package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const defs = `
models:
  - name: Item
    fields:
      - {name: sku, type: str, constraints: {min_length: 2}}
      - {name: qty, type: int, default: 1, constraints: {ge: 1}}
  - name: Order
    config: {extra: forbid}
    fields:
      - {name: order_id, type: int, alias: orderId}
      - {name: items, type: "list[Item]", default: []}
      - {name: note, type: "str | None", default: null}
`

func writeDefs(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "defs.yaml")
	require.NoError(t, os.WriteFile(path, []byte(defs), 0o600))
	return path
}

func run(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code := Run(context.Background(), args, strings.NewReader(stdin), &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestValidate_Stdin(t *testing.T) {
	path := writeDefs(t)
	code, out, _ := run(t, `{"orderId": "7", "items": [{"sku": "AB"}]}`,
		"validate", "-s", path, "-m", "Order", "--indent", "0")
	require.Equal(t, 0, code)
	assert.Equal(t, `{"order_id":7,"items":[{"sku":"AB","qty":1}],"note":null}`+"\n", out)
}

func TestValidate_Options(t *testing.T) {
	path := writeDefs(t)
	code, out, _ := run(t, `{"orderId": 7}`,
		"validate", "-s", path, "-m", "Order", "--indent", "0", "--by-alias", "--exclude-unset", "-")
	require.Equal(t, 0, code)
	assert.Equal(t, `{"orderId":7}`+"\n", out)

	code, out, _ = run(t, "orderId: 7\nnote: hi\n",
		"validate", "-s", path, "-m", "Order", "--format", "yaml", "-o", "yaml", "--exclude-none")
	require.Equal(t, 0, code)
	assert.Equal(t, "order_id: 7\nitems: []\nnote: hi\n", out)
}

func TestValidate_FileInput(t *testing.T) {
	path := writeDefs(t)
	doc := filepath.Join(t.TempDir(), "order.yml")
	require.NoError(t, os.WriteFile(doc, []byte("orderId: 3\n"), 0o600))
	code, out, _ := run(t, "", "validate", "-s", path, "-m", "Order", "--indent", "0", doc)
	require.Equal(t, 0, code)
	assert.Equal(t, `{"order_id":3,"items":[],"note":null}`+"\n", out)
}

func TestValidate_Invalid(t *testing.T) {
	path := writeDefs(t)
	code, out, errOut := run(t, `{"items": [{"sku": "A", "qty": 0}], "x": 1}`,
		"validate", "-s", path, "-m", "Order")
	assert.Equal(t, 1, code)
	assert.Empty(t, out)
	assert.True(t, strings.HasPrefix(errOut, "4 validation errors for Order\n"), errOut)
	assert.Contains(t, errOut, "items.0.sku\n")
	assert.Contains(t, errOut, "[type=extra_forbidden")
	assert.NotContains(t, errOut, "error:")
}

func TestValidate_Strict(t *testing.T) {
	path := writeDefs(t)
	code, _, errOut := run(t, `{"orderId": "7"}`, "validate", "-s", path, "-m", "Order", "--strict")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "[type=int_type")
}

func TestValidate_DuplicateKeys(t *testing.T) {
	path := writeDefs(t)
	code, _, errOut := run(t, `{"orderId": 1, "orderId": 2}`, "validate", "-s", path, "-m", "Order", "--dup-keys", "error")
	assert.Equal(t, 1, code)
	assert.True(t, strings.HasPrefix(errOut, "error: decode json at /orderId: "), errOut)
	assert.Contains(t, errOut, "key 'orderId' duplicated")

	code, out, errOut := run(t, `{"orderId": 1, "orderId": 2}`,
		"validate", "-s", path, "-m", "Order", "--dup-keys", "warn", "--indent", "0", "--exclude-unset")
	require.Equal(t, 0, code)
	assert.Equal(t, `{"order_id":2}`+"\n", out)
	assert.Contains(t, errOut, "level=WARN")
}

func TestValidate_Verbose(t *testing.T) {
	path := writeDefs(t)
	code, _, errOut := run(t, `{"orderId": 1}`, "-v", "validate", "-s", path, "-m", "Order")
	require.Equal(t, 0, code)
	assert.Contains(t, errOut, "loaded definitions")
	assert.Contains(t, errOut, "model=Order")
}

func TestUsageErrors(t *testing.T) {
	path := writeDefs(t)
	cases := map[string][]string{
		"no schema":     {"validate"},
		"ambiguous":     {"validate", "-s", path},
		"unknown model": {"fields", "-s", path, "-m", "Nope"},
		"bad format":    {"schema", "-s", path, "-m", "Order", "--format", "xml"},
		"bad dup-keys":  {"validate", "-s", path, "-m", "Order", "--dup-keys", "loud"},
		"missing file":  {"validate", "-s", path, "-m", "Order", filepath.Join(t.TempDir(), "none.json")},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			code, _, errOut := run(t, `{}`, args...)
			assert.Equal(t, 1, code)
			assert.True(t, strings.HasPrefix(errOut, "error: "), errOut)
		})
	}
}

func TestFields(t *testing.T) {
	path := writeDefs(t)
	code, out, _ := run(t, "", "fields", "-s", path, "-m", "Item")
	require.Equal(t, 0, code)
	assert.Equal(t, "sku: FieldInfo(annotation=str, required=True, metadata=[MinLen(min_length=2)])\n"+
		"qty: FieldInfo(annotation=int, required=False, default=1, metadata=[Ge(ge=1)])\n", out)
}

func TestSchema(t *testing.T) {
	path := writeDefs(t)
	code, out, _ := run(t, "", "schema", "-s", path, "-m", "Item", "--indent", "0")
	require.Equal(t, 0, code)
	assert.Equal(t, `{"type":"object","title":"Item","properties":{"sku":{"type":"string","title":"Sku","minLength":2},`+
		`"qty":{"type":"integer","title":"Qty","default":1,"minimum":1}},"required":["sku"]}`+"\n", out)

	code, out, _ = run(t, "", "schema", "-s", path, "-m", "Order", "--format", "openapi")
	require.Equal(t, 0, code)
	assert.Contains(t, out, `"Order"`)
	assert.Contains(t, out, `"Item"`)
	assert.Contains(t, out, `"#/components/schemas/Item"`)
}
