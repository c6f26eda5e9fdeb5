package normalize

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func paths(rec *Record) []string {
	var out []string
	for _, f := range rec.Fields() {
		out = append(out, f.Path)
	}
	return out
}

func TestFlattenEmpty(t *testing.T) {
	rec := Flatten(gjson.Parse(`{}`), "")
	assert.Equal(t, 0, rec.Len())
	assert.Equal(t, "", rec.Render())
}

func TestFlattenNested(t *testing.T) {
	rec := Flatten(gjson.Parse(`{"a":{"b":1,"c":2}}`), "")
	require.Equal(t, []string{"a.b", "a.c"}, paths(rec))

	b, ok := rec.Get("a.b")
	require.True(t, ok)
	assert.Equal(t, int64(1), b.Int())
	c, ok := rec.Get("a.c")
	require.True(t, ok)
	assert.Equal(t, int64(2), c.Int())
}

func TestFlattenDepthFirstOrder(t *testing.T) {
	rec := Flatten(gjson.Parse(`{"z":1,"m":{"y":{"k":true},"x":"s"},"a":null}`), "")
	assert.Equal(t, []string{"z", "m.y.k", "m.x", "a"}, paths(rec))
	assert.Equal(t, "z:1 m.y.k:true m.x:s a:null", rec.Render())
}

func TestFlattenWithPrefix(t *testing.T) {
	rec := Flatten(gjson.Parse(`{"usd":3000}`), "ethereum")
	assert.Equal(t, []string{"ethereum.usd"}, paths(rec))
}

func TestFlattenKeepsArraysOpaque(t *testing.T) {
	rec := Flatten(gjson.Parse(`{"list":[1, {"a": 2}, "x"],"n":{"arr":[]}}`), "")
	require.Equal(t, []string{"list", "n.arr"}, paths(rec))
	assert.Equal(t, `list:[1,{"a":2},"x"] n.arr:[]`, rec.Render())
}

func TestFlattenDropsEmptyNestedObjects(t *testing.T) {
	rec := Flatten(gjson.Parse(`{"a":{},"b":1}`), "")
	assert.Equal(t, []string{"b"}, paths(rec))
}

func TestFlattenNonObjectInput(t *testing.T) {
	for _, raw := range []string{`[1,2]`, `5`, `"str"`, `null`} {
		assert.Equal(t, 0, Flatten(gjson.Parse(raw), "").Len(), raw)
	}
}

func TestFlattenCollidingPathKeepsFirstPosition(t *testing.T) {
	rec := Flatten(gjson.Parse(`{"a.b":1,"c":0,"a":{"b":2}}`), "")
	assert.Equal(t, []string{"a.b", "c"}, paths(rec))
	assert.Equal(t, "a.b:2 c:0", rec.Render())
}

func TestFlattenIsIdempotentOnFlatInput(t *testing.T) {
	first := Flatten(gjson.Parse(`{"a":{"b":1,"c":{"d":"x"}},"e":[1,{"f":2}],"g":false,"h":null}`), "")

	var sb strings.Builder
	sb.WriteByte('{')
	for i, f := range first.Fields() {
		if i > 0 {
			sb.WriteByte(',')
		}
		key, err := json.Marshal(f.Path)
		require.NoError(t, err)
		sb.Write(key)
		sb.WriteByte(':')
		sb.WriteString(f.Value.Raw)
	}
	sb.WriteByte('}')

	second := Flatten(gjson.Parse(sb.String()), "")
	assert.Equal(t, paths(first), paths(second))
	for i, f := range second.Fields() {
		assert.Equal(t, first.Fields()[i].Value.Raw, f.Value.Raw, f.Path)
		assert.False(t, f.Value.IsObject(), f.Path)
	}
	assert.Equal(t, first.Render(), second.Render())
}

func TestFlattenOutputHasNoObjects(t *testing.T) {
	rec := Flatten(gjson.Parse(`{"a":{"b":{"c":{"d":{"e":1}}},"f":[{"g":1}]},"h":{"i":"j"}}`), "")
	for _, f := range rec.Fields() {
		assert.False(t, f.Value.IsObject(), f.Path)
	}
	assert.Equal(t, []string{"a.b.c.d.e", "a.f", "h.i"}, paths(rec))
}

func TestScalarString(t *testing.T) {
	body := gjson.Parse(`{"n":3000.50,"s":"hi there","t":true,"f":false,"z":null,"a":[ 1 , 2 ]}`)
	cases := map[string]string{
		"n": "3000.5",
		"s": "hi there",
		"t": "true",
		"f": "false",
		"z": "null",
		"a": "[1,2]",
	}
	for key, want := range cases {
		assert.Equal(t, want, ScalarString(body.Get(key)), key)
	}
	assert.Equal(t, "undefined", ScalarString(gjson.Result{}))
}

func TestNumberString(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{raw: `3000.10`, want: "3000.1"},
		{raw: `1.0`, want: "1"},
		{raw: `1E3`, want: "1000"},
		{raw: `-0`, want: "0"},
		{raw: `-0.0`, want: "0"},
		{raw: `42`, want: "42"},
		{raw: `0.000001`, want: "0.000001"},
		{raw: `1e-7`, want: "1e-7"},
		{raw: `1.5e-10`, want: "1.5e-10"},
		{raw: `123e18`, want: "123000000000000000000"},
		{raw: `1e21`, want: "1e+21"},
		{raw: `-2.5E+22`, want: "-2.5e+22"},
		{raw: `9007199254740993`, want: "9007199254740993"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			v := gjson.Parse(`{"usd":` + tt.raw + `}`).Get("usd")
			assert.Equal(t, tt.want, NumberString(v))
		})
	}
}

func TestExtractRendersCanonicalNumbers(t *testing.T) {
	assert.Equal(t, "usd:3000.1 eur:1", Extract(gjson.Parse(`{"usd":3000.10,"eur":1.0}`), ""))
}
