package gq

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	o := NewObject()
	o.Set("b", "2")
	o.Set("a", nil)
	o.Set("c", []Value{Value("x"), nil})
	o.Set("d", []string{"one", "two"})
	o.Set("e", []Value{})

	bs, err := Render(o)
	require.NoError(t, err)
	require.Equal(t, `{"b":"2","a":null,"c":["x",null],"d":["one","two"],"e":[]}`, string(bs))
}

func TestRenderEscaping(t *testing.T) {
	o := NewObject()
	o.Set(`k"ey`, "line\nbreak \"quoted\"")
	bs, err := Render(o)
	require.NoError(t, err)
	require.Equal(t, `{"k\"ey":"line\nbreak \"quoted\""}`, string(bs))
}

func TestRenderNested(t *testing.T) {
	inner := NewObject()
	inner.Set("t", "A")
	o := NewObject()
	o.Set("select", []Value{Value(inner)})
	bs, err := Render(o)
	require.NoError(t, err)
	require.Equal(t, `{"select":[{"t":"A"}]}`, string(bs))
}

// Object implements json.Marshaler so the result also keeps field order
// when embedded in values serialized with encoding/json.
func TestObjectMarshalJSON(t *testing.T) {
	o := NewObject()
	o.Set("z", "1")
	o.Set("a", "2")
	bs, err := json.Marshal(o)
	require.NoError(t, err)
	require.Equal(t, `{"z":"1","a":"2"}`, string(bs))

	v, ok := o.Get("z")
	require.True(t, ok)
	require.Equal(t, Value("1"), v)
	require.Equal(t, []string{"z", "a"}, o.Keys())
}
