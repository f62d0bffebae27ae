package featurize

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExample_SetAndGet(t *testing.T) {
	var e Example
	e.Set("a", "1")
	e.Set("b", "2")
	e.Set("a", "3")

	assert.Equal(t, []string{"a", "b"}, e.Keys())
	assert.Equal(t, 2, e.Len())
	v, ok := e.Get("a")
	require.True(t, ok)
	assert.Equal(t, "3", v)

	_, ok = e.Get("missing")
	assert.False(t, ok)
}

func TestExample_JSONPreservesOrder(t *testing.T) {
	in := `{"targets":"positive","id":[1,2,3],"inputs":"imdb","meta":{"k":null}}`

	var e Example
	require.NoError(t, json.Unmarshal([]byte(in), &e))

	assert.Equal(t, []string{"targets", "id", "inputs", "meta"}, e.Keys())
	v, _ := e.Get("targets")
	assert.Equal(t, "positive", v)
	v, _ = e.Get("id")
	assert.Equal(t, json.RawMessage(`[1,2,3]`), v)

	out, err := json.Marshal(e)
	require.NoError(t, err)
	assert.Equal(t, in, string(out))
}

func TestExample_MarshalTokenized(t *testing.T) {
	e := Example{
		{Name: "inputs", Value: []int32{3, 8}},
		{Name: "inputs_pretokenized", Value: "i"},
	}

	out, err := json.Marshal(e)
	require.NoError(t, err)
	assert.Equal(t, `{"inputs":[3,8],"inputs_pretokenized":"i"}`, string(out))
}

func TestExample_UnmarshalRejectsNonObject(t *testing.T) {
	for _, in := range []string{`[1,2]`, `"text"`, `{"a":`} {
		var e Example
		assert.Error(t, json.Unmarshal([]byte(in), &e), in)
	}
}
