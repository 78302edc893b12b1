package patch_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/entityhub/pkg/patch"
)

type address struct {
	City string `json:"city"`
	Zip  string `json:"zip,omitempty"`
}

type order struct {
	ID      string   `json:"id"`
	Status  string   `json:"status"`
	Tags    []string `json:"tags,omitempty"`
	Address address  `json:"address"`
	Note    *string  `json:"note,omitempty"`
}

func TestDiff(t *testing.T) {
	t.Parallel()

	note := "leave at door"

	tests := []struct {
		name   string
		before any
		after  any
		want   []patch.Operation
	}{
		{
			name:   "identical values",
			before: order{ID: "42", Status: "new"},
			after:  order{ID: "42", Status: "new"},
			want:   nil,
		},
		{
			name:   "scalar field replaced",
			before: order{ID: "42", Status: "new"},
			after:  order{ID: "42", Status: "paid"},
			want:   []patch.Operation{{Op: patch.OpReplace, Path: "/status", Value: "paid"}},
		},
		{
			name:   "nested field replaced",
			before: order{ID: "42", Address: address{City: "Berlin"}},
			after:  order{ID: "42", Address: address{City: "Paris"}},
			want:   []patch.Operation{{Op: patch.OpReplace, Path: "/address/city", Value: "Paris"}},
		},
		{
			name:   "optional field added and removed",
			before: order{ID: "42", Address: address{Zip: "10115"}},
			after:  order{ID: "42", Note: &note},
			want: []patch.Operation{
				{Op: patch.OpRemove, Path: "/address/zip"},
				{Op: patch.OpAdd, Path: "/note", Value: note},
			},
		},
		{
			name:   "array replaced whole",
			before: order{ID: "42", Tags: []string{"a"}},
			after:  order{ID: "42", Tags: []string{"a", "b"}},
			want:   []patch.Operation{{Op: patch.OpReplace, Path: "/tags", Value: []any{"a", "b"}}},
		},
		{
			name:   "root scalar",
			before: 1,
			after:  2,
			want:   []patch.Operation{{Op: patch.OpReplace, Path: "", Value: float64(2)}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			changes, err := patch.Diff(tt.before, tt.after)
			require.NoError(t, err)
			assert.Equal(t, tt.want, changes.ToPatch())
			assert.Equal(t, len(tt.want) == 0, changes.Empty())
		})
	}
}

func TestDiff_UnsupportedValue(t *testing.T) {
	t.Parallel()

	_, err := patch.Diff(math.Inf(1), 0)
	assert.ErrorIs(t, err, patch.ErrUnsupportedValue)
}

func TestPointer(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", patch.Pointer())
	assert.Equal(t, "/a/b", patch.Pointer("a", "b"))
	assert.Equal(t, "/a~1b/c~0d", patch.Pointer("a/b", "c~d"))
}

func TestChanges_ToPatchJSON(t *testing.T) {
	t.Parallel()

	changes := patch.Changes{
		{Kind: patch.OpReplace, Path: []string{"status"}, Value: "paid"},
		{Kind: patch.OpRemove, Path: []string{"note"}, Value: "ignored"},
	}

	data, err := json.Marshal(changes.ToPatch())
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"op":"replace","path":"/status","value":"paid"},
		{"op":"remove","path":"/note"}
	]`, string(data))

	assert.Nil(t, patch.Changes{}.ToPatch())

	t.Run("null value is kept", func(t *testing.T) {
		t.Parallel()
		type memo struct {
			Note *string `json:"note"`
		}
		note := "gift"
		changes, err := patch.Diff(memo{Note: &note}, memo{})
		require.NoError(t, err)

		data, err := json.Marshal(changes.ToPatch())
		require.NoError(t, err)
		assert.JSONEq(t, `[{"op":"replace","path":"/note","value":null}]`, string(data))

		data, err = json.Marshal(patch.Operation{Op: patch.OpAdd, Path: "/note"})
		require.NoError(t, err)
		assert.JSONEq(t, `{"op":"add","path":"/note","value":null}`, string(data))
	})
}
