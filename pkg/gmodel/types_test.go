package gmodel

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewType(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"non-empty", "person", false},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			typ, err := NewType(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrEmptyType)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, Type(tt.input), typ)
		})
	}
}

func TestEmptyTypeSentinel_NeverEqualsConstructedType(t *testing.T) {
	sentinel := EmptyTypeSentinel()
	assert.Equal(t, Type(""), sentinel)

	_, err := NewType(string(sentinel))
	assert.ErrorIs(t, err, ErrEmptyType, "the sentinel value must still be rejected by NewType")
}

func TestNewWeight(t *testing.T) {
	tests := []struct {
		name    string
		input   float64
		wantErr bool
	}{
		{"lower bound", -1.0, false},
		{"upper bound", 1.0, false},
		{"zero", 0.0, false},
		{"below range", -1.01, true},
		{"above range", 1.01, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := NewWeight(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrWeightOutOfRange)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.input, w.Float64())
		})
	}
}

func TestEdgeKey_Compare(t *testing.T) {
	a := NewParentUUID()
	b := NewParentUUID()
	if b.Less(a) {
		a, b = b, a
	}

	lowType, _ := NewType("knows")
	highType, _ := NewType("owns")

	k1 := NewEdgeKey(a, lowType, b)
	k2 := NewEdgeKey(a, highType, b)
	k3 := NewEdgeKey(b, lowType, a)

	assert.Equal(t, -1, k1.Compare(k2), "same outbound/inbound, lower type sorts first")
	assert.Equal(t, -1, k1.Compare(k3), "lower outbound id sorts first")
	assert.True(t, k1.Less(k2))
	assert.Equal(t, 0, k1.Compare(k1))
}

func TestNewVertex(t *testing.T) {
	id := NewParentUUID()
	owner := NewParentUUID()
	typ, _ := NewType("person")

	v := NewVertex(id, VertexValue{OwnerID: owner, T: typ})
	assert.Equal(t, id, v.ID)
	assert.Equal(t, typ, v.T)
}

func TestEdge_FieldsPreserved(t *testing.T) {
	key := NewEdgeKey(NewParentUUID(), Type("knows"), NewParentUUID())
	weight, err := NewWeight(0.5)
	require.NoError(t, err)
	now := time.Now()

	e := Edge{Key: key, Weight: weight, UpdateDatetime: now}
	assert.Equal(t, key, e.Key)
	assert.Equal(t, weight, e.Weight)
	assert.True(t, now.Equal(e.UpdateDatetime))
}
