package graphwire

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graphbeacon/graphbeacon/pkg/gmodel"
	"github.com/graphbeacon/graphbeacon/pkg/gquery"
)

func TestDecodeConverter(t *testing.T) {
	out, err := decodeConverter("outbound")
	require.NoError(t, err)
	assert.Equal(t, gquery.Outbound, out)

	out, err = decodeConverter("inbound")
	require.NoError(t, err)
	assert.Equal(t, gquery.Inbound, out)

	_, err = decodeConverter("sideways")
	assert.ErrorIs(t, err, ErrDecode)
}

func TestDecodeEdgeKey_RoundTrip(t *testing.T) {
	key := gmodel.NewEdgeKey(gmodel.NewParentUUID(), gmodel.Type("knows"), gmodel.NewParentUUID())
	wire := encodeEdgeKey(key)

	decoded, err := decodeEdgeKey(wire)
	require.NoError(t, err)
	assert.Equal(t, key, decoded)
}

func TestDecodeVertexQuery_AllVariants(t *testing.T) {
	startID := gmodel.NewParentUUID().String()
	q, err := decodeVertexQuery(WireVertexQuery{All: &WireVertexAll{StartID: &startID, Limit: 5}})
	require.NoError(t, err)
	all, ok := q.(gquery.VertexAll)
	require.True(t, ok)
	assert.EqualValues(t, 5, all.Limit)
	require.NotNil(t, all.StartID)

	id := gmodel.NewParentUUID().String()
	q, err = decodeVertexQuery(WireVertexQuery{ByIDs: &WireVertexByIDs{IDs: []string{id}}})
	require.NoError(t, err)
	byIDs, ok := q.(gquery.VertexByIDs)
	require.True(t, ok)
	require.Len(t, byIDs.IDs, 1)

	_, err = decodeVertexQuery(WireVertexQuery{})
	assert.ErrorIs(t, err, ErrDecode)
}

func TestDecodeEdgeQuery_PipeWithFilters(t *testing.T) {
	typeFilter := "knows"
	high := time.Now().UTC().Format(time.RFC3339)
	idStr := gmodel.NewParentUUID().String()

	q, err := decodeEdgeQuery(WireEdgeQuery{Pipe: &WireEdgePipe{
		VertexQuery: WireVertexQuery{ByIDs: &WireVertexByIDs{IDs: []string{idStr}}},
		Converter:   "inbound",
		TypeFilter:  &typeFilter,
		HighFilter:  &high,
		Limit:       3,
	}})
	require.NoError(t, err)

	pipe, ok := q.(gquery.EdgePipe)
	require.True(t, ok)
	assert.Equal(t, gquery.Inbound, pipe.Converter)
	require.NotNil(t, pipe.TypeFilter)
	assert.Equal(t, gmodel.Type("knows"), *pipe.TypeFilter)
	require.NotNil(t, pipe.HighFilter)
	assert.EqualValues(t, 3, pipe.Limit)
}

func TestDecodeOptionalTime_Nil(t *testing.T) {
	got, err := decodeOptionalTime(nil)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDecodeOptionalTime_Invalid(t *testing.T) {
	bad := "not-a-timestamp"
	_, err := decodeOptionalTime(&bad)
	assert.ErrorIs(t, err, ErrDecode)
}

func TestEncodeVertexAndEdge(t *testing.T) {
	v := gmodel.Vertex{ID: gmodel.NewParentUUID(), T: gmodel.Type("person")}
	wv := encodeVertex(v)
	assert.Equal(t, v.ID.String(), wv.ID)
	assert.Equal(t, "person", wv.Type)

	e := gmodel.Edge{
		Key:            gmodel.NewEdgeKey(gmodel.NewParentUUID(), gmodel.Type("knows"), gmodel.NewParentUUID()),
		Weight:         0.25,
		UpdateDatetime: time.Now(),
	}
	we := encodeEdge(e)
	assert.Equal(t, e.Weight.Float64(), we.Weight)
	assert.Equal(t, e.Key.OutboundID.String(), we.Key.OutboundID)
}
