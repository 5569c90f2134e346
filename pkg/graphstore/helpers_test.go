package graphstore

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/graphbeacon/graphbeacon/pkg/gmodel"
	"github.com/graphbeacon/graphbeacon/pkg/gquery"
)

func allVerticesQuery(t *testing.T) gquery.VertexQuery {
	t.Helper()
	return gquery.VertexAll{Limit: 1000}
}

func mustType(t *testing.T, s string) gmodel.Type {
	t.Helper()
	typ, err := gmodel.NewType(s)
	require.NoError(t, err)
	return typ
}

func mustWeight(t *testing.T, w float64) gmodel.Weight {
	t.Helper()
	weight, err := gmodel.NewWeight(w)
	require.NoError(t, err)
	return weight
}
