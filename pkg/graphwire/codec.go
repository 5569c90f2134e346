package graphwire

import (
	"fmt"
	"time"

	"github.com/graphbeacon/graphbeacon/pkg/gmodel"
	"github.com/graphbeacon/graphbeacon/pkg/gquery"
)

func decodeConverter(s string) (gquery.Converter, error) {
	switch s {
	case "outbound":
		return gquery.Outbound, nil
	case "inbound":
		return gquery.Inbound, nil
	default:
		return 0, fmt.Errorf("graphwire: decode converter %q: %w", s, ErrDecode)
	}
}

func decodeType(s string) (gmodel.Type, error) {
	t, err := gmodel.NewType(s)
	if err != nil {
		return "", err
	}
	return t, nil
}

func decodeEdgeKey(w WireEdgeKey) (gmodel.EdgeKey, error) {
	outbound, err := gmodel.ParseUUID(w.OutboundID)
	if err != nil {
		return gmodel.EdgeKey{}, fmt.Errorf("graphwire: decode edge key: %w", err)
	}
	inbound, err := gmodel.ParseUUID(w.InboundID)
	if err != nil {
		return gmodel.EdgeKey{}, fmt.Errorf("graphwire: decode edge key: %w", err)
	}
	t, err := decodeType(w.Type)
	if err != nil {
		return gmodel.EdgeKey{}, err
	}
	return gmodel.NewEdgeKey(outbound, t, inbound), nil
}

func decodeVertexQuery(w WireVertexQuery) (gquery.VertexQuery, error) {
	switch {
	case w.All != nil:
		var startID *gmodel.UUID
		if w.All.StartID != nil {
			id, err := gmodel.ParseUUID(*w.All.StartID)
			if err != nil {
				return nil, fmt.Errorf("graphwire: decode vertex query: %w", err)
			}
			startID = &id
		}
		return gquery.VertexAll{StartID: startID, Limit: w.All.Limit}, nil

	case w.ByIDs != nil:
		ids := make([]gmodel.UUID, len(w.ByIDs.IDs))
		for i, s := range w.ByIDs.IDs {
			id, err := gmodel.ParseUUID(s)
			if err != nil {
				return nil, fmt.Errorf("graphwire: decode vertex query: %w", err)
			}
			ids[i] = id
		}
		return gquery.VertexByIDs{IDs: ids}, nil

	case w.Pipe != nil:
		inner, err := decodeEdgeQuery(w.Pipe.EdgeQuery)
		if err != nil {
			return nil, err
		}
		conv, err := decodeConverter(w.Pipe.Converter)
		if err != nil {
			return nil, err
		}
		return gquery.VertexPipe{EdgeQuery: inner, Converter: conv, Limit: w.Pipe.Limit}, nil

	default:
		return nil, fmt.Errorf("graphwire: decode vertex query: no variant populated: %w", ErrDecode)
	}
}

func decodeEdgeQuery(w WireEdgeQuery) (gquery.EdgeQuery, error) {
	switch {
	case w.ByKeys != nil:
		keys := make([]gmodel.EdgeKey, len(w.ByKeys.Keys))
		for i, wk := range w.ByKeys.Keys {
			k, err := decodeEdgeKey(wk)
			if err != nil {
				return nil, err
			}
			keys[i] = k
		}
		return gquery.EdgeByKeys{Keys: keys}, nil

	case w.Pipe != nil:
		inner, err := decodeVertexQuery(w.Pipe.VertexQuery)
		if err != nil {
			return nil, err
		}
		conv, err := decodeConverter(w.Pipe.Converter)
		if err != nil {
			return nil, err
		}

		var typeFilter *gmodel.Type
		if w.Pipe.TypeFilter != nil {
			t, err := decodeType(*w.Pipe.TypeFilter)
			if err != nil {
				return nil, err
			}
			typeFilter = &t
		}

		high, err := decodeOptionalTime(w.Pipe.HighFilter)
		if err != nil {
			return nil, err
		}
		low, err := decodeOptionalTime(w.Pipe.LowFilter)
		if err != nil {
			return nil, err
		}

		return gquery.EdgePipe{
			VertexQuery: inner,
			Converter:   conv,
			TypeFilter:  typeFilter,
			HighFilter:  high,
			LowFilter:   low,
			Limit:       w.Pipe.Limit,
		}, nil

	default:
		return nil, fmt.Errorf("graphwire: decode edge query: no variant populated: %w", ErrDecode)
	}
}

func decodeOptionalTime(s *string) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, *s)
	if err != nil {
		return nil, fmt.Errorf("graphwire: decode timestamp %q: %w", *s, ErrDecode)
	}
	return &t, nil
}

func encodeVertex(v gmodel.Vertex) WireVertex {
	return WireVertex{ID: v.ID.String(), Type: string(v.T)}
}

func encodeEdgeKey(k gmodel.EdgeKey) WireEdgeKey {
	return WireEdgeKey{OutboundID: k.OutboundID.String(), Type: string(k.T), InboundID: k.InboundID.String()}
}

func encodeEdge(e gmodel.Edge) WireEdge {
	return WireEdge{
		Key:            encodeEdgeKey(e.Key),
		Weight:         e.Weight.Float64(),
		UpdateDatetime: e.UpdateDatetime.UTC().Format(time.RFC3339),
	}
}
