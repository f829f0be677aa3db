package wire

import (
	"errors"
	"fmt"
	"math"

	"github.com/specialistvlad/dpcheck/internal/analysis"
	"google.golang.org/protobuf/encoding/protowire"
)

// ErrMalformed is wrapped by every error Decode returns.
var ErrMalformed = errors.New("malformed analysis encoding")

// Decode parses an Analysis from its wire representation. data is not
// retained or modified.
func Decode(data []byte) (*analysis.Analysis, error) {
	a := &analysis.Analysis{}
	err := walk(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case analysisSchemaVersion:
			s, n, err := consumeString(num, typ, b)
			a.SchemaVersion = s
			return n, err
		case analysisNodes:
			msg, n, err := consumeMessage(num, typ, b)
			if err != nil {
				return n, err
			}
			node, err := decodeNode(msg)
			if err != nil {
				return n, fmt.Errorf("node %d: %w", len(a.Nodes), err)
			}
			a.Nodes = append(a.Nodes, node)
			return n, nil
		case analysisPrivacy:
			msg, n, err := consumeMessage(num, typ, b)
			if err != nil {
				return n, err
			}
			p, err := decodePrivacy(msg)
			if err != nil {
				return n, fmt.Errorf("privacy definition: %w", err)
			}
			a.Privacy = p
			return n, nil
		}
		return -1, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if err := CheckSchemaVersion(a.SchemaVersion); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return a, nil
}

func decodeNode(data []byte) (*analysis.Node, error) {
	n := &analysis.Node{}
	err := walk(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case nodeID:
			s, m, err := consumeString(num, typ, b)
			n.ID = s
			return m, err
		case nodeName:
			s, m, err := consumeString(num, typ, b)
			n.Name = s
			return m, err
		case nodeKind:
			v, m, err := consumeVarint(num, typ, b)
			n.Kind = analysis.Kind(enumValue(v))
			return m, err
		case nodeRelease:
			v, m, err := consumeVarint(num, typ, b)
			n.Release = v != 0
			return m, err
		case nodeStability:
			v, m, err := consumeDouble(num, typ, b)
			n.Stability = v
			return m, err
		case nodeShape:
			msg, m, err := consumeMessage(num, typ, b)
			if err != nil {
				return m, err
			}
			s, err := decodeShape(msg)
			n.Shape = s
			return m, err
		case nodeInputs:
			msg, m, err := consumeMessage(num, typ, b)
			if err != nil {
				return m, err
			}
			in, err := decodeInput(msg)
			if err != nil {
				return m, fmt.Errorf("input %d: %w", len(n.Inputs), err)
			}
			n.Inputs = append(n.Inputs, in)
			return m, nil
		case nodeMechanism:
			msg, m, err := consumeMessage(num, typ, b)
			if err != nil {
				return m, err
			}
			mech, err := decodeMechanism(msg)
			n.Mechanism = mech
			return m, err
		case nodeDatasource:
			msg, m, err := consumeMessage(num, typ, b)
			if err != nil {
				return m, err
			}
			src, err := decodeSource(msg)
			n.Source = src
			return m, err
		}
		return -1, nil
	})
	if err != nil {
		return nil, err
	}
	return n, nil
}

func decodeInput(data []byte) (analysis.Input, error) {
	var in analysis.Input
	err := walk(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case inputNodeID:
			s, n, err := consumeString(num, typ, b)
			in.Node = s
			return n, err
		case inputExpect:
			msg, n, err := consumeMessage(num, typ, b)
			if err != nil {
				return n, err
			}
			s, err := decodeShape(msg)
			in.Expect = &s
			return n, err
		}
		return -1, nil
	})
	return in, err
}

func decodeShape(data []byte) (analysis.Shape, error) {
	var s analysis.Shape
	err := walk(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case shapeRank:
			v, n, err := consumeVarint(num, typ, b)
			s.Rank = analysis.Rank(enumValue(v))
			return n, err
		case shapeElement:
			v, n, err := consumeVarint(num, typ, b)
			s.Element = analysis.Element(enumValue(v))
			return n, err
		}
		return -1, nil
	})
	return s, err
}

func decodeMechanism(data []byte) (*analysis.Mechanism, error) {
	m := &analysis.Mechanism{}
	err := walk(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case mechanismFamily:
			v, n, err := consumeVarint(num, typ, b)
			m.Family = analysis.Family(enumValue(v))
			return n, err
		case mechanismScale:
			v, n, err := consumeDouble(num, typ, b)
			m.Scale = v
			return n, err
		case mechanismSensitivity:
			v, n, err := consumeDouble(num, typ, b)
			m.Sensitivity = v
			return n, err
		case mechanismDelta:
			v, n, err := consumeDouble(num, typ, b)
			m.Delta = v
			return n, err
		}
		return -1, nil
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

func decodeSource(data []byte) (*analysis.Source, error) {
	s := &analysis.Source{}
	err := walk(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case datasourceDataset:
			v, n, err := consumeString(num, typ, b)
			s.Dataset = v
			return n, err
		case datasourceColumn:
			v, n, err := consumeString(num, typ, b)
			s.Column = v
			return n, err
		}
		return -1, nil
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

func decodePrivacy(data []byte) (*analysis.PrivacyDefinition, error) {
	p := &analysis.PrivacyDefinition{}
	err := walk(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case privacyEpsilon:
			v, n, err := consumeDouble(num, typ, b)
			p.Epsilon = v
			return n, err
		case privacyDelta:
			v, n, err := consumeDouble(num, typ, b)
			p.Delta = v
			return n, err
		case privacyNeighboring:
			v, n, err := consumeVarint(num, typ, b)
			p.Neighboring = analysis.Neighboring(enumValue(v))
			return n, err
		case privacyGroupSize:
			v, n, err := consumeVarint(num, typ, b)
			if err == nil && v > math.MaxUint32 {
				err = fmt.Errorf("field %d: group size %d overflows uint32", num, v)
			}
			p.GroupSize = uint32(v)
			return n, err
		}
		return -1, nil
	})
	if err != nil {
		return nil, err
	}
	if p.GroupSize == 0 {
		p.GroupSize = 1
	}
	return p, nil
}

// fieldFunc handles one field whose tag has already been consumed. It
// returns the number of value bytes consumed, or -1 to skip the field.
type fieldFunc func(num protowire.Number, typ protowire.Type, b []byte) (int, error)

// walk iterates over the fields of one message.
func walk(b []byte, fn fieldFunc) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]

		m, err := fn(num, typ, b)
		if err != nil {
			return err
		}
		if m < 0 {
			m = protowire.ConsumeFieldValue(num, typ, b)
			if m < 0 {
				return fmt.Errorf("field %d: %w", num, protowire.ParseError(m))
			}
		}
		b = b[m:]
	}
	return nil
}

func expectType(num protowire.Number, got, want protowire.Type) error {
	if got != want {
		return fmt.Errorf("field %d: unexpected wire type %d", num, got)
	}
	return nil
}

func consumeMessage(num protowire.Number, typ protowire.Type, b []byte) ([]byte, int, error) {
	if err := expectType(num, typ, protowire.BytesType); err != nil {
		return nil, 0, err
	}
	v, n := protowire.ConsumeBytes(b)
	if n < 0 {
		return nil, 0, fmt.Errorf("field %d: %w", num, protowire.ParseError(n))
	}
	return v, n, nil
}

func consumeString(num protowire.Number, typ protowire.Type, b []byte) (string, int, error) {
	v, n, err := consumeMessage(num, typ, b)
	if err != nil {
		return "", 0, err
	}
	return string(v), n, nil
}

func consumeVarint(num protowire.Number, typ protowire.Type, b []byte) (uint64, int, error) {
	if err := expectType(num, typ, protowire.VarintType); err != nil {
		return 0, 0, err
	}
	v, n := protowire.ConsumeVarint(b)
	if n < 0 {
		return 0, 0, fmt.Errorf("field %d: %w", num, protowire.ParseError(n))
	}
	return v, n, nil
}

func consumeDouble(num protowire.Number, typ protowire.Type, b []byte) (float64, int, error) {
	if err := expectType(num, typ, protowire.Fixed64Type); err != nil {
		return 0, 0, err
	}
	v, n := protowire.ConsumeFixed64(b)
	if n < 0 {
		return 0, 0, fmt.Errorf("field %d: %w", num, protowire.ParseError(n))
	}
	return math.Float64frombits(v), n, nil
}

// enumValue maps a wire enum to an int. Values outside int32 become -1,
// which no enum declares.
func enumValue(v uint64) int {
	i := int64(v)
	if i < math.MinInt32 || i > math.MaxInt32 {
		return -1
	}
	return int(i)
}
