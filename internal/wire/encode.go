package wire

import (
	"math"

	"github.com/specialistvlad/dpcheck/internal/analysis"
	"google.golang.org/protobuf/encoding/protowire"
)

// Encode returns the wire representation of a. Zero-valued scalar fields are
// omitted. Decode(Encode(a)) reproduces a up to default group size
// normalisation.
func Encode(a *analysis.Analysis) []byte {
	if a == nil {
		return nil
	}
	var b []byte
	b = appendString(b, analysisSchemaVersion, a.SchemaVersion)
	for _, n := range a.Nodes {
		if n == nil {
			continue
		}
		b = appendMessage(b, analysisNodes, encodeNode(n))
	}
	if a.Privacy != nil {
		b = appendMessage(b, analysisPrivacy, encodePrivacy(a.Privacy))
	}
	return b
}

func encodeNode(n *analysis.Node) []byte {
	var b []byte
	b = appendString(b, nodeID, n.ID)
	b = appendVarint(b, nodeKind, uint64(n.Kind))
	for _, in := range n.Inputs {
		b = appendMessage(b, nodeInputs, encodeInput(in))
	}
	if n.Release {
		b = appendVarint(b, nodeRelease, 1)
	}
	if n.Shape != (analysis.Shape{}) {
		b = appendMessage(b, nodeShape, encodeShape(n.Shape))
	}
	if n.Mechanism != nil {
		b = appendMessage(b, nodeMechanism, encodeMechanism(n.Mechanism))
	}
	if n.Source != nil {
		b = appendMessage(b, nodeDatasource, encodeSource(n.Source))
	}
	b = appendDouble(b, nodeStability, n.Stability)
	b = appendString(b, nodeName, n.Name)
	return b
}

func encodeInput(in analysis.Input) []byte {
	var b []byte
	b = appendString(b, inputNodeID, in.Node)
	if in.Expect != nil {
		b = appendMessage(b, inputExpect, encodeShape(*in.Expect))
	}
	return b
}

func encodeShape(s analysis.Shape) []byte {
	var b []byte
	b = appendVarint(b, shapeRank, uint64(s.Rank))
	b = appendVarint(b, shapeElement, uint64(s.Element))
	return b
}

func encodeMechanism(m *analysis.Mechanism) []byte {
	var b []byte
	b = appendVarint(b, mechanismFamily, uint64(m.Family))
	b = appendDouble(b, mechanismScale, m.Scale)
	b = appendDouble(b, mechanismSensitivity, m.Sensitivity)
	b = appendDouble(b, mechanismDelta, m.Delta)
	return b
}

func encodeSource(s *analysis.Source) []byte {
	var b []byte
	b = appendString(b, datasourceDataset, s.Dataset)
	b = appendString(b, datasourceColumn, s.Column)
	return b
}

func encodePrivacy(p *analysis.PrivacyDefinition) []byte {
	var b []byte
	b = appendDouble(b, privacyEpsilon, p.Epsilon)
	b = appendDouble(b, privacyDelta, p.Delta)
	b = appendVarint(b, privacyNeighboring, uint64(p.Neighboring))
	b = appendVarint(b, privacyGroupSize, uint64(p.GroupSize))
	return b
}

func appendMessage(b []byte, num protowire.Number, msg []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, msg)
}

func appendString(b []byte, num protowire.Number, s string) []byte {
	if s == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

func appendVarint(b []byte, num protowire.Number, v uint64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func appendDouble(b []byte, num protowire.Number, v float64) []byte {
	if v == 0 && !math.Signbit(v) {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.Fixed64Type)
	return protowire.AppendFixed64(b, math.Float64bits(v))
}
