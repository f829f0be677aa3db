package wire

import "google.golang.org/protobuf/encoding/protowire"

// Analysis fields.
const (
	analysisSchemaVersion protowire.Number = 1
	analysisNodes         protowire.Number = 2
	analysisPrivacy       protowire.Number = 3
)

// Node fields.
const (
	nodeID         protowire.Number = 1
	nodeKind       protowire.Number = 2
	nodeInputs     protowire.Number = 3
	nodeRelease    protowire.Number = 4
	nodeShape      protowire.Number = 5
	nodeMechanism  protowire.Number = 6
	nodeDatasource protowire.Number = 7
	nodeStability  protowire.Number = 8
	nodeName       protowire.Number = 9
)

// Input fields.
const (
	inputNodeID protowire.Number = 1
	inputExpect protowire.Number = 2
)

// Shape fields.
const (
	shapeRank    protowire.Number = 1
	shapeElement protowire.Number = 2
)

// Mechanism fields.
const (
	mechanismFamily      protowire.Number = 1
	mechanismScale       protowire.Number = 2
	mechanismSensitivity protowire.Number = 3
	mechanismDelta       protowire.Number = 4
)

// Datasource fields.
const (
	datasourceDataset protowire.Number = 1
	datasourceColumn  protowire.Number = 2
)

// PrivacyDefinition fields.
const (
	privacyEpsilon     protowire.Number = 1
	privacyDelta       protowire.Number = 2
	privacyNeighboring protowire.Number = 3
	privacyGroupSize   protowire.Number = 4
)
