// Package wire decodes and encodes analyses in their protocol buffers wire
// representation.
//
// The schema is declared by hand in schema.go and read with protowire, so no
// generated code is involved:
//
//	message Analysis {
//	  string schema_version = 1;
//	  repeated Node nodes = 2;
//	  PrivacyDefinition privacy_definition = 3;
//	}
//	message Node {
//	  string id = 1;
//	  Kind kind = 2;
//	  repeated Input inputs = 3;
//	  bool will_release = 4;
//	  Shape shape = 5;
//	  Mechanism mechanism = 6;
//	  Datasource datasource = 7;
//	  double stability = 8;
//	  string name = 9;
//	}
//	message Input { string node_id = 1; Shape expect = 2; }
//	message Shape { Rank rank = 1; Element element = 2; }
//	message Mechanism { Family family = 1; double scale = 2; double sensitivity = 3; double delta = 4; }
//	message Datasource { string dataset_id = 1; string column_id = 2; }
//	message PrivacyDefinition { double epsilon = 1; double delta = 2; Neighboring neighboring = 3; uint32 group_size = 4; }
//
// Unknown fields are skipped. Decode checks encoding only; semantic checks
// belong to the graph and structural packages.
package wire
