// Package hcl loads analyses written in HCL.
//
// An analysis file declares its privacy budget and its nodes as blocks.
// Node blocks are labelled with the node identifier and appear in the order
// they should be inserted into the analysis:
//
//	schema_version = "1.0.0"
//
//	privacy {
//	  epsilon     = 1.0
//	  delta       = 1e-6
//	  neighboring = "add_remove"
//	  group_size  = 1
//	}
//
//	datasource "age" {
//	  dataset = "patients"
//	  column  = "age"
//	  shape   = vector(float)
//	}
//
//	aggregator "mean" {
//	  shape = scalar(float)
//	  input "age" {
//	    expect = vector(float)
//	  }
//	}
//
//	mechanism "noisy_mean" {
//	  family      = "laplace"
//	  sensitivity = 1
//	  scale       = 2
//	  release     = true
//	  input "mean" {}
//	}
//
// Shapes are type expressions: a rank keyword (scalar, vector, matrix)
// applied to an element keyword (bool, int, float, string, any). A bare rank
// keyword leaves the element undeclared and `any` leaves both undeclared.
//
// The loader reports syntax and decoding errors only. Whether the resulting
// analysis is sound is for the validator to decide.
package hcl
