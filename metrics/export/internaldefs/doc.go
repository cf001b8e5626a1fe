// Package internaldefs holds the shared metric name table and bucket math
// used by the Prometheus and OTel exporters. It exists so both exporters
// render identical metric families from one definition.
package internaldefs
