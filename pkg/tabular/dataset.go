// Package tabular renders and parses simple header-keyed tables used by the
// subject export endpoint and the bulk import tool.
package tabular

// Dataset defines tabular content keyed by header name.
type Dataset struct {
	Headers []string
	Rows    []map[string]string
}
