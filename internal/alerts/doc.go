// Package alerts watches Prometheus for critical-severity alerts during a
// chaos run. A firing critical alert is an independent signal of systemic
// harm: scenarios can all report success while the cluster is paging
// someone, and the final verdict must reflect that.
package alerts
