package internaldefs

import (
	appsession "github.com/mzilio/appsession"
)

// CounterDef defines a public type used by appsession APIs.
//
// CounterDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CounterDef struct {
	ID   appsession.MetricID
	Name string
	Help string
}

// HistogramDef defines a public type used by appsession APIs.
//
// HistogramDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type HistogramDef struct {
	ID   appsession.MetricID
	Name string
	Help string
}

// CounterDefs is an exported constant or variable used by the session manager.
var CounterDefs = []CounterDef{
	{ID: appsession.MetricSessionStateCurrent, Name: "appsession_state_current_total", Help: "Session-state reads served by the fast path without a write."},
	{ID: appsession.MetricSessionUpgraded, Name: "appsession_upgraded_total", Help: "Session records upgraded to the current generation."},
	{ID: appsession.MetricSessionUpgradeFailed, Name: "appsession_upgrade_failed_total", Help: "Session record upgrades that failed."},
	{ID: appsession.MetricTokenIssued, Name: "appsession_token_issued_total", Help: "Opaque tokens issued for session records."},
	{ID: appsession.MetricSessionsListed, Name: "appsession_sessions_listed_total", Help: "Successful session inventory listings."},
	{ID: appsession.MetricListUnavailable, Name: "appsession_list_unavailable_total", Help: "Inventory listings failed by storage unavailability."},
	{ID: appsession.MetricListResolutionFailed, Name: "appsession_list_resolution_failed_total", Help: "Inventory listings failed by unresolvable session ids."},
	{ID: appsession.MetricListEmpty, Name: "appsession_list_empty_total", Help: "Inventory listings that resolved to zero sessions."},
	{ID: appsession.MetricSessionCreated, Name: "appsession_created_total", Help: "Created session records."},
	{ID: appsession.MetricSessionDestroyed, Name: "appsession_destroyed_total", Help: "Destroyed session records."},
}

// HistogramDefs is an exported constant or variable used by the session manager.
var HistogramDefs = []HistogramDef{
	{ID: appsession.MetricReconcileLatency, Name: "appsession_reconcile_latency_seconds", Help: "Session-state reconcile latency histogram."},
}

// HistogramBounds is an exported constant or variable used by the session manager.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix is an exported constant or variable used by the session manager.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets describes the normalizebuckets operation and its observable behavior.
//
// NormalizeBuckets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets describes the cumulativebuckets operation and its observable behavior.
//
// CumulativeBuckets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
