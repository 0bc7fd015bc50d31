// Package harness runs scripted navigation scenarios against the real
// store and reducers, and checks the resulting state.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: delete_jesse
//	description: "Deleting the presented player clears the detail"
//	seed: league.cue            # optional, relative to the scenario file
//	steps:
//	  - do: appear
//	  - do: show
//	    target: Jesse
//	    expect:
//	      - type: details
//	        value: Jesse
//	  - do: delete
//	    target: Jesse
//	assertions:
//	  - type: details
//	    value: none
//	  - type: count
//	    list: players
//	    count: 4
//
// Step verbs are those of app.DecodeStep. Entities are referenced by
// label. Unknown YAML fields are rejected.
//
// # Assertion Types
//
//   - destination, inspector, columns: root fields
//   - count, visible: number of items, or of items matching the filter
//   - contains, absent: presence of the entity labelled target
//   - order: the exact label order of a list
//   - details, draft, activities: the presented detail ("none" when absent)
//   - modal: the list's destination: none, add or delete
//   - running, idle: whether an effect identity is running
//
// # Determinism
//
// After every step the harness waits until no fire-once effect is running
// and no commit has happened for a quiet period. Entity IDs created during
// a run come from a sequential generator keyed by the scenario name, so the
// same scenario always reaches the same final fingerprint.
//
// Each step runs under an engine.Quota: a step whose effects keep feeding
// actions back fails with engine.StepsExceededError rather than waiting
// for the timeout.
//
// # Replay
//
// With Options.Journal set, Run records the seed fingerprint, every step
// and the final fingerprint. Replay re-executes a recorded run twice from
// the same seed and reports whether both reach the recorded fingerprint.
package harness
