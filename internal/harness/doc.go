// Package harness runs browsing scenarios against a real session.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: delete_post
//	description: "Deleting a post returns to the home page"
//	mode: store            # store (default) or fetch
//	seed:                  # store mode; defaults to the three built-in posts
//	  - { id: "1", title: "First", body: "..." }
//	remote:                # fetch mode; served by an in-memory source
//	  - { id: "1", title: "First", body: "..." }
//	start: /               # first location, default "/"
//	steps:
//	  - navigate: /2
//	  - trigger: delete
//	    expect:
//	      location: /
//	      route: home
//	      posts: ["1", "3"]
//	      links: ["/1", "/3"]
//	  - wait: 2000ms
//	assertions:
//	  - type: trace_order
//	    paths: ["/", "/2", "/"]
//
// Each step does at most one of navigate, trigger, wait or back, then the
// session is settled and the optional expect clause is checked against the
// rendered page.
//
// # Assertion Types
//
//   - trace_contains: a navigation to path, or an action of type (and payload)
//   - trace_order: navigations to paths happen in this order
//   - trace_count: a path or action type occurs exactly count times
//   - final_state: the store holds exactly these post ids, in order
//
// # Deterministic Testing
//
// Timers run on testutil.ManualScheduler, scope tokens and action ids come
// from testutil.SequenceGenerator and the session id is fixed, so the same
// scenario always yields a byte-identical trace. RunWithGolden compares that
// trace against testdata/golden/<name>.golden.
package harness
