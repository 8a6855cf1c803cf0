// Package policy provides the rule-based override layer of the
// authorization engine.
//
// A policy matches requests by resource, action and role (with trailing-"*"
// prefix wildcards) and contributes an effect: Allow, Deny or Abstain. Each
// policy may carry generic field conditions plus at most one each of a
// time-window, an IP-network and a resource-ownership condition.
//
// Evaluation semantics:
//
//   - Inactive policies never match and always abstain.
//   - All field conditions must hold, otherwise the policy abstains.
//   - A failing time-window or IP gate on an Allow policy actively denies;
//     on a Deny policy it abstains.
//   - A failing ownership condition always abstains; ownership never
//     actively denies, it only withholds the grant.
//
// The engine evaluates matching policies in descending priority order and
// returns the first non-abstaining effect. If every matching policy
// abstains, the overall result is Abstain.
//
// Malformed conditions (an invalid regex pattern, an invalid CIDR) are
// treated as condition-false at evaluation time rather than failing the
// whole access check.
package policy
