/*
Package agents provides the concrete advisors behind the consultation
gateway. Each advisor serves one routing domain and implements
advisor.Agent; Defaults returns the full set and RegisterDefaults wires
them into a manager in one call.

# Consultation shape

Every advisor reads its subject from the request context properties,
preferring objective over task over focus and falling back to the request
description. Domain-specific advisors additionally parse structured
properties (comma separated lists, key=value pairs) into the typed domain
contexts from the advisor package and derive findings from them, such as
pipeline stages missing quality gates or threats with no recorded
mitigation.

# Restricted advisors

The security and deployment advisors declare required roles. The manager
rejects consultations from callers whose security context carries none of
them.

# Story strengthening

The story advisor is a pipeline rather than a single recommendation: it
validates the issue envelope, rewrites requirements into EARS phrasing,
derives Gherkin acceptance criteria, and emits an explicit STOP phrase
when the material is out of scope or would push processing into a loop.
*/
package agents
