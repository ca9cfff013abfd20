// Package acl is the Anti-Corruption Layer between quote APIs and the domain.
//
// # What is an Anti-Corruption Layer?
//
// The Anti-Corruption Layer (ACL) is a pattern from Domain-Driven Design that
// protects the domain model from external service representations. Here it
// means:
//
//   - Response shapes never leak past [Translate]
//   - Transport failures and status codes map to domain errors
//   - Field presence is checked before a [domain.Quote] is built
//
// # Response Shapes
//
// Public quote APIs disagree on naming. A single [FieldMapping] lists the keys
// tried for each field, in order:
//
//	quotable.io            {"_id": "...", "content": "...", "author": "...", "tags": [...]}
//	programming-quotes     {"id": "...", "en": "...", "author": "..."}
//	zenquotes.io           [{"q": "...", "a": "..."}]
//
// A top-level array uses its first element. A key holding null or a blank
// string counts as absent; a key holding any other non-string value is a
// parse error rather than a silent fallback.
//
// # Error Handling Strategy
//
// Every failure becomes a domain error carrying the source name:
//   - Client timeout or context deadline → [domain.ErrTimeout]
//   - DNS, refused or reset connections → [domain.ErrNetwork]
//   - Any non-2xx status → [domain.ErrHTTPStatus] with a body excerpt
//   - Oversized, non-JSON or wrongly shaped bodies → [domain.ErrParse]
//   - No candidate key found → [domain.ErrMissingField]
//
// Nothing is retried. A scheduled run that fails simply tries again next time.
package acl
