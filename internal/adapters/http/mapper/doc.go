// Package mapper translates between the HTTP wire types in package dto and
// the domain model.
//
// # Inbound
//
// [Inbound] turns untrusted request payloads into validated domain entities
// and patches. Every conversion either returns a value whose invariants hold
// or exactly one [domain.MappingError]; nothing is logged, retried or
// defaulted on failure. Checks run in a fixed order so the reported error is
// deterministic:
//
//  1. identifiers (path id, then id lists in declaration order)
//  2. nested collections, element by element
//  3. scalar bounds
//  4. enumerations
//
// Order lines are the one nested case: for each line the quantity is checked
// before its book id, and the customer id is parsed before any line.
//
// Newly created entities get their identifier from the [domain.IDGenerator]
// given to [NewInbound]. Identifiers are drawn only after the whole payload
// validated, so a rejected request never consumes one.
//
// # Outbound
//
// The To* functions project domain values onto response types. They cannot
// fail. Order responses carry a shipping address only when it differs from
// the billing address, compared by value every time an order is rendered.
package mapper
