// Package acl is the anti-corruption layer between the bookstore API's wire
// format and the domain. BookstoreClient calls a running service and hands
// back domain values; nothing outside this package sees the response DTOs
// of a remote call.
package acl
