// Package models defines the core domain models for billsplit.
//
// # Models
//
//   - Item: a parsed receipt line (name + cost)
//   - Friend: a payments-provider friend that items can be assigned to
//   - AssignedItem: an item paired with the friend who owes it
//   - Receipt: a persisted parse result with its assignment
//   - PaymentRequest / PaymentResult: outcome of requesting money from a friend
//
// # Wire format
//
// JSON tags follow the REST surface used by the mobile client, so the same structs are
// marshalled by the server, the API wrapper and the route parameters between screens.
// Friends are identified by username strings; there are no user accounts.
package models
