// Package actor holds the payload value types that a session can represent:
// administrators, people, customers, and the pre-registration snapshot taken
// when a phone-verification flow starts.
//
// # Architecture boundaries
//
// actor is a leaf package. It carries data only and must not import any other
// dirauth package, perform I/O, or embed policy (who may do what is decided
// by the middleware gate, not here).
package actor
