// Package protocol defines the wire contract between the drawing server and
// its clients: the message envelope, the inbound and outbound event types,
// and the payload structures they carry. The event type names are the wire
// contract and must not change without coordinating with the front-end.
package protocol
