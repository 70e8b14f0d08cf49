// Package messaging routes inbound client events to their handlers. Each
// handler owns one event type and delegates to the session coordinator; the
// read pump only knows the dispatcher.
package messaging
