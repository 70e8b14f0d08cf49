// Package storage archives session activity for offline statistics. The
// archive is write-only from the session's point of view: the whiteboard
// session itself is in-memory only and is never restored from here.
package storage
