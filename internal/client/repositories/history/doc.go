// Package history keeps a local record of the receipts this CLI obtained.
//
// The server remains the source of truth. The local copy lets a user see what
// they submitted from this machine, and from which path, while offline.
package history
