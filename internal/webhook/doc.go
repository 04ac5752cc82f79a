// Package webhook extracts alert details from vendor webhook payloads and
// keeps a rotating log of every alert received.
//
// Extraction never fails: each field falls back to alert.MissingData on its
// own, so a malformed payload still raises the alert.
package webhook
