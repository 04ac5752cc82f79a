// Package integration runs the p1-alert service end to end over real sockets.
package integration
