// Package sound plays alert sounds through an external command line player.
package sound
