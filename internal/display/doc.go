// Package display models the full-width alert banner.
//
// Rendering a real overlay is outside this project; Banner is a headless
// implementation that keeps the banner state, logs every change and exposes a
// snapshot for the status surfaces. While blinking it toggles the background
// alpha once per period like the original overlay did.
package display
