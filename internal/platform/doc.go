// Package platform holds the host checks p1-alert runs before it starts:
// root privileges for the sysfs indicators and a single running instance.
package platform
