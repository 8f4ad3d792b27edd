// Package acepatch holds build metadata for the acepatch tool.
package acepatch

// Version is the acepatch release version.
const Version = "0.3.0"
