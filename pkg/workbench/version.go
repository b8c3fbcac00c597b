// Package workbench holds build metadata for the workbench binary.
package workbench

// Version is the release of this module.
const Version = "0.3.0"

// Revision is the git commit the binary was built from, set by the build.
var Revision = "unknown"
