// Package version pins the tool version that gets recorded into every
// generated project's metadata and drives the update migrations.
package version

// Version is the running tool's version. Persisted into the
// [goscaffold] section of generated setup.cfg files.
const Version = "1.2.1"
