// Package fs holds the local file system adapters: the post-print retention
// policies that own the staging directory, and the settings file that stores
// the print executable path.
package fs
