// Package app wires the pieces of a chaos run together: it loads and
// validates the configuration, builds the scenario plugin registry and the
// cluster client, starts the signal listener and the background health
// checker, drives the runner and collapses the result into the process exit
// code.
package app
