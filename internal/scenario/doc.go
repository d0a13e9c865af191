// Package scenario defines the plugin contract behind every chaos scenario
// type and the registry mapping config-declared type strings to their
// implementations.
//
// A plugin advertises the scenario types it handles via ScenarioTypes and
// executes one config-file-described scenario per Run call. The execution
// loop resolves plugins by type at dispatch time; an unknown type aborts the
// run before any cluster interaction.
//
// Concrete plugins live in subpackages (pod, node). Their scenario config
// files are opaque to everything outside the owning plugin.
package scenario
