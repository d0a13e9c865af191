package scenario

import (
	"context"

	"sigs.k8s.io/controller-runtime/pkg/client"
)

// Entry is one unit of declared chaos: a scenario type, the config file the
// owning plugin interprets, and an optional post-action file. Entries are
// built from the configuration at process start and never mutated.
type Entry struct {
	Type       string
	ConfigFile string
	PostAction string
}

// Environment carries the run-wide collaborators a plugin may need: cluster
// access, the run identity and the pacing tunings. The controller passes the
// same Environment to every plugin invocation.
type Environment struct {
	// Client reaches the target cluster. May be nil in dry runs and tests of
	// plugins that do not touch the cluster.
	Client client.Client

	// KubeconfigPath is the path handed to external tooling a plugin shells
	// out to; the controller itself only uses Client.
	KubeconfigPath string

	// RunUUID identifies the campaign in logs and reports.
	RunUUID string

	// WaitDuration is the inter-scenario wait tuning. Some plugins also use
	// it internally as a recovery-wait budget.
	WaitDuration int
}

// Plugin is the contract every scenario implementation satisfies. The
// controller treats plugins polymorphically: it dispatches an Entry and reacts
// only to the returned error, never to plugin internals.
//
// Run returning nil means the scenario injected its chaos and observed
// recovery; a non-nil error is a scenario failure. Run must honor ctx
// cancellation on its blocking calls, though the controller never force-cancels
// an in-flight scenario.
type Plugin interface {
	Run(ctx context.Context, entry Entry, env Environment) error
	ScenarioTypes() []string
}
