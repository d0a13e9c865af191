package pod

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/labels"
	"k8s.io/apimachinery/pkg/util/wait"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/yaml"

	"krkn/internal/scenario"
	"krkn/pkg/logging"
)

const subsystem = "PodScenario"

// Scenario is the config-file shape of one pod disruption: which pods to
// target, how many to kill and how long to allow for recovery.
type Scenario struct {
	// Namespace the target pods live in.
	Namespace string `json:"namespace"`
	// LabelSelector narrows the target set, e.g. "app=nginx". Empty selects
	// every pod in the namespace.
	LabelSelector string `json:"label_selector,omitempty"`
	// Kill is the number of pods to delete. Defaults to 1.
	Kill int `json:"kill,omitempty"`
	// RecoveryTime is the seconds allowed for the pod population to return
	// to its pre-chaos size. Zero falls back to the run's wait duration.
	RecoveryTime int `json:"krkn_pod_recovery_time,omitempty"`
}

// Plugin deletes pods matching a selector and verifies the population
// recovers, which exercises the reschedule path of whatever controller owns
// them.
type Plugin struct {
	// pollInterval is how often recovery is re-checked. Overridable in tests.
	pollInterval time.Duration
}

// New creates the pod disruption plugin.
func New() *Plugin {
	return &Plugin{pollInterval: 5 * time.Second}
}

// ScenarioTypes implements scenario.Plugin.
func (p *Plugin) ScenarioTypes() []string {
	return []string{"pod_disruption_scenarios"}
}

// Run implements scenario.Plugin.
func (p *Plugin) Run(ctx context.Context, entry scenario.Entry, env scenario.Environment) error {
	sc, err := loadScenario(entry.ConfigFile)
	if err != nil {
		return err
	}
	if entry.PostAction != "" {
		logging.Warn(subsystem, "post actions are deprecated, ignoring %s", entry.PostAction)
	}

	selector, err := labels.Parse(sc.LabelSelector)
	if err != nil {
		return fmt.Errorf("invalid label_selector %q: %w", sc.LabelSelector, err)
	}

	var podList corev1.PodList
	listOpts := []client.ListOption{
		client.InNamespace(sc.Namespace),
		client.MatchingLabelsSelector{Selector: selector},
	}
	if err := env.Client.List(ctx, &podList, listOpts...); err != nil {
		return fmt.Errorf("failed to list pods in %s: %w", sc.Namespace, err)
	}
	if len(podList.Items) == 0 {
		return fmt.Errorf("no pods matching %q in namespace %s", sc.LabelSelector, sc.Namespace)
	}
	if sc.Kill > len(podList.Items) {
		return fmt.Errorf("asked to kill %d pods but only %d match %q in namespace %s",
			sc.Kill, len(podList.Items), sc.LabelSelector, sc.Namespace)
	}

	initial := len(podList.Items)
	victims := pickVictims(podList.Items, sc.Kill)
	for _, victim := range victims {
		logging.Info(subsystem, "killing pod %s/%s", victim.Namespace, victim.Name)
		if err := env.Client.Delete(ctx, &victim); err != nil {
			return fmt.Errorf("failed to delete pod %s/%s: %w", victim.Namespace, victim.Name, err)
		}
	}

	recovery := time.Duration(sc.RecoveryTime) * time.Second
	if recovery <= 0 {
		recovery = time.Duration(env.WaitDuration) * time.Second
	}
	return p.waitForRecovery(ctx, env.Client, sc, selector, initial, recovery)
}

// waitForRecovery polls until the pod population is back to its pre-chaos
// size, or the recovery budget runs out.
func (p *Plugin) waitForRecovery(ctx context.Context, c client.Client, sc *Scenario, selector labels.Selector, expected int, budget time.Duration) error {
	logging.Info(subsystem, "waiting up to %s for %d pods matching %q to come back", budget, expected, sc.LabelSelector)

	err := wait.PollUntilContextTimeout(ctx, p.pollInterval, budget, true, func(ctx context.Context) (bool, error) {
		var podList corev1.PodList
		if err := c.List(ctx, &podList,
			client.InNamespace(sc.Namespace),
			client.MatchingLabelsSelector{Selector: selector}); err != nil {
			return false, err
		}
		alive := 0
		for _, pod := range podList.Items {
			if pod.DeletionTimestamp == nil && pod.Status.Phase != corev1.PodFailed {
				alive++
			}
		}
		return alive >= expected, nil
	})
	if err != nil {
		return fmt.Errorf("pods matching %q in namespace %s did not recover within %s: %w",
			sc.LabelSelector, sc.Namespace, budget, err)
	}
	logging.Info(subsystem, "pods in namespace %s recovered", sc.Namespace)
	return nil
}

func pickVictims(pods []corev1.Pod, kill int) []corev1.Pod {
	if kill <= 0 {
		kill = 1
	}
	shuffled := append([]corev1.Pod(nil), pods...)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled[:kill]
}

func loadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read pod scenario file %s: %w", path, err)
	}
	var sc Scenario
	if err := yaml.UnmarshalStrict(data, &sc); err != nil {
		return nil, fmt.Errorf("cannot parse pod scenario file %s: %w", path, err)
	}
	if sc.Namespace == "" {
		return nil, fmt.Errorf("pod scenario %s must set a namespace", path)
	}
	if sc.Kill == 0 {
		sc.Kill = 1
	}
	return &sc, nil
}
