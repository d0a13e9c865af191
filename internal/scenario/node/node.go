package node

import (
	"context"
	"fmt"
	"os"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/labels"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/yaml"

	"krkn/internal/scenario"
	"krkn/pkg/logging"
)

const subsystem = "NodeScenario"

// Actions supported by node scenarios. Cloud-provider node stop/start is out
// of scope here; these act purely through the Kubernetes API.
const (
	ActionCordon   = "cordon"
	ActionUncordon = "uncordon"
	ActionDrain    = "drain"
)

// Scenario is the config-file shape of one node action.
type Scenario struct {
	// NodeName targets a single node by name. Mutually exclusive with
	// LabelSelector.
	NodeName string `json:"node_name,omitempty"`
	// LabelSelector targets every matching node.
	LabelSelector string `json:"label_selector,omitempty"`
	// Action is one of cordon, uncordon, drain.
	Action string `json:"action"`
}

// Plugin executes node actions: marking nodes unschedulable and evicting
// their workload so the cluster has to re-place it elsewhere.
type Plugin struct{}

// New creates the node action plugin.
func New() *Plugin {
	return &Plugin{}
}

// ScenarioTypes implements scenario.Plugin.
func (p *Plugin) ScenarioTypes() []string {
	return []string{"node_scenarios"}
}

// Run implements scenario.Plugin.
func (p *Plugin) Run(ctx context.Context, entry scenario.Entry, env scenario.Environment) error {
	sc, err := loadScenario(entry.ConfigFile)
	if err != nil {
		return err
	}

	nodes, err := p.resolveNodes(ctx, env.Client, sc)
	if err != nil {
		return err
	}

	for i := range nodes {
		node := &nodes[i]
		logging.Info(subsystem, "running %s on node %s", sc.Action, node.Name)
		switch sc.Action {
		case ActionCordon:
			err = p.setUnschedulable(ctx, env.Client, node, true)
		case ActionUncordon:
			err = p.setUnschedulable(ctx, env.Client, node, false)
		case ActionDrain:
			err = p.drain(ctx, env.Client, node)
		}
		if err != nil {
			return fmt.Errorf("%s failed on node %s: %w", sc.Action, node.Name, err)
		}
	}
	return nil
}

func (p *Plugin) resolveNodes(ctx context.Context, c client.Client, sc *Scenario) ([]corev1.Node, error) {
	if sc.NodeName != "" {
		var node corev1.Node
		if err := c.Get(ctx, client.ObjectKey{Name: sc.NodeName}, &node); err != nil {
			return nil, fmt.Errorf("failed to get node %s: %w", sc.NodeName, err)
		}
		return []corev1.Node{node}, nil
	}

	selector, err := labels.Parse(sc.LabelSelector)
	if err != nil {
		return nil, fmt.Errorf("invalid label_selector %q: %w", sc.LabelSelector, err)
	}
	var nodeList corev1.NodeList
	if err := c.List(ctx, &nodeList, client.MatchingLabelsSelector{Selector: selector}); err != nil {
		return nil, fmt.Errorf("failed to list nodes: %w", err)
	}
	if len(nodeList.Items) == 0 {
		return nil, fmt.Errorf("no nodes matching %q", sc.LabelSelector)
	}
	return nodeList.Items, nil
}

func (p *Plugin) setUnschedulable(ctx context.Context, c client.Client, node *corev1.Node, unschedulable bool) error {
	if node.Spec.Unschedulable == unschedulable {
		return nil
	}
	node.Spec.Unschedulable = unschedulable
	return c.Update(ctx, node)
}

// drain cordons the node and deletes its evictable pods. DaemonSet pods and
// mirror pods stay: the former would be recreated on the same node anyway and
// the latter are not scheduler-managed.
func (p *Plugin) drain(ctx context.Context, c client.Client, node *corev1.Node) error {
	if err := p.setUnschedulable(ctx, c, node, true); err != nil {
		return err
	}

	var podList corev1.PodList
	if err := c.List(ctx, &podList); err != nil {
		return fmt.Errorf("failed to list pods: %w", err)
	}

	for i := range podList.Items {
		pod := &podList.Items[i]
		if pod.Spec.NodeName != node.Name || !evictable(pod) {
			continue
		}
		logging.Info(subsystem, "evicting pod %s/%s from node %s", pod.Namespace, pod.Name, node.Name)
		if err := c.Delete(ctx, pod); err != nil {
			return fmt.Errorf("failed to evict pod %s/%s: %w", pod.Namespace, pod.Name, err)
		}
	}
	return nil
}

func evictable(pod *corev1.Pod) bool {
	if _, mirror := pod.Annotations[corev1.MirrorPodAnnotationKey]; mirror {
		return false
	}
	for _, owner := range pod.OwnerReferences {
		if owner.Kind == "DaemonSet" {
			return false
		}
	}
	return true
}

func loadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read node scenario file %s: %w", path, err)
	}
	var sc Scenario
	if err := yaml.UnmarshalStrict(data, &sc); err != nil {
		return nil, fmt.Errorf("cannot parse node scenario file %s: %w", path, err)
	}
	switch sc.Action {
	case ActionCordon, ActionUncordon, ActionDrain:
	default:
		return nil, fmt.Errorf("node scenario %s has unknown action %q", path, sc.Action)
	}
	if sc.NodeName == "" && sc.LabelSelector == "" {
		return nil, fmt.Errorf("node scenario %s must set node_name or label_selector", path)
	}
	if sc.NodeName != "" && sc.LabelSelector != "" {
		return nil, fmt.Errorf("node scenario %s sets both node_name and label_selector", path)
	}
	return &sc, nil
}
