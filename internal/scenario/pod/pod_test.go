package pod

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"

	"krkn/internal/scenario"
)

func testScheme(t *testing.T) *runtime.Scheme {
	t.Helper()
	scheme := runtime.NewScheme()
	require.NoError(t, clientgoscheme.AddToScheme(scheme))
	return scheme
}

func testPod(namespace, name string, podLabels map[string]string) *corev1.Pod {
	return &corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{
			Namespace: namespace,
			Name:      name,
			Labels:    podLabels,
		},
		Status: corev1.PodStatus{Phase: corev1.PodRunning},
	}
}

func writeScenario(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pod.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func fastPlugin() *Plugin {
	p := New()
	p.pollInterval = 10 * time.Millisecond
	return p
}

func TestRunKillsAndObservesRecovery(t *testing.T) {
	appLabels := map[string]string{"app": "nginx"}
	c := fake.NewClientBuilder().
		WithScheme(testScheme(t)).
		WithObjects(
			testPod("prod", "nginx-1", appLabels),
			testPod("prod", "nginx-2", appLabels),
			testPod("prod", "nginx-3", appLabels),
		).
		Build()

	path := writeScenario(t, `
namespace: prod
label_selector: app=nginx
kill: 1
krkn_pod_recovery_time: 5
`)

	// Play the part of the replica controller: put a replacement pod back
	// shortly after the kill.
	go func() {
		time.Sleep(100 * time.Millisecond)
		_ = c.Create(context.Background(), testPod("prod", "nginx-replacement", appLabels))
	}()

	err := fastPlugin().Run(context.Background(),
		scenario.Entry{Type: "pod_disruption_scenarios", ConfigFile: path},
		scenario.Environment{Client: c, WaitDuration: 5})
	require.NoError(t, err)

	var pods corev1.PodList
	require.NoError(t, c.List(context.Background(), &pods, client.InNamespace("prod")))
	assert.Len(t, pods.Items, 3)
}

func TestRunFailsWhenPodsDoNotRecover(t *testing.T) {
	appLabels := map[string]string{"app": "nginx"}
	c := fake.NewClientBuilder().
		WithScheme(testScheme(t)).
		WithObjects(
			testPod("prod", "nginx-1", appLabels),
			testPod("prod", "nginx-2", appLabels),
		).
		Build()

	path := writeScenario(t, `
namespace: prod
label_selector: app=nginx
kill: 1
krkn_pod_recovery_time: 1
`)

	err := fastPlugin().Run(context.Background(),
		scenario.Entry{Type: "pod_disruption_scenarios", ConfigFile: path},
		scenario.Environment{Client: c, WaitDuration: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "did not recover")

	// Exactly one pod was killed, no more.
	var pods corev1.PodList
	require.NoError(t, c.List(context.Background(), &pods, client.InNamespace("prod")))
	assert.Len(t, pods.Items, 1)
}

func TestRunNoMatchingPods(t *testing.T) {
	c := fake.NewClientBuilder().WithScheme(testScheme(t)).Build()

	path := writeScenario(t, `
namespace: prod
label_selector: app=missing
`)

	err := fastPlugin().Run(context.Background(),
		scenario.Entry{ConfigFile: path},
		scenario.Environment{Client: c})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no pods matching")
}

func TestRunRefusesToKillMoreThanMatching(t *testing.T) {
	appLabels := map[string]string{"app": "nginx"}
	c := fake.NewClientBuilder().
		WithScheme(testScheme(t)).
		WithObjects(testPod("prod", "nginx-1", appLabels)).
		Build()

	path := writeScenario(t, `
namespace: prod
label_selector: app=nginx
kill: 5
`)

	err := fastPlugin().Run(context.Background(),
		scenario.Entry{ConfigFile: path},
		scenario.Environment{Client: c})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "only 1 match")
}

func TestLoadScenarioValidation(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := loadScenario(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("missing namespace", func(t *testing.T) {
		path := writeScenario(t, "label_selector: app=nginx\n")
		_, err := loadScenario(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "namespace")
	})

	t.Run("unknown field rejected", func(t *testing.T) {
		path := writeScenario(t, "namespace: prod\nbogus_field: 1\n")
		_, err := loadScenario(path)
		assert.Error(t, err)
	})

	t.Run("kill defaults to one", func(t *testing.T) {
		path := writeScenario(t, "namespace: prod\n")
		sc, err := loadScenario(path)
		require.NoError(t, err)
		assert.Equal(t, 1, sc.Kill)
	})
}

func TestScenarioTypes(t *testing.T) {
	assert.Equal(t, []string{"pod_disruption_scenarios"}, New().ScenarioTypes())
}

func TestPickVictimsBounds(t *testing.T) {
	pods := make([]corev1.Pod, 5)
	for i := range pods {
		pods[i] = *testPod("ns", fmt.Sprintf("p-%d", i), nil)
	}

	assert.Len(t, pickVictims(pods, 2), 2)
	// Zero and negative fall back to a single victim.
	assert.Len(t, pickVictims(pods, 0), 1)
	assert.Len(t, pickVictims(pods, -3), 1)
}
