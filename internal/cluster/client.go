package cluster

import (
	"fmt"

	"k8s.io/apimachinery/pkg/runtime"
	utilruntime "k8s.io/apimachinery/pkg/util/runtime"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	"sigs.k8s.io/controller-runtime/pkg/client"

	"krkn/pkg/logging"
)

const subsystem = "Cluster"

// NewClient builds a controller-runtime client for the target cluster. A
// non-empty kubeconfigPath is loaded from disk; an empty path falls back to
// the in-cluster service account, which is how containerized runs reach the
// cluster they are deployed into.
func NewClient(kubeconfigPath string) (client.Client, error) {
	restConfig, err := buildRESTConfig(kubeconfigPath)
	if err != nil {
		return nil, err
	}

	scheme := runtime.NewScheme()
	utilruntime.Must(clientgoscheme.AddToScheme(scheme))

	k8sClient, err := client.New(restConfig, client.Options{Scheme: scheme})
	if err != nil {
		return nil, fmt.Errorf("failed to create cluster client: %w", err)
	}

	logging.Info(subsystem, "initialized client for cluster at %s", restConfig.Host)
	return k8sClient, nil
}

func buildRESTConfig(kubeconfigPath string) (*rest.Config, error) {
	if kubeconfigPath == "" {
		cfg, err := rest.InClusterConfig()
		if err != nil {
			return nil, fmt.Errorf("no kubeconfig_path set and not running in-cluster: %w", err)
		}
		return cfg, nil
	}

	cfg, err := clientcmd.BuildConfigFromFlags("", kubeconfigPath)
	if err != nil {
		return nil, fmt.Errorf("cannot read the kubeconfig at %s: %w", kubeconfigPath, err)
	}
	return cfg, nil
}
