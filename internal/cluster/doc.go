// Package cluster builds the Kubernetes client handed to scenario plugins,
// from either an explicit kubeconfig file or the in-cluster service account.
package cluster
