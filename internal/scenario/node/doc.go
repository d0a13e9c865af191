// Package node implements node action scenarios through the Kubernetes API:
// cordon, uncordon and drain. Cloud-provider level actions (stopping the
// underlying machine) are external integrations and live outside this plugin.
package node
