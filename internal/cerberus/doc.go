// Package cerberus integrates the external cerberus cluster-health oracle.
// Cerberus watches the cluster independently and publishes a boolean go/no-go
// signal over HTTP; the execution loop consults it after every scenario when
// enabled.
package cerberus
