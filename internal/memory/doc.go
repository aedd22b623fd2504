// Package memory configures the Go runtime memory limit from container
// limits so render jobs cannot push the worker past its cgroup budget.
package memory
