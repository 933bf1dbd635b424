/*
Package observability provides tools for monitoring the Tally store.

It includes a tracing hook that logs every dispatched action with its resulting state,
and Prometheus metrics fed by the same lifecycle hooks. Both are attached through
tally.WithLifecycleHooks and never influence the transition itself.
*/
package observability
