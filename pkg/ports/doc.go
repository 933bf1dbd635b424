/*
Package ports defines the interfaces between the Tally store and its consumers.

These interfaces decouple the core from adapters, allowing views, transports and
observability sinks to work against any store implementation.

# Key Interfaces

  - Dispatcher: The single write entry point (Dispatch).
  - StateReader: Point-in-time snapshots (GetState).
  - Subscriber: Change notification (Subscribe / unsubscribe).
  - Store: All three combined.
*/
package ports
