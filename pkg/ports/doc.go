/*
Package ports defines the driven ports (interfaces) of the search orchestrator.

These interfaces decouple the search from where its results end up, so the same
search can write to memory, to local files or to Redis.

# Key Interfaces

  - ResultStore: persists the records of a run, keyed by run ID and machine index.
  - RunLocker: serialises writers of the same run across processes.

Reusable contract suites for both live in the tests subpackage.
*/
package ports
