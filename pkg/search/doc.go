/*
Package search runs many bounded simulations concurrently.

RunAll takes any sequence of indexed machines; Search drives an enumerator,
optionally persists every record to a ports.ResultStore, and folds the records
into a Summary of busy-beaver champions.

Runs are independent, so scheduling never changes a result: the same input
always yields the same records in the same order, whatever the worker count.
*/
package search
