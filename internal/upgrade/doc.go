/*
Package upgrade migrates a loaded project from the legacy schema to the
current one.

The migration is a Pipeline of Upgrader steps run in a fixed order, each
owning one subsystem: the legacy lithosphere calculator, the bottom boundary
model, the lithology catalogue, the stratigraphy, the fault cuts and the
surface boundary ages. Steps gate every mutation on a detection predicate, so
running one on an already upgraded project changes nothing beyond range
clipping.

Steps that delete rows or clear tables do not touch the map registry
directly. They queue the (table, map) pairs they released on the shared
Worklist, and the Reconciler, always the last step, removes the matching
GridMapIoTbl rows.

Out of range values are clipped and logged. Conditions that make a rule
ill-defined abort the pipeline with an error of a kind from pkg/errors; the
caller maps that kind to an exit code.
*/
package upgrade
