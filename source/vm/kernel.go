package vm

// kernelSource is the fixed loop spec.md §6 appends to every compiled
// program. It is compiled in the same pass as user source (concatenated
// after it) so that `update`/`draw`, if the user defined them, are
// already bound by the time the kernel's calls run.
const kernelSource = `
(while true (
  (if (__needs_update) ((update)))
  (if (__needs_draw) ((clear) (draw)))
))
`
