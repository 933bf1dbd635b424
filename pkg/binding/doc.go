/*
Package binding provides the two ways consumers attach to a store.

Both are façades over the same ports.Store; neither keeps state of its own beyond the
last value it handed out.

  - Connect wraps a consumer in a higher-order binding: a mapState function derives props
    from the state, a mapDispatch function builds bound action callbacks, and the binding
    reports prop changes.
  - UseSelector and UseDispatch give direct, hook-style access: select one value and
    watch it, or grab a dispatch function.
*/
package binding
