package slaballoc

// fence documents the full-fence requirement between LockDrain and the
// reclaimability read that follows it. Unlike C's relaxed/acquire/release
// atomics, every sync/atomic operation used in this module is already
// sequentially consistent, so the ordering required here is structural
// rather than an instruction to insert — there is no separate Go
// primitive to call. fence is a no-op kept as a named call site so the
// ordering stays visible at the point it matters, rather than relying
// silently on "atomics happen to be strong enough" spread across the
// package.
func fence() {}
