// Package entropy provides the direction sources that drive walker populations.
//
//   - [Pseudo]: seeded PCG generator, fully reproducible
//   - [Hybrid]: ChaCha8 stream periodically reseeded from the OS entropy pool
//   - [Weighted]: seeded generator with a deliberate directional bias
//   - [Replay]: fixed direction script, for deterministic tests and demos
//   - [Faulty]: wraps another source and fails on a fixed cadence
//
// Every source satisfies walk.Source. Sources that can degrade also
// implement walk.QualityReporter.
package entropy
