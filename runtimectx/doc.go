// Package runtimectx implements §4.4: the RuntimeContext container binding
// a target runtime, an assembly resolver, a signature comparer, the
// loaded-assembly table and the type cache, plus the resolution algorithms
// (§4.4.1 type references, §4.4.2 exported types, §4.4.3 members) and the
// target-runtime prober (§4.6).
package runtimectx
