// Package profile starts and stops runtime profiling with
// [github.com/pkg/profile].
//
// Profiling is compiled in only with the "pprof" build tag:
//
//	go build -tags pprof .
//
// Without the tag, [Modes] is empty and [Config.Start] returns a profiler
// whose Stop does nothing, so callers never need their own build tags.
//
// With the tag, one mode from [Modes] is selected per run:
//
//	p := profile.Make(profile.WithMode("cpu"), profile.WithPath(dir))
//	defer p.Start().Stop()
//
// Profiles are written to the configured directory as <mode>.pprof (or
// trace.out for the execution tracer) and read with go tool pprof:
//
//	go tool pprof -http=: ./re0 ~/.cache/re0/pprof/cpu.pprof
//
// The parser allocates one span tree node per matched rule, so the "allocs"
// and "heap" modes are the most useful for large inputs.
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
