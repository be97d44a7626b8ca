// Package metrics exposes Prometheus counters for the runtime context's
// caches and resolvers. A nil *Recorder is valid and records nothing, so
// instrumentation is opt-in the same way the teacher's Options.Logger is.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Recorder records resolution and cache outcomes. The zero value (nil
// pointer) is safe to call methods on.
type Recorder struct {
	typeCacheHits     prometheus.Counter
	typeCacheMisses   prometheus.Counter
	assemblyResolved  *prometheus.CounterVec
	typeResolved      *prometheus.CounterVec
	memberResolved    *prometheus.CounterVec
	loadedAssemblies  prometheus.Gauge
}

// NewRecorder registers a fresh set of collectors on reg and returns a
// Recorder bound to them. Passing a *prometheus.Registry the caller owns
// lets multiple runtime contexts in one process avoid metric-name
// collisions by using separate registries.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		typeCacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "clrmeta_type_cache_hits_total",
			Help: "Type resolution cache hits.",
		}),
		typeCacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "clrmeta_type_cache_misses_total",
			Help: "Type resolution cache misses.",
		}),
		assemblyResolved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "clrmeta_assembly_resolutions_total",
			Help: "Assembly resolutions by terminal status.",
		}, []string{"status"}),
		typeResolved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "clrmeta_type_resolutions_total",
			Help: "Type resolutions by terminal status.",
		}, []string{"status"}),
		memberResolved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "clrmeta_member_resolutions_total",
			Help: "Member resolutions by terminal status.",
		}, []string{"status"}),
		loadedAssemblies: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "clrmeta_loaded_assemblies",
			Help: "Assemblies currently registered in the runtime context.",
		}),
	}
	reg.MustRegister(r.typeCacheHits, r.typeCacheMisses, r.assemblyResolved,
		r.typeResolved, r.memberResolved, r.loadedAssemblies)
	return r
}

// TypeCacheHit records a type-cache hit.
func (r *Recorder) TypeCacheHit() {
	if r == nil {
		return
	}
	r.typeCacheHits.Inc()
}

// TypeCacheMiss records a type-cache miss.
func (r *Recorder) TypeCacheMiss() {
	if r == nil {
		return
	}
	r.typeCacheMisses.Inc()
}

// AssemblyResolved records the terminal status of an assembly resolution.
func (r *Recorder) AssemblyResolved(status string) {
	if r == nil {
		return
	}
	r.assemblyResolved.WithLabelValues(status).Inc()
}

// TypeResolved records the terminal status of a type resolution.
func (r *Recorder) TypeResolved(status string) {
	if r == nil {
		return
	}
	r.typeResolved.WithLabelValues(status).Inc()
}

// MemberResolved records the terminal status of a member resolution.
func (r *Recorder) MemberResolved(status string) {
	if r == nil {
		return
	}
	r.memberResolved.WithLabelValues(status).Inc()
}

// SetLoadedAssemblies sets the loaded-assembly gauge to n.
func (r *Recorder) SetLoadedAssemblies(n int) {
	if r == nil {
		return
	}
	r.loadedAssemblies.Set(float64(n))
}
