package freqmodel

// Bank owns every per-(cluster,column,context) frequency model used by one
// encode or decode run, plus the cluster-id model. Models are allocated
// lazily on first use and then reused for the life of the stream — "the
// per-(cluster,column,ctx) frequency tables" §5 names as the only shared
// mutable state across lines besides the coder's range state and the PRNG.
type Bank struct {
	rmax    uint32
	cluster *Model
	byKey   map[key]*Model
}

type key struct {
	cluster int
	column  int
	ctx     int
}

// NewBank allocates a Bank. clusterCount is the number of distinct cluster
// ids the cluster model must cover.
func NewBank(clusterCount int, rmax uint32) *Bank {
	return &Bank{
		rmax:    rmax,
		cluster: New(clusterCount, rmax),
		byKey:   make(map[key]*Model),
	}
}

// Cluster returns the shared adaptive model used to code each line's
// cluster id (§4.K state "start").
func (b *Bank) Cluster() *Model { return b.cluster }

// Context returns the model for (cluster, column, ctx), allocating it with
// `states` symbols on first use.
func (b *Bank) Context(cluster, column, ctx, states int) *Model {
	k := key{cluster, column, ctx}
	m, ok := b.byKey[k]
	if !ok {
		m = New(states, b.rmax)
		b.byKey[k] = m
	}
	return m
}
