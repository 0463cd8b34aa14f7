package lifetime

// Guard binds a unit to a pool-backed token so the scheduler's liveness check
// can observe owner teardown. Embed it in a tickable unit and call Release in
// the owner's teardown path; a released unit is dropped from its buckets
// lazily, with no unregistration hook.
type Guard struct {
	pool *Pool
	tok  Token
}

func NewGuard(p *Pool) Guard {
	return Guard{pool: p, tok: p.Acquire()}
}

// Alive satisfies the scheduler's Liveness contract. A zero Guard is never
// alive.
func (g Guard) Alive() bool {
	return g.pool != nil && g.pool.Alive(g.tok)
}

func (g Guard) Token() Token { return g.tok }

func (g Guard) Release() {
	if g.pool != nil {
		g.pool.Release(g.tok)
	}
}
