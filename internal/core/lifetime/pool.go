package lifetime

// Token encodes a 32-bit index in the lower bits and a 32-bit generation in
// the upper bits. Generation increments on release to invalidate stale
// references.
type Token uint64

func newToken(index uint32, generation uint32) Token {
	return Token(uint64(generation)<<32 | uint64(index))
}

func (t Token) Index() uint32      { return uint32(t) }
func (t Token) Generation() uint32 { return uint32(t >> 32) }
func (t Token) IsZero() bool       { return t == 0 }

// Pool hands out generational tokens with a free list. A token stops being
// alive the moment its owner releases it, which is how the scheduler detects
// units whose owner tore down without unregistering.
type Pool struct {
	generations []uint32
	freeList    []uint32
	nextIndex   uint32
}

func NewPool() *Pool {
	return &Pool{
		generations: make([]uint32, 0, 256),
		freeList:    make([]uint32, 0, 64),
	}
}

func (p *Pool) Acquire() Token {
	if len(p.freeList) > 0 {
		idx := p.freeList[len(p.freeList)-1]
		p.freeList = p.freeList[:len(p.freeList)-1]
		return newToken(idx, p.generations[idx])
	}
	idx := p.nextIndex
	p.nextIndex++
	if int(idx) >= len(p.generations) {
		p.generations = append(p.generations, 0)
	}
	return newToken(idx, p.generations[idx])
}

func (p *Pool) Alive(t Token) bool {
	idx := t.Index()
	if idx >= p.nextIndex {
		return false
	}
	return p.generations[idx] == t.Generation()
}

func (p *Pool) Release(t Token) {
	idx := t.Index()
	if idx >= p.nextIndex {
		return
	}
	if p.generations[idx] != t.Generation() {
		return // already released (stale token)
	}
	p.generations[idx]++
	p.freeList = append(p.freeList, idx)
}
