package inventory

import "sync"

// ProductLocks serializa las mutaciones de stock por producto.
// La granularidad es por product_id, no global: dos flujos sobre productos distintos
// no se bloquean entre sí. El lock solo debe rodear la secuencia leer-validar-escribir
// del Applier; nunca I/O ajeno a la escritura del kardex.
type ProductLocks struct {
	mu      sync.Mutex
	entries map[string]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// NewProductLocks construye el controlador de serialización.
func NewProductLocks() *ProductLocks {
	return &ProductLocks{entries: make(map[string]*lockEntry)}
}

// WithProduct ejecuta fn con el lock exclusivo del producto. La entrada del mapa se
// refcuenta y se elimina cuando nadie más la espera, para que el mapa no crezca con
// el catálogo completo.
func (l *ProductLocks) WithProduct(productID string, fn func() error) error {
	e := l.acquire(productID)
	e.mu.Lock()
	defer func() {
		e.mu.Unlock()
		l.release(productID)
	}()
	return fn()
}

func (l *ProductLocks) acquire(productID string) *lockEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.entries[productID]
	if !ok {
		e = &lockEntry{}
		l.entries[productID] = e
	}
	e.refs++
	return e
}

func (l *ProductLocks) release(productID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.entries[productID]
	if !ok {
		return
	}
	e.refs--
	if e.refs <= 0 {
		delete(l.entries, productID)
	}
}
