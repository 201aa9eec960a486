package potts

import "potts-ca/internal/mesh"

// CreateElementTessellation would build a polygon tessellation of the
// elements for visualization. It is not supported.
func (p *Population) CreateElementTessellation() error {
	return ErrTessellationUnsupported
}

// ElementTessellation would return the tessellation built by
// CreateElementTessellation. It is not supported.
func (p *Population) ElementTessellation() ([][]mesh.Point, error) {
	return nil, ErrTessellationUnsupported
}
