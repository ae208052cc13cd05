package photon

import "github.com/pathforge/raygo/pkg/core"

// Photon records a single photon-mapping hit: where it landed, how much
// flux it carried, and the direction it arrived from (needed so a
// radiance lookup can reject photons whose incoming direction is on the
// wrong side of the shading normal, preventing light leaks through thin
// geometry).
type Photon struct {
	Position core.Vec3
	Power    core.Vec3
	Incoming core.Vec3
	plane    int // split axis recorded by balance, 0=x 1=y 2=z
}
