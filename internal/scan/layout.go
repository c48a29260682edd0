// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// layout.go - Deterministic Fermat-spiral layout.
package scan

import "math"

// GoldenAngle is the spiral step in radians (~2.4). Successive indices land
// on a Fermat spiral with near-uniform density at any count.
const GoldenAngle = 2.39996322972865332

// DefaultSpiralScale spaces file regions far enough apart that a file's
// local block grid never overlaps its neighbors'.
const DefaultSpiralScale = 16.0

// SpiralOffset maps a work item's global index to its region offset on the
// ground plane. It is a pure function of index: the layout of a scan is
// reproducible regardless of scheduling order.
func SpiralOffset(index int, scale float64) (x, z int) {
	radius := scale * math.Sqrt(float64(index))
	angle := float64(index) * GoldenAngle
	x = int(math.Round(radius * math.Cos(angle)))
	z = int(math.Round(radius * math.Sin(angle)))
	return x, z
}
