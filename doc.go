// Package locus provides static, bulk-loaded 2D spatial indexes: a KD-tree
// over points (KDTree), a packed Hilbert R-tree over axis-aligned boxes
// (RTree), and a segmental Hilbert R-tree over line segments
// (SegmentalTree). All three are immutable once built from NewKDTree,
// NewRTree or NewSegmentalTree and support containment, radius and
// k-nearest-neighbor queries in sublinear expected time.
package locus
