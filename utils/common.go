package utils

const (
	// NODETOL is the relative distance below which two nodes are one node.
	NODETOL = 1.e-12
)
