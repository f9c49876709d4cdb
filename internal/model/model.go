// Package model implements the inference side of the flotation silica
// predictor: loading a serialized boosted-tree regression artifact and
// evaluating it against operator-supplied process parameters. There is no
// training code here; the artifact is produced externally and consumed
// read-only.
package model

import "math"

// Node is a single node in a regression tree. Leaves have no children and
// carry the leaf value; internal nodes split on a feature index against a
// threshold.
type Node struct {
	Feature     int     // Feature index used for splitting
	Threshold   float64 // Split threshold (numerical splits only)
	DefaultLeft bool    // Direction taken for missing (NaN) values
	Left        *Node
	Right       *Node
	LeafValue   float64
}

// IsLeaf returns true if the node has no children.
func (n *Node) IsLeaf() bool {
	return n.Left == nil && n.Right == nil
}

// Tree is a single regression tree in the ensemble.
type Tree struct {
	Index     int
	NumLeaves int
	Shrinkage float64
	Root      *Node
}

// Decide traverses the tree for one sample and returns the leaf value.
// Leaf values in the artifact already include shrinkage.
func (t *Tree) Decide(features []float64) float64 {
	node := t.Root
	for !node.IsLeaf() {
		v := features[node.Feature]
		if math.IsNaN(v) {
			if node.DefaultLeft {
				node = node.Left
			} else {
				node = node.Right
			}
			continue
		}
		if v <= node.Threshold {
			node = node.Left
		} else {
			node = node.Right
		}
	}
	return node.LeafValue
}

// Ensemble is the in-memory form of the serialized model artifact: an
// additive ensemble of regression trees plus the feature schema it was
// trained on. Immutable after load.
type Ensemble struct {
	Name         string
	Version      string
	Objective    string
	FeatureNames []string
	InitScore    float64
	Trees        []Tree
}

// NumFeatures returns the number of features in the training schema.
func (e *Ensemble) NumFeatures() int {
	return len(e.FeatureNames)
}

// NumTrees returns the number of trees in the ensemble.
func (e *Ensemble) NumTrees() int {
	return len(e.Trees)
}

// score evaluates the raw ensemble output for one sample. The caller is
// responsible for dimension checks.
func (e *Ensemble) score(features []float64) float64 {
	sum := e.InitScore
	for i := range e.Trees {
		sum += e.Trees[i].Decide(features)
	}
	return sum
}
