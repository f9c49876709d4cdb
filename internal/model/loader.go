package model

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/JosMR1003/aplicacion-flotacion/pkg/errors"
	"github.com/JosMR1003/aplicacion-flotacion/pkg/log"
)

// DefaultArtifactPath is the relative path the application reads the model
// from when no configuration overrides it.
const DefaultArtifactPath = "modeloproyecto.model.json"

// jsonArtifact is the top-level structure of the serialized model dump.
type jsonArtifact struct {
	Name         string         `json:"name"`
	Version      string         `json:"version"`
	Objective    string         `json:"objective"`
	FeatureNames []string       `json:"feature_names"`
	InitScore    float64        `json:"init_score"`
	TreeInfo     []jsonTreeInfo `json:"tree_info"`
}

type jsonTreeInfo struct {
	TreeIndex     int      `json:"tree_index"`
	NumLeaves     int      `json:"num_leaves"`
	Shrinkage     float64  `json:"shrinkage"`
	TreeStructure jsonNode `json:"tree_structure"`
}

// jsonNode is a node in the dumped tree; internal and leaf fields share one
// struct the way boosted-tree JSON dumps do.
type jsonNode struct {
	SplitFeature int       `json:"split_feature"`
	Threshold    float64   `json:"threshold"`
	DecisionType string    `json:"decision_type,omitempty"`
	DefaultLeft  bool      `json:"default_left,omitempty"`
	LeftChild    *jsonNode `json:"left_child,omitempty"`
	RightChild   *jsonNode `json:"right_child,omitempty"`
	LeafIndex    int       `json:"leaf_index,omitempty"`
	LeafValue    float64   `json:"leaf_value,omitempty"`
}

// Load reads and parses a model artifact from disk. Every failure comes
// back as a *errors.LoadError; a missing file keeps fs.ErrNotExist in the
// chain. No retry, no alternate path search.
func Load(path string) (*Ensemble, error) {
	cleanPath := filepath.Clean(path)
	if strings.Contains(cleanPath, "..") {
		return nil, errors.NewLoadError(path, errors.Newf("path traversal detected in %q", path))
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, errors.NewLoadError(path, err)
	}

	var artifact jsonArtifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, errors.NewLoadError(path, errors.Wrap(err, "failed to parse JSON"))
	}

	ensemble, err := convertArtifact(&artifact)
	if err != nil {
		return nil, errors.NewLoadError(path, err)
	}
	return ensemble, nil
}

func convertArtifact(artifact *jsonArtifact) (*Ensemble, error) {
	if artifact.Objective != "" && artifact.Objective != "regression" {
		return nil, errors.Newf("unsupported objective %q", artifact.Objective)
	}
	if len(artifact.FeatureNames) == 0 {
		return nil, errors.New("artifact has no feature names")
	}
	if len(artifact.TreeInfo) == 0 {
		return nil, errors.New("artifact has no trees")
	}

	ensemble := &Ensemble{
		Name:         artifact.Name,
		Version:      artifact.Version,
		Objective:    artifact.Objective,
		FeatureNames: artifact.FeatureNames,
		InitScore:    artifact.InitScore,
		Trees:        make([]Tree, 0, len(artifact.TreeInfo)),
	}

	for i := range artifact.TreeInfo {
		info := &artifact.TreeInfo[i]
		root, err := convertNode(&info.TreeStructure, len(artifact.FeatureNames))
		if err != nil {
			return nil, errors.Wrapf(err, "tree %d", info.TreeIndex)
		}
		ensemble.Trees = append(ensemble.Trees, Tree{
			Index:     info.TreeIndex,
			NumLeaves: info.NumLeaves,
			Shrinkage: info.Shrinkage,
			Root:      root,
		})
	}
	return ensemble, nil
}

func convertNode(jn *jsonNode, numFeatures int) (*Node, error) {
	if jn.LeftChild == nil && jn.RightChild == nil {
		return &Node{Feature: -1, LeafValue: jn.LeafValue}, nil
	}
	if jn.LeftChild == nil || jn.RightChild == nil {
		return nil, errors.New("internal node with a single child")
	}
	if jn.SplitFeature < 0 || jn.SplitFeature >= numFeatures {
		return nil, errors.Newf("split feature index %d out of range [0, %d)", jn.SplitFeature, numFeatures)
	}
	if jn.DecisionType != "" && jn.DecisionType != "<=" {
		return nil, errors.Newf("unsupported decision type %q", jn.DecisionType)
	}

	left, err := convertNode(jn.LeftChild, numFeatures)
	if err != nil {
		return nil, err
	}
	right, err := convertNode(jn.RightChild, numFeatures)
	if err != nil {
		return nil, err
	}

	return &Node{
		Feature:     jn.SplitFeature,
		Threshold:   jn.Threshold,
		DefaultLeft: jn.DefaultLeft,
		Left:        left,
		Right:       right,
	}, nil
}

// Loader reads the artifact at most once per process and hands out the same
// instance afterwards. The memoized handle is meant to be created in main
// and injected into whatever serves predictions; there is no package-level
// global model.
type Loader struct {
	path string

	once     sync.Once
	ensemble *Ensemble
	err      error
	loads    atomic.Int64
}

// NewLoader creates a Loader for the given artifact path.
func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// Path returns the artifact path this loader reads.
func (l *Loader) Path() string {
	return l.path
}

// Load returns the cached ensemble, reading the file only on first call.
// The load outcome, success or failure, is also cached: a loader that
// failed once keeps failing with the same error.
func (l *Loader) Load() (*Ensemble, error) {
	l.once.Do(func() {
		l.loads.Add(1)
		l.ensemble, l.err = Load(l.path)

		logger := log.GetLoggerWithName("model.loader")
		if l.err != nil {
			logger.Warn("el modelo no pudo ser cargado", log.ModelPathKey, l.path, "error", l.err)
			return
		}
		logger.Info("modelo cargado", log.ModelPathKey, l.path,
			"trees", l.ensemble.NumTrees(), "features", l.ensemble.NumFeatures())
	})
	return l.ensemble, l.err
}

// LoadCount returns how many times the file has actually been read.
func (l *Loader) LoadCount() int64 {
	return l.loads.Load()
}
