package model

import (
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/JosMR1003/aplicacion-flotacion/pkg/errors"
)

const testArtifact = "testdata/modeloproyecto.model.json"

func TestLoadArtifact(t *testing.T) {
	ensemble, err := Load(testArtifact)
	require.NoError(t, err)

	assert.Equal(t, "regression", ensemble.Objective)
	assert.Equal(t, FeatureNames(), ensemble.FeatureNames)
	assert.Equal(t, 3, ensemble.NumFeatures())
	assert.Equal(t, 3, ensemble.NumTrees())
	assert.InDelta(t, 1.37, ensemble.InitScore, 1e-12)
}

func TestLoadMissingFile(t *testing.T) {
	ensemble, err := Load("testdata/no-existe.json")
	require.Error(t, err)
	assert.Nil(t, ensemble)

	var loadErr *apperrors.LoadError
	require.True(t, apperrors.As(err, &loadErr))
	assert.True(t, apperrors.Is(err, fs.ErrNotExist))
}

func TestLoadRejectsUpwardPath(t *testing.T) {
	ensemble, err := Load("../model/" + testArtifact)
	require.Error(t, err)
	assert.Nil(t, ensemble)

	var loadErr *apperrors.LoadError
	require.True(t, apperrors.As(err, &loadErr))
	assert.Contains(t, err.Error(), "path traversal")
}

func TestLoadCorruptJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupto.json")
	require.NoError(t, os.WriteFile(path, []byte("{no es json"), 0o644))

	_, err := Load(path)
	require.Error(t, err)

	var loadErr *apperrors.LoadError
	assert.True(t, apperrors.As(err, &loadErr))
}

func TestLoadRejectsUnsupportedArtifacts(t *testing.T) {
	cases := map[string]string{
		"objetivo":      `{"objective":"binary","feature_names":["a"],"tree_info":[{"tree_structure":{"leaf_value":1}}]}`,
		"sin_features":  `{"objective":"regression","feature_names":[],"tree_info":[{"tree_structure":{"leaf_value":1}}]}`,
		"sin_arboles":   `{"objective":"regression","feature_names":["a"],"tree_info":[]}`,
		"hijo_unico":    `{"objective":"regression","feature_names":["a"],"tree_info":[{"tree_structure":{"split_feature":0,"threshold":1,"left_child":{"leaf_value":1}}}]}`,
		"feature_fuera": `{"objective":"regression","feature_names":["a"],"tree_info":[{"tree_structure":{"split_feature":7,"threshold":1,"left_child":{"leaf_value":1},"right_child":{"leaf_value":2}}}]}`,
	}

	dir := t.TempDir()
	for name, content := range cases {
		path := filepath.Join(dir, name+".json")
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		_, err := Load(path)
		assert.Error(t, err, name)
	}
}

func TestLoaderMemoizesSuccess(t *testing.T) {
	loader := NewLoader(testArtifact)

	first, err := loader.Load()
	require.NoError(t, err)
	second, err := loader.Load()
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, int64(1), loader.LoadCount())
}

func TestLoaderMemoizesFailure(t *testing.T) {
	loader := NewLoader("testdata/no-existe.json")

	_, err1 := loader.Load()
	require.Error(t, err1)
	_, err2 := loader.Load()
	require.Error(t, err2)

	assert.Equal(t, err1, err2)
	assert.Equal(t, int64(1), loader.LoadCount())
}

func TestLoaderConcurrentFirstUse(t *testing.T) {
	loader := NewLoader(testArtifact)

	var wg sync.WaitGroup
	results := make([]*Ensemble, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = loader.Load()
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int64(1), loader.LoadCount())
	for i := 1; i < 8; i++ {
		assert.Same(t, results[0], results[i])
	}
}
