package registry

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abiiranathan/twigcheck/internal/testfs"
)

const phpProject = `
-- var/cache/dev/templates.php --
<?php return array (
  'app:index.twig' => '$ROOT/templates/index.twig',
  'FooBundle:emails:welcome.html.twig' => '$ROOT/src/FooBundle/Resources/views/emails/../emails/welcome.html.twig',
  'app:gone.twig' => '$ROOT/templates/gone.twig',
  'app:rel.twig' => __DIR__.'/../../../templates/rel.twig',
  "app:dq.twig" => "$ROOT/templates/index.twig",
);
-- templates/index.twig --
{% include 'app:footer.twig' %}
-- templates/rel.twig --
-- src/FooBundle/Resources/views/emails/welcome.html.twig --
hello
`

func TestLoadPHP(t *testing.T) {
	root := testfs.Write(t, phpProject)

	reg, err := Load(root, "")
	require.NoError(t, err)
	assert.Equal(t, 5, reg.Len())

	path, ok := reg.Lookup("app:index.twig")
	require.True(t, ok)
	assert.Equal(t, testfs.Path(root, "templates/index.twig"), path)

	path, ok = reg.Lookup("FooBundle:emails:welcome.html.twig")
	require.True(t, ok)
	assert.Equal(t, testfs.Path(root, "src/FooBundle/Resources/views/emails/welcome.html.twig"), path)

	path, ok = reg.Lookup("app:rel.twig")
	require.True(t, ok)
	assert.Equal(t, testfs.Path(root, "templates/rel.twig"), path)

	path, ok = reg.Lookup("app:dq.twig")
	require.True(t, ok)
	assert.Equal(t, testfs.Path(root, "templates/index.twig"), path)

	t.Run("missing file kept with sentinel", func(t *testing.T) {
		path, ok := reg.Lookup("app:gone.twig")
		assert.True(t, ok)
		assert.Empty(t, path)
		assert.Equal(t, []string{"app:gone.twig"}, reg.Missing())
	})

	t.Run("unknown name", func(t *testing.T) {
		_, ok := reg.Lookup("app:nope.twig")
		assert.False(t, ok)
	})
}

func TestLoadMissingArtifact(t *testing.T) {
	root := t.TempDir()
	_, err := Load(root, "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRegistryMissing))
}

func TestLoadOtherFormats(t *testing.T) {
	root := testfs.Write(t, `
-- templates/index.twig --
-- registry.json --
{"app:index.twig": "$ROOT/templates/index.twig"}
-- registry.yaml --
app:index.twig: $ROOT/templates/index.twig
-- registry.toml --
"app:index.twig" = "$ROOT/templates/index.twig"
`)
	want := testfs.Path(root, "templates/index.twig")

	for _, artifact := range []string{"registry.json", "registry.yaml", "registry.toml"} {
		t.Run(artifact, func(t *testing.T) {
			reg, err := Load(root, artifact)
			require.NoError(t, err)
			path, ok := reg.Lookup("app:index.twig")
			require.True(t, ok)
			assert.Equal(t, want, path)
		})
	}
}

func TestLoadRelativeValuesResolveAgainstArtifactDir(t *testing.T) {
	root := testfs.Write(t, `
-- config/registry.yaml --
app:index.twig: ../templates/index.twig
app:root.twig: templates/index.twig
-- templates/index.twig --
`)

	reg, err := Load(root, "config/registry.yaml")
	require.NoError(t, err)

	path, ok := reg.Lookup("app:index.twig")
	require.True(t, ok)
	assert.Equal(t, testfs.Path(root, "templates/index.twig"), path)

	// not resolved against the project root or the working directory
	path, ok = reg.Lookup("app:root.twig")
	require.True(t, ok)
	assert.Empty(t, path)
}

func TestDecodeErrors(t *testing.T) {
	_, err := Decode("x.ini", []byte("a=b"))
	assert.Error(t, err)

	_, err = Decode("x.php", []byte("<?php echo 'hi';"))
	assert.Error(t, err)

	raw, err := Decode("x.php", []byte("<?php return [];"))
	require.NoError(t, err)
	assert.Empty(t, raw)
}

func TestDecodePHPEscapes(t *testing.T) {
	raw, err := Decode("x.php", []byte(`<?php return array('it\'s.twig' => '/a\\b.twig');`))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"it's.twig": `/a\b.twig`}, raw)
}

func TestNewCopiesInput(t *testing.T) {
	src := map[string]string{"b": "/b", "a": ""}
	reg := New(src)
	src["c"] = "/c"

	assert.Equal(t, 2, reg.Len())
	_, ok := reg.Lookup("c")
	assert.False(t, ok)
	assert.Equal(t, []string{"a"}, reg.Missing())
	path, ok := reg.Lookup("b")
	assert.True(t, ok)
	assert.Equal(t, "/b", path)
}
