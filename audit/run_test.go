package audit

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abiiranathan/twigcheck/config"
	"github.com/abiiranathan/twigcheck/internal/testfs"
)

const project = `
-- var/cache/dev/templates.php --
<?php return array (
  'app:index.twig' => '$ROOT/templates/index.twig',
  'app:footer.twig' => '$ROOT/templates/footer.twig',
  'FooBundle:Default:hello.html.twig' => '$ROOT/src/FooBundle/Resources/views/Default/hello.html.twig',
  'app:deleted.twig' => '$ROOT/templates/deleted.twig',
);
-- src/FooBundle/Controller/DefaultController.php --
<?php
class DefaultController {
    public function index() { return $this->render('app:index.twig'); }
    public function hello() { return $this->render('@Foo/Default/hello.html.twig'); }
    public function broken() { return $this->render('app:typo.twig'); }
    public function gone() { return $this->render('app:deleted.twig'); }
}
-- src/FooBundle/Resources/views/Default/hello.html.twig --
<p>hello</p>
-- templates/index.twig --
{% include 'app:footer.twig' %}
-- templates/footer.twig --
<footer></footer>
-- templates/unused.twig --
-- templates/widgets/only_from_template.twig --
-- app/Resources/views/legacy.twig --
`

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func runProject(t *testing.T, root string, mutate func(*config.Config)) (*Report, error) {
	t.Helper()
	cfg := config.Default()
	cfg.Root = root
	if mutate != nil {
		mutate(&cfg)
	}
	r := &Runner{Config: cfg, Logger: quietLogger()}
	return r.Run(context.Background())
}

func TestRun(t *testing.T) {
	root := testfs.Write(t, project)

	rep, err := runProject(t, root, nil)
	require.NoError(t, err)

	assert.Equal(t, 6, rep.Templates)
	assert.Equal(t, 1, rep.Sources)
	assert.Equal(t, 4, rep.RegistrySize)
	assert.Equal(t, []string{
		testfs.Path(root, "app"),
		testfs.Path(root, "src"),
		testfs.Path(root, "templates"),
	}, rep.TemplateRoots)

	assert.Equal(t, []string{
		testfs.Path(root, "app/Resources/views/legacy.twig"),
		testfs.Path(root, "templates/unused.twig"),
		testfs.Path(root, "templates/widgets/only_from_template.twig"),
	}, rep.Orphans)
	assert.Equal(t, []string{"app:typo.twig"}, rep.Invalid)
	assert.Equal(t, []string{"app:deleted.twig"}, rep.Broken)
	assert.Len(t, rep.Issues, 5)
	assert.False(t, rep.Clean())
}

func TestRunReportsTemplatesUnderDependencyNamedDirs(t *testing.T) {
	root := testfs.Write(t, project+`
-- templates/var/stale.twig --
-- src/Shop/Resources/views/vendor/old.twig --
`)

	rep, err := runProject(t, root, nil)
	require.NoError(t, err)
	assert.Equal(t, 8, rep.Templates)
	assert.Contains(t, rep.Orphans, testfs.Path(root, "templates/var/stale.twig"))
	assert.Contains(t, rep.Orphans, testfs.Path(root, "src/Shop/Resources/views/vendor/old.twig"))

	rep, err = runProject(t, root, func(c *config.Config) {
		c.ExcludeDirs = []string{"var", "vendor"}
	})
	require.NoError(t, err)
	assert.Equal(t, 6, rep.Templates)
	assert.NotContains(t, rep.Orphans, testfs.Path(root, "templates/var/stale.twig"))
}

func TestRunScanTemplates(t *testing.T) {
	root := testfs.Write(t, project+`
-- templates/extra.twig --
{% embed 'templates:widgets/only_from_template.twig' %}
`)

	rep, err := runProject(t, root, func(c *config.Config) {
		c.ScanTemplates = true
	})
	require.NoError(t, err)

	assert.Equal(t, 8, rep.Sources)
	assert.Contains(t, rep.Invalid, "templates:widgets:only_from_template.twig")
}

func TestRunAborts(t *testing.T) {
	t.Run("registry missing", func(t *testing.T) {
		root := testfs.Write(t, `
-- src/A.php --
`)
		_, err := runProject(t, root, nil)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrRegistryMissing))
	})

	t.Run("no template roots", func(t *testing.T) {
		root := testfs.Write(t, `
-- var/cache/dev/templates.php --
<?php return [];
`)
		_, err := runProject(t, root, nil)
		assert.ErrorIs(t, err, ErrRootsMissing)
	})

	t.Run("source root missing", func(t *testing.T) {
		root := testfs.Write(t, `
-- var/cache/dev/templates.php --
<?php return [];
-- templates/index.twig --
`)
		_, err := runProject(t, root, nil)
		assert.ErrorIs(t, err, ErrRootsMissing)
	})

	t.Run("invalid config", func(t *testing.T) {
		_, err := runProject(t, t.TempDir(), func(c *config.Config) { c.TemplatePattern = "(" })
		assert.Error(t, err)
	})
}

func TestRunTracesSteps(t *testing.T) {
	root := testfs.Write(t, project)
	rec := &recorder{}
	cfg := config.Default()
	cfg.Root = root

	_, err := (&Runner{Config: cfg, Tracer: rec, Logger: quietLogger()}).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Reading templates...",
		"Locating twig files...",
		"6 template files found",
	}, rec.notes)
	assert.Contains(t, rec.comments, "Read templates file : "+filepath.Join(root, "var/cache/dev/templates.php"))
	assert.Contains(t, rec.comments, "Scanning DefaultController.php...")
}

func TestRunSkipsUnreadableSource(t *testing.T) {
	root := testfs.Write(t, project)
	controller := testfs.Path(root, "src/FooBundle/Controller/DefaultController.php")

	cfg := config.Default()
	cfg.Root = root
	reader := ReaderFunc(func(path string) (string, error) {
		if path == controller {
			return "", os.ErrPermission
		}
		b, err := os.ReadFile(path)
		return string(b), err
	})

	rep, err := (&Runner{Config: cfg, Reader: reader, Logger: quietLogger()}).Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, rep.Sources)
	assert.Len(t, rep.Orphans, rep.Templates)
}
