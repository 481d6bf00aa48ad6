package php

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestReadComposerLayout_PSR4FromComposerJSON(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "composer.json"), `{
		"autoload": {
			"psr-4": {
				"App\\": "src/"
			}
		}
	}`)

	layout, err := ReadComposerLayout(root)
	require.NoError(t, err)
	require.Contains(t, layout.PSR4, "App\\")
	assert.Equal(t, []string{filepath.Join(root, "src")}, layout.PSR4["App\\"])

	path, ok := layout.ResolvePath("App\\Entity\\User")
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, "src", "Entity", "User.php"), path)
}

func TestReadComposerLayout_MultipleDirsAndAutoloadDev(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "composer.json"), `{
		"autoload": {
			"psr-4": {
				"App\\": ["src/", "lib/"]
			}
		},
		"autoload-dev": {
			"psr-4": {
				"App\\Tests\\": "tests/"
			}
		}
	}`)

	layout, err := ReadComposerLayout(root)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "src"), filepath.Join(root, "lib")}, layout.PSR4["App\\"])
	assert.Contains(t, layout.PSR4, "App\\Tests\\")
}

func TestComposerLayout_ResolvePath_LongestPrefixWins(t *testing.T) {
	layout := &ComposerLayout{
		PSR4: map[string][]string{
			"App\\":         {"/proj/src"},
			"App\\Legacy\\": {"/proj/legacy"},
		},
	}

	path, ok := layout.ResolvePath("App\\Legacy\\OldThing")
	require.True(t, ok)
	assert.Equal(t, filepath.Join("/proj/legacy", "OldThing.php"), path)

	path, ok = layout.ResolvePath("App\\Entity\\User")
	require.True(t, ok)
	assert.Equal(t, filepath.Join("/proj/src", "Entity", "User.php"), path)
}

func TestComposerLayout_ResolvePath_NoMatchingPrefix(t *testing.T) {
	layout := &ComposerLayout{PSR4: map[string][]string{"App\\": {"/proj/src"}}}
	_, ok := layout.ResolvePath("Vendor\\Lib\\Thing")
	assert.False(t, ok)
}

func TestComposerLayout_ClassmapPath(t *testing.T) {
	layout := &ComposerLayout{Classmap: map[string]string{"App\\Legacy\\Thing": "/proj/legacy/Thing.php"}}
	path, ok := layout.ClassmapPath("App\\Legacy\\Thing")
	require.True(t, ok)
	assert.Equal(t, "/proj/legacy/Thing.php", path)

	_, ok = layout.ClassmapPath("App\\Unknown")
	assert.False(t, ok)
}

func TestComposerLayout_UserRoots_ExcludesVendor(t *testing.T) {
	layout := &ComposerLayout{
		PSR4: map[string][]string{
			"App\\":         {"/proj/src"},
			"Vendor\\Pkg\\": {filepath.Join("/proj", "vendor", "pkg", "src")},
		},
	}
	roots := layout.UserRoots()
	assert.Equal(t, []string{"/proj/src"}, roots)
}

func TestReadComposerLayout_GeneratedAutoloadFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "composer.json"), `{"autoload": {"psr-4": {"App\\": "src/"}}}`)

	writeFile(t, filepath.Join(root, "vendor", "composer", "autoload_psr4.php"), `<?php
return array(
	'Vendor\\Pkg\\' => array('`+filepath.Join(root, "vendor", "pkg", "src")+`'),
);
`)
	writeFile(t, filepath.Join(root, "vendor", "composer", "autoload_classmap.php"), `<?php
return array(
	'Vendor\\Pkg\\Thing' => '`+filepath.Join(root, "vendor", "pkg", "src", "Thing.php")+`',
);
`)
	writeFile(t, filepath.Join(root, "vendor", "composer", "autoload_files.php"), `<?php
return array(
	'abc123' => '`+filepath.Join(root, "vendor", "pkg", "helpers.php")+`',
);
`)

	layout, err := ReadComposerLayout(root)
	require.NoError(t, err)

	// The generated autoload_*.php readers pull the raw source text between
	// quotes (arrayEntries/stringLiteralValue don't interpret PHP escape
	// sequences), so a namespace double-backslash in the PHP source survives
	// as a literal double backslash in the resulting map key.
	psr4Key := `Vendor\\Pkg\\`
	require.Contains(t, layout.PSR4, psr4Key)
	assert.Contains(t, layout.PSR4[psr4Key], filepath.Join(root, "vendor", "pkg", "src"))

	classmapKey := `Vendor\\Pkg\\Thing`
	require.Contains(t, layout.Classmap, classmapKey)
	assert.Equal(t, filepath.Join(root, "vendor", "pkg", "src", "Thing.php"), layout.Classmap[classmapKey])

	require.Len(t, layout.Files, 1)
	assert.Equal(t, filepath.Join(root, "vendor", "pkg", "helpers.php"), layout.Files[0])
}
