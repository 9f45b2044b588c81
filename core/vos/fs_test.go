package vos

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"io/fs"
	"path"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func FSTestCase(t *testing.T, suite FSTestSuite, testPath string) *FSTestCaseSetup {
	testFS, checkFS := suite.MakeFS(t)

	prefixer := func(in string) string {
		return in
	}
	if suite.Prefixer != nil {
		prefixer = suite.Prefixer
	}

	return &FSTestCaseSetup{
		check: &FSTestCaseCheck{
			t:    t,
			fs:   checkFS,
			name: testPath,
		},

		t:        t,
		fs:       testFS,
		testPath: testPath,
		prefixer: prefixer,
	}
}

func (tc *FSTestCaseSetup) MkdirTestPath(perm fs.FileMode) *FSTestCaseSetup {
	return tc.Mkdir(tc.testPath, perm)
}

func (tc *FSTestCaseSetup) Mkdir(path string, perm fs.FileMode) *FSTestCaseSetup {
	if err := tc.fs.Mkdir(tc.prefixer(path), perm); err != nil {
		tc.t.Fatal(err)
	}

	return tc
}

func (tc *FSTestCaseSetup) MkdirAllParentsTestPath(perm fs.FileMode) *FSTestCaseSetup {
	return tc.MkdirAllParents(tc.testPath, perm)
}

func (tc *FSTestCaseSetup) MkdirAllParents(name string, perm fs.FileMode) *FSTestCaseSetup {
	if err := tc.fs.MkdirAll(tc.prefixer(path.Dir(name)), perm); err != nil {
		tc.t.Fatal(err)
	}

	return tc
}

func (tc *FSTestCaseSetup) CreateTestPath() *FSTestCaseSetup {
	return tc.Create(tc.testPath)
}

func (tc *FSTestCaseSetup) Create(path string) *FSTestCaseSetup {
	fd, err := tc.fs.Create(tc.prefixer(path))
	if err != nil {
		tc.t.Fatal(err)
	}
	fd.Close()

	return tc
}

func (tc *FSTestCaseSetup) AssertAfter(callback func(fs VFS, name string) error) *FSTestCaseCheck {
	tc.check.err = callback(tc.fs, tc.prefixer(tc.testPath))
	return tc.check
}

type FSTestCaseSetup struct {
	check *FSTestCaseCheck

	t        *testing.T
	fs       VFS
	testPath string
	prefixer func(string) string
}

type FSTestCaseCheck struct {
	t    *testing.T
	fs   VFS
	name string
	err  error
}

func (tc *FSTestCaseCheck) NoError() *FSTestCaseCheck {
	assert.Nil(tc.t, tc.err)
	return tc
}

func (tc *FSTestCaseCheck) Error() *FSTestCaseCheck {
	assert.Error(tc.t, tc.err)
	return tc
}

func (tc *FSTestCaseCheck) ErrorIs(desired error) *FSTestCaseCheck {
	assert.ErrorIs(tc.t, tc.err, desired)
	return tc
}

func (tc *FSTestCaseCheck) OutExists() *FSTestCaseCheck {
	return tc.Exists(tc.name)
}

func (tc *FSTestCaseCheck) Exists(name string) *FSTestCaseCheck {
	exists, err := afero.Exists(tc.fs, name)
	if err != nil {
		tc.t.Errorf("exists %q: %v", name, err)
	}
	if !exists {
		tc.t.Errorf("doesn't exist: %q", name)
	}

	return tc
}

func (tc *FSTestCaseCheck) TestPathIsDir() *FSTestCaseCheck {
	return tc.IsDir(tc.name)
}

func (tc *FSTestCaseCheck) IsDir(name string) *FSTestCaseCheck {
	info, err := tc.fs.Stat(name)
	if err != nil {
		tc.t.Errorf("stat %q: %v", name, err)
	}
	assert.True(tc.t, info.IsDir(), "IsDir()")

	return tc
}

type FSTestSuite struct {
	// MakeFS creates an FS for a single test. In is the FS that will be operated
	// on with the test. out is the FS checked for data. If error is set, the test
	// will fail.
	MakeFS func(t *testing.T) (in, out VFS)

	// Prefixer adds a prefix to a test entry. Input paths will ALWAYS be absolute
	// and slash delimited.
	Prefixer func(name string) (outname string)

}

func RunFsTest(t *testing.T, suite FSTestSuite) {
	t.Run("Create", func(t *testing.T) {
		callback := func(fs VFS, name string) error {
			_, err := fs.Create(name)
			return err
		}

		t.Run("nominal", func(t *testing.T) {
			FSTestCase(t, suite, "/note.txt").
				AssertAfter(callback).
				NoError().
				OutExists()
		})
		t.Run("exists", func(t *testing.T) {
			// Create should work over existing files.
			FSTestCase(t, suite, "/note.txt").
				CreateTestPath().
				AssertAfter(callback).
				NoError().
				OutExists()
		})
		t.Run("exists as a dir", func(t *testing.T) {
			// Create should fail over directories.
			FSTestCase(t, suite, "/note").
				MkdirTestPath(0700).
				AssertAfter(callback).
				Error()
		})
		t.Run("missing dir", func(t *testing.T) {
			FSTestCase(t, suite, "/does/not/exist/note").
				AssertAfter(callback).
				ErrorIs(fs.ErrNotExist)
		})
		t.Run("nested", func(t *testing.T) {
			FSTestCase(t, suite, "/path/that/exists/note").
				MkdirAllParentsTestPath(0700).
				AssertAfter(callback).
				NoError().
				OutExists()
		})

	})

	t.Run("Mkdir", func(t *testing.T) {
		mkdirCallback := func(fs VFS, name string) error {
			return fs.Mkdir(name, 0700)
		}

		t.Run("nominal", func(t *testing.T) {
			FSTestCase(t, suite, "/dir").
				AssertAfter(mkdirCallback).
				NoError().
				TestPathIsDir()
		})
		t.Run("exists", func(t *testing.T) {
			// Create should work over existing files.
			FSTestCase(t, suite, "/dir").
				MkdirTestPath(0777).
				AssertAfter(mkdirCallback).
				ErrorIs(fs.ErrExist).
				TestPathIsDir()
		})
		t.Run("exists as file", func(t *testing.T) {
			// Create should fail over directories.
			FSTestCase(t, suite, "/dir").
				CreateTestPath().
				AssertAfter(mkdirCallback).
				Error()
		})
		t.Run("missing dir", func(t *testing.T) {
			FSTestCase(t, suite, "/does/not/exist/dir").
				AssertAfter(mkdirCallback).
				ErrorIs(fs.ErrNotExist)
		})
		t.Run("nested", func(t *testing.T) {
			FSTestCase(t, suite, "/path/that/exists/note").
				MkdirAllParentsTestPath(0700).
				AssertAfter(mkdirCallback).
				NoError().
				OutExists()
		})

	})
}

func tempDirFs(t *testing.T) VFS {
	return afero.NewBasePathFs(afero.NewOsFs(), t.TempDir())
}

func TestOSFs(t *testing.T) {
	RunFsTest(t, FSTestSuite{
		MakeFS: func(t *testing.T) (VFS, VFS) {
			fs := tempDirFs(t)
			return fs, fs
		},
	})
}

func TestMountFS(t *testing.T) {
	t.Run("root", func(t *testing.T) {
		RunFsTest(t, FSTestSuite{
			MakeFS: func(t *testing.T) (VFS, VFS) {
				fs := NewMountFS(tempDirFs(t))
				return fs, fs
			},
		})
	})

	t.Run("mounted", func(t *testing.T) {
		RunFsTest(t, FSTestSuite{
			MakeFS: func(t *testing.T) (VFS, VFS) {
				data := tempDirFs(t)
				fs := NewMountFS(tempDirFs(t))
				require.NoError(t, fs.Mount("/mnt/data", data))
				return fs, data
			},
			Prefixer: func(name string) string {
				return path.Join("/mnt/data", name)
			},
		})
	})
}

func TestMountFS_Resolve(t *testing.T) {
	root := afero.NewMemMapFs()
	outer := afero.NewMemMapFs()
	inner := afero.NewMemMapFs()

	mfs := NewMountFS(root)
	require.NoError(t, mfs.Mount("/mnt", outer))
	require.NoError(t, mfs.Mount("/mnt/inner/", inner))

	cases := map[string]struct {
		wantFS  VFS
		wantRel string
	}{
		"/":                {root, "/"},
		"/etc/passwd":      {root, "/etc/passwd"},
		"/mnt":             {outer, "/"},
		"/mnt/file":        {outer, "/file"},
		"/mntx/file":       {root, "/mntx/file"},
		"/mnt/inner":       {inner, "/"},
		"/mnt/inner/a/b":   {inner, "/a/b"},
		"/mnt/../mnt/file": {outer, "/file"},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			gotFS, gotRel := mfs.Resolve(name)
			assert.True(t, gotFS == tc.wantFS, "filesystem")
			assert.Equal(t, tc.wantRel, gotRel)
		})
	}

	t.Run("mount point created", func(t *testing.T) {
		isDir, err := afero.IsDir(root, "/mnt/inner")
		require.NoError(t, err)
		assert.True(t, isDir)
	})

	t.Run("rename across mounts", func(t *testing.T) {
		require.NoError(t, afero.WriteFile(mfs, "/mnt/file", []byte("x"), 0644))
		err := mfs.Rename("/mnt/file", "/file")
		assert.ErrorIs(t, err, errCrossDevice)
	})

	t.Run("root mount", func(t *testing.T) {
		assert.Error(t, mfs.Mount("/", inner))
	})
}

func TestNewHostMount(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, afero.WriteFile(afero.NewOsFs(), path.Join(dir, "notes"), []byte("hi"), 0644))

	host := NewHostMount(dir)

	contents, err := afero.ReadFile(host, "/notes")
	require.NoError(t, err)
	assert.Equal(t, "hi", string(contents))

	assert.Error(t, afero.WriteFile(host, "/other", []byte("x"), 0644), "read only")
}

func buildArchive(t *testing.T, compress bool) []byte {
	t.Helper()

	modTime := time.Date(2021, 6, 27, 16, 19, 57, 0, time.UTC)

	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	entries := []struct {
		hdr  tar.Header
		body string
	}{
		{tar.Header{Name: "etc/", Typeflag: tar.TypeDir, Mode: 0755, ModTime: modTime}, ""},
		{tar.Header{Name: "etc/hostname", Typeflag: tar.TypeReg, Mode: 0644, ModTime: modTime}, "box\n"},
		{tar.Header{Name: "./usr/share/doc/readme", Typeflag: tar.TypeReg, Mode: 0600, ModTime: modTime}, "read me"},
		{tar.Header{Name: "dev/null", Typeflag: tar.TypeChar, Mode: 0666, ModTime: modTime}, ""},
	}
	for _, e := range entries {
		hdr := e.hdr
		hdr.Size = int64(len(e.body))
		require.NoError(t, tw.WriteHeader(&hdr))
		_, err := tw.Write([]byte(e.body))
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())

	if !compress {
		return buf.Bytes()
	}

	var gz bytes.Buffer
	gw := gzip.NewWriter(&gz)
	_, err := gw.Write(buf.Bytes())
	require.NoError(t, err)
	require.NoError(t, gw.Close())
	return gz.Bytes()
}

func TestExtractArchiveToVFS(t *testing.T) {
	for name, compress := range map[string]bool{"tar": false, "tar.gz": true} {
		t.Run(name, func(t *testing.T) {
			vfs := afero.NewMemMapFs()
			require.NoError(t, ExtractArchiveToVFS(vfs, bytes.NewReader(buildArchive(t, compress))))

			contents, err := afero.ReadFile(vfs, "/etc/hostname")
			require.NoError(t, err)
			assert.Equal(t, "box\n", string(contents))

			info, err := vfs.Stat("/usr/share/doc/readme")
			require.NoError(t, err)
			assert.Equal(t, fs.FileMode(0600), info.Mode().Perm())
			assert.Equal(t, 2021, info.ModTime().Year())

			exists, err := afero.Exists(vfs, "/dev/null")
			require.NoError(t, err)
			assert.False(t, exists, "devices are skipped")
		})
	}

	t.Run("not an archive", func(t *testing.T) {
		err := ExtractArchiveToVFS(afero.NewMemMapFs(), bytes.NewReader([]byte("plain text that is long enough to not be a tar header")))
		assert.Error(t, err)
	})
}
