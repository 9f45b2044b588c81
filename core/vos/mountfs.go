package vos

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"time"

	"github.com/spf13/afero"
)

// Mount is a filesystem attached below a directory of another.
type Mount struct {
	// Path is the directory the volume is mounted at.
	Path string
	FS   VFS
}

// NewMountFS creates a filesystem backed by root with no mounts.
func NewMountFS(root VFS) *MountFS {
	return &MountFS{
		Root: root,
	}
}

// MountFS routes each path to the deepest mount containing it, falling back
// to the root filesystem.
type MountFS struct {
	// Root is the root filesystem.
	Root VFS
	// List of mounted volumes, sorted deepest first.
	Mounts []Mount
}

var errCrossDevice = errors.New("invalid cross-device link")

// Mount attaches mountFS at dir, creating the mount point in the root
// filesystem if needed.
func (mfs *MountFS) Mount(dir string, mountFS VFS) error {
	dir = path.Clean("/" + dir)
	if dir == "/" {
		return fmt.Errorf("invalid mount path %q: can't replace the root", dir)
	}

	if err := mfs.Root.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("invalid mount path %q: %w", dir, err)
	}

	mfs.Mounts = append(mfs.Mounts, Mount{Path: dir, FS: mountFS})
	sort.SliceStable(mfs.Mounts, func(i, j int) bool {
		return len(mfs.Mounts[i].Path) > len(mfs.Mounts[j].Path)
	})

	return nil
}

// Resolve returns the filesystem that owns name and the path within it.
func (mfs *MountFS) Resolve(name string) (VFS, string) {
	name = path.Clean("/" + name)

	for _, mount := range mfs.Mounts {
		rel, ok := underDir(name, mount.Path)
		if ok {
			return mount.FS, rel
		}
	}

	return mfs.Root, name
}

func underDir(name, dir string) (string, bool) {
	switch {
	case name == dir:
		return "/", true
	case len(name) > len(dir) && name[:len(dir)] == dir && name[len(dir)] == '/':
		return name[len(dir):], true
	default:
		return "", false
	}
}

var _ VFS = (*MountFS)(nil)

// OpenFile implements afero.Fs.OpenFile.
func (mfs *MountFS) OpenFile(name string, flag int, perm fs.FileMode) (afero.File, error) {
	vfs, rel := mfs.Resolve(name)
	return vfs.OpenFile(rel, flag, perm)
}

// Open implements afero.Fs.Open.
func (mfs *MountFS) Open(name string) (afero.File, error) {
	vfs, rel := mfs.Resolve(name)
	return vfs.Open(rel)
}

func (mfs *MountFS) Name() string {
	return "MountFS"
}

// Stat implements afero.Fs.Stat.
func (mfs *MountFS) Stat(name string) (fs.FileInfo, error) {
	vfs, rel := mfs.Resolve(name)
	return vfs.Stat(rel)
}

// Rename moves oldname to newname. Files may not be moved across mounts.
func (mfs *MountFS) Rename(oldname, newname string) error {
	oldFS, oldRel := mfs.Resolve(oldname)
	newFS, newRel := mfs.Resolve(newname)

	if oldFS != newFS {
		return &os.LinkError{Op: "rename", Old: oldname, New: newname, Err: errCrossDevice}
	}

	return oldFS.Rename(oldRel, newRel)
}

// RemoveAll implements afero.Fs.RemoveAll.
func (mfs *MountFS) RemoveAll(name string) error {
	vfs, rel := mfs.Resolve(name)
	return vfs.RemoveAll(rel)
}

// Remove implements afero.Fs.Remove.
func (mfs *MountFS) Remove(name string) error {
	vfs, rel := mfs.Resolve(name)
	return vfs.Remove(rel)
}

// MkdirAll implements afero.Fs.MkdirAll.
func (mfs *MountFS) MkdirAll(name string, mode fs.FileMode) error {
	vfs, rel := mfs.Resolve(name)
	return vfs.MkdirAll(rel, mode)
}

// Mkdir implements afero.Fs.Mkdir.
func (mfs *MountFS) Mkdir(name string, mode fs.FileMode) error {
	vfs, rel := mfs.Resolve(name)
	return vfs.Mkdir(rel, mode)
}

// Create implements afero.Fs.Create.
func (mfs *MountFS) Create(name string) (afero.File, error) {
	vfs, rel := mfs.Resolve(name)
	return vfs.Create(rel)
}

// Chtimes implements afero.Fs.Chtimes.
func (mfs *MountFS) Chtimes(name string, atime, mtime time.Time) error {
	vfs, rel := mfs.Resolve(name)
	return vfs.Chtimes(rel, atime, mtime)
}

// Chown implements afero.Fs.Chown.
func (mfs *MountFS) Chown(name string, uid, gid int) error {
	vfs, rel := mfs.Resolve(name)
	return vfs.Chown(rel, uid, gid)
}

// Chmod implements afero.Fs.Chmod.
func (mfs *MountFS) Chmod(name string, mode fs.FileMode) error {
	vfs, rel := mfs.Resolve(name)
	return vfs.Chmod(rel, mode)
}
