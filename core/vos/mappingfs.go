package vos

import (
	"os"
	"time"

	"github.com/spf13/afero"
)

// PathResolver turns the name a program passed to a filesystem call into the
// path used on the underlying filesystem. op names the call, e.g. "open".
type PathResolver func(op, name string) (string, error)

// PathMappingFs is an afero.Fs that sends every name through Resolve before
// touching Base. The virtual executor uses it to resolve relative paths
// against its working directory.
type PathMappingFs struct {
	Base    afero.Fs
	Resolve PathResolver
}

var _ afero.Fs = (*PathMappingFs)(nil)

// NewPathMappingFs wraps base so relative and absolute names alike go through
// resolve.
func NewPathMappingFs(base afero.Fs, resolve PathResolver) *PathMappingFs {
	return &PathMappingFs{Base: base, Resolve: resolve}
}

// resolve maps name for op, failures are reported as *os.PathError.
func (m *PathMappingFs) resolve(op, name string) (string, error) {
	resolved, err := m.Resolve(op, name)
	if err != nil {
		return "", &os.PathError{Op: op, Path: name, Err: err}
	}
	return resolved, nil
}

func (m *PathMappingFs) Name() string {
	return "PathMappingFs(" + m.Base.Name() + ")"
}

func (m *PathMappingFs) Create(name string) (afero.File, error) {
	p, err := m.resolve("create", name)
	if err != nil {
		return nil, err
	}
	return m.Base.Create(p)
}

func (m *PathMappingFs) Open(name string) (afero.File, error) {
	p, err := m.resolve("open", name)
	if err != nil {
		return nil, err
	}
	return m.Base.Open(p)
}

func (m *PathMappingFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	p, err := m.resolve("open", name)
	if err != nil {
		return nil, err
	}
	return m.Base.OpenFile(p, flag, perm)
}

func (m *PathMappingFs) Stat(name string) (os.FileInfo, error) {
	p, err := m.resolve("stat", name)
	if err != nil {
		return nil, err
	}
	return m.Base.Stat(p)
}

func (m *PathMappingFs) Mkdir(name string, perm os.FileMode) error {
	p, err := m.resolve("mkdir", name)
	if err != nil {
		return err
	}
	return m.Base.Mkdir(p, perm)
}

func (m *PathMappingFs) MkdirAll(name string, perm os.FileMode) error {
	p, err := m.resolve("mkdir", name)
	if err != nil {
		return err
	}
	return m.Base.MkdirAll(p, perm)
}

func (m *PathMappingFs) Remove(name string) error {
	p, err := m.resolve("remove", name)
	if err != nil {
		return err
	}
	return m.Base.Remove(p)
}

func (m *PathMappingFs) RemoveAll(name string) error {
	p, err := m.resolve("remove", name)
	if err != nil {
		return err
	}
	return m.Base.RemoveAll(p)
}

// Rename resolves both names before handing them to Base.
func (m *PathMappingFs) Rename(oldname, newname string) error {
	from, err := m.resolve("rename", oldname)
	if err != nil {
		return err
	}
	to, err := m.resolve("rename", newname)
	if err != nil {
		return err
	}
	return m.Base.Rename(from, to)
}

func (m *PathMappingFs) Chmod(name string, mode os.FileMode) error {
	p, err := m.resolve("chmod", name)
	if err != nil {
		return err
	}
	return m.Base.Chmod(p, mode)
}

func (m *PathMappingFs) Chown(name string, uid, gid int) error {
	p, err := m.resolve("chown", name)
	if err != nil {
		return err
	}
	return m.Base.Chown(p, uid, gid)
}

func (m *PathMappingFs) Chtimes(name string, atime, mtime time.Time) error {
	p, err := m.resolve("chtimes", name)
	if err != nil {
		return err
	}
	return m.Base.Chtimes(p, atime, mtime)
}
