package vos

import (
	"archive/tar"
	"bufio"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/spf13/afero"
)

// NewHostMount exposes dir on the host as a read-only filesystem.
func NewHostMount(dir string) VFS {
	return afero.NewReadOnlyFs(afero.NewBasePathFs(afero.NewOsFs(), dir))
}

// ExtractArchiveToVFS copies the files of a tar archive, optionally gzip
// compressed, into vfs.
func ExtractArchiveToVFS(vfs VFS, r io.Reader) error {
	br := bufio.NewReader(r)

	// gzip streams start with 0x1f 0x8b.
	if magic, err := br.Peek(2); err == nil && magic[0] == 0x1f && magic[1] == 0x8b {
		gr, err := gzip.NewReader(br)
		if err != nil {
			return err
		}
		defer gr.Close()
		return ExtractTarToVFS(vfs, tar.NewReader(gr))
	}

	return ExtractTarToVFS(vfs, tar.NewReader(br))
}

// ExtractTarToVFS copies the directories and regular files of t into vfs.
// Symlinks are created only if vfs supports them.
func ExtractTarToVFS(vfs VFS, t *tar.Reader) error {
	for {
		hdr, err := t.Next()
		switch {
		case err == io.EOF:
			return nil
		case err != nil:
			return err
		}

		name := path.Clean("/" + strings.TrimPrefix(hdr.Name, "/"))
		if err := extractEntry(vfs, t, hdr, name); err != nil {
			return fmt.Errorf("extracting %q: %w", name, err)
		}
	}
}

func extractEntry(vfs VFS, t *tar.Reader, hdr *tar.Header, name string) error {
	if err := vfs.MkdirAll(path.Dir(name), 0755); err != nil {
		return err
	}

	mode := hdr.FileInfo().Mode()
	switch {
	case mode.IsDir():
		if err := vfs.Mkdir(name, mode.Perm()); err != nil && !errors.Is(err, fs.ErrExist) {
			return err
		}

	case mode&fs.ModeSymlink != 0:
		linker, ok := vfs.(afero.Linker)
		if !ok {
			return afero.ErrNoSymlink
		}
		if err := linker.SymlinkIfPossible(hdr.Linkname, name); err != nil && !errors.Is(err, fs.ErrExist) {
			return err
		}
		return nil

	case mode.IsRegular():
		fd, err := vfs.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode.Perm())
		if err != nil {
			return err
		}
		// Close before Chtimes so the write doesn't bump the modification time.
		if _, err := io.CopyN(fd, t, hdr.Size); err != nil {
			fd.Close()
			return err
		}
		if err := fd.Close(); err != nil {
			return err
		}

	default:
		// Devices, fifos and the like have no in-memory equivalent.
		return nil
	}

	if err := vfs.Chmod(name, mode.Perm()); err != nil {
		return err
	}
	return vfs.Chtimes(name, hdr.ModTime, hdr.ModTime)
}
