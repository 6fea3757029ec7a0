package watcher

// FilesystemType is a best-effort classification of the filesystem a path
// lives on. Remote filesystems deliver inotify events unreliably (or not at
// all), so the watcher switches to polling for them.
type FilesystemType int

const (
	// FSTypeUnknown means detection was unavailable or inconclusive.
	FSTypeUnknown FilesystemType = iota
	// FSTypeLocal is an ordinary local filesystem.
	FSTypeLocal
	// FSTypeNFS is a network filesystem mount.
	FSTypeNFS
	// FSTypeSMB is a CIFS/SMB mount.
	FSTypeSMB
	// FSTypeFUSE is a userspace filesystem (sshfs and friends).
	FSTypeFUSE
)

// String returns a human-readable filesystem type label.
func (t FilesystemType) String() string {
	switch t {
	case FSTypeLocal:
		return "local"
	case FSTypeNFS:
		return "nfs"
	case FSTypeSMB:
		return "smb"
	case FSTypeFUSE:
		return "fuse"
	default:
		return "unknown"
	}
}

// isRemoteFilesystem reports whether event delivery cannot be trusted for the
// filesystem type. Unknown stays on fsnotify; it degrades to polling anyway
// if the watch cannot be established.
func isRemoteFilesystem(t FilesystemType) bool {
	switch t {
	case FSTypeNFS, FSTypeSMB, FSTypeFUSE:
		return true
	default:
		return false
	}
}
