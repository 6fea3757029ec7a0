//go:build !linux

package watcher

// DetectFilesystemType has no portable implementation off Linux; unknown
// keeps fsnotify as the primary mechanism with polling as the fallback.
func DetectFilesystemType(path string) FilesystemType {
	return FSTypeUnknown
}
