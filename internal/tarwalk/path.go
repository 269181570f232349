package tarwalk

import "strings"

// isUnsafePath reports whether an archive entry name contains a path
// traversal sequence. Such entries are skipped, never extracted.
func isUnsafePath(name string) bool {
	return strings.Contains(name, "../") || strings.Contains(name, `..\`)
}

// inDirectory reports whether an entry path lies under the target
// directory. The target is normalized to exactly one trailing slash, so
// "logs/BatteryBDC" and "logs/BatteryBDC/" behave the same and
// "logs/BatteryBDCX/file" does not match "logs/BatteryBDC". The directory
// entry itself, with or without its trailing slash, counts as a member.
func inDirectory(path, targetDir string) bool {
	if path == "" || targetDir == "" {
		return false
	}
	dir := targetDir
	if !strings.HasSuffix(dir, "/") && !strings.HasSuffix(dir, `\`) {
		dir += "/"
	}
	return strings.HasPrefix(path, dir) || path == dir[:len(dir)-1]
}

// baseName returns the final path segment of an entry name, or the whole
// name when it holds no separator. A trailing slash yields the empty
// string, which marks a pure directory entry.
func baseName(name string) string {
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		return name[i+1:]
	}
	return name
}
