// ABOUTME: Detects edits made to the module file outside the REPL by comparing mtime and size
// ABOUTME: Checked synchronously between commands; nothing polls in the background

package buffer

import (
	"os"
	"time"
)

type stamp struct {
	modTime time.Time
	size    int64
	exists  bool
}

func statStamp(path string) stamp {
	info, err := os.Stat(path)
	if err != nil {
		return stamp{}
	}
	return stamp{modTime: info.ModTime(), size: info.Size(), exists: true}
}

// MarkLoaded records the file as Agda is about to see it.
func (b *Buffer) MarkLoaded() {
	b.loaded = statStamp(b.path)
	b.marked = true
}

// ChangedSinceLoad reports whether the file was modified, replaced or removed
// after the last MarkLoaded. It is false before the first MarkLoaded.
func (b *Buffer) ChangedSinceLoad() bool {
	if !b.marked {
		return false
	}
	cur := statStamp(b.path)
	if cur.exists != b.loaded.exists {
		return true
	}
	return cur.exists && (!cur.modTime.Equal(b.loaded.modTime) || cur.size != b.loaded.size)
}
