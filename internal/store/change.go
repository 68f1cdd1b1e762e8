package store

// Slice is a bitmask of the state slices touched by a mutation.
type Slice uint16

const (
	SliceObjects Slice = 1 << iota
	SliceLights
	SliceBookmarks
	SliceInteractions
	SliceSelection
	SliceClipboard
	SliceSettings
	SlicePlayMode
	SliceExport
	SliceHistory
)

var sliceNames = []struct {
	s    Slice
	name string
}{
	{SliceObjects, "objects"},
	{SliceLights, "lights"},
	{SliceBookmarks, "camera_bookmarks"},
	{SliceInteractions, "object_interactions"},
	{SliceSelection, "selection"},
	{SliceClipboard, "clipboard"},
	{SliceSettings, "settings"},
	{SlicePlayMode, "play_mode"},
	{SliceExport, "export"},
	{SliceHistory, "history"},
}

// Has reports whether any bit of o is set in s.
func (s Slice) Has(o Slice) bool {
	return s&o != 0
}

// Names returns the wire names of the set bits.
func (s Slice) Names() []string {
	out := make([]string, 0, len(sliceNames))
	for _, n := range sliceNames {
		if s.Has(n.s) {
			out = append(out, n.name)
		}
	}
	return out
}

// Persisted is the set of slices mirrored to durable storage.
const Persisted = SliceObjects | SliceInteractions

// Change describes one committed mutation.
type Change struct {
	Op     string `json:"op"`
	Slices Slice  `json:"-"`
}

// Listener receives change notifications.
type Listener func(Change)
