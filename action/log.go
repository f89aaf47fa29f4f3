package action

import (
	"fmt"

	"github.com/lacuna-lang/lacuna/exp"
	"github.com/lacuna-lang/lacuna/lacerr"
	"github.com/lacuna-lang/lacuna/zipper"
	"github.com/pkg/errors"
)

// Entry is one applied action, addressed by the focus path it was applied
// at. Paths are stable node addressing: they survive serialization by an
// external layer and identify the same position in any equal term.
type Entry struct {
	Seq  int
	Path exp.Path
	Act  Action
}

func (e Entry) String() string {
	return fmt.Sprintf("#%d @%s %s", e.Seq, e.Path, e.Act)
}

// Log is the ordered, replayable record of the actions applied in a session.
// It is the only channel an external collaborative-merge layer consumes.
type Log struct {
	entries []Entry
}

// Record appends an applied action at the given pre-application focus path.
func (l *Log) Record(path exp.Path, a Action) {
	l.entries = append(l.entries, Entry{Seq: len(l.entries), Path: path, Act: a})
}

// Entries returns a copy of the log.
func (l *Log) Entries() []Entry {
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

func (l *Log) Len() int {
	return len(l.entries)
}

// Replay applies the logged entries to initial, in order. Because Apply is a
// pure function of (zipper, action), replaying the log of a session against
// the same initial term and a fresh State reproduces the session's final
// term exactly.
func Replay(initial exp.Expr, st *State, entries []Entry) (zipper.Zipper, error) {
	z := zipper.Root(initial)
	for _, entry := range entries {
		at, ok := zipper.ToPath(zipper.Plug(z), entry.Path)
		if !ok {
			return z, errors.Wrapf(lacerr.New(lacerr.NewBadReplay{
				Seq:    entry.Seq,
				Reason: fmt.Sprintf("path %s does not resolve", entry.Path),
			}), "replay %s", entry)
		}
		next, err := Apply(at, entry.Act, st)
		if err != nil {
			return z, errors.Wrapf(err, "replay %s", entry)
		}
		z = next
	}
	return z, nil
}
