package game

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/vmihailenco/msgpack/v5"
)

// ReplayVersion is bumped whenever the encoded layout changes.
const ReplayVersion = 1

// ErrReplayVersion is returned when decoding a replay of another version.
var ErrReplayVersion = errors.New("unsupported replay version")

// --- Replay data ---

// ReplayTile is a tile placement.
type ReplayTile struct {
	Name string `msgpack:"name"`
	X    int    `msgpack:"x"`
	Y    int    `msgpack:"y"`
}

// ReplayFrame is the state after one turn plus the events that produced it.
type ReplayFrame struct {
	Turn    int            `msgpack:"turn"`
	Bucket  int            `msgpack:"bucket"`
	Moves   int            `msgpack:"moves,omitempty"`
	Attacks int            `msgpack:"attacks,omitempty"`
	Kills   int            `msgpack:"kills,omitempty"`
	Units   []UnitSnapshot `msgpack:"units"`
	Events  []LogEntry     `msgpack:"events,omitempty"`
}

// Replay records a whole battle turn by turn.
type Replay struct {
	Version int           `msgpack:"v"`
	Name    string        `msgpack:"name,omitempty"`
	Seed    uint64        `msgpack:"seed"`
	Width   int           `msgpack:"w"`
	Height  int           `msgpack:"h"`
	Tiles   []ReplayTile  `msgpack:"tiles,omitempty"`
	Initial Snapshot      `msgpack:"initial"`
	Frames  []ReplayFrame `msgpack:"frames"`
	Result  *Result       `msgpack:"result,omitempty"` // set once the battle is over
}

func newReplay(name string, seed uint64, b *Battle) *Replay {
	w, h := b.Grid.Size()
	r := &Replay{
		Version: ReplayVersion,
		Name:    name,
		Seed:    seed,
		Width:   w,
		Height:  h,
		Initial: b.Snapshot(),
	}
	for _, t := range b.Tiles() {
		r.Tiles = append(r.Tiles, ReplayTile{Name: t.Name, X: t.Location.X, Y: t.Location.Y})
	}
	return r
}

func (r *Replay) capture(b *Battle, rep TurnReport, events []LogEntry) {
	r.Frames = append(r.Frames, ReplayFrame{
		Turn:    rep.Turn,
		Bucket:  rep.Bucket,
		Moves:   rep.Moves,
		Attacks: rep.Attacks,
		Kills:   rep.Kills,
		Units:   b.Snapshot().Units,
		Events:  append([]LogEntry(nil), events...),
	})
	if b.Over() && r.Result == nil {
		res := b.Result()
		r.Result = &res
	}
}

// Frame returns the frame for turn, if recorded.
func (r *Replay) Frame(turn int) (ReplayFrame, bool) {
	i := turn - 1
	if i < 0 || i >= len(r.Frames) || r.Frames[i].Turn != turn {
		return ReplayFrame{}, false
	}
	return r.Frames[i], true
}

// Encode writes the replay as msgpack.
func (r *Replay) Encode(w io.Writer) error {
	enc := msgpack.NewEncoder(w)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode replay: %w", err)
	}
	return nil
}

// DecodeReplay reads a replay written by Encode.
func DecodeReplay(rd io.Reader) (*Replay, error) {
	var r Replay
	if err := msgpack.NewDecoder(rd).Decode(&r); err != nil {
		return nil, fmt.Errorf("decode replay: %w", err)
	}
	if r.Version != ReplayVersion {
		return nil, fmt.Errorf("%w: %d", ErrReplayVersion, r.Version)
	}
	return &r, nil
}

// WriteFile encodes the replay to path.
func (r *Replay) WriteFile(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write replay: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("write replay: %w", cerr)
		}
	}()
	bw := bufio.NewWriter(f)
	if err := r.Encode(bw); err != nil {
		return err
	}
	return bw.Flush()
}

// ReadReplayFile decodes the replay stored at path.
func ReadReplayFile(path string) (*Replay, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read replay: %w", err)
	}
	defer f.Close()
	return DecodeReplay(bufio.NewReader(f))
}
