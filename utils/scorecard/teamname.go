package scorecard

import (
	"hash/fnv"
	"strings"
	"sync"
)

// Labeler assigns a display label to a team built from the given player
// names. Implementations must be safe for concurrent use.
type Labeler interface {
	Label(names []string) string
}

// SequenceLabeler hands out regional names in order, wrapping after the
// last one. Labels depend on submission order.
type SequenceLabeler struct {
	mu   sync.Mutex
	next int
}

// NewSequenceLabeler returns a labeler starting at the first regional name.
func NewSequenceLabeler() *SequenceLabeler {
	return &SequenceLabeler{}
}

func (s *SequenceLabeler) Label(_ []string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	name := regionalNames[s.next%len(regionalNames)]
	s.next++
	return name
}

// ContentLabeler derives the label from the player names, so the same card
// always gets the same label regardless of process or order.
type ContentLabeler struct{}

func (ContentLabeler) Label(names []string) string {
	h := fnv.New32a()
	h.Write([]byte(strings.Join(names, "|")))
	return regionalNames[h.Sum32()%uint32(len(regionalNames))]
}
