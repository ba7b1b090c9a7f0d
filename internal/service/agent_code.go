package service

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode"
)

// AgentCodeStore is the persistence surface the code generator reads.
type AgentCodeStore interface {
	MaxSequenceForPrefix(prefix string) (int, error)
}

// SequenceAllocator hands out the next sequence number for an agent-code
// prefix. Implementations must never return the same sequence twice for one
// prefix within a process.
type SequenceAllocator interface {
	Next(prefix string) (int, error)
}

// scanAllocator is the naive read-then-increment allocation: it rescans the
// store on every call and adds one. Two concurrent calls for the same prefix
// can read the same maximum and collide. Kept for tests and as documentation
// of the unsafe variant; production wiring uses NewSequenceAllocator.
type scanAllocator struct {
	store AgentCodeStore
}

func NewScanAllocator(store AgentCodeStore) SequenceAllocator {
	return &scanAllocator{store: store}
}

func (a *scanAllocator) Next(prefix string) (int, error) {
	max, err := a.store.MaxSequenceForPrefix(prefix)
	if err != nil {
		return 0, err
	}
	return max + 1, nil
}

// lockingAllocator serializes allocation per prefix and remembers the last
// sequence it issued, so a sequence is never handed out twice even before the
// corresponding agent row is committed. The agents.agent_code unique index
// backstops races across processes.
type lockingAllocator struct {
	store AgentCodeStore

	mu       sync.Mutex
	prefixes map[string]*prefixSeq
}

type prefixSeq struct {
	mu   sync.Mutex
	last int
}

func NewSequenceAllocator(store AgentCodeStore) SequenceAllocator {
	return &lockingAllocator{
		store:    store,
		prefixes: make(map[string]*prefixSeq),
	}
}

func (a *lockingAllocator) Next(prefix string) (int, error) {
	a.mu.Lock()
	ps, ok := a.prefixes[prefix]
	if !ok {
		ps = &prefixSeq{}
		a.prefixes[prefix] = ps
	}
	a.mu.Unlock()

	ps.mu.Lock()
	defer ps.mu.Unlock()

	max, err := a.store.MaxSequenceForPrefix(prefix)
	if err != nil {
		return 0, err
	}

	next := max + 1
	if next <= ps.last {
		next = ps.last + 1
	}
	ps.last = next
	return next, nil
}

// DerivePrefix derives the agent-code prefix from a project display name:
// first letter of each of the first two words, or the first two letters of a
// single-word name, upper-cased.
func DerivePrefix(projectName string) string {
	words := strings.Fields(projectName)
	switch {
	case len(words) == 0:
		return ""
	case len(words) == 1:
		runes := []rune(words[0])
		if len(runes) == 1 {
			return strings.ToUpper(string(runes))
		}
		return strings.ToUpper(string(runes[:2]))
	default:
		first := firstLetter(words[0])
		second := firstLetter(words[1])
		return strings.ToUpper(first + second)
	}
}

func firstLetter(word string) string {
	for _, r := range word {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return string(r)
		}
	}
	return ""
}

// CodeGenerator produces unique agent codes of the form <PREFIX><5-digit
// zero-padded sequence>, e.g. MS00001 for project "Metro Sales".
type CodeGenerator struct {
	alloc SequenceAllocator
}

func NewCodeGenerator(alloc SequenceAllocator) *CodeGenerator {
	return &CodeGenerator{alloc: alloc}
}

func (g *CodeGenerator) Generate(projectName string) (string, error) {
	prefix := DerivePrefix(projectName)
	if prefix == "" {
		return "", errors.New("cannot derive code prefix: project name is empty")
	}

	seq, err := g.alloc.Next(prefix)
	if err != nil {
		return "", fmt.Errorf("allocate sequence for prefix %s: %w", prefix, err)
	}

	return fmt.Sprintf("%s%05d", prefix, seq), nil
}
