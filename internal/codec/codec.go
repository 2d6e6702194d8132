// Package codec converts between human-readable action/goal tokens and the
// small integer identifiers the downstream classifier consumes. Dictionaries
// are explicit read-only values built once per shard before any problem is
// processed; nothing in this package mutates them afterward.
package codec

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownToken indicates a token absent from the dictionary. Encoding
// never silently drops tokens: dictionary drift between training and
// evaluation has to surface.
var ErrUnknownToken = errors.New("token not in dictionary")

// Dictionary is a bidirectional token <-> id mapping. Ids are dense in
// [0, Size).
type Dictionary struct {
	byToken map[string]int
	byID    map[int]string
}

// NewDictionary builds a Dictionary from a token -> id mapping.
func NewDictionary(tokens map[string]int) *Dictionary {
	d := &Dictionary{
		byToken: make(map[string]int, len(tokens)),
		byID:    make(map[int]string, len(tokens)),
	}
	for token, id := range tokens {
		d.byToken[token] = id
		d.byID[id] = token
	}
	return d
}

// BuildDictionary assigns ids to the given tokens by sorted order, so
// rebuilding from the same corpus always yields the same mapping.
func BuildDictionary(tokens []string) *Dictionary {
	unique := map[string]struct{}{}
	for _, t := range tokens {
		t = NormalizeToken(t)
		if t != "" {
			unique[t] = struct{}{}
		}
	}

	sorted := make([]string, 0, len(unique))
	for t := range unique {
		sorted = append(sorted, t)
	}
	sort.Strings(sorted)

	mapping := make(map[string]int, len(sorted))
	for i, t := range sorted {
		mapping[t] = i
	}
	return NewDictionary(mapping)
}

// Size returns the number of entries.
func (d *Dictionary) Size() int {
	return len(d.byToken)
}

// ID returns the id for a normalized token.
func (d *Dictionary) ID(token string) (int, bool) {
	id, ok := d.byToken[token]
	return id, ok
}

// Token returns the token for an id.
func (d *Dictionary) Token(id int) (string, bool) {
	token, ok := d.byID[id]
	return token, ok
}

// Tokens returns all tokens in id order.
func (d *Dictionary) Tokens() []string {
	out := make([]string, 0, len(d.byToken))
	for i := 0; i < len(d.byID); i++ {
		out = append(out, d.byID[i])
	}
	return out
}

// Codec encodes and decodes problems against one domain's dictionaries.
type Codec struct {
	actions *Dictionary
	goals   *Dictionary
}

// New creates a Codec over the action and goal dictionaries of a domain.
func New(actions, goals *Dictionary) *Codec {
	return &Codec{actions: actions, goals: goals}
}

// GoalSize returns the width of one-hot goal vectors for this domain.
func (c *Codec) GoalSize() int {
	return c.goals.Size()
}

// EncodeActions encodes an action sequence to ids. Unknown actions fail
// with ErrUnknownToken.
func (c *Codec) EncodeActions(actions []string) ([]int, error) {
	return encodeAll(c.actions, actions)
}

// DecodeActions is the exact inverse of EncodeActions for encoded values.
func (c *Codec) DecodeActions(ids []int) ([]string, error) {
	return decodeAll(c.actions, ids)
}

// EncodeGoal encodes a goal conjunction to predicate ids. Unknown
// predicates fail with ErrUnknownToken.
func (c *Codec) EncodeGoal(goal []string) ([]int, error) {
	return encodeAll(c.goals, goal)
}

// DecodeGoal is the exact inverse of EncodeGoal for encoded values.
func (c *Codec) DecodeGoal(ids []int) ([]string, error) {
	return decodeAll(c.goals, ids)
}

// EncodeState projects an initial state onto the goal vocabulary.
// Unlike EncodeGoal it tolerates predicates outside the dictionary: the
// goal dictionary only covers goal-relevant predicates, while initial
// states legitimately mention others.
func (c *Codec) EncodeState(state []string) []int {
	ids := make([]int, 0, len(state))
	for _, predicate := range state {
		if id, ok := c.goals.ID(NormalizeToken(predicate)); ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// OneHot expands a set of ids into a fixed-width bit vector.
func OneHot(ids []int, size int) []int {
	vec := make([]int, size)
	for _, id := range ids {
		if id >= 0 && id < size {
			vec[id] = 1
		}
	}
	return vec
}

// NormalizeToken canonicalizes a token the way the corpus stores it:
// parentheses stripped, whitespace collapsed, upper-cased.
func NormalizeToken(token string) string {
	token = strings.ReplaceAll(token, "(", "")
	token = strings.ReplaceAll(token, ")", "")
	return strings.ToUpper(strings.Join(strings.Fields(token), " "))
}

func encodeAll(d *Dictionary, tokens []string) ([]int, error) {
	ids := make([]int, 0, len(tokens))
	for _, token := range tokens {
		normalized := NormalizeToken(token)
		id, ok := d.ID(normalized)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownToken, normalized)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func decodeAll(d *Dictionary, ids []int) ([]string, error) {
	tokens := make([]string, 0, len(ids))
	for _, id := range ids {
		token, ok := d.Token(id)
		if !ok {
			return nil, fmt.Errorf("%w: id %d", ErrUnknownToken, id)
		}
		tokens = append(tokens, token)
	}
	return tokens, nil
}
