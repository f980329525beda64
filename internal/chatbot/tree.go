package chatbot

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrNotFound is returned when no node matches the requested id.
var ErrNotFound = errors.New("question not found")

// QuestionNode is one node of the decision tree. Leaf nodes carry an
// answer; branch nodes carry sub-questions.
type QuestionNode struct {
	ID           string         `json:"id"`
	Text         string         `json:"text"`
	Answer       string         `json:"answer,omitempty"`
	SubQuestions []QuestionNode `json:"subQuestions,omitempty"`
}

// QuestionRef is the id/text pair shown while navigating the tree.
type QuestionRef struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Answer is the payload returned for a leaf node.
type Answer struct {
	ID     string `json:"id"`
	Text   string `json:"text"`
	Answer string `json:"answer"`
}

// Tree is the chatbot's read-only decision tree, loaded once at startup.
type Tree struct {
	roots []QuestionNode
}

// Load reads the tree from a JSON file. A missing file yields an empty
// tree rather than an error, matching the serve-what-you-have behavior of
// the chatbot surface.
func Load(path string) (*Tree, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Tree{}, nil
		}
		return nil, fmt.Errorf("failed to read question tree: %w", err)
	}
	var roots []QuestionNode
	if err := json.Unmarshal(data, &roots); err != nil {
		return nil, fmt.Errorf("failed to parse question tree: %w", err)
	}
	return &Tree{roots: roots}, nil
}

// Top returns the top-level questions.
func (t *Tree) Top() []QuestionRef {
	refs := make([]QuestionRef, 0, len(t.roots))
	for _, n := range t.roots {
		refs = append(refs, QuestionRef{ID: n.ID, Text: n.Text})
	}
	return refs
}

// Find locates a node anywhere in the tree by id, case-insensitively.
// A leaf returns its answer; a branch returns its sub-questions.
func (t *Tree) Find(id string) (*Answer, []QuestionRef, error) {
	queue := make([]QuestionNode, len(t.roots))
	copy(queue, t.roots)

	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]

		if strings.EqualFold(node.ID, id) {
			if strings.TrimSpace(node.Answer) != "" {
				return &Answer{ID: node.ID, Text: node.Text, Answer: node.Answer}, nil, nil
			}
			children := make([]QuestionRef, 0, len(node.SubQuestions))
			for _, child := range node.SubQuestions {
				children = append(children, QuestionRef{ID: child.ID, Text: child.Text})
			}
			return nil, children, nil
		}
		queue = append(queue, node.SubQuestions...)
	}
	return nil, nil, ErrNotFound
}
