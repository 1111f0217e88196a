// Copyright (c) FIRST and other WPILib contributors.
// Open Source Software; you can modify and/or share it under the terms of
// the WPILib BSD license file in the root directory of this project.

package fieldstore

import (
	"sort"
	"strings"
)

// FieldTreeNode is one node of a key tree rooted at a GetFieldTree
// prefix. A terminal node carries the full key it corresponds to;
// an internal node only groups its children.
type FieldTreeNode struct {
	Name     string
	FullKey  string
	Terminal bool
	Children map[string]*FieldTreeNode
}

func newFieldTreeNode(name string) *FieldTreeNode {
	return &FieldTreeNode{Name: name, Children: make(map[string]*FieldTreeNode)}
}

// GetFieldTree builds a tree of every key sharing prefix, splitting the
// remainder on "/". Keys under a generated parent are omitted unless
// includeGenerated is true.
func (l *Log) GetFieldTree(prefix string, includeGenerated bool) *FieldTreeNode {
	l.mu.Lock()
	defer l.mu.Unlock()

	keys := make([]string, 0, len(l.fields))
	for k := range l.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	root := newFieldTreeNode("")
	for _, key := range keys {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		if !includeGenerated && l.isGeneratedLocked(key) {
			continue
		}

		rel := strings.TrimPrefix(key[len(prefix):], "/")
		if rel == "" {
			continue
		}

		parts := strings.Split(rel, "/")
		node := root
		for i, part := range parts {
			child, ok := node.Children[part]
			if !ok {
				child = newFieldTreeNode(part)
				node.Children[part] = child
			}
			if i == len(parts)-1 {
				child.Terminal = true
				child.FullKey = key
			}
			node = child
		}
	}
	return root
}
