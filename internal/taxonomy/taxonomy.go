// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package taxonomy flattens nested marketplace category trees into rows of
// (id, full path) in pre-order. Two document shapes are supported:
//
//   - the ozon export, where result is a list of nodes whose id and name
//     fields depend on node kind (description_category_id/category_name for
//     categories, type_id/type_name for leaf types) and a disabled flag
//     prunes a whole subtree;
//   - the yandex export, where result is a single root {id, name, children}
//     whose own row is never emitted.
//
// Nodes that lack an id or name are dropped together with their subtree.
package taxonomy

import (
	"github.com/pdiddy/taxonomy-tsv/pkg/types"
)

// OzonNode is one entry of an ozon category tree.
type OzonNode struct {
	DescriptionCategoryID *CategoryID `json:"description_category_id" yaml:"description_category_id"`
	CategoryName          *string     `json:"category_name" yaml:"category_name"`

	TypeID   *CategoryID `json:"type_id" yaml:"type_id"`
	TypeName *string     `json:"type_name" yaml:"type_name"`

	Disabled bool       `json:"disabled" yaml:"disabled"`
	Children []OzonNode `json:"children" yaml:"children"`
}

// identity resolves the node's id and name by kind. Category fields take
// precedence over type fields; ok is false when the chosen kind lacks either.
func (n OzonNode) identity() (id, name string, ok bool) {
	switch {
	case n.DescriptionCategoryID != nil:
		if n.CategoryName == nil {
			return "", "", false
		}
		return n.DescriptionCategoryID.String(), *n.CategoryName, true
	case n.TypeID != nil:
		if n.TypeName == nil {
			return "", "", false
		}
		return n.TypeID.String(), *n.TypeName, true
	default:
		return "", "", false
	}
}

// FlattenOzon walks nodes in order and returns one row per node that has an
// id and name and is not disabled. parentPath prefixes every path; pass ""
// for the top level.
func FlattenOzon(nodes []OzonNode, parentPath string) []types.Row {
	var rows []types.Row
	for _, n := range nodes {
		id, name, ok := n.identity()
		if !ok || n.Disabled {
			continue
		}
		path := types.JoinPath(parentPath, name)
		rows = append(rows, types.Row{ID: id, Text: path})
		if len(n.Children) > 0 {
			rows = append(rows, FlattenOzon(n.Children, path)...)
		}
	}
	return rows
}

// YandexNode is one entry of a yandex category tree.
type YandexNode struct {
	ID       *CategoryID   `json:"id" yaml:"id"`
	Name     string        `json:"name" yaml:"name"`
	Children []*YandexNode `json:"children" yaml:"children"`
}

// FlattenYandex returns the row for node followed by the rows of its
// descendants. A nil node, or one whose id or name is empty, yields nothing.
func FlattenYandex(node *YandexNode, parentPath string) []types.Row {
	if node == nil || node.ID == nil || node.ID.IsEmpty() || node.Name == "" {
		return nil
	}
	path := types.JoinPath(parentPath, node.Name)
	rows := []types.Row{{ID: node.ID.String(), Text: path}}
	for _, child := range node.Children {
		rows = append(rows, FlattenYandex(child, path)...)
	}
	return rows
}

// FlattenYandexRoot flattens the children of root. The root itself (the
// "All products" node in real exports) is not emitted, and its name is not
// part of any path.
func FlattenYandexRoot(root *YandexNode) []types.Row {
	if root == nil {
		return nil
	}
	var rows []types.Row
	for _, child := range root.Children {
		rows = append(rows, FlattenYandex(child, "")...)
	}
	return rows
}
