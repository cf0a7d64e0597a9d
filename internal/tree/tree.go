// Package tree derives the read-time view of a project's task hierarchy.
// Everything in here is a pure computation over an already-loaded task slice;
// no I/O happens past the package boundary.
package tree

import (
	"time"

	"github.com/jhennig/stamm/internal/models"
)

// Status is the derived state of a task node.
type Status string

const (
	StatusOpen       Status = "OPEN"
	StatusInProgress Status = "IN_PROGRESS"
	StatusDone       Status = "DONE"
)

// ActivePointer identifies the task a user's running timer points at. It is
// the only piece of timer state the derivation needs.
type ActivePointer struct {
	TaskID    string
	StartedAt time.Time
}

// TaskNode is a task enriched with its derived fields. Nodes are built fresh
// on every call to Build and never persisted. Raw time entries are not
// carried over; their durations are folded into TotalTimeSpent.
type TaskNode struct {
	ID          string     `json:"id"`
	ProjectID   string     `json:"project_id"`
	ParentID    *string    `json:"parent_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Estimate    *int       `json:"estimate"`
	CompletedAt *time.Time `json:"completed_at"`
	CreatedAt   time.Time  `json:"created_at"`

	Status               Status     `json:"status"`
	HasActiveDescendant  bool       `json:"has_active_descendant"`
	TotalTimeSpent       int        `json:"total_time_spent"`
	ActiveTimerStartedAt *time.Time `json:"active_timer_started_at"`

	Children []*TaskNode `json:"children"`
}

// Build reconstructs the parent/child forest from a flat task slice and
// derives status, descendant activity and rolled-up time per node. Roots are
// returned in input order; children keep the input order of their siblings.
//
// The input is expected to contain only non-deleted tasks with their time
// entries preloaded. A task whose parent is absent from the slice is treated
// as a root, so the node count always equals the input length.
func Build(tasks []models.Task, active *ActivePointer) []*TaskNode {
	// Pass 1: index every task by id with its own (non-rolled-up) fields.
	nodes := make(map[string]*TaskNode, len(tasks))
	for i := range tasks {
		t := &tasks[i]
		n := &TaskNode{
			ID:             t.ID,
			ProjectID:      t.ProjectID,
			ParentID:       t.ParentID,
			Title:          t.Title,
			Description:    t.Description,
			Estimate:       t.Estimate,
			CompletedAt:    t.CompletedAt,
			CreatedAt:      t.CreatedAt,
			Status:         StatusOpen,
			TotalTimeSpent: t.OwnTimeSpent(),
		}
		if active != nil && active.TaskID == t.ID {
			startedAt := active.StartedAt
			n.ActiveTimerStartedAt = &startedAt
		}
		nodes[t.ID] = n
	}

	// Pass 2: link children to parents.
	var roots []*TaskNode
	for i := range tasks {
		n := nodes[tasks[i].ID]
		if p := tasks[i].ParentID; p != nil && nodes[*p] != nil {
			parent := nodes[*p]
			parent.Children = append(parent.Children, n)
		} else {
			roots = append(roots, n)
		}
	}

	// Pass 3: post-order derivation, children finalized before parents.
	for _, root := range roots {
		derive(root, active)
	}
	return roots
}

// derive finalizes a subtree bottom-up. By the time a node's own fields are
// written, every child has already been derived, so reading child status and
// totals here never observes a partial value.
func derive(n *TaskNode, active *ActivePointer) {
	for _, c := range n.Children {
		derive(c, active)
		n.TotalTimeSpent += c.TotalTimeSpent
		if c.Status == StatusInProgress || c.HasActiveDescendant {
			n.HasActiveDescendant = true
		}
	}

	// Completion is permanent and wins over a stale active-timer pointer.
	switch {
	case n.CompletedAt != nil:
		n.Status = StatusDone
	case active != nil && active.TaskID == n.ID:
		n.Status = StatusInProgress
	default:
		n.Status = StatusOpen
	}
}

// Flatten returns every node of the forest in depth-first order.
func Flatten(roots []*TaskNode) []*TaskNode {
	var all []*TaskNode
	var walk func(n *TaskNode)
	walk = func(n *TaskNode) {
		all = append(all, n)
		for _, c := range n.Children {
			walk(c)
		}
	}
	for _, r := range roots {
		walk(r)
	}
	return all
}

// Find returns the node with the given id, searching the whole forest.
func Find(roots []*TaskNode, id string) *TaskNode {
	for _, n := range Flatten(roots) {
		if n.ID == id {
			return n
		}
	}
	return nil
}
