package tree

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	"pgregory.net/rapid"

	"github.com/jhennig/stamm/internal/models"
)

// genForest draws a random flat task slice whose parent links always point
// at an earlier task, mirroring how tasks are only ever attached under an
// already-existing parent.
func genForest(rt *rapid.T) []models.Task {
	n := rapid.IntRange(1, 40).Draw(rt, "n")
	tasks := make([]models.Task, 0, n)
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("task-%d", i)
		var parentID *string
		if i > 0 && rapid.Bool().Draw(rt, fmt.Sprintf("hasParent_%d", i)) {
			p := fmt.Sprintf("task-%d", rapid.IntRange(0, i-1).Draw(rt, fmt.Sprintf("parent_%d", i)))
			parentID = &p
		}

		task := models.Task{ID: id, ProjectID: "p", Title: id, ParentID: parentID}
		entries := rapid.IntRange(0, 3).Draw(rt, fmt.Sprintf("entries_%d", i))
		for e := 0; e < entries; e++ {
			task.TimeEntries = append(task.TimeEntries, models.TimeEntry{
				TaskID:   id,
				Duration: rapid.IntRange(1, 3600).Draw(rt, fmt.Sprintf("dur_%d_%d", i, e)),
			})
		}
		if rapid.Bool().Draw(rt, fmt.Sprintf("done_%d", i)) {
			done := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
			task.CompletedAt = &done
		}
		tasks = append(tasks, task)
	}
	return tasks
}

func genPointer(rt *rapid.T, tasks []models.Task) *ActivePointer {
	if !rapid.Bool().Draw(rt, "hasActive") {
		return nil
	}
	idx := rapid.IntRange(0, len(tasks)-1).Draw(rt, "activeIdx")
	return &ActivePointer{
		TaskID:    tasks[idx].ID,
		StartedAt: time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC),
	}
}

// For any task set and pointer, the forest holds every input task exactly
// once and each node's children are exactly the tasks whose parent id is the
// node's id.
func TestBuildProperty_StructurePreserved(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		tasks := genForest(rt)
		roots := Build(tasks, genPointer(rt, tasks))

		all := Flatten(roots)
		if len(all) != len(tasks) {
			rt.Fatalf("node count = %d, want %d", len(all), len(tasks))
		}

		wantChildren := make(map[string]map[string]bool)
		for _, task := range tasks {
			if task.ParentID != nil {
				if wantChildren[*task.ParentID] == nil {
					wantChildren[*task.ParentID] = make(map[string]bool)
				}
				wantChildren[*task.ParentID][task.ID] = true
			}
		}
		for _, n := range all {
			got := make(map[string]bool)
			for _, c := range n.Children {
				got[c.ID] = true
			}
			want := wantChildren[n.ID]
			if len(got) != len(want) {
				rt.Fatalf("%s: children = %v, want %v", n.ID, got, want)
			}
			for id := range want {
				if !got[id] {
					rt.Fatalf("%s: missing child %s", n.ID, id)
				}
			}
		}
	})
}

// TotalTimeSpent of a node is at least its own entry sum, with equality
// exactly for leaves (entry durations are drawn strictly positive).
func TestBuildProperty_TimeRollup(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		tasks := genForest(rt)
		roots := Build(tasks, genPointer(rt, tasks))

		own := make(map[string]int)
		for i := range tasks {
			own[tasks[i].ID] = tasks[i].OwnTimeSpent()
		}

		for _, n := range Flatten(roots) {
			if n.TotalTimeSpent < own[n.ID] {
				rt.Fatalf("%s: total %d < own %d", n.ID, n.TotalTimeSpent, own[n.ID])
			}
			childSum := 0
			childOwn := 0
			for _, c := range n.Children {
				childSum += c.TotalTimeSpent
				childOwn += own[c.ID]
			}
			if n.TotalTimeSpent != own[n.ID]+childSum {
				rt.Fatalf("%s: total %d != own %d + children %d", n.ID, n.TotalTimeSpent, own[n.ID], childSum)
			}
			leafEquality := n.TotalTimeSpent == own[n.ID]
			noTimedDescendant := childSum == 0
			if leafEquality != noTimedDescendant {
				rt.Fatalf("%s: equality %v but child total %d", n.ID, leafEquality, childSum)
			}
		}
	})
}

// HasActiveDescendant holds exactly when the strict subtree contains an
// IN_PROGRESS node, and completion always dominates the active pointer.
func TestBuildProperty_StatusDerivation(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		tasks := genForest(rt)
		active := genPointer(rt, tasks)
		roots := Build(tasks, active)

		var subtreeHasActive func(n *TaskNode) bool
		subtreeHasActive = func(n *TaskNode) bool {
			for _, c := range n.Children {
				if c.Status == StatusInProgress || subtreeHasActive(c) {
					return true
				}
			}
			return false
		}

		for _, n := range Flatten(roots) {
			if got, want := n.HasActiveDescendant, subtreeHasActive(n); got != want {
				rt.Fatalf("%s: HasActiveDescendant = %v, want %v", n.ID, got, want)
			}
			switch {
			case n.CompletedAt != nil:
				if n.Status != StatusDone {
					rt.Fatalf("%s: completed but status %s", n.ID, n.Status)
				}
			case active != nil && active.TaskID == n.ID:
				if n.Status != StatusInProgress {
					rt.Fatalf("%s: active but status %s", n.ID, n.Status)
				}
			default:
				if n.Status != StatusOpen {
					rt.Fatalf("%s: status %s, want OPEN", n.ID, n.Status)
				}
			}
		}
	})
}

// Building twice from the same inputs yields structurally equal output.
func TestBuildProperty_Idempotent(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		tasks := genForest(rt)
		active := genPointer(rt, tasks)

		first := Build(tasks, active)
		second := Build(tasks, active)

		if !reflect.DeepEqual(first, second) {
			rt.Fatal("two builds over the same input differ")
		}
	})
}
