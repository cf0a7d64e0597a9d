package service

import (
	"testing"
	"time"

	"github.com/jhennig/stamm/internal/models"
)

var clockBase = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

// fixedClock pins a TimerService to a settable instant.
type fixedClock struct {
	now time.Time
}

func (c *fixedClock) attach(s *TimerService) {
	s.now = func() time.Time { return c.now }
}

func TestTimerStart_CreatesTimer(t *testing.T) {
	gdb := openTestDB(t)
	user := seedUser(t, gdb, "a@example.com")
	project := seedProject(t, gdb, user.ID)
	task := seedTask(t, gdb, project.ID, user.ID, nil, "write docs")

	svc := NewTimerService(gdb)
	clock := &fixedClock{now: clockBase}
	clock.attach(svc)

	result, err := svc.Start(user.ID, task.ID)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if result.TimeEntry != nil {
		t.Errorf("TimeEntry = %v, want nil on first start", result.TimeEntry)
	}
	if result.ActiveTimer.TaskID != task.ID {
		t.Errorf("ActiveTimer.TaskID = %s, want %s", result.ActiveTimer.TaskID, task.ID)
	}
	if got := countActiveTimers(t, gdb, user.ID); got != 1 {
		t.Errorf("active timer rows = %d, want 1", got)
	}
	if got := countTimeEntries(t, gdb); got != 0 {
		t.Errorf("time entries = %d, want 0", got)
	}
}

func TestTimerStart_SwitchMaterializesOldSession(t *testing.T) {
	gdb := openTestDB(t)
	user := seedUser(t, gdb, "a@example.com")
	project := seedProject(t, gdb, user.ID)
	taskA := seedTask(t, gdb, project.ID, user.ID, nil, "task A")
	taskB := seedTask(t, gdb, project.ID, user.ID, nil, "task B")

	svc := NewTimerService(gdb)
	clock := &fixedClock{now: clockBase}
	clock.attach(svc)

	if _, err := svc.Start(user.ID, taskA.ID); err != nil {
		t.Fatalf("Start A: %v", err)
	}

	clock.now = clockBase.Add(90 * time.Second)
	result, err := svc.Start(user.ID, taskB.ID)
	if err != nil {
		t.Fatalf("Start B: %v", err)
	}

	if result.TimeEntry == nil {
		t.Fatal("TimeEntry = nil, want materialized entry for task A")
	}
	if result.TimeEntry.TaskID != taskA.ID {
		t.Errorf("TimeEntry.TaskID = %s, want %s", result.TimeEntry.TaskID, taskA.ID)
	}
	if result.TimeEntry.Duration != 90 {
		t.Errorf("TimeEntry.Duration = %d, want 90", result.TimeEntry.Duration)
	}
	if got := countTimeEntries(t, gdb); got != 1 {
		t.Errorf("time entries = %d, want 1", got)
	}

	// Exactly one timer row, now pointing at task B with a fresh start.
	if got := countActiveTimers(t, gdb, user.ID); got != 1 {
		t.Fatalf("active timer rows = %d, want 1", got)
	}
	var timer models.ActiveTimer
	if err := gdb.First(&timer, "user_id = ?", user.ID).Error; err != nil {
		t.Fatalf("loading timer: %v", err)
	}
	if timer.TaskID != taskB.ID {
		t.Errorf("timer.TaskID = %s, want %s", timer.TaskID, taskB.ID)
	}
	if timer.StartedAt.Unix() != clock.now.Unix() {
		t.Errorf("timer.StartedAt = %v, want %v", timer.StartedAt, clock.now)
	}
}

func TestTimerStart_SameTaskRestartSplitsSession(t *testing.T) {
	gdb := openTestDB(t)
	user := seedUser(t, gdb, "a@example.com")
	project := seedProject(t, gdb, user.ID)
	task := seedTask(t, gdb, project.ID, user.ID, nil, "task A")

	svc := NewTimerService(gdb)
	clock := &fixedClock{now: clockBase}
	clock.attach(svc)

	if _, err := svc.Start(user.ID, task.ID); err != nil {
		t.Fatalf("first Start: %v", err)
	}

	clock.now = clockBase.Add(30 * time.Second)
	result, err := svc.Start(user.ID, task.ID)
	if err != nil {
		t.Fatalf("restart: %v", err)
	}

	if result.TimeEntry == nil || result.TimeEntry.Duration != 30 {
		t.Fatalf("TimeEntry = %+v, want 30s entry for the closed session", result.TimeEntry)
	}
	if result.ActiveTimer.StartedAt.Unix() != clock.now.Unix() {
		t.Errorf("restart did not reset StartedAt: %v", result.ActiveTimer.StartedAt)
	}
	if got := countActiveTimers(t, gdb, user.ID); got != 1 {
		t.Errorf("active timer rows = %d, want 1", got)
	}
}

func TestTimerStart_DurationIsFlooredSeconds(t *testing.T) {
	gdb := openTestDB(t)
	user := seedUser(t, gdb, "a@example.com")
	project := seedProject(t, gdb, user.ID)
	taskA := seedTask(t, gdb, project.ID, user.ID, nil, "task A")
	taskB := seedTask(t, gdb, project.ID, user.ID, nil, "task B")

	svc := NewTimerService(gdb)
	clock := &fixedClock{now: clockBase}
	clock.attach(svc)

	if _, err := svc.Start(user.ID, taskA.ID); err != nil {
		t.Fatalf("Start A: %v", err)
	}

	clock.now = clockBase.Add(90500 * time.Millisecond)
	result, err := svc.Start(user.ID, taskB.ID)
	if err != nil {
		t.Fatalf("Start B: %v", err)
	}
	if result.TimeEntry.Duration != 90 {
		t.Errorf("Duration = %d, want floor 90", result.TimeEntry.Duration)
	}
}

func TestTimerStart_ZeroElapsedIsLegitimate(t *testing.T) {
	gdb := openTestDB(t)
	user := seedUser(t, gdb, "a@example.com")
	project := seedProject(t, gdb, user.ID)
	task := seedTask(t, gdb, project.ID, user.ID, nil, "task A")

	svc := NewTimerService(gdb)
	clock := &fixedClock{now: clockBase}
	clock.attach(svc)

	if _, err := svc.Start(user.ID, task.ID); err != nil {
		t.Fatalf("first Start: %v", err)
	}
	result, err := svc.Start(user.ID, task.ID)
	if err != nil {
		t.Fatalf("immediate restart: %v", err)
	}
	if result.TimeEntry == nil || result.TimeEntry.Duration != 0 {
		t.Errorf("TimeEntry = %+v, want a zero-duration entry", result.TimeEntry)
	}
}

func TestTimerStart_UnknownTask(t *testing.T) {
	gdb := openTestDB(t)
	user := seedUser(t, gdb, "a@example.com")

	svc := NewTimerService(gdb)
	_, err := svc.Start(user.ID, "no-such-task")
	if !IsKind(err, KindNotFound) {
		t.Errorf("err = %v, want NotFound", err)
	}
}

func TestTimerStart_ForeignTaskIsAuthorizationError(t *testing.T) {
	gdb := openTestDB(t)
	owner := seedUser(t, gdb, "owner@example.com")
	intruder := seedUser(t, gdb, "intruder@example.com")
	project := seedProject(t, gdb, owner.ID)
	task := seedTask(t, gdb, project.ID, owner.ID, nil, "private task")

	svc := NewTimerService(gdb)
	_, err := svc.Start(intruder.ID, task.ID)
	if !IsKind(err, KindAuthorization) {
		t.Errorf("err = %v, want Authorization", err)
	}
	if got := countActiveTimers(t, gdb, intruder.ID); got != 0 {
		t.Errorf("active timer rows = %d, want 0", got)
	}
}

func TestTimerStop_MaterializesAndClears(t *testing.T) {
	gdb := openTestDB(t)
	user := seedUser(t, gdb, "a@example.com")
	project := seedProject(t, gdb, user.ID)
	task := seedTask(t, gdb, project.ID, user.ID, nil, "task A")

	svc := NewTimerService(gdb)
	clock := &fixedClock{now: clockBase}
	clock.attach(svc)

	if _, err := svc.Start(user.ID, task.ID); err != nil {
		t.Fatalf("Start: %v", err)
	}

	clock.now = clockBase.Add(2 * time.Minute)
	entry, err := svc.Stop(user.ID)
	if err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if entry.TaskID != task.ID || entry.Duration != 120 {
		t.Errorf("entry = task %s dur %d, want task %s dur 120", entry.TaskID, entry.Duration, task.ID)
	}
	if got := countActiveTimers(t, gdb, user.ID); got != 0 {
		t.Errorf("active timer rows = %d, want 0", got)
	}
	if got := countTimeEntries(t, gdb); got != 1 {
		t.Errorf("time entries = %d, want 1", got)
	}
}

func TestTimerStop_WithoutTimerIsNotFoundAndWritesNothing(t *testing.T) {
	gdb := openTestDB(t)
	user := seedUser(t, gdb, "a@example.com")

	svc := NewTimerService(gdb)
	_, err := svc.Stop(user.ID)
	if !IsKind(err, KindNotFound) {
		t.Errorf("err = %v, want NotFound", err)
	}
	if got := countTimeEntries(t, gdb); got != 0 {
		t.Errorf("time entries = %d, want 0", got)
	}
}

func TestTimerActive(t *testing.T) {
	gdb := openTestDB(t)
	user := seedUser(t, gdb, "a@example.com")
	project := seedProject(t, gdb, user.ID)
	task := seedTask(t, gdb, project.ID, user.ID, nil, "task A")

	svc := NewTimerService(gdb)

	timer, err := svc.Active(user.ID)
	if err != nil {
		t.Fatalf("Active: %v", err)
	}
	if timer != nil {
		t.Errorf("timer = %+v, want nil with nothing running", timer)
	}

	if _, err := svc.Start(user.ID, task.ID); err != nil {
		t.Fatalf("Start: %v", err)
	}
	timer, err = svc.Active(user.ID)
	if err != nil {
		t.Fatalf("Active: %v", err)
	}
	if timer == nil || timer.TaskID != task.ID {
		t.Errorf("timer = %+v, want pointer at %s", timer, task.ID)
	}
}

func TestTimers_AreIndependentPerUser(t *testing.T) {
	gdb := openTestDB(t)
	alice := seedUser(t, gdb, "alice@example.com")
	bob := seedUser(t, gdb, "bob@example.com")
	aliceProject := seedProject(t, gdb, alice.ID)
	bobProject := seedProject(t, gdb, bob.ID)
	aliceTask := seedTask(t, gdb, aliceProject.ID, alice.ID, nil, "alice task")
	bobTask := seedTask(t, gdb, bobProject.ID, bob.ID, nil, "bob task")

	svc := NewTimerService(gdb)
	if _, err := svc.Start(alice.ID, aliceTask.ID); err != nil {
		t.Fatalf("alice Start: %v", err)
	}
	if _, err := svc.Start(bob.ID, bobTask.ID); err != nil {
		t.Fatalf("bob Start: %v", err)
	}

	if got := countActiveTimers(t, gdb, alice.ID); got != 1 {
		t.Errorf("alice timers = %d, want 1", got)
	}
	if got := countActiveTimers(t, gdb, bob.ID); got != 1 {
		t.Errorf("bob timers = %d, want 1", got)
	}

	// Stopping bob leaves alice's timer alone.
	if _, err := svc.Stop(bob.ID); err != nil {
		t.Fatalf("bob Stop: %v", err)
	}
	if got := countActiveTimers(t, gdb, alice.ID); got != 1 {
		t.Errorf("alice timers after bob stop = %d, want 1", got)
	}
}
