package covey

import (
	"errors"
	"testing"
)

func TestTask_EmptyInvoke(t *testing.T) {
	var task Task

	if !task.Empty() {
		t.Error("zero Task should be empty")
	}
	if err := task.Invoke(0); !errors.Is(err, ErrEmptyTask) {
		t.Errorf("Invoke() error = %v, want ErrEmptyTask", err)
	}
}

func TestTask_NilCallable(t *testing.T) {
	if task := NewTask(nil); !task.Empty() {
		t.Error("NewTask(nil) should be empty")
	}
	if task := NewWorkerTask(nil); !task.Empty() {
		t.Error("NewWorkerTask(nil) should be empty")
	}
}

func TestTask_InvokeRunsCallable(t *testing.T) {
	ran := false
	task := NewTask(func() { ran = true })

	if task.Empty() {
		t.Fatal("task with callable should not be empty")
	}
	if err := task.Invoke(7); err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if !ran {
		t.Error("callable did not run")
	}
}

func TestTask_WorkerIDDelivery(t *testing.T) {
	got := -1
	task := NewWorkerTask(func(workerID int) { got = workerID })

	if err := task.Invoke(3); err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if got != 3 {
		t.Errorf("worker id = %d, want 3", got)
	}
}

func TestTask_TakeMoves(t *testing.T) {
	ran := 0
	src := NewTask(func() { ran++ })

	dst := src.take()

	if !src.Empty() {
		t.Error("source should be empty after take")
	}
	if err := src.Invoke(0); !errors.Is(err, ErrEmptyTask) {
		t.Errorf("moved-from Invoke() error = %v, want ErrEmptyTask", err)
	}

	if err := dst.Invoke(0); err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if ran != 1 {
		t.Errorf("callable ran %d times, want 1", ran)
	}
}

func TestTask_DiscardFiresAbandon(t *testing.T) {
	abandoned := 0
	task := Task{
		fn:      func(int) { t.Error("discarded task must not run") },
		abandon: func() { abandoned++ },
	}

	task.discard()

	if abandoned != 1 {
		t.Errorf("abandon hook ran %d times, want 1", abandoned)
	}
	if !task.Empty() {
		t.Error("task should be empty after discard")
	}

	// Discarding an already-empty task is a no-op.
	task.discard()
	if abandoned != 1 {
		t.Errorf("abandon hook ran %d times after second discard, want 1", abandoned)
	}
}
