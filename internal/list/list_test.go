package list

import "testing"

func TestAddRejectsUndefinedState(t *testing.T) {
	l := New("mood", []string{"happy", "sad"}, Config{})
	if err := l.Add("furious"); err == nil {
		t.Error("Add(furious) with undefined state: error = nil, want StateNameMismatch")
	}
}

func TestAddAllowsUndefinedWhenConfigured(t *testing.T) {
	l := New("mood", []string{"happy"}, Config{AllowUndefinedStates: true})
	if err := l.Add("furious"); err != nil {
		t.Fatalf("Add(furious) with AllowUndefinedStates: error = %v, want nil", err)
	}
	if !l.Contains("furious") {
		t.Error("Contains(furious) = false after Add, want true")
	}
}

func TestToggleAddsThenRemoves(t *testing.T) {
	l := New("mood", []string{"happy"}, Config{})
	if err := l.Toggle("happy"); err != nil {
		t.Fatalf("Toggle(happy) #1 error = %v", err)
	}
	if !l.Contains("happy") {
		t.Error("Contains(happy) after first Toggle = false, want true")
	}
	if err := l.Toggle("happy"); err != nil {
		t.Fatalf("Toggle(happy) #2 error = %v", err)
	}
	if l.Contains("happy") {
		t.Error("Contains(happy) after second Toggle = true, want false")
	}
}

func TestEnterIsExclusive(t *testing.T) {
	l := New("mood", []string{"happy", "sad"}, Config{})
	l.Add("happy")
	if err := l.Enter("sad"); err != nil {
		t.Fatalf("Enter(sad) error = %v", err)
	}
	if l.Contains("happy") {
		t.Error("Contains(happy) after Enter(sad) = true, want false")
	}
	if !l.Contains("sad") {
		t.Error("Contains(sad) after Enter(sad) = false, want true")
	}
}

func TestLockedMutationIsNoOpAndReported(t *testing.T) {
	l := New("mood", []string{"happy"}, Config{})
	var reported []error
	l.SetSink(reportFunc(func(err error) { reported = append(reported, err) }))

	l.WithLock(func() error {
		if err := l.Add("happy"); err != nil {
			t.Fatalf("Add inside WithLock returned error = %v, want nil", err)
		}
		return nil
	})

	if l.Contains("happy") {
		t.Error("Contains(happy) after locked Add = true, want false (mutation skipped)")
	}
	if len(reported) != 1 {
		t.Fatalf("sink reports = %d, want 1", len(reported))
	}
	if l.Locked() {
		t.Error("Locked() after WithLock returns = true, want false (prior state restored)")
	}
}

func TestHistoryLimitTrimsOldest(t *testing.T) {
	l := New("mood", []string{"a", "b", "c", "d"}, Config{HistoryLimit: 2})
	l.Add("a")
	l.Add("b")
	l.Add("c")

	got := l.GetState().History
	want := []string{"b", "c"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("History = %v, want %v", got, want)
	}
}

func TestGetStateRestoreStateRoundTrip(t *testing.T) {
	l := New("mood", []string{"happy", "sad"}, Config{HistoryLimit: 10})
	l.Add("happy")
	snap := l.GetState()

	l2 := New("mood", nil, Config{})
	l2.RestoreState(snap)

	if !l2.Equals(l.GetActiveValues()) {
		t.Errorf("RestoreState active set = %v, want %v", l2.GetActiveValues(), l.GetActiveValues())
	}
	if l2.InstanceID != l.InstanceID {
		t.Error("RestoreState: InstanceID not preserved across round-trip")
	}
}

func TestCallbacksFireOnEnterAndExit(t *testing.T) {
	l := New("mood", []string{"happy", "sad"}, Config{})
	var entered, exited []string
	l.OnEnter("happy", func(s string) { entered = append(entered, s) })
	l.OnExit("happy", func(s string) { exited = append(exited, s) })

	l.Add("happy")
	l.Remove("happy")

	if len(entered) != 1 || entered[0] != "happy" {
		t.Errorf("entered = %v, want [happy]", entered)
	}
	if len(exited) != 1 || exited[0] != "happy" {
		t.Errorf("exited = %v, want [happy]", exited)
	}
}

func TestSafeCallSandboxesPanickingCallback(t *testing.T) {
	l := New("mood", []string{"happy"}, Config{})
	var reported []error
	l.SetSink(reportFunc(func(err error) { reported = append(reported, err) }))
	l.OnEnter("happy", func(string) { panic("boom") })

	if err := l.Add("happy"); err != nil {
		t.Fatalf("Add(happy) with panicking callback: error = %v, want nil (sandboxed)", err)
	}
	if len(reported) != 1 {
		t.Fatalf("sink reports = %d, want 1", len(reported))
	}
}

type reportFunc func(error)

func (f reportFunc) Report(err error) { f(err) }
