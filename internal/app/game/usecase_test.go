package game

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"

	"dominion/internal/adapter/repo/memory"
	"dominion/internal/app/ports"
)

func newTestUseCase() *UseCase {
	store := memory.NewStore()
	return NewUseCase(memory.NewTxManager(store), memory.NewQueueRepo(store), memory.NewReportRepo(store), nil)
}

func TestCreateAndStep(t *testing.T) {
	uc := newTestUseCase()
	info, err := uc.Create(Settings{Seed: 7, CivCount: 3})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if info.ID != "game-1" || info.Turn != 1 || info.CivCount != 3 {
		t.Fatalf("info = %+v", info)
	}

	reports, err := uc.Step(context.Background(), info.ID, 5)
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if len(reports) != 5 {
		t.Fatalf("got %d reports, want 5", len(reports))
	}
	for i, r := range reports {
		if r.Turn != i+1 {
			t.Fatalf("report %d covers turn %d", i, r.Turn)
		}
		if len(r.Civs) != 3 {
			t.Fatalf("report %d has %d civs", i, len(r.Civs))
		}
	}

	after, err := uc.Info(info.ID)
	if err != nil {
		t.Fatal(err)
	}
	if after.Turn != 6 {
		t.Fatalf("turn after 5 steps = %d, want 6", after.Turn)
	}
}

func TestStepUnknownGame(t *testing.T) {
	uc := newTestUseCase()
	if _, err := uc.Step(context.Background(), "game-9", 1); !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("err = %v, want ErrGameNotFound", err)
	}
}

func TestCreateRejectsTinyMap(t *testing.T) {
	uc := newTestUseCase()
	if _, err := uc.Create(Settings{Width: 4, Height: 4}); !errors.Is(err, ErrInvalidSettings) {
		t.Fatalf("err = %v, want ErrInvalidSettings", err)
	}
}

func TestDeterministicRuns(t *testing.T) {
	settings := Settings{Seed: 42, CivCount: 4}
	run := func() []ports.TurnReport {
		uc := newTestUseCase()
		info, err := uc.Create(settings)
		if err != nil {
			t.Fatal(err)
		}
		reports, err := uc.Step(context.Background(), info.ID, 4)
		if err != nil {
			t.Fatal(err)
		}
		return reports
	}

	a := run()
	b := run()
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("same settings diverged:\n%+v\n%+v", a, b)
	}
}

func TestConcurrentStepsSerialize(t *testing.T) {
	uc := newTestUseCase()
	info, err := uc.Create(Settings{Seed: 7, CivCount: 2})
	if err != nil {
		t.Fatal(err)
	}

	const workers = 4
	const turnsEach = 3
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		seen = map[int]int{}
	)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			reports, err := uc.Step(context.Background(), info.ID, turnsEach)
			if err != nil {
				t.Errorf("Step: %v", err)
				return
			}
			mu.Lock()
			for _, r := range reports {
				seen[r.Turn]++
			}
			mu.Unlock()
		}()
	}
	wg.Wait()

	after, err := uc.Info(info.ID)
	if err != nil {
		t.Fatal(err)
	}
	if want := 1 + workers*turnsEach; after.Turn != want {
		t.Fatalf("turn after concurrent steps = %d, want %d", after.Turn, want)
	}
	// Every turn number was processed exactly once; overlapping steps would
	// duplicate or skip turns.
	if len(seen) != workers*turnsEach {
		t.Fatalf("distinct turns = %d, want %d", len(seen), workers*turnsEach)
	}
	for turn, n := range seen {
		if n != 1 {
			t.Fatalf("turn %d reported %d times", turn, n)
		}
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	uc := newTestUseCase()
	info, err := uc.Create(Settings{Seed: 7, CivCount: 2})
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	if _, err := uc.Step(ctx, info.ID, 3); err != nil {
		t.Fatal(err)
	}

	saved, err := uc.Queues(info.ID)
	if err != nil {
		t.Fatal(err)
	}
	if err := uc.Save(ctx, info.ID); err != nil {
		t.Fatalf("Save: %v", err)
	}

	// Drift forward, then roll back to the save point.
	if _, err := uc.Step(ctx, info.ID, 2); err != nil {
		t.Fatal(err)
	}
	if err := uc.Load(ctx, info.ID); err != nil {
		t.Fatalf("Load: %v", err)
	}

	restored, err := uc.Queues(info.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(restored, saved) {
		t.Fatalf("queues after load = %+v, want %+v", restored, saved)
	}
	after, err := uc.Info(info.ID)
	if err != nil {
		t.Fatal(err)
	}
	if after.Turn != 4 {
		t.Fatalf("turn after load = %d, want 4", after.Turn)
	}
}

func TestLoadWithoutSave(t *testing.T) {
	uc := newTestUseCase()
	info, err := uc.Create(Settings{Seed: 7})
	if err != nil {
		t.Fatal(err)
	}
	if err := uc.Load(context.Background(), info.ID); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestReportsNewestFirst(t *testing.T) {
	uc := newTestUseCase()
	info, err := uc.Create(Settings{Seed: 7})
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	if _, err := uc.Step(ctx, info.ID, 3); err != nil {
		t.Fatal(err)
	}

	reports, err := uc.Reports(ctx, info.ID, 2)
	if err != nil {
		t.Fatalf("Reports: %v", err)
	}
	if len(reports) != 2 || reports[0].Turn != 3 || reports[1].Turn != 2 {
		t.Fatalf("reports = %+v, want turns 3 then 2", reports)
	}
}

func TestQueueForUnknownCiv(t *testing.T) {
	uc := newTestUseCase()
	info, err := uc.Create(Settings{Seed: 7, CivCount: 2})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := uc.Step(context.Background(), info.ID, 1); err != nil {
		t.Fatal(err)
	}
	if _, err := uc.QueueFor(info.ID, 99); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if state, err := uc.QueueFor(info.ID, 1); err != nil || state.CivID != 1 {
		t.Fatalf("state = %+v err = %v", state, err)
	}
}
