// Package game owns the lifecycle of running simulations: creating a seeded
// world, stepping turns through the scheduler and persisting queue state.
package game

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"sync"

	"dominion/internal/adapter/exec"
	worldruntime "dominion/internal/adapter/world/runtime"
	"dominion/internal/app/plan"
	"dominion/internal/app/ports"
	"dominion/internal/app/schedule"
	"dominion/internal/domain/civ"
	"dominion/internal/domain/world"
)

var (
	ErrGameNotFound    = errors.New("game not found")
	ErrInvalidSettings = errors.New("invalid game settings")
)

var civNames = []string{"Aurelia", "Borealis", "Cascadia", "Drakmar", "Elyria", "Ferros", "Galdor", "Hesperia"}

type Settings struct {
	Seed      int64           `json:"seed"`
	Width     int             `json:"width"`
	Height    int             `json:"height"`
	CivCount  int             `json:"civ_count"`
	Scheduler schedule.Config `json:"scheduler"`
}

func (s Settings) withDefaults() Settings {
	if s.Width <= 0 {
		s.Width = 40
	}
	if s.Height <= 0 {
		s.Height = 40
	}
	if s.CivCount <= 0 {
		s.CivCount = 4
	}
	if s.CivCount > len(civNames) {
		s.CivCount = len(civNames)
	}
	return s
}

type Game struct {
	ID        string
	Settings  Settings
	State     *civ.GameState
	Processor *schedule.Processor

	// mu serializes turn processing, queue reads and save/load on this game;
	// the HTTP server handles requests concurrently.
	mu sync.Mutex
}

type Info struct {
	ID       string `json:"id"`
	Turn     int    `json:"turn"`
	CivCount int    `json:"civ_count"`
}

// UseCase hosts the running games of this process. Repos are the persistence
// hook: queue contents round-trip through QueueRepo on save/load, the world
// itself is rebuilt from the original seed.
type UseCase struct {
	TxManager  ports.TxManager
	QueueRepo  ports.QueueRepository
	ReportRepo ports.ReportRepository
	Metrics    ports.TurnMetrics

	mu     sync.Mutex
	games  map[string]*Game
	nextID int
}

func NewUseCase(tx ports.TxManager, queues ports.QueueRepository, reports ports.ReportRepository, metrics ports.TurnMetrics) *UseCase {
	return &UseCase{
		TxManager:  tx,
		QueueRepo:  queues,
		ReportRepo: reports,
		Metrics:    metrics,
		games:      map[string]*Game{},
	}
}

func (u *UseCase) Create(settings Settings) (Info, error) {
	settings = settings.withDefaults()
	if settings.Width < 8 || settings.Height < 8 {
		return Info{}, fmt.Errorf("%w: map %dx%d too small", ErrInvalidSettings, settings.Width, settings.Height)
	}

	state := buildWorld(settings)
	provider := worldruntime.NewProvider(state)
	engine := exec.NewEngine(state)
	coordinator := plan.NewCoordinator(
		settings.Scheduler.BaseWeights,
		plan.UtilityStrategy{},
		plan.GOAPStrategy{},
		plan.HTNStrategy{},
	)
	processor := schedule.NewProcessor(settings.Scheduler, coordinator, provider, engine, u.Metrics, settings.Seed)

	u.mu.Lock()
	defer u.mu.Unlock()
	u.nextID++
	g := &Game{
		ID:        fmt.Sprintf("game-%d", u.nextID),
		Settings:  settings,
		State:     state,
		Processor: processor,
	}
	u.games[g.ID] = g
	log.Printf("game: created %s (%dx%d, %d civs, seed %d)", g.ID, settings.Width, settings.Height, settings.CivCount, settings.Seed)
	return Info{ID: g.ID, Turn: processor.Turn(), CivCount: settings.CivCount}, nil
}

// Step advances the game the given number of turns, appending one report per
// turn. Scheduling failures never abort the simulation; the only errors that
// escape are context cancellation and unknown game IDs.
func (u *UseCase) Step(ctx context.Context, gameID string, turns int) ([]ports.TurnReport, error) {
	g, err := u.game(gameID)
	if err != nil {
		return nil, err
	}
	if turns <= 0 {
		turns = 1
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	reports := make([]ports.TurnReport, 0, turns)
	for i := 0; i < turns; i++ {
		report, err := g.Processor.ProcessTurn(ctx, g.State.ActiveCivIDs())
		if err != nil {
			return reports, err
		}
		g.State.SettleIncome()
		u.eliminateDefeated(g)
		g.State.Turn = g.Processor.Turn()

		if u.ReportRepo != nil {
			if err := u.ReportRepo.Append(ctx, g.ID, report); err != nil {
				log.Printf("game: append report for %s turn %d failed: %v", g.ID, report.Turn, err)
			}
		}
		reports = append(reports, report)
	}
	return reports, nil
}

func (u *UseCase) eliminateDefeated(g *Game) {
	for _, id := range g.State.ActiveCivIDs() {
		c := g.State.Civs[id]
		if !c.IsDefeated() {
			continue
		}
		c.Eliminated = true
		discarded := g.Processor.EliminateCiv(id)
		log.Printf("game: %s civ %d (%s) eliminated, %d pending actions discarded", g.ID, id, c.Name, discarded)
	}
}

func (u *UseCase) Info(gameID string) (Info, error) {
	g, err := u.game(gameID)
	if err != nil {
		return Info{}, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return Info{ID: g.ID, Turn: g.Processor.Turn(), CivCount: len(g.State.ActiveCivIDs())}, nil
}

func (u *UseCase) Reports(ctx context.Context, gameID string, limit int) ([]ports.TurnReport, error) {
	if _, err := u.game(gameID); err != nil {
		return nil, err
	}
	return u.ReportRepo.ListByGameID(ctx, gameID, limit)
}

func (u *UseCase) Queues(gameID string) ([]ports.QueueState, error) {
	g, err := u.game(gameID)
	if err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.Processor.QueueStates(), nil
}

func (u *UseCase) QueueFor(gameID string, id civ.CivID) (ports.QueueState, error) {
	g, err := u.game(gameID)
	if err != nil {
		return ports.QueueState{}, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, s := range g.Processor.QueueStates() {
		if s.CivID == id {
			return s, nil
		}
	}
	return ports.QueueState{}, ports.ErrNotFound
}

// Save persists every queue atomically. World state is not saved here: the
// host rebuilds it from settings and seed, per the persistence contract.
func (u *UseCase) Save(ctx context.Context, gameID string) error {
	g, err := u.game(gameID)
	if err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		return u.QueueRepo.SaveQueues(txCtx, g.ID, g.Processor.Turn(), g.Processor.QueueStates())
	})
}

func (u *UseCase) Load(ctx context.Context, gameID string) error {
	g, err := u.game(gameID)
	if err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	var turn int
	var states []ports.QueueState
	err = u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		var loadErr error
		turn, states, loadErr = u.QueueRepo.LoadQueues(txCtx, g.ID)
		return loadErr
	})
	if err != nil {
		return err
	}
	g.Processor.RestoreQueues(turn, states)
	g.State.Turn = turn
	return nil
}

func (u *UseCase) game(id string) (*Game, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	g, ok := u.games[id]
	if !ok {
		return nil, ErrGameNotFound
	}
	return g, nil
}

// buildWorld generates terrain and spawns civilizations at spaced capitals.
// Everything derives from the settings seed, so the same settings always
// produce the same opening state.
func buildWorld(settings Settings) *civ.GameState {
	m := world.Generate(settings.Width, settings.Height, settings.Seed)
	state := civ.NewGameState(m)
	rng := rand.New(rand.NewSource(settings.Seed))

	for i := 0; i < settings.CivCount; i++ {
		id := civ.CivID(i + 1)
		capital := findCapital(m, i, settings.CivCount)
		c := &civ.Civilization{
			ID:           id,
			Name:         civNames[i],
			Capital:      capital,
			Gold:         100,
			Income:       5,
			Technologies: map[string]bool{},
			Relations:    map[civ.CivID]float64{},
			Personality: civ.Personality{
				Militarism:       rng.Float64(),
				IndustryFocus:    rng.Float64(),
				ExplorationDrive: rng.Float64(),
				LandHunger:       rng.Float64(),
				Interventionism:  rng.Float64(),
			},
			Fog: world.NewFogOfWar(settings.Width, settings.Height),
		}
		c.Cities = append(c.Cities, civ.City{Name: c.Name + " Capital", Position: capital, Population: 1})
		c.Territory = append(c.Territory, capital)
		m.SetOwner(capital, uint32(id))
		c.AddUnit(civ.UnitWarrior, capital, 10)
		c.RecomputeVision()
		state.Civs[id] = c
	}
	return state
}

// findCapital spaces starting positions along the map diagonal, nudging each
// onto the nearest passable tile.
func findCapital(m *world.Map, index, total int) world.Point {
	x := (index + 1) * m.Width / (total + 1)
	y := (index + 1) * m.Height / (total + 1)
	p := world.Point{X: x, Y: y}
	if m.IsPassable(p) {
		return p
	}
	for radius := 1; radius < m.Width+m.Height; radius++ {
		for dy := -radius; dy <= radius; dy++ {
			for dx := -radius; dx <= radius; dx++ {
				if abs(dx)+abs(dy) != radius {
					continue
				}
				q := world.Point{X: x + dx, Y: y + dy}
				if m.IsPassable(q) {
					return q
				}
			}
		}
	}
	return p
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
