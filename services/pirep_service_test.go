package services

import (
	"fmt"
	"testing"

	"github.com/gewnthar/flightops/backend/events"
	"github.com/gewnthar/flightops/backend/geo"
	"github.com/gewnthar/flightops/backend/models"
)

// In-memory fakes mimicking the database package's semantics, shared
// through one env so the repos see the same pilot rows.

type fakeEnv struct {
	pilots      map[int64]*models.Pilot
	ranks       []models.Rank
	airports    map[string]*models.Airport
	waypoints   map[string][]models.Waypoint
	states      map[int64]models.PirepState
	nextPirepID int64
}

func newFakeEnv() *fakeEnv {
	return &fakeEnv{
		pilots:    make(map[int64]*models.Pilot),
		airports:  make(map[string]*models.Airport),
		waypoints: make(map[string][]models.Waypoint),
		states:    make(map[int64]models.PirepState),
	}
}

type fakePirepRepo struct{ env *fakeEnv }

func (f fakePirepRepo) Insert(p *models.Pirep) error {
	f.env.nextPirepID++
	p.ID = f.env.nextPirepID
	f.env.states[p.ID] = p.State
	return nil
}

func (f fakePirepRepo) ReplaceRoute(pirepID int64, waypoints []models.Waypoint) error {
	return nil
}

func (f fakePirepRepo) InsertFieldValues(pirepID int64, fields []models.PirepFieldValue) error {
	return nil
}

func (f fakePirepRepo) ApplyTransition(p *models.Pirep, target models.PirepState, deltaMinutes int64, deltaFlights int64, computeRank func(hours float64) (int64, bool)) (*models.Pilot, error) {
	pilot, ok := f.env.pilots[p.PilotID]
	if !ok {
		return nil, fmt.Errorf("pilot %d not found", p.PilotID)
	}
	if f.env.states[p.ID] == target {
		p.State = target
		cp := *pilot
		return &cp, nil
	}
	pilot.FlightTimeMinutes += deltaMinutes
	pilot.FlightCount += deltaFlights
	if computeRank != nil {
		if rankID, ok := computeRank(pilot.FlightHours()); ok {
			pilot.RankID = rankID
		}
	}
	f.env.states[p.ID] = target
	p.State = target
	cp := *pilot
	return &cp, nil
}

type fakePilotRepo struct{ env *fakeEnv }

func (f fakePilotRepo) Get(id int64) (*models.Pilot, error) {
	pilot, ok := f.env.pilots[id]
	if !ok {
		return nil, fmt.Errorf("pilot %d not found", id)
	}
	cp := *pilot
	return &cp, nil
}

func (f fakePilotRepo) UpdateLocation(pilotID int64, airportICAO string, lastPirepID int64) error {
	pilot, ok := f.env.pilots[pilotID]
	if !ok {
		return fmt.Errorf("pilot %d not found", pilotID)
	}
	pilot.CurrentAirport = airportICAO
	id := lastPirepID
	pilot.LastPirepID = &id
	return nil
}

type fakeRankRepo struct{ env *fakeEnv }

func (f fakeRankRepo) All() ([]models.Rank, error) {
	return f.env.ranks, nil
}

func (f fakeRankRepo) Get(id int64) (*models.Rank, error) {
	for _, r := range f.env.ranks {
		if r.ID == id {
			cp := r
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("rank %d not found", id)
}

type fakeAirportDir struct{ env *fakeEnv }

func (f fakeAirportDir) GetByICAO(icao string) (*models.Airport, error) {
	ap, ok := f.env.airports[icao]
	if !ok {
		return nil, fmt.Errorf("airport %s not found", icao)
	}
	cp := *ap
	return &cp, nil
}

type recordedEvent struct {
	subject string
	payload interface{}
}

type fakePublisher struct {
	published []recordedEvent
}

func (p *fakePublisher) Publish(subject string, payload interface{}) {
	p.published = append(p.published, recordedEvent{subject: subject, payload: payload})
}

func (p *fakePublisher) subjects() []string {
	out := make([]string, 0, len(p.published))
	for _, e := range p.published {
		out = append(out, e.subject)
	}
	return out
}

func newTestService(env *fakeEnv) (*PirepService, *fakePublisher) {
	pub := &fakePublisher{}
	resolver := NewRouteResolver(DirectoryFunc(func(ident string) ([]models.Waypoint, error) {
		return env.waypoints[ident], nil
	}), geo.MeasureFlat)
	svc := NewPirepService(
		fakePirepRepo{env}, fakePilotRepo{env}, fakeRankRepo{env}, fakeAirportDir{env},
		resolver, pub,
	)
	return svc, pub
}

func seedEnv(env *fakeEnv) {
	env.ranks = []models.Rank{
		{ID: 1, Name: "Cadet", HoursThreshold: 0},
		{ID: 2, Name: "Captain", HoursThreshold: 10},
	}
	env.pilots[7] = &models.Pilot{ID: 7, Name: "A. Pilot", RankID: 1, CurrentAirport: "KJFK"}
	env.airports["KJFK"] = &models.Airport{ICAO: "KJFK", Name: "Kennedy", Latitude: 40.6413, Longitude: -73.7781}
	env.airports["KORD"] = &models.Airport{ICAO: "KORD", Name: "O'Hare", Latitude: 41.9742, Longitude: -87.9073}
}

func newPendingPirep(minutes int64) *models.Pirep {
	return &models.Pirep{
		PilotID:           7,
		DepartureICAO:     "KJFK",
		ArrivalICAO:       "KORD",
		RouteText:         "",
		FlightTimeMinutes: minutes,
		Source:            models.PirepSourceManual,
		State:             models.PirepStatePending,
	}
}

func filePending(t *testing.T, svc *PirepService, minutes int64) *models.Pirep {
	t.Helper()
	p, err := svc.File(newPendingPirep(minutes), nil)
	if err != nil {
		t.Fatalf("File failed: %v", err)
	}
	return p
}

func TestFileStaysPendingWithoutAutoApproval(t *testing.T) {
	env := newFakeEnv()
	seedEnv(env)
	svc, pub := newTestService(env)

	p := filePending(t, svc, 120)

	if p.State != models.PirepStatePending {
		t.Errorf("state = %s, want PENDING", p.State)
	}
	if env.pilots[7].FlightTimeMinutes != 0 || env.pilots[7].FlightCount != 0 {
		t.Errorf("pending filing credited pilot: %+v", env.pilots[7])
	}
	if got := pub.subjects(); len(got) != 1 || got[0] != events.SubjectPirepFiled {
		t.Errorf("published subjects = %v, want [%s]", got, events.SubjectPirepFiled)
	}
}

func TestFileAutoApprovesACARSByRankFlag(t *testing.T) {
	env := newFakeEnv()
	seedEnv(env)
	env.ranks[0].AutoApproveACARS = true
	svc, pub := newTestService(env)

	p := newPendingPirep(90)
	p.Source = models.PirepSourceACARS
	p, err := svc.File(p, nil)
	if err != nil {
		t.Fatalf("File failed: %v", err)
	}

	if p.State != models.PirepStateAccepted {
		t.Fatalf("state = %s, want ACCEPTED", p.State)
	}
	pilot := env.pilots[7]
	if pilot.FlightTimeMinutes != 90 || pilot.FlightCount != 1 {
		t.Errorf("pilot aggregates = %d min / %d flights, want 90 / 1", pilot.FlightTimeMinutes, pilot.FlightCount)
	}
	if pilot.CurrentAirport != "KORD" {
		t.Errorf("pilot location = %s, want KORD", pilot.CurrentAirport)
	}
	if pilot.LastPirepID == nil || *pilot.LastPirepID != p.ID {
		t.Errorf("last PIREP ref = %v, want %d", pilot.LastPirepID, p.ID)
	}

	subjects := pub.subjects()
	if len(subjects) == 0 || subjects[0] != events.SubjectPirepFiled {
		t.Fatalf("published subjects = %v, want filed first", subjects)
	}
	var sawAccepted bool
	for _, s := range subjects[1:] {
		if s == events.SubjectPirepAccepted {
			sawAccepted = true
		}
	}
	if !sawAccepted {
		t.Errorf("published subjects = %v, missing accepted event", subjects)
	}
}

func TestFileManualNotApprovedByACARSFlag(t *testing.T) {
	env := newFakeEnv()
	seedEnv(env)
	env.ranks[0].AutoApproveACARS = true // manual filings need the other flag
	svc, _ := newTestService(env)

	p := filePending(t, svc, 60)

	if p.State != models.PirepStatePending {
		t.Errorf("state = %s, want PENDING", p.State)
	}
}

func TestAcceptIsIdempotent(t *testing.T) {
	env := newFakeEnv()
	seedEnv(env)
	svc, _ := newTestService(env)

	p := filePending(t, svc, 240)
	if _, err := svc.Accept(p); err != nil {
		t.Fatalf("first Accept failed: %v", err)
	}
	if _, err := svc.Accept(p); err != nil {
		t.Fatalf("second Accept failed: %v", err)
	}

	pilot := env.pilots[7]
	if pilot.FlightTimeMinutes != 240 || pilot.FlightCount != 1 {
		t.Errorf("pilot aggregates after double accept = %d min / %d flights, want 240 / 1",
			pilot.FlightTimeMinutes, pilot.FlightCount)
	}
}

func TestAcceptThenRejectRestoresAggregatesExactly(t *testing.T) {
	env := newFakeEnv()
	seedEnv(env)
	env.pilots[7].FlightTimeMinutes = 123
	env.pilots[7].FlightCount = 4
	svc, _ := newTestService(env)

	p := filePending(t, svc, 240)
	if _, err := svc.Accept(p); err != nil {
		t.Fatalf("Accept failed: %v", err)
	}
	if _, err := svc.Reject(p); err != nil {
		t.Fatalf("Reject failed: %v", err)
	}

	pilot := env.pilots[7]
	if pilot.FlightTimeMinutes != 123 || pilot.FlightCount != 4 {
		t.Errorf("pilot aggregates = %d min / %d flights, want the pre-accept 123 / 4",
			pilot.FlightTimeMinutes, pilot.FlightCount)
	}
	if p.State != models.PirepStateRejected {
		t.Errorf("state = %s, want REJECTED", p.State)
	}
}

func TestRejectFromPendingCreditsNothing(t *testing.T) {
	env := newFakeEnv()
	seedEnv(env)
	svc, _ := newTestService(env)

	p := filePending(t, svc, 240)
	if _, err := svc.Reject(p); err != nil {
		t.Fatalf("Reject failed: %v", err)
	}

	pilot := env.pilots[7]
	if pilot.FlightTimeMinutes != 0 || pilot.FlightCount != 0 {
		t.Errorf("rejecting a pending PIREP changed aggregates: %+v", pilot)
	}
	if p.State != models.PirepStateRejected {
		t.Errorf("state = %s, want REJECTED", p.State)
	}
}

func TestRankPromotionAfterThresholdCrossed(t *testing.T) {
	// Rank 2 requires 10 hours. Three accepted 4-hour flights: still rank 1
	// after the second (8h), promoted after the third (12h).
	env := newFakeEnv()
	seedEnv(env)
	svc, pub := newTestService(env)

	for i := 0; i < 2; i++ {
		p := filePending(t, svc, 240)
		if _, err := svc.Accept(p); err != nil {
			t.Fatalf("Accept %d failed: %v", i+1, err)
		}
	}
	if env.pilots[7].RankID != 1 {
		t.Fatalf("rank after 8 hours = %d, want still 1", env.pilots[7].RankID)
	}

	p := filePending(t, svc, 240)
	if _, err := svc.Accept(p); err != nil {
		t.Fatalf("third Accept failed: %v", err)
	}

	pilot := env.pilots[7]
	if pilot.RankID != 2 {
		t.Errorf("rank after 12 hours = %d, want 2", pilot.RankID)
	}
	if pilot.FlightCount != 3 {
		t.Errorf("flight count = %d, want 3", pilot.FlightCount)
	}

	var sawRankChange bool
	for _, e := range pub.published {
		if e.subject != events.SubjectPilotStatsChanged {
			continue
		}
		if sc, ok := e.payload.(models.PilotStatsChangedEvent); ok && sc.Field == "rank_id" {
			sawRankChange = true
			if sc.PreviousValue != "1" || sc.NewValue != "2" {
				t.Errorf("rank change event = %s -> %s, want 1 -> 2", sc.PreviousValue, sc.NewValue)
			}
		}
	}
	if !sawRankChange {
		t.Error("no rank_id stats-changed event published on promotion")
	}
}

func TestDemotionWhenAcceptedPirepRejected(t *testing.T) {
	env := newFakeEnv()
	seedEnv(env)
	svc, _ := newTestService(env)

	p := filePending(t, svc, 720) // 12 hours, straight past the threshold
	if _, err := svc.Accept(p); err != nil {
		t.Fatalf("Accept failed: %v", err)
	}
	if env.pilots[7].RankID != 2 {
		t.Fatalf("rank after accept = %d, want 2", env.pilots[7].RankID)
	}

	if _, err := svc.Reject(p); err != nil {
		t.Fatalf("Reject failed: %v", err)
	}
	if env.pilots[7].RankID != 1 {
		t.Errorf("rank after reversal = %d, want back to 1", env.pilots[7].RankID)
	}
}

func TestTransitionSameStateIsNoOp(t *testing.T) {
	env := newFakeEnv()
	seedEnv(env)
	svc, pub := newTestService(env)

	p := filePending(t, svc, 60)
	before := len(pub.published)

	got, err := svc.Transition(p, models.PirepStatePending)
	if err != nil {
		t.Fatalf("Transition failed: %v", err)
	}
	if got.State != models.PirepStatePending {
		t.Errorf("state = %s, want PENDING", got.State)
	}
	if len(pub.published) != before {
		t.Errorf("no-op transition published %d events", len(pub.published)-before)
	}
}

func TestTransitionFromPendingHonorsTarget(t *testing.T) {
	for _, target := range []models.PirepState{models.PirepStateAccepted, models.PirepStateRejected} {
		t.Run(string(target), func(t *testing.T) {
			env := newFakeEnv()
			seedEnv(env)
			svc, _ := newTestService(env)

			p := filePending(t, svc, 60)
			got, err := svc.Transition(p, target)
			if err != nil {
				t.Fatalf("Transition failed: %v", err)
			}
			if got.State != target {
				t.Errorf("state = %s, want %s", got.State, target)
			}
		})
	}
}

func TestTransitionToggleQuirk(t *testing.T) {
	// Legacy behavior: from ACCEPTED or REJECTED, any differing requested
	// target toggles to the opposite state — even a request for PENDING.
	env := newFakeEnv()
	seedEnv(env)
	svc, _ := newTestService(env)

	p := filePending(t, svc, 60)
	if _, err := svc.Accept(p); err != nil {
		t.Fatalf("Accept failed: %v", err)
	}

	got, err := svc.Transition(p, models.PirepStatePending)
	if err != nil {
		t.Fatalf("Transition from ACCEPTED failed: %v", err)
	}
	if got.State != models.PirepStateRejected {
		t.Fatalf("ACCEPTED + request PENDING = %s, want REJECTED (legacy toggle)", got.State)
	}

	got, err = svc.Transition(p, models.PirepStatePending)
	if err != nil {
		t.Fatalf("Transition from REJECTED failed: %v", err)
	}
	if got.State != models.PirepStateAccepted {
		t.Errorf("REJECTED + request PENDING = %s, want ACCEPTED (legacy toggle)", got.State)
	}
}

func TestSetPilotLocationEmitsPreviousAirport(t *testing.T) {
	env := newFakeEnv()
	seedEnv(env)
	svc, pub := newTestService(env)

	p := filePending(t, svc, 60)
	pilot, err := svc.Pilots.Get(7)
	if err != nil {
		t.Fatalf("Get pilot failed: %v", err)
	}

	if err := svc.SetPilotLocation(pilot, p); err != nil {
		t.Fatalf("SetPilotLocation failed: %v", err)
	}

	if pilot.CurrentAirport != "KORD" {
		t.Errorf("pilot location = %s, want KORD", pilot.CurrentAirport)
	}

	var found bool
	for _, e := range pub.published {
		sc, ok := e.payload.(models.PilotStatsChangedEvent)
		if ok && sc.Field == "current_airport" {
			found = true
			if sc.PreviousValue != "KJFK" || sc.NewValue != "KORD" {
				t.Errorf("stats-changed event = %s -> %s, want KJFK -> KORD", sc.PreviousValue, sc.NewValue)
			}
		}
	}
	if !found {
		t.Error("no current_airport stats-changed event published")
	}
}
