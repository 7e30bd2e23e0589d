package api

import (
	"encoding/json"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/ralvess/emblemgo/internal/data"
	"github.com/ralvess/emblemgo/internal/db"
	"github.com/ralvess/emblemgo/internal/game/calc"
	"github.com/ralvess/emblemgo/internal/game/combat"
	"github.com/ralvess/emblemgo/internal/game/hooks"
	"github.com/ralvess/emblemgo/internal/model"
)

// Server exposes the combat engine to display layers over HTTP: a
// forecast endpoint for previewing odds before commitment, and a resolve
// endpoint producing the full strike list plus results.
type Server struct {
	env    *calc.Env
	mode   combat.RNGMode
	roster *data.Roster
	store  *db.DB // nil disables persistence
}

// NewServer wires the HTTP surface over the engine. store may be nil.
func NewServer(env *calc.Env, mode combat.RNGMode, roster *data.Roster, store *db.DB) *Server {
	return &Server{env: env, mode: mode, roster: roster, store: store}
}

// Router builds the HTTP route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/v1/forecast", s.handleForecast).Methods(http.MethodGet)
	r.HandleFunc("/v1/resolve", s.handleResolve).Methods(http.MethodPost)
	r.HandleFunc("/v1/encounters", s.handleEncounters).Methods(http.MethodGet)
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

// sideForecast is one direction's preview numbers.
type sideForecast struct {
	Hit        int  `json:"hit"`
	Damage     int  `json:"damage"`
	Crit       int  `json:"crit"`
	Strikes    int  `json:"strikes"`
	Doubles    bool `json:"doubles"`
	CanCounter bool `json:"can_counter"`
}

type forecastResponse struct {
	Attacker sideForecast `json:"attacker"`
	Defender sideForecast `json:"defender"`
}

func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	attacker, defender, ok := s.pair(w, r.URL.Query().Get("attacker"), r.URL.Query().Get("defender"))
	if !ok {
		return
	}
	aItem := equippedWeapon(attacker)
	if aItem == nil {
		writeError(w, http.StatusBadRequest, "attacker has no equipped weapon")
		return
	}
	dItem := equippedWeapon(defender)

	resp := forecastResponse{
		Attacker: sideForecast{
			Hit:        s.env.ComputeHit(attacker, aItem, defender, dItem),
			Damage:     s.env.ComputeDamage(attacker, aItem, defender, dItem, false),
			Crit:       s.env.ComputeCrit(attacker, aItem, defender, dItem),
			Strikes:    s.env.StrikeCount(attacker, aItem, defender, dItem),
			Doubles:    s.env.CanDouble(attacker, aItem, defender, dItem),
			CanCounter: true,
		},
	}
	if s.env.CanCounterattack(attacker, aItem, defender, dItem) {
		resp.Defender = sideForecast{
			Hit:        s.env.ComputeHit(defender, dItem, attacker, aItem),
			Damage:     s.env.ComputeDamage(defender, dItem, attacker, aItem, false),
			Crit:       s.env.ComputeCrit(defender, dItem, attacker, aItem),
			Strikes:    s.env.StrikeCount(defender, dItem, attacker, aItem),
			Doubles:    s.env.CanDefenderDouble(attacker, aItem, defender, dItem),
			CanCounter: true,
		}
	}

	writeJSON(w, resp)
}

type resolveRequest struct {
	Attacker string  `json:"attacker"`
	Defender string  `json:"defender"`
	Seed     *uint64 `json:"seed,omitempty"`
}

type strikeJSON struct {
	Attacker  string `json:"attacker"`
	Defender  string `json:"defender"`
	Item      string `json:"item"`
	Hit       bool   `json:"hit"`
	Crit      bool   `json:"crit"`
	Damage    int    `json:"damage"`
	IsCounter bool   `json:"is_counter"`
}

type resolveResponse struct {
	Strikes []strikeJSON `json:"strikes"`
	Results resultsJSON  `json:"results"`
}

type resultsJSON struct {
	AttackerFinalHP     int      `json:"attacker_final_hp"`
	DefenderFinalHP     int      `json:"defender_final_hp"`
	AttackerDead        bool     `json:"attacker_dead"`
	DefenderDead        bool     `json:"defender_dead"`
	ExpGained           int      `json:"exp_gained"`
	AttackerWeaponBroke bool     `json:"attacker_weapon_broke"`
	DefenderWeaponBroke bool     `json:"defender_weapon_broke"`
	DroppedItems        []string `json:"dropped_items,omitempty"`
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	var req resolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	attacker, defender, ok := s.pair(w, req.Attacker, req.Defender)
	if !ok {
		return
	}
	aItem := equippedWeapon(attacker)
	if aItem == nil {
		writeError(w, http.StatusBadRequest, "attacker has no equipped weapon")
		return
	}
	dItem := equippedWeapon(defender)

	var rng *rand.Rand
	if req.Seed != nil {
		rng = rand.New(rand.NewPCG(*req.Seed, 0))
	}
	roller := combat.NewRoller(s.mode, rng)
	solver := combat.NewSolver(s.env, roller)

	strikes := solver.Resolve(attacker, aItem, defender, dItem)
	results := combat.BuildResults(strikes, attacker, aItem, defender, dItem, s.env.Data, roller)

	resp := resolveResponse{
		Strikes: make([]strikeJSON, 0, len(strikes)),
		Results: resultsJSON{
			AttackerFinalHP:     results.AttackerFinalHP,
			DefenderFinalHP:     results.DefenderFinalHP,
			AttackerDead:        results.AttackerDead,
			DefenderDead:        results.DefenderDead,
			ExpGained:           results.ExpGained,
			AttackerWeaponBroke: results.AttackerWeaponBroke,
			DefenderWeaponBroke: results.DefenderWeaponBroke,
		},
	}
	for _, item := range results.DroppedItems {
		resp.Results.DroppedItems = append(resp.Results.DroppedItems, item.NID())
	}
	for _, strike := range strikes {
		resp.Strikes = append(resp.Strikes, strikeJSON{
			Attacker:  strike.Attacker.NID(),
			Defender:  strike.Defender.NID(),
			Item:      strike.Item.NID(),
			Hit:       strike.Hit,
			Crit:      strike.Crit,
			Damage:    strike.Damage,
			IsCounter: strike.IsCounter,
		})
	}

	if s.store != nil {
		rec := db.EncounterRecord{
			AttackerNID:  attacker.NID(),
			DefenderNID:  defender.NID(),
			AttackerHP:   results.AttackerFinalHP,
			DefenderHP:   results.DefenderFinalHP,
			AttackerDead: results.AttackerDead,
			DefenderDead: results.DefenderDead,
			ExpGained:    results.ExpGained,
			StrikeCount:  len(strikes),
			RNGMode:      string(s.mode),
		}
		if _, err := s.store.SaveEncounter(r.Context(), rec); err != nil {
			slog.Error("persist encounter",
				"attacker", attacker.NID(),
				"defender", defender.NID(),
				"error", err)
		}
	}

	writeJSON(w, resp)
}

func (s *Server) handleEncounters(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusNotFound, "encounter persistence is disabled")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	recs, err := s.store.ListEncounters(r.Context(), limit)
	if err != nil {
		slog.Error("list encounters", "error", err)
		writeError(w, http.StatusInternalServerError, "listing encounters failed")
		return
	}
	writeJSON(w, recs)
}

// pair looks up both combatants in the roster.
func (s *Server) pair(w http.ResponseWriter, attackerNID, defenderNID string) (*model.Unit, *model.Unit, bool) {
	if attackerNID == "" || defenderNID == "" {
		writeError(w, http.StatusBadRequest, "attacker and defender are required")
		return nil, nil, false
	}
	attacker, ok := s.roster.Units[attackerNID]
	if !ok {
		writeError(w, http.StatusNotFound, "unknown attacker "+attackerNID)
		return nil, nil, false
	}
	defender, ok := s.roster.Units[defenderNID]
	if !ok {
		writeError(w, http.StatusNotFound, "unknown defender "+defenderNID)
		return nil, nil, false
	}
	return attacker, defender, true
}

// equippedWeapon returns the unit's first weapon item, nil when unarmed.
func equippedWeapon(u *model.Unit) *model.Item {
	for _, item := range u.Items() {
		if hooks.ItemBool(item, hooks.IsWeapon) {
			return item
		}
	}
	return nil
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
