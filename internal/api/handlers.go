package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/fightclub-sim/wolfden/internal/coordinator"
	"github.com/fightclub-sim/wolfden/internal/fixedpoint"
	"github.com/fightclub-sim/wolfden/internal/physics"
	"github.com/fightclub-sim/wolfden/internal/progression"
	"github.com/fightclub-sim/wolfden/internal/wolf"
)

// Handler methods for routerHandlers. These convert between the wire
// (plain JSON, float64) and the core's fixed-point types at the
// boundary only, against the coordinator/progression surface.

// vec3Payload is the wire shape of a fixedpoint.Vec3.
type vec3Payload struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func toVec3Payload(v fixedpoint.Vec3) vec3Payload {
	x, y, z := v.ToFloat64()
	return vec3Payload{X: x, Y: y, Z: z}
}

func (v vec3Payload) toFixed() fixedpoint.Vec3 {
	return fixedpoint.Vec3FromFloat64(v.X, v.Y, v.Z)
}

// playerPayload is the wire shape of coordinator.PlayerState.
type playerPayload struct {
	Position     vec3Payload `json:"position"`
	Facing       vec3Payload `json:"facing"`
	HP           float64     `json:"hp"`
	Stamina      float64     `json:"stamina"`
	AttackPhase  int         `json:"attackPhase"`
	Blocking     bool        `json:"blocking"`
	Rolling      bool        `json:"rolling"`
	Invulnerable bool        `json:"invulnerable"`

	JumpCount       int         `json:"jumpCount"`
	OnGround        bool        `json:"onGround"`
	TouchingWall    bool        `json:"touchingWall"`
	LastInput       vec3Payload `json:"lastInput"`
	SpeedMultiplier float64     `json:"speedMultiplier"`

	Ability        int  `json:"ability"`
	BashPhase      int  `json:"bashPhase"`
	ChargeActive   bool `json:"chargeActive"`
	DashActive     bool `json:"dashActive"`
	DashComboLevel int  `json:"dashComboLevel"`
	DashCancelOpen bool `json:"dashCancelOpen"`
	Hyperarmor     bool `json:"hyperarmor"`
}

func toPlayerPayload(ps coordinator.PlayerState) playerPayload {
	return playerPayload{
		Position:     toVec3Payload(ps.Position),
		Facing:       toVec3Payload(ps.Facing),
		HP:           ps.HP.ToFloat64(),
		Stamina:      ps.Stamina.ToFloat64(),
		AttackPhase:  int(ps.AttackPhase),
		Blocking:     ps.Blocking,
		Rolling:      ps.Rolling,
		Invulnerable: ps.Invulnerable,

		JumpCount:       ps.JumpCount,
		OnGround:        ps.OnGround,
		TouchingWall:    ps.TouchingWall,
		LastInput:       toVec3Payload(ps.LastInput),
		SpeedMultiplier: ps.SpeedMultiplier.ToFloat64(),

		Ability:        int(ps.Ability),
		BashPhase:      int(ps.BashPhase),
		ChargeActive:   ps.ChargeActive,
		DashActive:     ps.DashActive,
		DashComboLevel: ps.DashComboLevel,
		DashCancelOpen: ps.DashCancelOpen,
		Hyperarmor:     ps.Hyperarmor,
	}
}

// wolfPayload is the wire shape of coordinator.WolfState.
type wolfPayload struct {
	ID       uint32      `json:"id"`
	Position vec3Payload `json:"position"`
	Facing   vec3Payload `json:"facing"`
	HP       float64     `json:"hp"`
	MaxHP    float64     `json:"maxHp"`
}

func toWolfPayload(ws coordinator.WolfState) wolfPayload {
	return wolfPayload{
		ID:       ws.ID,
		Position: toVec3Payload(ws.Position),
		Facing:   toVec3Payload(ws.Facing),
		HP:       ws.HP.ToFloat64(),
		MaxHP:    ws.MaxHP.ToFloat64(),
	}
}

func intQueryParam(r *http.Request, name string) (int, error) {
	return strconv.Atoi(r.URL.Query().Get(name))
}

// --- lifecycle -------------------------------------------------------------

func (h *routerHandlers) handleInitialize(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Seed        uint64 `json:"seed"`
		StartWeapon uint32 `json:"startWeapon"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}
	h.coord.Initialize(req.Seed, req.StartWeapon)
	writeJSON(w, map[string]bool{"success": true})
}

func (h *routerHandlers) handleReset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Seed uint64 `json:"seed"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}
	h.coord.Reset(req.Seed)
	writeJSON(w, map[string]bool{"success": true})
}

func (h *routerHandlers) handleShutdown(w http.ResponseWriter, r *http.Request) {
	h.coord.Shutdown()
	writeJSON(w, map[string]bool{"success": true})
}

func (h *routerHandlers) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DeltaSeconds float64 `json:"deltaSeconds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}
	h.coord.Tick(req.DeltaSeconds)
	writeJSON(w, map[string]bool{"success": true})
}

// --- input -------------------------------------------------------------

func (h *routerHandlers) handleInput(w http.ResponseWriter, r *http.Request) {
	var req coordinator.PlayerInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}
	h.coord.SetPlayerInput(req)
	writeJSON(w, map[string]bool{"success": true})
}

// --- query -------------------------------------------------------------

func (h *routerHandlers) handleQueryPlayer(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, toPlayerPayload(h.coord.QueryPlayer()))
}

func (h *routerHandlers) handleQueryWolf(w http.ResponseWriter, r *http.Request) {
	index, err := intQueryParam(r, "index")
	if err != nil {
		writeError(w, "index is required", http.StatusBadRequest)
		return
	}
	state, ok := h.coord.QueryWolfByIndex(index)
	if !ok {
		writeError(w, "no wolf at that index", http.StatusNotFound)
		return
	}
	writeJSON(w, toWolfPayload(state))
}

func (h *routerHandlers) handleQueryArmJoint(w http.ResponseWriter, r *http.Request) {
	left := r.URL.Query().Get("side") == "left"
	segment, err := intQueryParam(r, "segment")
	if err != nil {
		writeError(w, "segment is required", http.StatusBadRequest)
		return
	}
	pos, ok := h.coord.ArmJointPosition(left, segment)
	if !ok {
		writeError(w, "no joint at that segment", http.StatusNotFound)
		return
	}
	writeJSON(w, toVec3Payload(pos))
}

func (h *routerHandlers) handleQueryCounts(w http.ResponseWriter, r *http.Request) {
	counts := h.coord.QueryCounts()
	UpdateCounts(counts.Wolves, counts.Packs, counts.Bodies)
	writeJSON(w, counts)
}

func (h *routerHandlers) handleQueryTime(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]interface{}{
		"gameTime":  h.coord.GameTime(),
		"tickCount": h.coord.TickCount(),
	})
}

func (h *routerHandlers) handleQueryDiagnostics(w http.ResponseWriter, r *http.Request) {
	pairsSummary, collisionsSummary := h.coord.QueryDiagnostics()
	UpdateDiagnostics(pairsSummary.Mean, collisionsSummary.Mean)
	writeJSON(w, map[string]interface{}{
		"pairsChecked":       pairsSummary,
		"collisionsResolved": collisionsSummary,
	})
}

// --- commands ----------------------------------------------------------

func (h *routerHandlers) handleSpawnWolf(w http.ResponseWriter, r *http.Request) {
	var req struct {
		X    float64       `json:"x"`
		Y    float64       `json:"y"`
		Type wolf.WolfType `json:"type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}
	id, ok := h.coord.SpawnWolf(req.X, req.Y, req.Type)
	if !ok {
		writeError(w, "wolf limit reached", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, map[string]interface{}{"id": id})
}

func (h *routerHandlers) handleRemoveWolf(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID uint32 `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}
	h.coord.RemoveWolf(req.ID)
	writeJSON(w, map[string]bool{"success": true})
}

func (h *routerHandlers) handleCreatePack(w http.ResponseWriter, r *http.Request) {
	var req struct {
		WolfIDs []uint32 `json:"wolfIds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}
	id, ok := h.coord.CreatePack(req.WolfIDs)
	if !ok {
		writeError(w, "pack limit reached", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, map[string]interface{}{"id": id})
}

func (h *routerHandlers) handleDamageWolf(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID         uint32  `json:"id"`
		Amount     float64 `json:"amount"`
		KnockbackX float64 `json:"knockbackX"`
		KnockbackY float64 `json:"knockbackY"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}
	h.coord.DamageWolf(req.ID, req.Amount, req.KnockbackX, req.KnockbackY)
	writeJSON(w, map[string]bool{"success": true})
}

func (h *routerHandlers) handleBeginBashCharge(w http.ResponseWriter, r *http.Request) {
	ok := h.coord.BeginBashCharge()
	writeJSON(w, map[string]bool{"success": ok})
}

func (h *routerHandlers) handleReleaseBash(w http.ResponseWriter, r *http.Request) {
	h.coord.ReleaseBash()
	writeJSON(w, map[string]bool{"success": true})
}

func (h *routerHandlers) handleOnBashHit(w http.ResponseWriter, r *http.Request) {
	h.coord.OnBashHit()
	writeJSON(w, map[string]bool{"success": true})
}

func (h *routerHandlers) handleBeginBerserkerCharge(w http.ResponseWriter, r *http.Request) {
	ok := h.coord.BeginBerserkerCharge()
	writeJSON(w, map[string]bool{"success": ok})
}

func (h *routerHandlers) handleExecuteFlowDash(w http.ResponseWriter, r *http.Request) {
	var req struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}
	ok := h.coord.ExecuteFlowDash(req.X, req.Y)
	writeJSON(w, map[string]bool{"success": ok})
}

func (h *routerHandlers) handleOnDashHit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		WolfID uint32 `json:"wolfId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}
	h.coord.OnDashHit(req.WolfID)
	writeJSON(w, map[string]bool{"success": true})
}

func (h *routerHandlers) handleApplyImpulse(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BodyID physics.BodyID `json:"bodyId"`
		Vec    vec3Payload    `json:"vec"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}
	h.coord.ApplyImpulse(req.BodyID, req.Vec.toFixed())
	writeJSON(w, map[string]bool{"success": true})
}

func (h *routerHandlers) handleSetVelocity(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BodyID physics.BodyID `json:"bodyId"`
		Vec    vec3Payload    `json:"vec"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}
	h.coord.SetVelocity(req.BodyID, req.Vec.toFixed())
	writeJSON(w, map[string]bool{"success": true})
}

func (h *routerHandlers) handleSetPosition(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BodyID physics.BodyID `json:"bodyId"`
		Vec    vec3Payload    `json:"vec"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}
	h.coord.SetPosition(req.BodyID, req.Vec.toFixed())
	writeJSON(w, map[string]bool{"success": true})
}

func (h *routerHandlers) handleSetLeftTarget(w http.ResponseWriter, r *http.Request) {
	h.setArmTarget(w, r, h.coord.SetLeftTarget)
}

func (h *routerHandlers) handleSetRightTarget(w http.ResponseWriter, r *http.Request) {
	h.setArmTarget(w, r, h.coord.SetRightTarget)
}

func (h *routerHandlers) setArmTarget(w http.ResponseWriter, r *http.Request, set func(x, y, z float64)) {
	var vec vec3Payload
	if err := json.NewDecoder(r.Body).Decode(&vec); err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}
	set(vec.X, vec.Y, vec.Z)
	writeJSON(w, map[string]bool{"success": true})
}

// --- progression -------------------------------------------------------

// progressionDefinitionPayload is the wire shape of a progression.Definition
// - the host-supplied node topology/content.
type progressionDefinitionPayload struct {
	CostPerLevel   []int32   `json:"costPerLevel"`
	EffectPerLevel []float64 `json:"effectPerLevel"`
	Prerequisites  []string  `json:"prerequisites"`
}

func toDefinitions(payload map[string]progressionDefinitionPayload) map[string]progression.Definition {
	out := make(map[string]progression.Definition, len(payload))
	for id, def := range payload {
		effects := make([]fixedpoint.Fixed, len(def.EffectPerLevel))
		for i, e := range def.EffectPerLevel {
			effects[i] = fixedpoint.FromFloat64(e)
		}
		out[id] = progression.Definition{
			CostPerLevel:   def.CostPerLevel,
			EffectPerLevel: effects,
			Prerequisites:  def.Prerequisites,
		}
	}
	return out
}

func (h *routerHandlers) handleProgressionSetTree(w http.ResponseWriter, r *http.Request) {
	var defs map[string]progressionDefinitionPayload
	if err := json.NewDecoder(r.Body).Decode(&defs); err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}
	h.progression.SetTree(toDefinitions(defs))
	writeJSON(w, map[string]bool{"success": true})
}

func (h *routerHandlers) handleProgressionSetState(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}
	if err := h.progression.UnmarshalState(data); err != nil {
		writeError(w, "invalid progression tree", http.StatusBadRequest)
		return
	}
	writeJSON(w, map[string]bool{"success": true})
}

func (h *routerHandlers) handleProgressionGetState(w http.ResponseWriter, r *http.Request) {
	data, err := h.progression.MarshalState()
	if err != nil {
		writeError(w, "failed to serialize progression tree", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func (h *routerHandlers) handleProgressionPurchase(w http.ResponseWriter, r *http.Request) {
	var req struct {
		NodeID string `json:"nodeId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}
	ok := h.progression.Purchase(req.NodeID)
	writeJSON(w, map[string]bool{"success": ok})
}

func (h *routerHandlers) handleProgressionAddEssence(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount int32 `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}
	h.progression.AddEssence(req.Amount)
	writeJSON(w, map[string]bool{"success": true})
}

func (h *routerHandlers) handleProgressionEffectScalar(w http.ResponseWriter, r *http.Request) {
	nodeID := r.URL.Query().Get("nodeId")
	if nodeID == "" {
		writeError(w, "nodeId is required", http.StatusBadRequest)
		return
	}
	scalar := h.progression.GetEffectScalarFixed(nodeID)
	writeJSON(w, map[string]float64{"effectScalar": scalar.ToFloat64()})
}

// Helper functions (package-level for reuse)

func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
